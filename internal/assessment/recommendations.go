package assessment

var industryRecommendations = map[Industry][]string{
	IndustryTechnology: {
		"Develop a robust MVP and iterative development process",
		"Build strategic partnerships with complementary technology providers",
		"Focus on user acquisition and retention metrics",
		"Establish scalable infrastructure for growth",
	},
	IndustryFood: {
		"Ensure compliance with food safety and health regulations",
		"Develop strong supplier relationships for consistent quality",
		"Create memorable customer experiences to build loyalty",
		"Consider delivery and online ordering capabilities",
	},
	IndustryAgriculture: {
		"Obtain necessary organic certifications and quality standards",
		"Build direct relationships with end consumers",
		"Develop weather risk management and insurance strategies",
		"Create value-added products to increase margins",
	},
}

var genericRecommendations = []string{
	"Conduct thorough market research and competitive analysis",
	"Develop a strong brand identity and value proposition",
	"Create detailed financial projections and funding strategy",
	"Build a skilled team with complementary expertise",
	"Establish key performance indicators and measurement systems",
}

// RecommendationsFor returns the feedback suggestions for an industry. The
// returned slice is a copy and may be modified by the caller.
func RecommendationsFor(industry Industry) []string {
	if recs, ok := industryRecommendations[industry]; ok {
		return cloneStrings(recs)
	}
	return cloneStrings(genericRecommendations)
}
