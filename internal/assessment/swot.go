package assessment

type swotTarget int

const (
	toStrengths swotTarget = iota
	toWeaknesses
	toOpportunities
	toThreats
)

type swotStatement struct {
	target swotTarget
	text   string
}

// swotRule appends onMatch when any keyword is present and otherwise when none is.
// Every rule is evaluated; rules do not short-circuit each other.
type swotRule struct {
	keywords  keywordSet
	onMatch   []swotStatement
	otherwise []swotStatement
}

var swotRules = []swotRule{
	{
		keywords: newKeywordSet("innovative", "new", "unique", "first", "novel"),
		onMatch: []swotStatement{
			{toStrengths, "Innovation and unique market positioning"},
			{toOpportunities, "First-mover advantage in emerging market segment"},
		},
	},
	{
		keywords:  newKeywordSet("experienced", "skilled", "expert", "professional"),
		onMatch:   []swotStatement{{toStrengths, "Experienced team with industry expertise"}},
		otherwise: []swotStatement{{toWeaknesses, "Need to build team expertise and experience"}},
	},
	{
		keywords: newKeywordSet("local", "community", "regional"),
		onMatch: []swotStatement{
			{toStrengths, "Strong local market knowledge and community connections"},
			{toOpportunities, "Expansion potential to neighboring markets"},
		},
	},
	{
		keywords: newKeywordSet("online", "digital", "internet", "technology"),
		onMatch: []swotStatement{
			{toStrengths, "Digital presence and technology adoption"},
			{toOpportunities, "Scalability through digital channels"},
		},
		otherwise: []swotStatement{{toOpportunities, "Digital transformation and online presence development"}},
	},
	{
		keywords: newKeywordSet("competition", "competitor", "rivals"),
		onMatch:  []swotStatement{{toThreats, "Competitive market with established players"}},
	},
	{
		keywords: newKeywordSet("small", "startup", "new"),
		onMatch: []swotStatement{
			{toWeaknesses, "Limited resources and brand recognition as emerging business"},
			{toOpportunities, "Agility and ability to adapt quickly to market changes"},
		},
	},
}

// industrySWOT adds one strength, opportunity and threat for templated industries.
var industrySWOT = map[Industry][]swotStatement{
	IndustryTechnology: {
		{toStrengths, "Scalable technology platform"},
		{toOpportunities, "Growing demand for digital solutions"},
		{toThreats, "Rapid technological changes and competition"},
	},
	IndustryFood: {
		{toStrengths, "Personal customer relationships and quality focus"},
		{toOpportunities, "Growing food delivery and convenience market"},
		{toThreats, "Food safety regulations and supply chain risks"},
	},
	IndustryAgriculture: {
		{toStrengths, "Sustainable practices appeal to eco-conscious consumers"},
		{toOpportunities, "Increasing demand for organic and local products"},
		{toThreats, "Weather dependency and seasonal variations"},
	},
}

var (
	fallbackStrengths     = []string{"Dedicated team with clear vision", "Identified market need", "Flexible business model"}
	fallbackWeaknesses    = []string{"Limited initial capital", "Building brand awareness needed", "Establishing customer base"}
	fallbackOpportunities = []string{"Market growth potential", "Partnership development", "Product/service expansion"}
	fallbackThreats       = []string{"Economic uncertainty", "New market entrants", "Changing customer preferences"}
)

// SynthesizeSWOT derives SWOT statements from keyword rules and the industry.
// No returned list is empty.
func SynthesizeSWOT(doc Document, industry Industry) SWOT {
	lower := doc.lowered()
	var swot SWOT
	for _, rule := range swotRules {
		statements := rule.otherwise
		if rule.keywords.matches(lower) {
			statements = rule.onMatch
		}
		swot.add(statements)
	}
	swot.add(industrySWOT[industry])

	// Fallbacks replace an empty list wholesale.
	if len(swot.Strengths) == 0 {
		swot.Strengths = cloneStrings(fallbackStrengths)
	}
	if len(swot.Weaknesses) == 0 {
		swot.Weaknesses = cloneStrings(fallbackWeaknesses)
	}
	if len(swot.Opportunities) == 0 {
		swot.Opportunities = cloneStrings(fallbackOpportunities)
	}
	if len(swot.Threats) == 0 {
		swot.Threats = cloneStrings(fallbackThreats)
	}
	return swot
}

func (s *SWOT) add(statements []swotStatement) {
	for _, st := range statements {
		switch st.target {
		case toStrengths:
			s.Strengths = append(s.Strengths, st.text)
		case toWeaknesses:
			s.Weaknesses = append(s.Weaknesses, st.text)
		case toOpportunities:
			s.Opportunities = append(s.Opportunities, st.text)
		case toThreats:
			s.Threats = append(s.Threats, st.text)
		}
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
