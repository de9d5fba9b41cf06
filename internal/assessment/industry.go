package assessment

type industryRule struct {
	industry Industry
	keywords keywordSet
}

// industryRules is evaluated in order; the first rule with any match wins.
var industryRules = []industryRule{
	{IndustryTechnology, newWordKeywordSet("app", "software", "digital", "online", "platform", "tech", "ai", "system")},
	{IndustryFood, newWordKeywordSet("restaurant", "food", "catering", "kitchen", "cook", "meal", "dining")},
	{IndustryRetail, newWordKeywordSet("store", "shop", "retail", "sales", "products", "merchandise")},
	{IndustryService, newWordKeywordSet("service", "consulting", "support", "help", "assistance")},
	{IndustryManufacturing, newWordKeywordSet("production", "factory", "manufacturing", "products", "goods")},
	{IndustryAgriculture, newWordKeywordSet("farm", "organic", "crops", "agricultural", "farming")},
	{IndustryHealthcare, newWordKeywordSet("health", "medical", "clinic", "treatment", "care")},
	{IndustryEducation, newWordKeywordSet("education", "training", "learning", "school", "course")},
}

// ClassifyIndustry selects the first industry whose keywords appear in the document.
func ClassifyIndustry(doc Document) Industry {
	lower := doc.lowered()
	for _, rule := range industryRules {
		if rule.keywords.matches(lower) {
			return rule.industry
		}
	}
	return IndustryGeneral
}
