package assessment

var localityKeywords = newKeywordSet("local", "community")

// LocalImpact writes the regional economic impact narrative for a business.
func LocalImpact(doc Document, businessName string) string {
	if localityKeywords.matches(doc.lowered()) {
		return businessName + " demonstrates strong commitment to local economic development through job creation, community engagement, and supporting local supply chains. Expected to generate significant positive impact on regional economy."
	}
	return businessName + " has potential for positive regional economic impact through employment opportunities, tax revenue generation, and stimulating related business activities in the local ecosystem."
}
