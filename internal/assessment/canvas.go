package assessment

import (
	"regexp"
	"strings"
)

// PlaceholderBusinessName is used when no business name can be extracted.
const PlaceholderBusinessName = "Innovative Business Venture"

var (
	labeledNamePattern = regexp.MustCompile(`(?i)\b(?:business|company|enterprise|venture|startup|firm)\s+(?:name|title)\s*:\s*([A-Za-z][A-Za-z &]*)`)
	capitalizedPattern = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b|\b[A-Z]{2,}\b`)
)

var canvasDescriptions = [...]string{
	"Strategic partnerships and key suppliers",
	"Core business operations and value-creating activities",
	"Essential assets required for business success",
	"Unique value delivered to customers",
	"How the business interacts with customer segments",
	"Distribution and sales channels to reach customers",
	"Target customer groups and market segments",
	"Major cost components and expense structure",
	"Revenue generation methods and pricing models",
}

// canvasTemplate fills the six industry-dependent sections. Each func receives
// the business name.
type canvasTemplate struct {
	keyPartners      func(name string) string
	keyActivities    func(name string) string
	keyResources     func(name string) string
	valueProposition func(name string) string
	channels         func(name string) string
	customerSegments func(name string) string
}

func fixed(s string) func(string) string {
	return func(string) string { return s }
}

var industryTemplates = map[Industry]canvasTemplate{
	IndustryTechnology: {
		keyPartners:   fixed("Technology vendors, cloud service providers, software development partners, integration specialists"),
		keyActivities: fixed("Software development, user experience design, data analytics, customer support, platform maintenance"),
		keyResources:  fixed("Development team, technology infrastructure, intellectual property, user data, brand reputation"),
		valueProposition: func(name string) string {
			return name + " provides innovative technology solutions that streamline processes and enhance user experience"
		},
		channels:         fixed("Online platform, mobile app, digital marketing, partner networks, direct sales"),
		customerSegments: fixed("Tech-savvy consumers, businesses seeking digital transformation, early adopters"),
	},
	IndustryFood: {
		keyPartners:   fixed("Local suppliers, food distributors, delivery services, equipment providers, regulatory bodies"),
		keyActivities: fixed("Food preparation, quality control, customer service, inventory management, marketing"),
		keyResources:  fixed("Kitchen facilities, skilled staff, supply chain relationships, brand reputation, location"),
		valueProposition: func(name string) string {
			return name + " offers high-quality food experiences with fresh ingredients and excellent customer service"
		},
		channels:         fixed("Physical location, delivery apps, online ordering, social media, word-of-mouth"),
		customerSegments: fixed("Local community, food enthusiasts, busy professionals, families"),
	},
	IndustryAgriculture: {
		keyPartners:   fixed("Local farmers, organic certification bodies, distribution networks, equipment suppliers"),
		keyActivities: fixed("Crop production, quality assurance, harvesting, packaging, distribution, customer education"),
		keyResources:  fixed("Agricultural land, farming equipment, skilled labor, certification credentials, distribution network"),
		valueProposition: func(name string) string {
			return name + " provides sustainable, high-quality agricultural products with environmental responsibility"
		},
		channels:         fixed("Farmers markets, organic stores, direct-to-consumer sales, wholesale distribution"),
		customerSegments: fixed("Health-conscious consumers, organic food retailers, restaurants, local communities"),
	},
}

var genericTemplate = canvasTemplate{
	keyPartners: func(name string) string {
		return "Strategic suppliers, distribution partners, technology providers, industry associations supporting " + name
	},
	keyActivities: func(name string) string {
		return "Core operations of " + name + " including production, marketing, customer service, and quality management"
	},
	keyResources: func(name string) string {
		return "Essential assets for " + name + ": skilled workforce, operational facilities, brand reputation, customer relationships"
	},
	valueProposition: func(name string) string {
		return name + " delivers unique value through quality products/services, competitive pricing, and excellent customer experience"
	},
	channels: func(name string) string {
		return "Multi-channel approach including direct sales, online presence, partnerships, and traditional marketing for " + name
	},
	customerSegments: func(name string) string {
		return "Target customers for " + name + " including primary market segments and niche customer groups"
	},
}

// ExtractBusinessName finds a labeled business name, then a capitalized pair or
// acronym, and falls back to PlaceholderBusinessName.
func ExtractBusinessName(doc Document) string {
	if m := labeledNamePattern.FindStringSubmatch(doc.Text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}
	if m := capitalizedPattern.FindString(doc.Text); m != "" {
		return m
	}
	return PlaceholderBusinessName
}

// NewCanvas returns a canvas with descriptions set and empty details.
func NewCanvas() Canvas {
	var c Canvas
	for i, section := range c.Sections() {
		section.Description = canvasDescriptions[i]
	}
	return c
}

// BuildCanvas populates all nine canvas sections for the industry and business name.
func BuildCanvas(industry Industry, businessName string) Canvas {
	tmpl, ok := industryTemplates[industry]
	if !ok {
		tmpl = genericTemplate
	}
	c := NewCanvas()
	c.KeyPartners.Details = tmpl.keyPartners(businessName)
	c.KeyActivities.Details = tmpl.keyActivities(businessName)
	c.KeyResources.Details = tmpl.keyResources(businessName)
	c.ValueProposition.Details = tmpl.valueProposition(businessName)
	c.Channels.Details = tmpl.channels(businessName)
	c.CustomerSegments.Details = tmpl.customerSegments(businessName)

	// No industry template overrides these three.
	c.CostStructure.Details = "Key costs for " + businessName + ": personnel expenses, operational overhead, marketing investment, technology infrastructure, regulatory compliance"
	c.RevenueStreams.Details = "Revenue sources: primary product/service sales, subscription models, partnerships, premium services, ancillary revenue streams"
	c.CustomerRelationships.Details = "Customer engagement through personalized service, community building, feedback systems, loyalty programs, and ongoing support"
	return c
}

// sectionItems splits narrative details into comma or semicolon separated items.
func sectionItems(details string) []string {
	parts := strings.FieldsFunc(details, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimSpace(strings.TrimPrefix(p, "and "))
		if p != "" {
			items = append(items, p)
		}
	}
	return items
}
