package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \t\n\n ", want: ""},
		{name: "collapses blank line runs", in: "a\n\n\n\nb", want: "a\n\nb"},
		{name: "keeps single blank line", in: "a\n\nb", want: "a\n\nb"},
		{name: "collapses inline space", in: "a \t  b", want: "a b"},
		{name: "trims", in: "  a b  ", want: "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNewDocumentLengthCountsCharacters(t *testing.T) {
	doc := NewDocument("  café  ")
	assert.Equal(t, "café", doc.Text)
	assert.Equal(t, 4, doc.Length)
	assert.False(t, doc.Empty())
	assert.True(t, NewDocument(" \n ").Empty())
}

func TestClassifyIndustry(t *testing.T) {
	tests := []struct {
		text string
		want Industry
	}{
		{"We run a restaurant booking platform.", IndustryTechnology},
		{"A family restaurant with home cooking.", IndustryFood},
		{"A neighborhood shop for merchandise.", IndustryRetail},
		{"Bookkeeping and consulting.", IndustryService},
		{"A factory producing goods.", IndustryManufacturing},
		{"Organic crops from our farm.", IndustryAgriculture},
		{"A medical clinic.", IndustryHealthcare},
		{"Language school courses.", IndustryEducation},
		{"We use AI to triage tickets.", IndustryTechnology},
		{"Fresh pasta made daily.", IndustryGeneral},
		{"Nothing to see.", IndustryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIndustry(NewDocument(tt.text)))
		})
	}
}

func TestExtractBusinessName(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Business Name: Green Valley Farms\nWe grow vegetables.", "Green Valley Farms"},
		{"company name : Sunrise Bakery", "Sunrise Bakery"},
		{"Welcome to Fresh Bites, a new kitchen.", "Fresh Bites"},
		{"we partner with NASA on payloads", "NASA"},
		{"no capitals here", PlaceholderBusinessName},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBusinessName(NewDocument(tt.text)))
		})
	}
}

func TestBuildCanvas(t *testing.T) {
	food := BuildCanvas(IndustryFood, "Fresh Bites")
	assert.Equal(t, "Fresh Bites offers high-quality food experiences with fresh ingredients and excellent customer service", food.ValueProposition.Details)
	assert.Equal(t, "Local community, food enthusiasts, busy professionals, families", food.CustomerSegments.Details)
	assert.Equal(t, "Strategic partnerships and key suppliers", food.KeyPartners.Description)

	general := BuildCanvas(IndustryRetail, "Corner Shop")
	assert.Contains(t, general.KeyPartners.Details, "Corner Shop")
	assert.Contains(t, general.CustomerSegments.Details, "Corner Shop")

	// Cost, revenue and relationships never vary by industry.
	tech := BuildCanvas(IndustryTechnology, "Corner Shop")
	assert.Equal(t, general.CostStructure, tech.CostStructure)
	assert.Equal(t, general.RevenueStreams, tech.RevenueStreams)
	assert.Equal(t, general.CustomerRelationships, tech.CustomerRelationships)
}

func TestSectionItems(t *testing.T) {
	assert.Empty(t, sectionItems(""))
	assert.Equal(t, []string{"one"}, sectionItems("one"))
	assert.Equal(t, []string{"a", "b", "c"}, sectionItems("a, b; and c"))
	assert.Equal(t, []string{"a", "b"}, sectionItems("a,,\n b ,"))
}

func TestSynthesizeSWOTFallbacks(t *testing.T) {
	swot := SynthesizeSWOT(NewDocument("x"), IndustryGeneral)
	assert.Equal(t, fallbackStrengths, swot.Strengths)
	assert.Equal(t, []string{"Need to build team expertise and experience"}, swot.Weaknesses)
	assert.Equal(t, []string{"Digital transformation and online presence development"}, swot.Opportunities)
	assert.Equal(t, fallbackThreats, swot.Threats)
}

func TestSynthesizeSWOTIndustryStatements(t *testing.T) {
	swot := SynthesizeSWOT(NewDocument("Experienced growers on an organic farm."), IndustryAgriculture)
	assert.Equal(t, []string{
		"Experienced team with industry expertise",
		"Sustainable practices appeal to eco-conscious consumers",
	}, swot.Strengths)
	assert.Equal(t, fallbackWeaknesses, swot.Weaknesses)
	assert.Equal(t, []string{"Weather dependency and seasonal variations"}, swot.Threats)
}

func TestScoreLowScoresAddGeneralImprovements(t *testing.T) {
	var canvas Canvas
	scoring := Score(canvas, NewDocument("x"))

	assert.Equal(t, 0, scoring.Rubrics.Completeness.Score)
	assert.Equal(t, 0, scoring.OverallScore)
	assert.Equal(t, "Needs Development", scoring.ScoreLevel)
	assert.Equal(t, "red", scoring.ScoreColor)
	assert.Len(t, scoring.Weaknesses, 4)
	assert.Len(t, scoring.Improvements, 4+len(generalImprovements))
	assert.Equal(t, "More innovative elements could strengthen the business", scoring.Rubrics.Innovation.Feedback)
}

func TestTrafficLightThresholds(t *testing.T) {
	assert.Equal(t, TrafficLightRed, TrafficLightFor(0))
	assert.Equal(t, TrafficLightRed, TrafficLightFor(34))
	assert.Equal(t, TrafficLightYellow, TrafficLightFor(35))
	assert.Equal(t, TrafficLightYellow, TrafficLightFor(74))
	assert.Equal(t, TrafficLightGreen, TrafficLightFor(75))
	assert.Equal(t, TrafficLightGreen, TrafficLightFor(100))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-3))
	assert.Equal(t, 25, clampScore(31))
	assert.Equal(t, 12, clampScore(12))
}

func TestRecommendationsFor(t *testing.T) {
	assert.Len(t, RecommendationsFor(IndustryFood), 4)
	assert.Len(t, RecommendationsFor(IndustryAgriculture), 4)
	assert.Equal(t, genericRecommendations, RecommendationsFor(IndustryHealthcare))

	recs := RecommendationsFor(IndustryTechnology)
	recs[0] = "changed"
	assert.NotEqual(t, "changed", RecommendationsFor(IndustryTechnology)[0])
}

func TestLocalImpact(t *testing.T) {
	assert.Contains(t, LocalImpact(NewDocument("serving our community"), "Acme"), "Acme demonstrates strong commitment")
	assert.Contains(t, LocalImpact(NewDocument("global reach"), "Acme"), "Acme has potential for positive regional economic impact")
}

func TestScoringKeywordsMatchInsideWords(t *testing.T) {
	result, err := Analyze("We maintain a bakery and said hello.")
	assert.NoError(t, err)

	assert.Equal(t, IndustryGeneral, result.Industry)
	innovation := result.AIScoring.Rubrics.Innovation
	assert.Contains(t, innovation.Feedback, "Technology integration identified")
	assert.Equal(t, 13, innovation.Score)
}

func TestKeywordSets(t *testing.T) {
	substring := newKeywordSet("AI", " digital ")
	assert.True(t, substring.matches("we maintain ovens"))
	assert.True(t, substring.matches("digitally native"))
	assert.False(t, substring.matches("bread and butter"))

	words := newWordKeywordSet("ai", "platform")
	assert.False(t, words.matches("we maintain ovens"))
	assert.True(t, words.matches("an ai assistant"))
	assert.True(t, words.matches("platforms"))
}
