package assessment

import "strings"

// MaxRubricScore caps every rubric.
const MaxRubricScore = 25

const (
	greenThreshold       = 75
	yellowThreshold      = 35
	weakRubricThreshold  = 15
	improvementThreshold = 70
)

var (
	financialKeywords      = newKeywordSet("revenue", "cost", "profit", "financial", "budget", "investment")
	marketKeywords         = newKeywordSet("market", "customer", "competition", "target", "segment")
	technologyKeywords     = newKeywordSet("digital", "technology", "online", "app", "platform", "ai", "automation")
	sustainabilityKeywords = newKeywordSet("sustainable", "environmental", "social", "impact", "green", "eco")
	innovationKeywords     = newKeywordSet("unique", "innovative", "first", "new", "different", "breakthrough")
)

type verdictTier struct {
	light            TrafficLight
	color            string
	level            string
	strengths        []string
	detailedFeedback string
}

var (
	greenTier = verdictTier{
		light:            TrafficLightGreen,
		color:            "green",
		level:            "Excellent",
		strengths:        []string{"Comprehensive business planning", "Clear value proposition", "Well-structured approach"},
		detailedFeedback: "Excellent business plan with strong foundation across all areas. Ready for implementation.",
	}
	yellowTier = verdictTier{
		light:            TrafficLightYellow,
		color:            "yellow",
		level:            "Good",
		strengths:        []string{"Good foundation", "Clear direction", "Solid core concept"},
		detailedFeedback: "Good business plan with room for enhancement in specific areas. Continue developing key components.",
	}
	redTier = verdictTier{
		light:            TrafficLightRed,
		color:            "red",
		level:            "Needs Development",
		strengths:        []string{"Initial concept present", "Foundation to build upon"},
		detailedFeedback: "Business plan requires substantial development across multiple areas. Focus on core business model components.",
	}
)

// weakRubricNotes maps a rubric name to its weakness and improvement statements.
var weakRubricNotes = map[string][2]string{
	"completeness": {"Incomplete business model components", "Develop all 9 Business Model Canvas components thoroughly"},
	"clarity":      {"Lacks clarity in key areas", "Provide more detailed descriptions of value propositions and customer segments"},
	"feasibility":  {"Feasibility concerns", "Strengthen resource planning and revenue model validation"},
	"innovation":   {"Limited innovation elements", "Incorporate more innovative or differentiating factors"},
}

var generalImprovements = []string{
	"Conduct thorough market research and competitor analysis",
	"Develop detailed financial projections and funding requirements",
	"Create a comprehensive go-to-market strategy",
}

func tierFor(overall int) verdictTier {
	switch {
	case overall >= greenThreshold:
		return greenTier
	case overall >= yellowThreshold:
		return yellowTier
	default:
		return redTier
	}
}

// TrafficLightFor maps an overall score onto the verdict thresholds.
func TrafficLightFor(overall int) TrafficLight {
	return tierFor(overall).light
}

// Score computes the four rubrics over a populated canvas and the document.
func Score(canvas Canvas, doc Document) Scoring {
	lower := doc.lowered()
	rubrics := Rubrics{
		Completeness: scoreCompleteness(canvas, lower),
		Clarity:      scoreClarity(canvas, doc.Length),
		Feasibility:  scoreFeasibility(canvas),
		Innovation:   scoreInnovation(canvas, lower),
	}

	overall := 0
	for _, r := range rubrics.ordered() {
		overall += r.rubric.Score
	}

	tier := tierFor(overall)
	scoring := Scoring{
		OverallScore:     overall,
		Rubrics:          rubrics,
		ScoreColor:       tier.color,
		ScoreLevel:       tier.level,
		Strengths:        cloneStrings(tier.strengths),
		Weaknesses:       []string{},
		Improvements:     []string{},
		DetailedFeedback: tier.detailedFeedback,
	}
	for _, r := range rubrics.ordered() {
		if r.rubric.Score >= weakRubricThreshold {
			continue
		}
		notes := weakRubricNotes[r.name]
		scoring.Weaknesses = append(scoring.Weaknesses, notes[0])
		scoring.Improvements = append(scoring.Improvements, notes[1])
	}
	if overall < improvementThreshold {
		scoring.Improvements = append(scoring.Improvements, generalImprovements...)
	}
	return scoring
}

func scoreCompleteness(canvas Canvas, lower string) Rubric {
	present := 0
	sections := canvas.Sections()
	for _, s := range sections {
		if strings.TrimSpace(s.Details) != "" {
			present++
		}
	}
	score := present * 15 / len(sections)
	var feedback []string
	switch {
	case present >= 7:
		feedback = append(feedback, "Comprehensive business model coverage")
	case present >= 5:
		feedback = append(feedback, "Good coverage of key business components")
	default:
		feedback = append(feedback, "Several business model components need development")
	}

	if financialKeywords.matches(lower) {
		score += 5
		feedback = append(feedback, "Financial considerations included")
	} else {
		feedback = append(feedback, "Financial planning needs more detail")
	}

	if marketKeywords.matches(lower) {
		score += 5
		feedback = append(feedback, "Market analysis present")
	} else {
		feedback = append(feedback, "Market analysis requires expansion")
	}
	return newRubric(score, feedback)
}

func scoreClarity(canvas Canvas, length int) Rubric {
	score := 0
	var feedback []string
	switch {
	case length > 500:
		score += 8
		feedback = append(feedback, "Detailed description provided")
	case length > 200:
		score += 5
		feedback = append(feedback, "Adequate detail level")
	default:
		feedback = append(feedback, "More detailed description needed")
	}

	switch n := len(sectionItems(canvas.ValueProposition.Details)); {
	case n >= 2:
		score += 8
		feedback = append(feedback, "Clear value propositions")
	case n >= 1:
		score += 5
		feedback = append(feedback, "Basic value proposition identified")
	default:
		feedback = append(feedback, "Value proposition needs clarification")
	}

	switch n := len(sectionItems(canvas.CustomerSegments.Details)); {
	case n >= 2:
		score += 9
		feedback = append(feedback, "Well-defined customer segments")
	case n >= 1:
		score += 6
		feedback = append(feedback, "Customer segment identified")
	default:
		feedback = append(feedback, "Customer segments need definition")
	}
	return newRubric(score, feedback)
}

func scoreFeasibility(canvas Canvas) Rubric {
	score := 0
	var feedback []string
	switch n := len(sectionItems(canvas.KeyResources.Details)); {
	case n >= 3:
		score += 8
		feedback = append(feedback, "Key resources well identified")
	case n >= 1:
		score += 5
		feedback = append(feedback, "Basic resources identified")
	default:
		feedback = append(feedback, "Resource planning needs attention")
	}

	switch n := len(sectionItems(canvas.RevenueStreams.Details)); {
	case n >= 2:
		score += 8
		feedback = append(feedback, "Multiple revenue streams identified")
	case n >= 1:
		score += 5
		feedback = append(feedback, "Revenue model present")
	default:
		feedback = append(feedback, "Revenue model needs development")
	}

	switch n := len(sectionItems(canvas.CostStructure.Details)); {
	case n >= 3:
		score += 9
		feedback = append(feedback, "Comprehensive cost analysis")
	case n >= 1:
		score += 6
		feedback = append(feedback, "Basic cost awareness")
	default:
		feedback = append(feedback, "Cost structure needs analysis")
	}
	return newRubric(score, feedback)
}

func scoreInnovation(canvas Canvas, lower string) Rubric {
	score := 0
	var feedback []string
	if technologyKeywords.matches(lower) {
		score += 8
		feedback = append(feedback, "Technology integration identified")
	}
	if sustainabilityKeywords.matches(lower) {
		score += 8
		feedback = append(feedback, "Sustainability considerations present")
	}
	if innovationKeywords.matches(lower) {
		score += 9
		feedback = append(feedback, "Innovative elements identified")
	} else if len(sectionItems(canvas.ValueProposition.Details)) > 0 {
		score += 5
		feedback = append(feedback, "Value differentiation present")
	}
	if len(feedback) == 0 {
		feedback = append(feedback, "More innovative elements could strengthen the business")
	}
	return newRubric(score, feedback)
}

func newRubric(score int, feedback []string) Rubric {
	return Rubric{
		Score:    clampScore(score),
		MaxScore: MaxRubricScore,
		Feedback: strings.Join(feedback, "; "),
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxRubricScore {
		return MaxRubricScore
	}
	return score
}
