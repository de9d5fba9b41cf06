package assessment

// Industry is the single industry label selected for an analysis.
type Industry string

const (
	IndustryTechnology    Industry = "technology"
	IndustryFood          Industry = "food"
	IndustryRetail        Industry = "retail"
	IndustryService       Industry = "service"
	IndustryManufacturing Industry = "manufacturing"
	IndustryAgriculture   Industry = "agriculture"
	IndustryHealthcare    Industry = "healthcare"
	IndustryEducation     Industry = "education"
	IndustryGeneral       Industry = "general"
)

// TrafficLight is the three-tier viability verdict.
type TrafficLight string

const (
	TrafficLightGreen  TrafficLight = "GREEN"
	TrafficLightYellow TrafficLight = "YELLOW"
	TrafficLightRed    TrafficLight = "RED"
)

// Document is normalized input text. It is immutable once built by NewDocument.
type Document struct {
	Text   string
	Length int
	lower  string
}

// CanvasSection is one block of the Business Model Canvas.
type CanvasSection struct {
	Description string `json:"description"`
	Details     string `json:"details"`
}

// Canvas holds the nine Business Model Canvas blocks.
type Canvas struct {
	KeyPartners           CanvasSection `json:"keyPartners"`
	KeyActivities         CanvasSection `json:"keyActivities"`
	KeyResources          CanvasSection `json:"keyResources"`
	ValueProposition      CanvasSection `json:"valueProposition"`
	CustomerRelationships CanvasSection `json:"customerRelationships"`
	Channels              CanvasSection `json:"channels"`
	CustomerSegments      CanvasSection `json:"customerSegments"`
	CostStructure         CanvasSection `json:"costStructure"`
	RevenueStreams        CanvasSection `json:"revenueStreams"`
}

// CanvasKeys lists the canvas section identifiers in display order.
var CanvasKeys = []string{
	"keyPartners",
	"keyActivities",
	"keyResources",
	"valueProposition",
	"customerRelationships",
	"channels",
	"customerSegments",
	"costStructure",
	"revenueStreams",
}

// Sections returns pointers to the nine sections, aligned with CanvasKeys.
func (c *Canvas) Sections() []*CanvasSection {
	return []*CanvasSection{
		&c.KeyPartners,
		&c.KeyActivities,
		&c.KeyResources,
		&c.ValueProposition,
		&c.CustomerRelationships,
		&c.Channels,
		&c.CustomerSegments,
		&c.CostStructure,
		&c.RevenueStreams,
	}
}

// SWOT holds the four SWOT statement lists.
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// Rubric is one scored dimension.
type Rubric struct {
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Feedback string `json:"feedback"`
}

// Rubrics holds the closed set of four rubrics.
type Rubrics struct {
	Completeness Rubric `json:"completeness"`
	Clarity      Rubric `json:"clarity"`
	Feasibility  Rubric `json:"feasibility"`
	Innovation   Rubric `json:"innovation"`
}

type namedRubric struct {
	name   string
	rubric Rubric
}

func (r Rubrics) ordered() []namedRubric {
	return []namedRubric{
		{name: "completeness", rubric: r.Completeness},
		{name: "clarity", rubric: r.Clarity},
		{name: "feasibility", rubric: r.Feasibility},
		{name: "innovation", rubric: r.Innovation},
	}
}

// Scoring aggregates the rubric scores and the derived verdict narrative.
type Scoring struct {
	OverallScore     int      `json:"overallScore"`
	Rubrics          Rubrics  `json:"rubrics"`
	ScoreColor       string   `json:"scoreColor"`
	ScoreLevel       string   `json:"scoreLevel"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	Improvements     []string `json:"improvements"`
	DetailedFeedback string   `json:"detailedFeedback"`
}

// AnalysisResult is the root aggregate returned for one analysis.
type AnalysisResult struct {
	Industry            Industry     `json:"industry"`
	BusinessName        string       `json:"businessName"`
	BusinessCanvas      Canvas       `json:"businessCanvas"`
	BusinessAnalysis    SWOT         `json:"businessAnalysis"`
	AIScoring           Scoring      `json:"aiScoring"`
	TrafficLightScore   TrafficLight `json:"trafficLightScore"`
	FeedbackSuggestions []string     `json:"feedbackSuggestions"`
	LocalImpactMapping  string       `json:"localImpactMapping"`
}
