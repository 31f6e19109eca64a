// internal/analysis/normalize/models.go
package normalize

// Mode is the analysis mode reported by the service.
type Mode string

const (
	ModeStub Mode = "stub"
	ModeLive Mode = "live"
)

// UntitledPillar names a pillar that arrived without a title on any spelling.
const UntitledPillar = "Untitled pillar"

// ==========================
// Canonical representation
// ==========================

// Analysis is the reconciled form of an analyze response. Every spelling and
// envelope variant of the wire payload collapses into this one shape.
type Analysis struct {
	StoryID  string
	Summary  Summary
	Pillars  []Pillar
	Metadata Metadata
}

// Summary holds the service's headline counters. RecognizedIn is not checked
// against TotalQuestions.
type Summary struct {
	TotalQuestions int
	RecognizedIn   int
}

type Metadata struct {
	ClientName   *string
	ProviderName string
	Models       []string
	Mode         Mode
}

type Pillar struct {
	Name             string
	Summary          string
	ProviderInferred bool
	Questions        []Question
}

type Question struct {
	Prompt           string
	Category         string
	Kind             string
	ProviderInferred bool
	Assumptions      []string
	ID               *string
	Responses        []Response
}

// Response keeps both upstream inference flags as reported; nil means the
// flag was absent on the wire. Adapt resolves them.
type Response struct {
	Model            string
	Answer           string
	ProviderInferred *bool
	Inferred         *bool
}

// ==========================
// UI result
// ==========================

// Result is the UI-ready structure handed to renderers and exported as JSON.
type Result struct {
	StoryID  string         `json:"storyId"`
	Summary  ResultSummary  `json:"summary"`
	Models   []string       `json:"models"`
	Pillars  []PillarResult `json:"pillars"`
	Metadata ResultMetadata `json:"metadata"`
}

type ResultSummary struct {
	TotalQuestions         int `json:"totalQuestions"`
	AIProviderRecognizedIn int `json:"aiProviderRecognizedIn"`
}

type ResultMetadata struct {
	ClientName   *string `json:"clientName"`
	ProviderName string  `json:"providerName"`
	Mode         Mode    `json:"mode"`
}

type PillarResult struct {
	Title              string           `json:"title"`
	Summary            string           `json:"summary"`
	AIProviderInferred bool             `json:"aiProviderInferred"`
	Questions          []QuestionDetail `json:"questions"`
}

type QuestionDetail struct {
	Prompt             string           `json:"prompt"`
	Category           string           `json:"category"`
	Kind               string           `json:"kind"`
	AIProviderInferred bool             `json:"aiProviderInferred"`
	Assumptions        []string         `json:"assumptions"`
	ID                 *string          `json:"id,omitempty"`
	Responses          []ResponseDetail `json:"responses"`
}

type ResponseDetail struct {
	Model    string `json:"model"`
	Answer   string `json:"answer"`
	Inferred bool   `json:"inferred"`
}
