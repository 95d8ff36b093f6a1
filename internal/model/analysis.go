package model

import "time"

// AnalysisMethod identifies which strategy produced a result
type AnalysisMethod string

const (
	MethodAI   AnalysisMethod = "ai"
	MethodRule AnalysisMethod = "rule"
)

// MBTIResult is the 4-letter type with per-axis vote tallies
type MBTIResult struct {
	Type  string         `json:"type" bson:"type"` // e.g. "ENTJ"
	Votes map[string]int `json:"votes" bson:"votes"`
}

// BigFiveScores holds the five 0-100 trait scores
type BigFiveScores struct {
	Openness          int `json:"openness" bson:"openness"`
	Conscientiousness int `json:"conscientiousness" bson:"conscientiousness"`
	Extraversion      int `json:"extraversion" bson:"extraversion"`
	Agreeableness     int `json:"agreeableness" bson:"agreeableness"`
	Neuroticism       int `json:"neuroticism" bson:"neuroticism"`
}

// DISCProfile holds the four axis percentages plus the dominant axis
type DISCProfile struct {
	Dominance   int    `json:"dominance" bson:"dominance"`
	Influence   int    `json:"influence" bson:"influence"`
	Steadiness  int    `json:"steadiness" bson:"steadiness"`
	Compliance  int    `json:"compliance" bson:"compliance"`
	DominantKey string `json:"dominantKey" bson:"dominantKey"` // "D", "I", "S" or "C"
}

// HollandProfile holds RIASEC percentages and the derived 3-letter code
type HollandProfile struct {
	Code   string         `json:"code" bson:"code"` // e.g. "RIA"
	Scores map[string]int `json:"scores" bson:"scores"`
}

// ValuesProfile buckets work-values selections into five fixed categories
type ValuesProfile struct {
	Counts      map[string]int `json:"counts" bson:"counts"`
	TopCategory string         `json:"topCategory" bson:"topCategory"`
}

// DetailedAnalysis is the structured report body shared by both
// strategies. The per-instrument sections are always computed by the
// rule scorers; Narrative carries the AI elaboration when present.
type DetailedAnalysis struct {
	MBTI      *MBTIResult     `json:"mbti,omitempty" bson:"mbti,omitempty"`
	BigFive   *BigFiveScores  `json:"bigFive,omitempty" bson:"bigFive,omitempty"`
	DISC      *DISCProfile    `json:"disc,omitempty" bson:"disc,omitempty"`
	Holland   *HollandProfile `json:"holland,omitempty" bson:"holland,omitempty"`
	Values    *ValuesProfile  `json:"values,omitempty" bson:"values,omitempty"`
	Narrative string          `json:"narrative,omitempty" bson:"narrative,omitempty"`
}

// AnalysisResult is the one terminal result per submission
type AnalysisResult struct {
	ID                 string           `json:"id" bson:"_id,omitempty"`
	SubmissionID       string           `json:"submissionId" bson:"submissionId"`
	Summary            string           `json:"summary" bson:"summary"`
	DetailedAnalysis   DetailedAnalysis `json:"detailedAnalysis" bson:"detailedAnalysis"`
	Recommendations    []string         `json:"recommendations" bson:"recommendations"`
	ConfidenceScore    float64          `json:"confidenceScore" bson:"confidenceScore"`
	KnowledgeSourceIDs []string         `json:"knowledgeSources" bson:"knowledgeSourceIds"`
	Method             AnalysisMethod   `json:"method" bson:"method"`
	ProcessingTimeMs   int64            `json:"processingTime" bson:"processingTimeMs"`
	CreatedAt          time.Time        `json:"createdAt" bson:"createdAt"`
}

// AnalysisOutcome is the in-memory output both strategies produce
// before persistence.
type AnalysisOutcome struct {
	Summary         string
	Detailed        DetailedAnalysis
	Recommendations []string
	Confidence      float64
	Method          AnalysisMethod
}

// Task statuses for the analysis outbox
const (
	TaskPending = "pending"
	TaskRunning = "running"
	TaskDone    = "done"
	TaskFailed  = "failed"
)

// AnalysisTask is the durable outbox marker written alongside a
// Submission so a restart cannot lose the pending analysis.
type AnalysisTask struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	SubmissionID string    `json:"submissionId" bson:"submissionId"`
	Status       string    `json:"status" bson:"status"`
	Attempts     int       `json:"attempts" bson:"attempts"`
	LastError    string    `json:"lastError,omitempty" bson:"lastError,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Clamp01 clamps a confidence score into [0,1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
