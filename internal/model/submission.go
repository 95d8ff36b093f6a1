package model

import (
	"encoding/json"
	"time"
)

// Profile is the demographic block submitted with every assessment
type Profile struct {
	Name      string `json:"name" bson:"name"`
	Age       int    `json:"age" bson:"age"`
	Gender    string `json:"gender,omitempty" bson:"gender,omitempty"`
	Education string `json:"education,omitempty" bson:"education,omitempty"`
	Major     string `json:"major,omitempty" bson:"major,omitempty"`
	WorkYears int    `json:"workYears,omitempty" bson:"workYears,omitempty"`
}

// Submission is one assessment session, immutable once created
type Submission struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Profile     Profile   `json:"profile" bson:"profile"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
}

// AnswerValue is a tagged union keyed by the owning question's type.
// Exactly one of the payload fields is meaningful; readers must switch
// exhaustively over the five question types.
type AnswerValue struct {
	Type    QuestionType `json:"type" bson:"type"`
	Option  string       `json:"option,omitempty" bson:"option,omitempty"`   // single
	Options []string     `json:"options,omitempty" bson:"options,omitempty"` // multiple
	Scale   int          `json:"scale,omitempty" bson:"scale,omitempty"`     // scale
	Text    string       `json:"text,omitempty" bson:"text,omitempty"`       // text
	Order   []int        `json:"order,omitempty" bson:"order,omitempty"`     // sorting, 1-based option ranks
}

// Answer is one persisted answer row
type Answer struct {
	ID           string      `json:"id" bson:"_id,omitempty"`
	SubmissionID string      `json:"submissionId" bson:"submissionId"`
	QuestionID   string      `json:"questionId" bson:"questionId"`
	QuestionCode string      `json:"questionCode" bson:"questionCode"`
	ModelCode    string      `json:"modelCode" bson:"modelCode"`
	Value        AnswerValue `json:"value" bson:"value"`
}

// SubmissionInput is the decoded submit request: a profile plus one raw
// answer map per instrument. Values stay raw JSON until the intake
// validator resolves them against the catalog question types.
type SubmissionInput struct {
	Profile     *Profile                              `json:"profile"`
	Instruments map[string]map[string]json.RawMessage `json:"-"`
}

// IdentityOrder returns the identity ranking [1..n], the documented
// default for an unanswered sorting question.
func IdentityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i + 1
	}
	return order
}
