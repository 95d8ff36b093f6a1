package model

// QuestionType defines how a question is answered
type QuestionType string

const (
	QuestionTypeSingle   QuestionType = "single"   // One option
	QuestionTypeMultiple QuestionType = "multiple" // Several options
	QuestionTypeScale    QuestionType = "scale"    // Numeric rating, usually 1-5
	QuestionTypeText     QuestionType = "text"     // Free text
	QuestionTypeSorting  QuestionType = "sorting"  // Total order over the options
)

// InstrumentModel is one of the six fixed psychometric test types
type InstrumentModel struct {
	ID   string `json:"id" bson:"_id,omitempty"`
	Code string `json:"code" bson:"code"`
	Name string `json:"name" bson:"name"`
}

// Instrument codes, in declaration order. The order matters: validation
// messages and score tie-breaking both follow it.
const (
	InstrumentFiveQuestions = "five_questions"
	InstrumentMBTI          = "mbti"
	InstrumentBigFive       = "big_five"
	InstrumentDISC          = "disc"
	InstrumentHolland       = "holland"
	InstrumentValues        = "values"
)

// InstrumentCodes lists all six instruments in declaration order
var InstrumentCodes = []string{
	InstrumentFiveQuestions,
	InstrumentMBTI,
	InstrumentBigFive,
	InstrumentDISC,
	InstrumentHolland,
	InstrumentValues,
}

// Option is a selectable answer option on a catalog question
type Option struct {
	Code  string `json:"code" bson:"code"`
	Label string `json:"label" bson:"label"`
	Trait string `json:"trait,omitempty" bson:"trait,omitempty"` // Scoring axis, e.g. "E", "D", "R"
	Score int    `json:"score,omitempty" bson:"score,omitempty"` // Numeric weight for values binning
}

// Question is an immutable catalog entry
type Question struct {
	ID        string       `json:"id" bson:"_id,omitempty"`
	ModelCode string       `json:"modelCode" bson:"modelCode"` // Owning instrument
	Code      string       `json:"code" bson:"code"`           // e.g. "mbti_3"
	Text      string       `json:"text" bson:"text"`
	Type      QuestionType `json:"type" bson:"type"`
	Dimension string       `json:"dimension,omitempty" bson:"dimension,omitempty"` // e.g. "EI", "openness"
	Reverse   bool         `json:"reverse,omitempty" bson:"reverse,omitempty"`     // Reverse-keyed scale item
	Options   []Option     `json:"options,omitempty" bson:"options,omitempty"`
	SortOrder int          `json:"sortOrder" bson:"sortOrder"`
}

// OptionByCode returns the option with the given code, or nil
func (q *Question) OptionByCode(code string) *Option {
	for i := range q.Options {
		if q.Options[i].Code == code {
			return &q.Options[i]
		}
	}
	return nil
}
