package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"mindpath/internal/model"
)

const defaultAIConfidence = 0.85

// aiAnalysisPayload is the strict JSON shape requested from the model.
// ConfidenceScore stays loosely typed: a missing or non-numeric value
// falls back to the default instead of rejecting the whole payload.
type aiAnalysisPayload struct {
	Summary          string      `json:"summary"`
	DetailedAnalysis string      `json:"detailed_analysis"`
	Recommendations  []string    `json:"recommendations"`
	ConfidenceScore  interface{} `json:"confidence_score"`
}

func (p *aiAnalysisPayload) confidence() (float64, bool) {
	switch v := p.ConfidenceScore.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// AIStrategy builds the analysis prompt, calls the generative model and
// validates its payload. Structured per-instrument sections always come
// from the rule scorers so both strategies share one report schema; the
// model contributes the narrative, summary, recommendations and
// confidence. Missing required fields are backfilled field-by-field
// from the rule strategy, which is distinct from the orchestrator's
// whole-strategy fallback.
type AIStrategy struct {
	client AIClient
	rule   *RuleStrategy
}

// NewAIStrategy creates the AI analysis strategy
func NewAIStrategy(client AIClient, rule *RuleStrategy) *AIStrategy {
	return &AIStrategy{client: client, rule: rule}
}

// Analyze runs one model call under the caller's deadline. Any
// transport error or unparseable payload is returned to the caller,
// which falls back to the rule strategy.
func (s *AIStrategy) Analyze(ctx context.Context, profile *model.Profile, answers []*model.Answer, questions map[string]*model.Question, knowledge []*model.KnowledgeEntry) (*model.AnalysisOutcome, error) {
	prompt := s.buildPrompt(profile, answers, questions, knowledge)

	response, err := s.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai analysis call: %w", err)
	}

	var payload aiAnalysisPayload
	if err := json.Unmarshal([]byte(response), &payload); err != nil {
		return nil, fmt.Errorf("ai analysis payload: %w", err)
	}

	// Field-level backfill from the rule strategy's sub-computations.
	ruleOutcome := s.rule.Analyze(profile, answers, questions, len(knowledge))

	outcome := &model.AnalysisOutcome{
		Summary:         payload.Summary,
		Detailed:        ruleOutcome.Detailed,
		Recommendations: payload.Recommendations,
		Confidence:      defaultAIConfidence,
		Method:          model.MethodAI,
	}
	outcome.Detailed.Narrative = payload.DetailedAnalysis

	if outcome.Summary == "" {
		outcome.Summary = ruleOutcome.Summary
	}
	if len(outcome.Recommendations) == 0 {
		outcome.Recommendations = ruleOutcome.Recommendations
	}
	if v, ok := payload.confidence(); ok {
		outcome.Confidence = v
	}
	outcome.Confidence = model.Clamp01(outcome.Confidence)

	return outcome, nil
}

// buildPrompt embeds the profile, the literal question and option text
// for every answered question, and the retrieved knowledge entries.
// Raw codes never reach the prompt.
func (s *AIStrategy) buildPrompt(profile *model.Profile, answers []*model.Answer, questions map[string]*model.Question, knowledge []*model.KnowledgeEntry) string {
	var sb strings.Builder

	sb.WriteString(`You are a career counselor analyzing a completed psychometric assessment.
Return ONLY valid JSON matching this schema:
{
  "summary": "3-4 sentence overview of the personality and career profile",
  "detailed_analysis": "multi-paragraph narrative covering all instruments",
  "recommendations": ["actionable career recommendation", "..."],
  "confidence_score": 0.0 to 1.0
}

`)

	sb.WriteString("Candidate profile:\n")
	if profile != nil {
		sb.WriteString(fmt.Sprintf("- Name: %s\n- Age: %d\n", profile.Name, profile.Age))
		if profile.Gender != "" {
			sb.WriteString("- Gender: " + profile.Gender + "\n")
		}
		if profile.Education != "" {
			sb.WriteString("- Education: " + profile.Education + "\n")
		}
		if profile.Major != "" {
			sb.WriteString("- Major: " + profile.Major + "\n")
		}
		if profile.WorkYears > 0 {
			sb.WriteString(fmt.Sprintf("- Years of work experience: %d\n", profile.WorkYears))
		}
	}

	byModel := groupByModel(answers)
	for _, code := range model.InstrumentCodes {
		instrumentAnswers := byModel[code]
		if len(instrumentAnswers) == 0 {
			continue
		}
		sort.Slice(instrumentAnswers, func(i, j int) bool {
			qi, qj := questions[instrumentAnswers[i].QuestionID], questions[instrumentAnswers[j].QuestionID]
			if qi == nil || qj == nil {
				return false
			}
			return qi.SortOrder < qj.SortOrder
		})

		sb.WriteString(fmt.Sprintf("\n%s responses:\n", instrumentTitle(code)))
		for _, a := range instrumentAnswers {
			q := questions[a.QuestionID]
			if q == nil {
				continue
			}
			sb.WriteString(fmt.Sprintf("- Q: %s\n  A: %s\n", q.Text, answerText(a, q)))
		}
	}

	if len(knowledge) > 0 {
		sb.WriteString("\nReference knowledge:\n")
		for _, entry := range knowledge {
			sb.WriteString(fmt.Sprintf("[%s] %s\n", entry.Title, entry.Content))
		}
	}

	sb.WriteString("\nGround the analysis in the responses and reference knowledge. Be specific about career fit.")
	return sb.String()
}

// answerText renders an answer as the human-readable text a counselor
// would read: option labels, never codes.
func answerText(a *model.Answer, q *model.Question) string {
	optionLabel := func(code string) string {
		if opt := q.OptionByCode(code); opt != nil {
			return opt.Label
		}
		return code
	}

	switch a.Value.Type {
	case model.QuestionTypeSingle:
		return optionLabel(a.Value.Option)
	case model.QuestionTypeMultiple:
		labels := make([]string, 0, len(a.Value.Options))
		for _, code := range a.Value.Options {
			labels = append(labels, optionLabel(code))
		}
		return strings.Join(labels, ", ")
	case model.QuestionTypeScale:
		return fmt.Sprintf("%d out of 5", a.Value.Scale)
	case model.QuestionTypeText:
		return a.Value.Text
	case model.QuestionTypeSorting:
		// Render labels in ranked order.
		ranked := make([]string, 0, len(a.Value.Order))
		for rank := 1; rank <= len(a.Value.Order); rank++ {
			for pos, r := range a.Value.Order {
				if r == rank && pos < len(q.Options) {
					ranked = append(ranked, q.Options[pos].Label)
				}
			}
		}
		return "ranked: " + strings.Join(ranked, " > ")
	}
	return ""
}

func instrumentTitle(code string) string {
	switch code {
	case model.InstrumentFiveQuestions:
		return "Introductory questions"
	case model.InstrumentMBTI:
		return "MBTI"
	case model.InstrumentBigFive:
		return "Big Five"
	case model.InstrumentDISC:
		return "DISC"
	case model.InstrumentHolland:
		return "Holland occupational interests"
	case model.InstrumentValues:
		return "Work values"
	}
	return code
}
