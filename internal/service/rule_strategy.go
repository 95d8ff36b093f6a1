package service

import (
	"fmt"
	"log"
	"math"
	"strings"

	"mindpath/internal/model"
)

// Axis declaration orders. Ties always break toward the earlier entry.
var (
	mbtiAxes        = []string{"EI", "SN", "TF", "JP"}
	discAxes        = []string{"D", "I", "S", "C"}
	hollandAxes     = []string{"R", "I", "A", "S", "E", "C"}
	valueCategories = []string{"security", "relationships", "achievement", "autonomy", "growth"}
)

var discAxisNames = map[string]string{
	"D": "Dominance",
	"I": "Influence",
	"S": "Steadiness",
	"C": "Compliance",
}

var hollandCareers = map[string]string{
	"R": "engineering and hands-on technical work",
	"I": "research and analytical roles",
	"A": "design and creative media",
	"S": "education, coaching and care work",
	"E": "management, sales and entrepreneurship",
	"C": "finance, operations and administration",
}

// RuleStrategy is the deterministic analysis path. It is a pure
// function of the answers, the question catalog and the knowledge
// count, and it produces the same report schema as the AI path.
type RuleStrategy struct{}

// NewRuleStrategy creates the rule-based strategy
func NewRuleStrategy() *RuleStrategy {
	return &RuleStrategy{}
}

// Analyze scores all six instruments and assembles the report
func (s *RuleStrategy) Analyze(profile *model.Profile, answers []*model.Answer, questions map[string]*model.Question, knowledgeCount int) *model.AnalysisOutcome {
	byModel := groupByModel(answers)

	detailed := model.DetailedAnalysis{
		MBTI:    s.scoreMBTI(byModel[model.InstrumentMBTI], questions),
		BigFive: s.scoreBigFive(byModel[model.InstrumentBigFive], questions),
		DISC:    s.scoreDISC(byModel[model.InstrumentDISC], questions),
		Holland: s.scoreHolland(byModel[model.InstrumentHolland], questions),
		Values:  s.scoreValues(byModel[model.InstrumentValues], questions),
	}

	return &model.AnalysisOutcome{
		Summary:         s.buildSummary(profile, &detailed),
		Detailed:        detailed,
		Recommendations: s.buildRecommendations(&detailed),
		Confidence:      s.confidence(len(byModel), knowledgeCount),
		Method:          model.MethodRule,
	}
}

// confidence implements the rule-path score:
// clamp(0.5 + 0.1*instruments + 0.2 if knowledge > 10, 0, 1)
func (s *RuleStrategy) confidence(instrumentCount, knowledgeCount int) float64 {
	score := 0.5 + 0.1*float64(instrumentCount)
	if knowledgeCount > 10 {
		score += 0.2
	}
	return model.Clamp01(score)
}

func groupByModel(answers []*model.Answer) map[string][]*model.Answer {
	byModel := make(map[string][]*model.Answer)
	for _, a := range answers {
		byModel[a.ModelCode] = append(byModel[a.ModelCode], a)
	}
	return byModel
}

// chosenTraits maps an answer to the traits of the options it selected.
// Handles every answer type; types that carry no option choice
// contribute nothing.
func chosenTraits(a *model.Answer, q *model.Question) []string {
	var traits []string
	appendTrait := func(code string) {
		if opt := q.OptionByCode(code); opt != nil && opt.Trait != "" {
			traits = append(traits, opt.Trait)
		}
	}

	switch a.Value.Type {
	case model.QuestionTypeSingle:
		appendTrait(a.Value.Option)
	case model.QuestionTypeMultiple:
		for _, code := range a.Value.Options {
			appendTrait(code)
		}
	case model.QuestionTypeScale, model.QuestionTypeText, model.QuestionTypeSorting:
		// No option choice to tally.
	}
	return traits
}

func (s *RuleStrategy) scoreMBTI(answers []*model.Answer, questions map[string]*model.Question) *model.MBTIResult {
	if len(answers) == 0 {
		return nil
	}

	votes := make(map[string]int)
	for _, a := range answers {
		q := questions[a.QuestionID]
		if q == nil {
			continue
		}
		for _, trait := range chosenTraits(a, q) {
			votes[trait]++
		}
	}

	// Majority vote per axis; a tie goes to the first letter.
	var letters strings.Builder
	for _, axis := range mbtiAxes {
		first, second := string(axis[0]), string(axis[1])
		if votes[second] > votes[first] {
			letters.WriteString(second)
		} else {
			letters.WriteString(first)
		}
	}

	return &model.MBTIResult{Type: letters.String(), Votes: votes}
}

func (s *RuleStrategy) scoreBigFive(answers []*model.Answer, questions map[string]*model.Question) *model.BigFiveScores {
	if len(answers) == 0 {
		return nil
	}

	// Start every trait at the midpoint and accumulate deviations.
	scores := map[string]int{
		"openness":          50,
		"conscientiousness": 50,
		"extraversion":      50,
		"agreeableness":     50,
		"neuroticism":       50,
	}

	for _, a := range answers {
		q := questions[a.QuestionID]
		if q == nil {
			continue
		}
		if _, ok := scores[q.Dimension]; !ok {
			continue
		}

		switch a.Value.Type {
		case model.QuestionTypeScale:
			deviation := (a.Value.Scale - 3) * 5
			if q.Reverse {
				deviation = -deviation
			}
			scores[q.Dimension] += deviation
		case model.QuestionTypeSingle, model.QuestionTypeMultiple,
			model.QuestionTypeText, model.QuestionTypeSorting:
			// Big Five items are scale questions only.
		}
	}

	for trait, v := range scores {
		scores[trait] = clampInt(v, 0, 100)
	}

	return &model.BigFiveScores{
		Openness:          scores["openness"],
		Conscientiousness: scores["conscientiousness"],
		Extraversion:      scores["extraversion"],
		Agreeableness:     scores["agreeableness"],
		Neuroticism:       scores["neuroticism"],
	}
}

func (s *RuleStrategy) scoreDISC(answers []*model.Answer, questions map[string]*model.Question) *model.DISCProfile {
	if len(answers) == 0 {
		return nil
	}

	tallies := tallyTraits(answers, questions)
	pct := percentages(tallies, discAxes)

	dominant := discAxes[0]
	for _, axis := range discAxes {
		if tallies[axis] > tallies[dominant] {
			dominant = axis
		}
	}

	return &model.DISCProfile{
		Dominance:   pct["D"],
		Influence:   pct["I"],
		Steadiness:  pct["S"],
		Compliance:  pct["C"],
		DominantKey: dominant,
	}
}

func (s *RuleStrategy) scoreHolland(answers []*model.Answer, questions map[string]*model.Question) *model.HollandProfile {
	if len(answers) == 0 {
		return nil
	}

	tallies := tallyTraits(answers, questions)
	pct := percentages(tallies, hollandAxes)

	// Top 3 axes by descending score; ties keep RIASEC declaration order.
	ranked := append([]string(nil), hollandAxes...)
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && pct[ranked[j]] > pct[ranked[j-1]]; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	return &model.HollandProfile{
		Code:   strings.Join(ranked[:3], ""),
		Scores: pct,
	}
}

func (s *RuleStrategy) scoreValues(answers []*model.Answer, questions map[string]*model.Question) *model.ValuesProfile {
	if len(answers) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, cat := range valueCategories {
		counts[cat] = 0
	}

	binOption := func(q *model.Question, code string) {
		opt := q.OptionByCode(code)
		if opt == nil {
			return
		}
		counts[valueCategory(opt.Score)]++
	}

	for _, a := range answers {
		q := questions[a.QuestionID]
		if q == nil {
			continue
		}

		switch a.Value.Type {
		case model.QuestionTypeMultiple:
			for _, code := range a.Value.Options {
				binOption(q, code)
			}
		case model.QuestionTypeSorting:
			// The three highest-ranked options count as selections.
			for rank := 1; rank <= 3 && rank <= len(a.Value.Order); rank++ {
				for pos, r := range a.Value.Order {
					if r == rank && pos < len(q.Options) {
						binOption(q, q.Options[pos].Code)
					}
				}
			}
		case model.QuestionTypeSingle:
			binOption(q, a.Value.Option)
		case model.QuestionTypeScale, model.QuestionTypeText:
			// No value selections to bin.
		}
	}

	top := valueCategories[0]
	for _, cat := range valueCategories {
		if counts[cat] > counts[top] {
			top = cat
		}
	}

	return &model.ValuesProfile{Counts: counts, TopCategory: top}
}

// valueCategory bins an option's numeric score (1-10) into one of the
// five fixed categories.
func valueCategory(score int) string {
	switch {
	case score <= 2:
		return "security"
	case score <= 4:
		return "relationships"
	case score <= 6:
		return "achievement"
	case score <= 8:
		return "autonomy"
	default:
		return "growth"
	}
}

func tallyTraits(answers []*model.Answer, questions map[string]*model.Question) map[string]int {
	tallies := make(map[string]int)
	for _, a := range answers {
		q := questions[a.QuestionID]
		if q == nil {
			log.Printf("rule strategy: answer %s references unknown question %s", a.ID, a.QuestionID)
			continue
		}
		for _, trait := range chosenTraits(a, q) {
			tallies[trait]++
		}
	}
	return tallies
}

// percentages converts raw tallies to integer percentages of their sum.
// When every tally is zero the split is uniform, so the vector still
// sums to 100 and no division by zero occurs.
func percentages(tallies map[string]int, axes []string) map[string]int {
	sum := 0
	for _, axis := range axes {
		sum += tallies[axis]
	}

	pct := make(map[string]int, len(axes))
	if sum == 0 {
		uniform := 100 / len(axes)
		remainder := 100 % len(axes)
		for i, axis := range axes {
			pct[axis] = uniform
			if i < remainder {
				pct[axis]++
			}
		}
		return pct
	}

	for _, axis := range axes {
		pct[axis] = int(math.Round(float64(tallies[axis]) * 100 / float64(sum)))
	}
	return pct
}

func (s *RuleStrategy) buildSummary(profile *model.Profile, d *model.DetailedAnalysis) string {
	name := "The candidate"
	if profile != nil && profile.Name != "" {
		name = profile.Name
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s completed a multi-instrument psychometric assessment.", name))

	if d.MBTI != nil {
		sb.WriteString(fmt.Sprintf(" The MBTI profile is %s.", d.MBTI.Type))
	}
	if d.BigFive != nil {
		sb.WriteString(fmt.Sprintf(
			" Big Five scores: openness %d, conscientiousness %d, extraversion %d, agreeableness %d, neuroticism %d.",
			d.BigFive.Openness, d.BigFive.Conscientiousness, d.BigFive.Extraversion,
			d.BigFive.Agreeableness, d.BigFive.Neuroticism))
	}
	if d.DISC != nil {
		sb.WriteString(fmt.Sprintf(" The dominant DISC style is %s.", discAxisNames[d.DISC.DominantKey]))
	}
	if d.Holland != nil {
		sb.WriteString(fmt.Sprintf(" The Holland occupational code is %s.", d.Holland.Code))
	}
	if d.Values != nil {
		sb.WriteString(fmt.Sprintf(" Work values center on %s.", d.Values.TopCategory))
	}

	return sb.String()
}

func (s *RuleStrategy) buildRecommendations(d *model.DetailedAnalysis) []string {
	var recs []string

	if d.Holland != nil {
		var areas []string
		for _, letter := range strings.Split(d.Holland.Code, "") {
			areas = append(areas, hollandCareers[letter])
		}
		recs = append(recs, "Career areas to explore: "+strings.Join(areas, "; ")+".")
	}
	if d.MBTI != nil {
		if strings.HasPrefix(d.MBTI.Type, "E") {
			recs = append(recs, "Seek collaborative, people-facing roles that reward outward energy.")
		} else {
			recs = append(recs, "Favor roles with space for focused, independent work.")
		}
	}
	if d.DISC != nil {
		switch d.DISC.DominantKey {
		case "D":
			recs = append(recs, "Take ownership of goals early; direct, results-driven environments fit best.")
		case "I":
			recs = append(recs, "Leverage communication strengths in team-facing and persuasion-heavy work.")
		case "S":
			recs = append(recs, "Steady, supportive team settings will play to natural consistency.")
		case "C":
			recs = append(recs, "Detail-oriented, standards-driven work suits the analytical DISC profile.")
		}
	}
	if d.Values != nil {
		recs = append(recs, fmt.Sprintf("When comparing offers, weigh how each culture serves the %s value.", d.Values.TopCategory))
	}

	recs = append(recs, "Revisit the assessment after significant role changes; profiles drift with experience.")
	return recs
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
