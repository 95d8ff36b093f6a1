package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appconfig "mindpath/config"
	"mindpath/internal/model"
	"mindpath/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := appconfig.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)

	questionRepo := repository.NewQuestionRepo(db)
	knowledgeRepo := repository.NewKnowledgeRepo(db)
	resultRepo := repository.NewResultRepo(db)
	outboxRepo := repository.NewOutboxRepo(db)

	if err := resultRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure result indexes: %v", err)
	}
	if err := outboxRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure outbox indexes: %v", err)
	}

	models := []interface{}{
		model.InstrumentModel{Code: model.InstrumentFiveQuestions, Name: "Five Questions"},
		model.InstrumentModel{Code: model.InstrumentMBTI, Name: "MBTI"},
		model.InstrumentModel{Code: model.InstrumentBigFive, Name: "Big Five"},
		model.InstrumentModel{Code: model.InstrumentDISC, Name: "DISC"},
		model.InstrumentModel{Code: model.InstrumentHolland, Name: "Holland Occupational Themes"},
		model.InstrumentModel{Code: model.InstrumentValues, Name: "Work Values"},
	}
	if _, err := db.Collection("instrument_models").InsertMany(ctx, models); err != nil {
		log.Fatalf("Failed to insert instrument models: %v", err)
	}

	questions := buildCatalog()
	for _, q := range questions {
		if err := questionRepo.Create(ctx, q); err != nil {
			log.Fatalf("Failed to insert question %s: %v", q.Code, err)
		}
	}

	entries := buildKnowledge()
	for _, entry := range entries {
		if err := knowledgeRepo.Create(ctx, entry); err != nil {
			log.Fatalf("Failed to insert knowledge entry %q: %v", entry.Title, err)
		}
	}

	fmt.Printf("Seeded %d questions and %d knowledge entries\n", len(questions), len(entries))
}

func buildCatalog() []*model.Question {
	var questions []*model.Question
	order := 0
	add := func(q *model.Question) {
		order++
		q.SortOrder = order
		questions = append(questions, q)
	}

	// Five introductory free-text questions
	intro := []string{
		"What kind of work makes you lose track of time?",
		"Describe a professional achievement you are proud of.",
		"What part of your current or most recent role drains you the most?",
		"Where do you want to be professionally in five years?",
		"What would you do if money were no concern?",
	}
	for i, text := range intro {
		add(&model.Question{
			ModelCode: model.InstrumentFiveQuestions,
			Code:      fmt.Sprintf("fq_%d", i+1),
			Text:      text,
			Type:      model.QuestionTypeText,
		})
	}

	// MBTI: two single-choice items per axis, options vote a letter
	mbtiItems := []struct {
		dim, text, optA, optB string
	}{
		{"EI", "After a long week, you recharge by...", "Going out with friends", "Spending time alone"},
		{"EI", "In group discussions you usually...", "Think out loud", "Reflect before speaking"},
		{"SN", "When solving a problem you trust...", "Concrete facts and experience", "Patterns and possibilities"},
		{"SN", "You are more drawn to...", "Practical how-to guides", "Big-picture theories"},
		{"TF", "Hard decisions should rest on...", "Objective analysis", "Impact on people"},
		{"TF", "Colleagues would call you more...", "Fair and direct", "Warm and accommodating"},
		{"JP", "Your ideal project has...", "A clear plan and deadlines", "Room to improvise"},
		{"JP", "Your workspace tends to be...", "Organized and tidy", "Flexibly cluttered"},
	}
	for i, item := range mbtiItems {
		add(&model.Question{
			ModelCode: model.InstrumentMBTI,
			Code:      fmt.Sprintf("mbti_%d", i+1),
			Text:      item.text,
			Type:      model.QuestionTypeSingle,
			Dimension: item.dim,
			Options: []model.Option{
				{Code: "a", Label: item.optA, Trait: string(item.dim[0])},
				{Code: "b", Label: item.optB, Trait: string(item.dim[1])},
			},
		})
	}

	// Big Five: scale items, one reverse-keyed per trait pair
	bigFiveItems := []struct {
		dim, text string
		reverse   bool
	}{
		{"openness", "I enjoy exploring unfamiliar ideas and approaches.", false},
		{"openness", "I prefer sticking to routines I already know.", true},
		{"conscientiousness", "I finish tasks well before their deadlines.", false},
		{"conscientiousness", "I often leave loose ends in my work.", true},
		{"extraversion", "I feel energized when presenting to a group.", false},
		{"extraversion", "I avoid being the center of attention.", true},
		{"agreeableness", "I go out of my way to help colleagues.", false},
		{"agreeableness", "I push my own agenda even when others disagree.", true},
		{"neuroticism", "I worry about things going wrong at work.", false},
		{"neuroticism", "I stay calm under tight deadlines.", true},
	}
	for i, item := range bigFiveItems {
		add(&model.Question{
			ModelCode: model.InstrumentBigFive,
			Code:      fmt.Sprintf("bf_%d", i+1),
			Text:      item.text + " (1 = strongly disagree, 5 = strongly agree)",
			Type:      model.QuestionTypeScale,
			Dimension: item.dim,
			Reverse:   item.reverse,
		})
	}

	// DISC: each option votes one style
	discItems := []struct {
		text string
		opts [4]string // D, I, S, C labels
	}{
		{"When a project stalls, my instinct is to...",
			[4]string{"Take charge and push forward", "Rally people around the goal", "Keep everyone steady and supported", "Re-check the plan and the details"}},
		{"In conflict I tend to...",
			[4]string{"Confront the issue head-on", "Talk it out and lighten the mood", "Smooth things over patiently", "Stick to facts and process"}},
		{"My teammates value me most for...",
			[4]string{"Decisiveness", "Enthusiasm", "Reliability", "Accuracy"}},
		{"Under pressure I become more...",
			[4]string{"Demanding", "Talkative", "Accommodating", "Perfectionist"}},
	}
	for i, item := range discItems {
		opts := make([]model.Option, 0, 4)
		for j, axis := range []string{"D", "I", "S", "C"} {
			opts = append(opts, model.Option{
				Code:  fmt.Sprintf("o%d", j+1),
				Label: item.opts[j],
				Trait: axis,
			})
		}
		add(&model.Question{
			ModelCode: model.InstrumentDISC,
			Code:      fmt.Sprintf("disc_%d", i+1),
			Text:      item.text,
			Type:      model.QuestionTypeSingle,
			Options:   opts,
		})
	}

	// Holland: multi-select, each option votes a RIASEC theme
	hollandItems := []struct {
		text string
		opts [6]string // R, I, A, S, E, C labels
	}{
		{"Which activities appeal to you? Select all that apply.",
			[6]string{"Building or repairing things", "Running experiments", "Designing visuals or writing", "Teaching or mentoring", "Pitching ideas to win people over", "Organizing records and schedules"}},
		{"Which weekend projects sound fun? Select all that apply.",
			[6]string{"Restoring a piece of furniture", "Solving logic puzzles", "Composing music or sketching", "Volunteering in the community", "Planning a small side business", "Budgeting and tracking expenses"}},
		{"Which work outputs feel most satisfying? Select all that apply.",
			[6]string{"A machine that finally runs", "A question finally answered", "Something beautiful that did not exist before", "A person who grew with your help", "A deal that closed", "A flawless, auditable ledger"}},
	}
	for i, item := range hollandItems {
		opts := make([]model.Option, 0, 6)
		for j, axis := range []string{"R", "I", "A", "S", "E", "C"} {
			opts = append(opts, model.Option{
				Code:  fmt.Sprintf("o%d", j+1),
				Label: item.opts[j],
				Trait: axis,
			})
		}
		add(&model.Question{
			ModelCode: model.InstrumentHolland,
			Code:      fmt.Sprintf("holland_%d", i+1),
			Text:      item.text,
			Type:      model.QuestionTypeMultiple,
			Options:   opts,
		})
	}

	// Work values: a multi-select binned by score range, plus a ranking
	add(&model.Question{
		ModelCode: model.InstrumentValues,
		Code:      "values_1",
		Text:      "Which of these matter most to you in a job? Select up to five.",
		Type:      model.QuestionTypeMultiple,
		Options: []model.Option{
			{Code: "v1", Label: "Job security", Score: 1},
			{Code: "v2", Label: "Predictable income", Score: 2},
			{Code: "v3", Label: "Close-knit team", Score: 3},
			{Code: "v4", Label: "Mentorship and belonging", Score: 4},
			{Code: "v5", Label: "Recognition for results", Score: 5},
			{Code: "v6", Label: "Ambitious targets", Score: 6},
			{Code: "v7", Label: "Flexible schedule", Score: 7},
			{Code: "v8", Label: "Independent decision-making", Score: 8},
			{Code: "v9", Label: "Learning new skills", Score: 9},
			{Code: "v10", Label: "Room to experiment", Score: 10},
		},
	})
	add(&model.Question{
		ModelCode: model.InstrumentValues,
		Code:      "values_2",
		Text:      "Rank these rewards from most to least important.",
		Type:      model.QuestionTypeSorting,
		Options: []model.Option{
			{Code: "r1", Label: "A stable long-term contract", Score: 2},
			{Code: "r2", Label: "A supportive team culture", Score: 4},
			{Code: "r3", Label: "A performance bonus", Score: 6},
			{Code: "r4", Label: "Freedom over how you work", Score: 8},
			{Code: "r5", Label: "A personal development budget", Score: 10},
		},
	})

	return questions
}

func buildKnowledge() []*model.KnowledgeEntry {
	return []*model.KnowledgeEntry{
		{Title: "MBTI types at work", ModelTag: model.InstrumentMBTI, Category: "personality",
			Content: "Extraverted types tend to prefer collaborative, fast-feedback environments, while introverted types do their best work with protected focus time. Judging types want closure and plans; perceiving types keep options open."},
		{Title: "MBTI and team composition", ModelTag: model.InstrumentMBTI, Category: "personality",
			Content: "Teams mixing sensing and intuitive preferences cover both operational detail and long-range direction, but need explicit norms to avoid talking past each other."},
		{Title: "Big Five and job performance", ModelTag: model.InstrumentBigFive, Category: "personality",
			Content: "Conscientiousness is the most consistent predictor of job performance across occupations. High openness correlates with success in creative and research roles; low neuroticism supports high-pressure work."},
		{Title: "Interpreting Big Five scores", ModelTag: model.InstrumentBigFive, Category: "personality",
			Content: "Scores near the midpoint indicate situational flexibility rather than a weak signal. Extreme scores on either end are the actionable ones for career fit."},
		{Title: "DISC styles in collaboration", ModelTag: model.InstrumentDISC, Category: "behavior",
			Content: "Dominance-led profiles drive outcomes but can steamroll consensus. Influence profiles excel at stakeholder work. Steadiness profiles anchor teams through change. Compliance profiles protect quality and process."},
		{Title: "Holland codes and occupations", ModelTag: model.InstrumentHolland, Category: "careers",
			Content: "RIASEC codes map to occupational families: Realistic to trades and engineering, Investigative to science and analytics, Artistic to design and media, Social to education and care, Enterprising to management and sales, Conventional to finance and operations. Adjacent letters blend well; opposite letters create tension."},
		{Title: "Using the top three Holland letters", ModelTag: model.InstrumentHolland, Category: "careers",
			Content: "The first letter carries the most weight in career matching; the second and third refine the environment. A flat profile suggests exploring before committing."},
		{Title: "Work values and retention", ModelTag: model.InstrumentValues, Category: "culture",
			Content: "Mismatch between personal work values and company culture predicts turnover better than salary. Security-driven people burn out in high-ambiguity startups; growth-driven people stagnate in rigid hierarchies."},
		{Title: "Culture fit versus culture add", ModelTag: "general", Category: "culture",
			Content: "Hiring for culture fit alone breeds homogeneity. Strong candidates articulate which of their values align with the organization and which they would add to it."},
		{Title: "Reading company values from the outside", ModelTag: "general", Category: "culture",
			Content: "Published values statements matter less than how a company promotes, pays and runs meetings. Candidates should probe for concrete examples of values in action."},
		{Title: "First conversations about strengths", ModelTag: model.InstrumentFiveQuestions, Category: "coaching",
			Content: "Open-ended questions about flow, pride and drain surface motivation patterns that fixed-choice instruments miss. Contradictions between the two are the richest coaching material."},
		{Title: "Career drift after five years", ModelTag: model.InstrumentFiveQuestions, Category: "coaching",
			Content: "Five-year aspirations stated early in a career reflect identity more than plans. Revisit them against assessment results to spot aspiration-profile gaps."},
	}
}
