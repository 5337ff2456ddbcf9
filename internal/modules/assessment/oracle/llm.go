package oracle

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

const defaultFeedback = "No feedback provided."

// LLM implements Generator and Grader on top of a provider chain.
type LLM struct {
	log     *logger.Logger
	chain   *Chain
	prompts *promptSet
}

func NewLLM(log *logger.Logger, chain *Chain) (*LLM, error) {
	if chain == nil {
		return nil, ErrNoProviders
	}
	ps, err := loadPrompts(promptsYAML)
	if err != nil {
		return nil, err
	}
	return &LLM{log: log.With("component", "OracleLLM"), chain: chain, prompts: ps}, nil
}

func (l *LLM) GenerateQuestion(ctx context.Context, req QuestionRequest) (Question, error) {
	sys, usr, err := l.prompts.Question.render(req)
	if err != nil {
		return Question{}, err
	}
	obj, err := l.chain.GenerateJSON(ctx, sys, usr, "assessment_question_v1", questionSchema())
	if err != nil {
		return Question{}, err
	}
	return coerceQuestion(obj, req)
}

func (l *LLM) Grade(ctx context.Context, question, reference, answer string) (Grade, error) {
	sys, usr, err := l.prompts.Grade.render(map[string]string{
		"Question":  question,
		"Reference": reference,
		"Answer":    answer,
	})
	if err != nil {
		return Grade{}, err
	}
	obj, err := l.chain.GenerateJSON(ctx, sys, usr, "assessment_grade_v1", gradeSchema())
	if err != nil {
		return Grade{}, err
	}
	return coerceGrade(obj), nil
}

func coerceQuestion(obj map[string]any, req QuestionRequest) (Question, error) {
	text := strings.TrimSpace(anyString(obj["question"]))
	if text == "" {
		return Question{}, fmt.Errorf("%w: missing question text", ErrMalformedOutput)
	}
	for _, prev := range req.Avoid {
		if strings.TrimSpace(prev) == text {
			return Question{}, ErrDuplicateQuestion
		}
	}

	var options []string
	if raw, ok := obj["options"].([]any); ok {
		for _, o := range raw {
			if s := strings.TrimSpace(anyString(o)); s != "" {
				options = append(options, s)
			}
		}
	}
	if req.Type == types.QuestionObjective && len(options) < 2 {
		return Question{}, fmt.Errorf("%w: objective question with %d options", ErrMalformedOutput, len(options))
	}
	if req.Type != types.QuestionObjective {
		options = nil
	}

	answer := strings.TrimSpace(anyString(obj["answer"]))
	if answer == "" {
		answer = "Refer to documentation"
	}

	return Question{
		Text:       text,
		Options:    options,
		Answer:     answer,
		Difficulty: ParseDifficulty(anyString(obj["difficulty"])),
		Type:       req.Type,
	}, nil
}

func coerceGrade(obj map[string]any) Grade {
	score := 0.0
	switch v := obj["score"].(type) {
	case float64:
		score = v
	case int:
		score = float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			score = f
		}
	}
	if math.IsNaN(score) {
		score = 0
	}
	score = math.Max(0, math.Min(100, score))

	feedback := strings.TrimSpace(anyString(obj["feedback"]))
	if feedback == "" {
		feedback = defaultFeedback
	}
	return Grade{RawScore: score, Feedback: feedback}
}

// ParseDifficulty is case-insensitive and defaults to Medium.
func ParseDifficulty(s string) types.Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return types.DifficultyEasy
	case "hard":
		return types.DifficultyHard
	default:
		return types.DifficultyMedium
	}
}

func anyString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func questionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"options": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"answer": map[string]any{"type": "string"},
			"difficulty": map[string]any{
				"type": "string",
				"enum": []any{"Easy", "Medium", "Hard"},
			},
		},
		"required":             []any{"question", "options", "answer", "difficulty"},
		"additionalProperties": false,
	}
}

func gradeSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score":    map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"feedback": map[string]any{"type": "string"},
		},
		"required":             []any{"score", "feedback"},
		"additionalProperties": false,
	}
}
