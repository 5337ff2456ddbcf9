package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

type fakeProvider struct {
	name  string
	out   map[string]any
	err   error
	calls int
	user  string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) GenerateJSON(_ context.Context, _ string, user string, _ string, _ map[string]any) (map[string]any, error) {
	f.calls++
	f.user = user
	return f.out, f.err
}

func newLLM(t *testing.T, providers ...Provider) *LLM {
	t.Helper()
	l, err := NewLLM(logger.NewNop(), NewChain(logger.NewNop(), providers...))
	require.NoError(t, err)
	return l
}

func TestChainFallsThroughToNextProvider(t *testing.T) {
	first := &fakeProvider{name: "groq", err: errors.New("rate limited")}
	second := &fakeProvider{name: "openai", out: map[string]any{"ok": true}}
	chain := NewChain(logger.NewNop(), first, nil, second)

	obj, err := chain.GenerateJSON(context.Background(), "s", "u", "x", nil)
	require.NoError(t, err)
	assert.Equal(t, true, obj["ok"])
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 2, chain.Len())
}

func TestChainReportsAllFailures(t *testing.T) {
	chain := NewChain(logger.NewNop(),
		&fakeProvider{name: "a", err: errors.New("boom")},
		&fakeProvider{name: "b", err: errors.New("bust")},
	)
	_, err := chain.GenerateJSON(context.Background(), "s", "u", "x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: boom")
	assert.Contains(t, err.Error(), "b: bust")

	_, err = NewChain(logger.NewNop()).GenerateJSON(context.Background(), "s", "u", "x", nil)
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestGenerateQuestionObjective(t *testing.T) {
	p := &fakeProvider{name: "p", out: map[string]any{
		"question":   " What does defer do? ",
		"options":    []any{"Runs later", "Runs now", "", "Panics"},
		"answer":     "Runs later",
		"difficulty": "hard",
	}}
	q, err := newLLM(t, p).GenerateQuestion(context.Background(), QuestionRequest{
		Skill:  "Go",
		Rating: 1300,
		Type:   types.QuestionObjective,
		Avoid:  []string{"What is a slice?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "What does defer do?", q.Text)
	assert.Equal(t, []string{"Runs later", "Runs now", "Panics"}, q.Options)
	assert.Equal(t, types.DifficultyHard, q.Difficulty)
	assert.Equal(t, types.QuestionObjective, q.Type)

	assert.Contains(t, p.user, "Topic: Go")
	assert.Contains(t, p.user, "multiple choice")
	assert.Contains(t, p.user, "- What is a slice?")
}

func TestGenerateQuestionRejectsMalformedAndDuplicates(t *testing.T) {
	ctx := context.Background()

	_, err := newLLM(t, &fakeProvider{name: "p", out: map[string]any{"question": " "}}).
		GenerateQuestion(ctx, QuestionRequest{Skill: "Go", Type: types.QuestionSubjective})
	assert.ErrorIs(t, err, ErrMalformedOutput)

	_, err = newLLM(t, &fakeProvider{name: "p", out: map[string]any{"question": "Q", "options": []any{"only"}}}).
		GenerateQuestion(ctx, QuestionRequest{Skill: "Go", Type: types.QuestionObjective})
	assert.ErrorIs(t, err, ErrMalformedOutput)

	_, err = newLLM(t, &fakeProvider{name: "p", out: map[string]any{"question": "Q1"}}).
		GenerateQuestion(ctx, QuestionRequest{Skill: "Go", Type: types.QuestionSubjective, Avoid: []string{"Q1 "}})
	assert.ErrorIs(t, err, ErrDuplicateQuestion)
}

func TestGenerateSubjectiveDropsOptionsAndDefaults(t *testing.T) {
	q, err := newLLM(t, &fakeProvider{name: "p", out: map[string]any{
		"question": "Explain channels.",
		"options":  []any{"a", "b"},
	}}).GenerateQuestion(context.Background(), QuestionRequest{Skill: "Go", Type: types.QuestionSubjective})
	require.NoError(t, err)
	assert.Nil(t, q.Options)
	assert.Equal(t, types.DifficultyMedium, q.Difficulty)
	assert.Equal(t, "Refer to documentation", q.Answer)
}

func TestGradeClampsScoreAndDefaultsFeedback(t *testing.T) {
	g, err := newLLM(t, &fakeProvider{name: "p", out: map[string]any{"score": float64(140)}}).
		Grade(context.Background(), "q", "ref", "ans")
	require.NoError(t, err)
	assert.Equal(t, 100.0, g.RawScore)
	assert.Equal(t, defaultFeedback, g.Feedback)

	g, err = newLLM(t, &fakeProvider{name: "p", out: map[string]any{"score": "-5", "feedback": "Close."}}).
		Grade(context.Background(), "q", "ref", "ans")
	require.NoError(t, err)
	assert.Equal(t, 0.0, g.RawScore)
	assert.Equal(t, "Close.", g.Feedback)
}

func TestEmbeddedPromptsLoad(t *testing.T) {
	ps, err := loadPrompts(promptsYAML)
	require.NoError(t, err)
	_, usr, err := ps.Grade.render(map[string]string{"Question": "Q", "Reference": "R", "Answer": "A"})
	require.NoError(t, err)
	assert.Contains(t, usr, `"""A"""`)

	_, err = loadPrompts([]byte("question:\n  system: x\n"))
	assert.Error(t, err)
}
