package oracle

import (
	"context"
	"errors"

	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
)

var (
	// ErrMalformedOutput marks a provider answer that parsed but cannot be served.
	ErrMalformedOutput = errors.New("malformed oracle output")
	// ErrDuplicateQuestion marks a generated question already in the avoid list.
	ErrDuplicateQuestion = errors.New("duplicate question")
	ErrNoProviders       = errors.New("no oracle providers configured")
)

type QuestionRequest struct {
	Skill  string
	Rating int
	Type   types.QuestionType
	// Avoid holds question texts already served in this session.
	Avoid []string
}

type Question struct {
	Text       string
	Options    []string
	Answer     string
	Difficulty types.Difficulty
	Type       types.QuestionType
}

type Grade struct {
	// RawScore is clamped to [0, 100].
	RawScore float64
	Feedback string
}

type Generator interface {
	GenerateQuestion(ctx context.Context, req QuestionRequest) (Question, error)
}

type Grader interface {
	Grade(ctx context.Context, question, reference, answer string) (Grade, error)
}
