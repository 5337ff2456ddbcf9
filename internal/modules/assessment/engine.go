package assessment

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos"
	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/modules/assessment/oracle"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/dbctx"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

const (
	GenerateAttempts = 4
	GradeAttempts    = 2

	feedbackCorrect       = "Correct!"
	feedbackIncorrect     = "Incorrect."
	feedbackSkipped       = "Skipped."
	feedbackGradingFailed = "AI grading failed. Try again."
)

type Deps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Sessions repos.AssessmentSessionRepo
	Skills   repos.UserSkillRepo

	Generator oracle.Generator
	Grader    oracle.Grader

	// SessionTTL expires sessions idle longer than this. Zero disables expiry.
	SessionTTL time.Duration
	Shuffler   Shuffler
	Now        func() time.Time
}

type Engine struct {
	deps  Deps
	log   *logger.Logger
	locks *userLocks
}

func NewEngine(deps Deps) (*Engine, error) {
	if deps.DB == nil || deps.Log == nil || deps.Sessions == nil || deps.Skills == nil {
		return nil, fmt.Errorf("assessment engine: missing deps")
	}
	if deps.Shuffler == nil {
		deps.Shuffler = globalShuffler{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Engine{
		deps:  deps,
		log:   deps.Log.With("component", "AssessmentEngine"),
		locks: newUserLocks(),
	}, nil
}

type QuestionView struct {
	Question   string             `json:"question"`
	Options    []string           `json:"options"`
	Type       types.QuestionType `json:"type"`
	Difficulty types.Difficulty   `json:"difficulty"`
}

type StartResult struct {
	QuestionView
	Skill    string `json:"skill"`
	StartElo int    `json:"startElo"`
	Version  int64  `json:"version"`
}

type SubmitResult struct {
	ScorePercentage int      `json:"scorePercentage"`
	RawScore        *float64 `json:"rawScore"`
	Feedback        string   `json:"feedback"`
	CorrectAnswer   *string  `json:"correctAnswer"`
	EloBefore       int      `json:"eloBefore"`
	EloAfter        int      `json:"eloAfter"`
	EloDelta        int      `json:"eloDelta"`
	SessionOver     bool     `json:"sessionOver"`

	FinalScore   *int          `json:"finalScore,omitempty"`
	NextQuestion *QuestionView `json:"nextQuestion,omitempty"`

	Version int64 `json:"version"`
}

// Start discards any previous session of the user and serves the first question.
func (e *Engine) Start(ctx context.Context, userID uuid.UUID, skill string) (StartResult, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return StartResult{}, ErrSkillRequired
	}
	unlock := e.locks.lock(userID)
	defer unlock()

	dbc := dbctx.Context{Ctx: ctx}
	rating := DefaultRating
	row, err := e.deps.Skills.Get(dbc, userID, skill)
	switch {
	case err == nil:
		rating = row.Elo
	case !errors.Is(err, repos.ErrNotFound):
		return StartResult{}, fmt.Errorf("load skill: %w", err)
	}

	plan := NewPlan(e.deps.Shuffler)
	q := e.generate(ctx, skill, rating, plan[0], nil)

	now := e.deps.Now().UTC()
	s := &types.AssessmentSession{
		UserID:              userID,
		Skill:               skill,
		StartElo:            rating,
		QuestionCount:       1,
		CurrentQuestionText: q.Text,
		CurrentOptions:      nonNil(q.Options),
		CurrentAnswer:       q.Answer,
		QuestionType:        plan[0],
		Difficulty:          q.Difficulty,
		AskedQuestions:      []string{q.Text},
		QuestionPlan:        plan,
		LastActivityAt:      now,
	}
	if err := e.deps.Sessions.Replace(dbc, s); err != nil {
		return StartResult{}, fmt.Errorf("save session: %w", err)
	}
	e.log.Info("assessment started", "user_id", userID, "skill", skill, "rating", rating)

	return StartResult{
		QuestionView: viewOf(s),
		Skill:        skill,
		StartElo:     rating,
		Version:      s.Version,
	}, nil
}

// Submit grades answer against the current question and advances or closes the session.
// A non-nil expectedVersion must equal the stored session version.
func (e *Engine) Submit(ctx context.Context, userID uuid.UUID, answer string, expectedVersion *int64) (SubmitResult, error) {
	return e.advance(ctx, userID, &answer, expectedVersion)
}

// Skip scores the current question as zero without consulting the grader.
func (e *Engine) Skip(ctx context.Context, userID uuid.UUID, expectedVersion *int64) (SubmitResult, error) {
	return e.advance(ctx, userID, nil, expectedVersion)
}

func (e *Engine) advance(ctx context.Context, userID uuid.UUID, answer *string, expectedVersion *int64) (SubmitResult, error) {
	unlock := e.locks.lock(userID)
	defer unlock()

	dbc := dbctx.Context{Ctx: ctx}
	s, err := e.deps.Sessions.GetByUser(dbc, userID)
	if errors.Is(err, repos.ErrNotFound) {
		return SubmitResult{}, ErrNoActiveSession
	}
	if err != nil {
		return SubmitResult{}, fmt.Errorf("load session: %w", err)
	}
	if s.Completed() {
		return SubmitResult{}, ErrNoActiveSession
	}
	now := e.deps.Now().UTC()
	if ttl := e.deps.SessionTTL; ttl > 0 && now.Sub(s.LastActivityAt) > ttl {
		return SubmitResult{}, ErrSessionExpired
	}
	if expectedVersion != nil && *expectedVersion != s.Version {
		return SubmitResult{}, ErrStaleSession
	}

	res := e.score(ctx, s, answer)

	s.AttemptCount++
	if res.ScorePercentage == 100 {
		s.CorrectCount++
		s.Streak++
	} else {
		s.Streak = 0
	}
	if answer != nil {
		s.Answer = *answer
	} else {
		s.Answer = ""
	}
	s.ScorePercentage = res.ScorePercentage
	s.Feedback = res.Feedback
	s.AskedQuestions = appendUnique(s.AskedQuestions, s.CurrentQuestionText)
	s.LastActivityAt = now

	sessionOver := s.QuestionCount >= MaxQuestions
	if sessionOver {
		s.CompletedAt = &now
	}

	err = e.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		skill, err := e.deps.Skills.Get(txc, userID, s.Skill)
		if errors.Is(err, repos.ErrNotFound) {
			skill = &types.UserSkill{UserID: userID, Name: s.Skill, Elo: DefaultRating}
		} else if err != nil {
			return fmt.Errorf("load skill: %w", err)
		}

		before := skill.Elo
		after, delta := UpdateRating(before, s.Difficulty, res.ScorePercentage)
		skill.Elo = after
		skill.Mastery = NudgeMastery(skill.Mastery, res.ScorePercentage)
		if err := e.deps.Skills.Upsert(txc, skill); err != nil {
			return fmt.Errorf("save skill: %w", err)
		}

		s.EloBefore = &before
		s.EloAfter = &after
		res.EloBefore, res.EloAfter, res.EloDelta = before, after, delta
		return e.deps.Sessions.Save(txc, s)
	})
	if err != nil {
		return SubmitResult{}, e.saveErr(err)
	}

	if sessionOver {
		final := s.CorrectCount
		res.SessionOver = true
		res.FinalScore = &final
		res.Version = s.Version
		e.log.Info("assessment completed", "user_id", userID, "skill", s.Skill, "final_score", final)
		return res, nil
	}

	next := s.QuestionCount
	if len(s.QuestionPlan) <= next {
		s.QuestionPlan = ExtendPlan(s.QuestionPlan, s.QuestionCount, e.deps.Shuffler)
	}
	qType := s.QuestionPlan[next]
	q := e.generate(ctx, s.Skill, res.EloAfter, qType, s.AskedQuestions)

	s.CurrentQuestionText = q.Text
	s.CurrentOptions = nonNil(q.Options)
	s.CurrentAnswer = q.Answer
	s.QuestionType = qType
	s.Difficulty = q.Difficulty
	s.QuestionCount = next + 1
	s.AskedQuestions = appendUnique(s.AskedQuestions, q.Text)
	s.LastActivityAt = e.deps.Now().UTC()

	if err := e.deps.Sessions.Save(dbc, s); err != nil {
		return SubmitResult{}, e.saveErr(err)
	}

	view := viewOf(s)
	res.NextQuestion = &view
	res.Version = s.Version
	return res, nil
}

// score never fails: grader errors become a zero score with a fixed message.
func (e *Engine) score(ctx context.Context, s *types.AssessmentSession, answer *string) SubmitResult {
	reference := s.CurrentAnswer
	if answer == nil {
		return SubmitResult{Feedback: feedbackSkipped, CorrectAnswer: &reference}
	}

	switch s.QuestionType {
	case types.QuestionObjective:
		if strings.TrimSpace(*answer) == strings.TrimSpace(reference) {
			return SubmitResult{ScorePercentage: 100, Feedback: feedbackCorrect}
		}
		return SubmitResult{Feedback: feedbackIncorrect, CorrectAnswer: &reference}
	default:
		raw := 0.0
		res := SubmitResult{RawScore: &raw, Feedback: feedbackGradingFailed, CorrectAnswer: &reference}
		g, ok := e.grade(ctx, s.CurrentQuestionText, reference, *answer)
		if !ok {
			return res
		}
		raw = clampFloat(g.RawScore, 0, 100)
		res.ScorePercentage = BucketScore(raw)
		res.Feedback = g.Feedback
		return res
	}
}

func (e *Engine) grade(ctx context.Context, question, reference, answer string) (oracle.Grade, bool) {
	if e.deps.Grader == nil {
		return oracle.Grade{}, false
	}
	for attempt := 1; attempt <= GradeAttempts; attempt++ {
		g, err := e.deps.Grader.Grade(ctx, question, reference, answer)
		if err == nil {
			return g, true
		}
		e.log.Warn("grading attempt failed", "attempt", attempt, "error", err)
		if ctx.Err() != nil {
			break
		}
	}
	return oracle.Grade{}, false
}

func (e *Engine) generate(ctx context.Context, skill string, rating int, qType types.QuestionType, avoid []string) oracle.Question {
	if e.deps.Generator != nil {
		for attempt := 1; attempt <= GenerateAttempts; attempt++ {
			q, err := e.deps.Generator.GenerateQuestion(ctx, oracle.QuestionRequest{
				Skill:  skill,
				Rating: rating,
				Type:   qType,
				Avoid:  avoid,
			})
			if err == nil && strings.TrimSpace(q.Text) != "" && !slices.Contains(avoid, q.Text) {
				q.Type = qType
				return q
			}
			e.log.Warn("question generation attempt failed", "attempt", attempt, "skill", skill, "type", qType, "error", err)
			if ctx.Err() != nil {
				break
			}
		}
	}
	e.log.Warn("using fallback question", "skill", skill, "type", qType)
	return FallbackQuestion(skill, qType)
}

func (e *Engine) saveErr(err error) error {
	if errors.Is(err, repos.ErrConflict) {
		return ErrStaleSession
	}
	return fmt.Errorf("save assessment: %w", err)
}

// FallbackQuestion is served when every generation attempt fails.
func FallbackQuestion(skill string, qType types.QuestionType) oracle.Question {
	q := oracle.Question{
		Text:       fmt.Sprintf("Explain the core concepts of %s. (Fallback Question)", skill),
		Answer:     "All of the above",
		Difficulty: types.DifficultyEasy,
		Type:       qType,
	}
	if qType == types.QuestionObjective {
		q.Options = []string{"Concept A", "Concept B", "Concept C", "All of the above"}
	}
	return q
}

func viewOf(s *types.AssessmentSession) QuestionView {
	return QuestionView{
		Question:   s.CurrentQuestionText,
		Options:    nonNil(s.CurrentOptions),
		Type:       s.QuestionType,
		Difficulty: s.Difficulty,
	}
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
