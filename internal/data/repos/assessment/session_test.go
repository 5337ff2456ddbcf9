package assessment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/repoerr"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/testutil"
	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/dbctx"
)

func newSession(userID uuid.UUID, skill, question string) *types.AssessmentSession {
	return &types.AssessmentSession{
		UserID:              userID,
		Skill:               skill,
		StartElo:            1200,
		QuestionCount:       1,
		CurrentQuestionText: question,
		CurrentAnswer:       "x",
		QuestionType:        types.QuestionSubjective,
		Difficulty:          types.DifficultyMedium,
		AskedQuestions:      []string{question},
		QuestionPlan:        []types.QuestionType{types.QuestionSubjective},
	}
}

func TestReplaceKeepsOneSessionPerUser(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, db, "ada")
	repo := NewSessionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	require.NoError(t, repo.Replace(dbc, newSession(u.ID, "Go", "q1")))
	require.NoError(t, repo.Replace(dbc, newSession(u.ID, "Rust", "q2")))

	got, err := repo.GetByUser(dbc, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rust", got.Skill)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, []string{"q2"}, []string(got.AskedQuestions))

	var n int64
	require.NoError(t, db.Model(&types.AssessmentSession{}).Where("user_id = ?", u.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestSaveComparesAndSwapsVersion(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, db, "ada")
	repo := NewSessionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	require.NoError(t, repo.Replace(dbc, newSession(u.ID, "Go", "q1")))

	a, err := repo.GetByUser(dbc, u.ID)
	require.NoError(t, err)
	b, err := repo.GetByUser(dbc, u.ID)
	require.NoError(t, err)

	a.ScorePercentage = 100
	require.NoError(t, repo.Save(dbc, a))
	assert.Equal(t, int64(2), a.Version)

	b.ScorePercentage = 0
	assert.ErrorIs(t, repo.Save(dbc, b), repoerr.ErrConflict)
	assert.Equal(t, int64(1), b.Version)

	got, err := repo.GetByUser(dbc, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.ScorePercentage)
	assert.Equal(t, int64(2), got.Version)
}
