package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/repoerr"
	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/dbctx"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

type UserSkillRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID, name string) (*types.UserSkill, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserSkill, error)
	// Upsert writes elo and mastery for (user_id, name), creating the row if needed.
	Upsert(dbc dbctx.Context, row *types.UserSkill) error
}

type userSkillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserSkillRepo(db *gorm.DB, baseLog *logger.Logger) UserSkillRepo {
	return &userSkillRepo{db: db, log: baseLog.With("repo", "UserSkillRepo")}
}

func (r *userSkillRepo) Get(dbc dbctx.Context, userID uuid.UUID, name string) (*types.UserSkill, error) {
	name = strings.TrimSpace(name)
	if userID == uuid.Nil || name == "" {
		return nil, fmt.Errorf("missing user_id or skill name")
	}
	var row types.UserSkill
	if err := dbc.DB(r.db).Where("user_id = ? AND name = ?", userID, name).First(&row).Error; err != nil {
		return nil, repoerr.Map(err)
	}
	return &row, nil
}

func (r *userSkillRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserSkill, error) {
	var out []*types.UserSkill
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, repoerr.Map(err)
	}
	return out, nil
}

func (r *userSkillRepo) Upsert(dbc dbctx.Context, row *types.UserSkill) error {
	if row == nil || row.UserID == uuid.Nil || strings.TrimSpace(row.Name) == "" {
		return fmt.Errorf("missing user_id or skill name")
	}
	row.UpdatedAt = time.Now().UTC()
	err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"elo", "mastery", "updated_at"}),
		}).
		Create(row).Error
	return repoerr.Map(err)
}
