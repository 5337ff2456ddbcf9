package assessment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/repoerr"
	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/dbctx"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

type SessionRepo interface {
	GetByUser(dbc dbctx.Context, userID uuid.UUID) (*types.AssessmentSession, error)
	// Replace deletes every session of row.UserID and inserts row with version 1.
	Replace(dbc dbctx.Context, row *types.AssessmentSession) error
	// Save writes row if the stored version still equals row.Version, then bumps it.
	// A lost race returns repoerr.ErrConflict and leaves row.Version unchanged.
	Save(dbc dbctx.Context, row *types.AssessmentSession) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "AssessmentSessionRepo")}
}

func (r *sessionRepo) GetByUser(dbc dbctx.Context, userID uuid.UUID) (*types.AssessmentSession, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var row types.AssessmentSession
	if err := dbc.DB(r.db).Where("user_id = ?", userID).First(&row).Error; err != nil {
		return nil, repoerr.Map(err)
	}
	return &row, nil
}

func (r *sessionRepo) Replace(dbc dbctx.Context, row *types.AssessmentSession) error {
	if row == nil || row.UserID == uuid.Nil {
		return fmt.Errorf("missing session user_id")
	}
	now := time.Now().UTC()
	row.ID = uuid.Nil
	row.Version = 1
	row.CompletedAt = nil
	if row.LastActivityAt.IsZero() {
		row.LastActivityAt = now
	}
	return dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", row.UserID).Delete(&types.AssessmentSession{}).Error; err != nil {
			return repoerr.Map(err)
		}
		if err := tx.Create(row).Error; err != nil {
			return repoerr.Map(err)
		}
		return nil
	})
}

func (r *sessionRepo) Save(dbc dbctx.Context, row *types.AssessmentSession) error {
	if row == nil || row.ID == uuid.Nil {
		return fmt.Errorf("missing session id")
	}
	prev := row.Version
	row.Version = prev + 1
	row.UpdatedAt = time.Now().UTC()

	res := dbc.DB(r.db).
		Model(row).
		Where("version = ?", prev).
		Select("*").
		Omit("id", "created_at").
		Updates(row)
	if res.Error != nil {
		row.Version = prev
		return repoerr.Map(res.Error)
	}
	if res.RowsAffected == 0 {
		row.Version = prev
		r.log.Debug("session save lost version race", "session_id", row.ID, "version", prev)
		return repoerr.ErrConflict
	}
	return nil
}
