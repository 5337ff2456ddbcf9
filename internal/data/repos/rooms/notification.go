package rooms

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/repoerr"
	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/dbctx"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

type NotificationRepo interface {
	Create(dbc dbctx.Context, row *types.Notification) error
	// ListForRecipient returns newest first.
	ListForRecipient(dbc dbctx.Context, recipientID uuid.UUID) ([]*types.Notification, error)
	// FindPending looks up an unread notification of kind from sender about relatedID.
	FindPending(dbc dbctx.Context, recipientID, senderID uuid.UUID, kind types.NotificationKind, relatedID string) (*types.Notification, error)
	MarkRead(dbc dbctx.Context, recipientID, id uuid.UUID) error
	Delete(dbc dbctx.Context, recipientID, id uuid.UUID) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Create(dbc dbctx.Context, row *types.Notification) error {
	if row == nil || row.RecipientID == uuid.Nil {
		return fmt.Errorf("missing recipient")
	}
	if row.Kind == "" {
		row.Kind = types.NotificationInfo
	}
	return repoerr.Map(dbc.DB(r.db).Create(row).Error)
}

func (r *notificationRepo) ListForRecipient(dbc dbctx.Context, recipientID uuid.UUID) ([]*types.Notification, error) {
	var out []*types.Notification
	if err := dbc.DB(r.db).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, repoerr.Map(err)
	}
	return out, nil
}

func (r *notificationRepo) FindPending(dbc dbctx.Context, recipientID, senderID uuid.UUID, kind types.NotificationKind, relatedID string) (*types.Notification, error) {
	var row types.Notification
	err := dbc.DB(r.db).
		Where(map[string]any{
			"recipient_id": recipientID,
			"sender_id":    senderID,
			"kind":         kind,
			"related_id":   relatedID,
			"read":         false,
		}).
		First(&row).Error
	if err != nil {
		return nil, repoerr.Map(err)
	}
	return &row, nil
}

func (r *notificationRepo) MarkRead(dbc dbctx.Context, recipientID, id uuid.UUID) error {
	res := dbc.DB(r.db).
		Model(&types.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true)
	if res.Error != nil {
		return repoerr.Map(res.Error)
	}
	if res.RowsAffected == 0 {
		return repoerr.ErrNotFound
	}
	return nil
}

func (r *notificationRepo) Delete(dbc dbctx.Context, recipientID, id uuid.UUID) error {
	res := dbc.DB(r.db).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&types.Notification{})
	if res.Error != nil {
		return repoerr.Map(res.Error)
	}
	if res.RowsAffected == 0 {
		return repoerr.ErrNotFound
	}
	return nil
}
