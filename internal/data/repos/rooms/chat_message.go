package rooms

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/repoerr"
	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/dbctx"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

const defaultHistoryLimit = 200

type ChatMessageRepo interface {
	Create(dbc dbctx.Context, row *types.ChatMessage) error
	// ListByRoom returns the newest limit messages, oldest first.
	ListByRoom(dbc dbctx.Context, roomID uuid.UUID, limit int) ([]*types.ChatMessage, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) Create(dbc dbctx.Context, row *types.ChatMessage) error {
	if row == nil || row.RoomID == uuid.Nil || row.SenderID == uuid.Nil {
		return fmt.Errorf("missing room_id or sender_id")
	}
	if strings.TrimSpace(row.Text) == "" {
		return fmt.Errorf("missing text")
	}
	return repoerr.Map(dbc.DB(r.db).Create(row).Error)
}

func (r *chatMessageRepo) ListByRoom(dbc dbctx.Context, roomID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	if roomID == uuid.Nil {
		return nil, fmt.Errorf("missing room_id")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var out []*types.ChatMessage
	if err := dbc.DB(r.db).
		Where("room_id = ?", roomID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, repoerr.Map(err)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
