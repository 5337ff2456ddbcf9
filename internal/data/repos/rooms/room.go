package rooms

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

type RoomRepo interface {
	Create(dbc dbctx.Context, row *types.Room) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Room, error)
	// AddMember is idempotent.
	AddMember(dbc dbctx.Context, roomID, userID uuid.UUID) error
	// IsMember is true for the owner and for explicit members.
	IsMember(dbc dbctx.Context, roomID, userID uuid.UUID) (bool, error)
}

type roomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoomRepo(db *gorm.DB, baseLog *logger.Logger) RoomRepo {
	return &roomRepo{db: db, log: baseLog.With("repo", "RoomRepo")}
}

func (r *roomRepo) Create(dbc dbctx.Context, row *types.Room) error {
	if row == nil || strings.TrimSpace(row.Name) == "" || row.OwnerID == uuid.Nil {
		return fmt.Errorf("missing room name or owner")
	}
	return repoerr.Map(dbc.DB(r.db).Create(row).Error)
}

func (r *roomRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Room, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing room_id")
	}
	var row types.Room
	if err := dbc.DB(r.db).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, repoerr.Map(err)
	}
	return &row, nil
}

func (r *roomRepo) AddMember(dbc dbctx.Context, roomID, userID uuid.UUID) error {
	if roomID == uuid.Nil || userID == uuid.Nil {
		return fmt.Errorf("missing room_id or user_id")
	}
	row := &types.RoomMember{RoomID: roomID, UserID: userID, CreatedAt: time.Now().UTC()}
	err := dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
	return repoerr.Map(err)
}

func (r *roomRepo) IsMember(dbc dbctx.Context, roomID, userID uuid.UUID) (bool, error) {
	room, err := r.GetByID(dbc, roomID)
	if err != nil {
		return false, err
	}
	if room.OwnerID == userID {
		return true, nil
	}
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&n).Error; err != nil {
		return false, repoerr.Map(err)
	}
	return n > 0, nil
}
