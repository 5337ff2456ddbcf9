package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos"
	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/dbctx"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime"
)

type Deps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Hub     *realtime.Hub
	Deliver Deliverer

	Users         repos.UserRepo
	Rooms         repos.RoomRepo
	Messages      repos.ChatMessageRepo
	Notifications repos.NotificationRepo
}

type Service struct {
	deps Deps
	log  *logger.Logger
}

func NewService(deps Deps) (*Service, error) {
	if deps.DB == nil || deps.Log == nil || deps.Hub == nil {
		return nil, fmt.Errorf("rooms service: missing deps")
	}
	if deps.Users == nil || deps.Rooms == nil || deps.Messages == nil || deps.Notifications == nil {
		return nil, fmt.Errorf("rooms service: missing repos")
	}
	if deps.Deliver == nil {
		deps.Deliver = &HubDeliverer{Hub: deps.Hub}
	}
	return &Service{deps: deps, log: deps.Log.With("component", "RoomsService")}, nil
}

func (s *Service) Connect(userID uuid.UUID) *realtime.Conn { return s.deps.Hub.Connect(userID) }

func (s *Service) Register(userID, connID uuid.UUID) error {
	return s.deps.Hub.Register(userID, connID)
}

// Join resolves the caller's username and adds the connection to the room's presence.
// Hub rooms are keyed by the canonical UUID string, the same key SendChat broadcasts to.
func (s *Service) Join(ctx context.Context, roomID, connID, userID uuid.UUID) error {
	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	return s.deps.Hub.Join(roomID.String(), connID, realtime.Identity{ID: u.ID, Username: u.Username})
}

func (s *Service) Leave(roomID, userID, connID uuid.UUID) {
	s.deps.Hub.Leave(roomID.String(), userID, connID)
}

func (s *Service) Disconnect(connID uuid.UUID) { s.deps.Hub.Disconnect(connID) }

// SendChat persists the message, then broadcasts it to the whole room, sender included.
// Failures after validation are logged; the caller is not told whether delivery happened.
func (s *Service) SendChat(ctx context.Context, roomID uuid.UUID, senderID uuid.UUID, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	dbc := dbctx.Context{Ctx: ctx}
	msg := &types.ChatMessage{RoomID: roomID, SenderID: senderID, Text: text}
	if err := s.deps.Messages.Create(dbc, msg); err != nil {
		s.log.Error("chat persist failed; not broadcasting", "room", roomID, "sender", senderID, "error", err)
		return nil
	}

	username := ""
	if u, err := s.deps.Users.GetByID(dbc, senderID); err == nil {
		username = u.Username
	} else {
		s.log.Warn("chat sender lookup failed", "sender", senderID, "error", err)
	}

	room := roomID.String()
	err := s.deps.Deliver.Deliver(ctx, realtime.Envelope{
		Room: room,
		Message: realtime.Message{
			Event: realtime.EventMessage,
			Room:  room,
			Data: realtime.ChatPayload{
				ID:        msg.ID.String(),
				Room:      room,
				Sender:    realtime.ChatSender{ID: senderID.String(), Username: username},
				Text:      msg.Text,
				Timestamp: msg.Timestamp,
			},
		},
	})
	if err != nil {
		s.log.Error("chat broadcast failed", "room", roomID, "message_id", msg.ID, "error", err)
	}
	return nil
}

// SyncTimer relays the timer state to every other connection in the room. connID must
// belong to userID, since it decides who is skipped.
func (s *Service) SyncTimer(ctx context.Context, roomID, userID, connID uuid.UUID, state realtime.TimerState) error {
	if !s.deps.Hub.Owns(connID, userID) {
		return realtime.ErrUnknownConnection
	}
	room := roomID.String()
	return s.deps.Deliver.Deliver(ctx, realtime.Envelope{
		Room:    room,
		Except:  connID,
		Message: realtime.Message{Event: realtime.EventTimerUpdate, Room: room, Data: state},
	})
}

// History returns persisted chat, oldest first, with sender usernames resolved.
func (s *Service) History(ctx context.Context, roomID uuid.UUID, limit int) ([]realtime.ChatPayload, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.deps.Messages.ListByRoom(dbc, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	seen := map[uuid.UUID]bool{}
	for _, m := range rows {
		if !seen[m.SenderID] {
			seen[m.SenderID] = true
			ids = append(ids, m.SenderID)
		}
	}
	users, err := s.deps.Users.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load senders: %w", err)
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	out := make([]realtime.ChatPayload, 0, len(rows))
	for _, m := range rows {
		out = append(out, realtime.ChatPayload{
			ID:        m.ID.String(),
			Room:      m.RoomID.String(),
			Sender:    realtime.ChatSender{ID: m.SenderID.String(), Username: names[m.SenderID]},
			Text:      m.Text,
			Timestamp: m.Timestamp,
		})
	}
	return out, nil
}

func (s *Service) user(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	u, err := s.deps.Users.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (s *Service) room(dbc dbctx.Context, roomID uuid.UUID) (*types.Room, error) {
	r, err := s.deps.Rooms.GetByID(dbc, roomID)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load room: %w", err)
	}
	return r, nil
}
