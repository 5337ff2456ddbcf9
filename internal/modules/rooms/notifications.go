package rooms

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos"
	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/dbctx"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime"
)

// Invite stores an invite for target and pushes it if they are connected.
func (s *Service) Invite(ctx context.Context, senderID, targetID, roomID uuid.UUID) (*types.Notification, error) {
	dbc := dbctx.Context{Ctx: ctx}
	sender, err := s.user(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.user(ctx, targetID); err != nil {
		return nil, err
	}
	room, err := s.room(dbc, roomID)
	if err != nil {
		return nil, err
	}

	n := &types.Notification{
		RecipientID: targetID,
		SenderID:    &sender.ID,
		Message:     fmt.Sprintf("%s invited you to join room: %s", sender.Username, room.Name),
		Kind:        types.NotificationInvite,
		RelatedID:   room.ID.String(),
	}
	if err := s.deps.Notifications.Create(dbc, n); err != nil {
		return nil, fmt.Errorf("save invite: %w", err)
	}
	s.push(ctx, n)
	return n, nil
}

// RequestJoin asks the room owner for access on behalf of userID.
func (s *Service) RequestJoin(ctx context.Context, userID, roomID uuid.UUID) (*types.Notification, error) {
	requester, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	var n *types.Notification
	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		room, err := s.room(dbc, roomID)
		if err != nil {
			return err
		}
		member, err := s.deps.Rooms.IsMember(dbc, room.ID, userID)
		if err != nil {
			return fmt.Errorf("check membership: %w", err)
		}
		if member {
			return ErrAlreadyMember
		}
		_, err = s.deps.Notifications.FindPending(dbc, room.OwnerID, userID, types.NotificationJoinRequest, room.ID.String())
		if err == nil {
			return ErrRequestPending
		}
		if !errors.Is(err, repos.ErrNotFound) {
			return fmt.Errorf("check pending request: %w", err)
		}

		n = &types.Notification{
			RecipientID: room.OwnerID,
			SenderID:    &requester.ID,
			Message:     fmt.Sprintf("%s wants to join %s", requester.Username, room.Name),
			Kind:        types.NotificationJoinRequest,
			RelatedID:   room.ID.String(),
		}
		return s.deps.Notifications.Create(dbc, n)
	})
	if err != nil {
		return nil, err
	}
	s.push(ctx, n)
	return n, nil
}

// ApproveJoin lets the owner admit userID, consuming the request notification if given.
func (s *Service) ApproveJoin(ctx context.Context, ownerID, roomID, userID uuid.UUID, requestID *uuid.UUID) (*types.Notification, error) {
	var n *types.Notification
	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		room, err := s.room(dbc, roomID)
		if err != nil {
			return err
		}
		if room.OwnerID != ownerID {
			return ErrNotRoomOwner
		}
		if err := s.deps.Rooms.AddMember(dbc, room.ID, userID); err != nil {
			return fmt.Errorf("add member: %w", err)
		}
		if requestID != nil {
			err := s.deps.Notifications.Delete(dbc, ownerID, *requestID)
			if err != nil && !errors.Is(err, repos.ErrNotFound) {
				return fmt.Errorf("delete request: %w", err)
			}
		}

		n = &types.Notification{
			RecipientID: userID,
			SenderID:    &ownerID,
			Message:     fmt.Sprintf("Your request to join %s was approved!", room.Name),
			Kind:        types.NotificationInfo,
			RelatedID:   room.ID.String(),
		}
		return s.deps.Notifications.Create(dbc, n)
	})
	if err != nil {
		return nil, err
	}
	s.push(ctx, n)
	return n, nil
}

// AcceptInvite adds userID to the room. It reports whether they already had access.
func (s *Service) AcceptInvite(ctx context.Context, userID, roomID uuid.UUID) (alreadyMember bool, err error) {
	dbc := dbctx.Context{Ctx: ctx}
	room, err := s.room(dbc, roomID)
	if err != nil {
		return false, err
	}
	member, err := s.deps.Rooms.IsMember(dbc, room.ID, userID)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	if member {
		return true, nil
	}
	if err := s.deps.Rooms.AddMember(dbc, room.ID, userID); err != nil {
		return false, fmt.Errorf("add member: %w", err)
	}
	return false, nil
}

func (s *Service) ListNotifications(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error) {
	return s.deps.Notifications.ListForRecipient(dbctx.Context{Ctx: ctx}, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return notificationErr(s.deps.Notifications.MarkRead(dbctx.Context{Ctx: ctx}, userID, id))
}

func (s *Service) DeleteNotification(ctx context.Context, userID, id uuid.UUID) error {
	return notificationErr(s.deps.Notifications.Delete(dbctx.Context{Ctx: ctx}, userID, id))
}

func notificationErr(err error) error {
	if errors.Is(err, repos.ErrNotFound) {
		return ErrNotificationAbsent
	}
	return err
}

// push is best effort; an offline recipient still finds the row in their list.
func (s *Service) push(ctx context.Context, n *types.Notification) {
	err := s.deps.Deliver.Deliver(ctx, realtime.Envelope{
		UserID:  n.RecipientID,
		Message: realtime.Message{Event: realtime.EventNotification, Data: n},
	})
	if err != nil {
		s.log.Warn("notification push failed", "recipient", n.RecipientID, "notification_id", n.ID, "error", err)
	}
}
