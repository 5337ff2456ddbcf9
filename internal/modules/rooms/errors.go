package rooms

import (
	"errors"
	"net/http"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/apierr"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime"
)

var (
	ErrEmptyMessage       = errors.New("message text is empty")
	ErrRoomNotFound       = errors.New("room not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyMember      = errors.New("already a member")
	ErrRequestPending     = errors.New("join request already sent")
	ErrNotRoomOwner       = errors.New("only the room owner can do this")
	ErrNotificationAbsent = errors.New("notification not found")
)

var ErrorMappings = []apierr.Mapping{
	{Target: ErrEmptyMessage, Status: http.StatusBadRequest, Code: "empty_message"},
	{Target: ErrRoomNotFound, Status: http.StatusNotFound, Code: "room_not_found"},
	{Target: ErrUserNotFound, Status: http.StatusNotFound, Code: "user_not_found"},
	{Target: ErrAlreadyMember, Status: http.StatusBadRequest, Code: "already_member"},
	{Target: ErrRequestPending, Status: http.StatusBadRequest, Code: "request_pending"},
	{Target: ErrNotRoomOwner, Status: http.StatusForbidden, Code: "not_room_owner"},
	{Target: ErrNotificationAbsent, Status: http.StatusNotFound, Code: "notification_not_found"},
	{Target: realtime.ErrInvalidIdentity, Status: http.StatusBadRequest, Code: "invalid_identity"},
	{Target: realtime.ErrInvalidRoom, Status: http.StatusBadRequest, Code: "invalid_room"},
	{Target: realtime.ErrUnknownConnection, Status: http.StatusNotFound, Code: "unknown_connection"},
	{Target: repos.ErrNotFound, Status: http.StatusNotFound, Code: "not_found"},
}
