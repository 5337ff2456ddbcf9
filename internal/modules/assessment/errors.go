package assessment

import (
	"errors"
	"net/http"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/apierr"
)

var (
	ErrSkillRequired   = errors.New("skill is required")
	ErrNoActiveSession = errors.New("no active assessment")
	ErrSessionExpired  = errors.New("assessment session expired")
	ErrStaleSession    = errors.New("assessment session changed; reload and retry")
)

// ErrorMappings maps engine errors to HTTP status and code.
var ErrorMappings = []apierr.Mapping{
	{Target: ErrSkillRequired, Status: http.StatusBadRequest, Code: "skill_required"},
	{Target: ErrNoActiveSession, Status: http.StatusNotFound, Code: "no_active_assessment"},
	{Target: ErrSessionExpired, Status: http.StatusGone, Code: "assessment_expired"},
	{Target: ErrStaleSession, Status: http.StatusConflict, Code: "stale_assessment"},
}
