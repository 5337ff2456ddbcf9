package handlers

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/http/response"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/modules/assessment"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/modules/rooms"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/ctxutil"
)

var errorTable = slices.Concat(rooms.ErrorMappings, assessment.ErrorMappings)

// currentUser reads the caller set by the auth middleware, responding 401 when absent.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func parseID(c *gin.Context, raw, field string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+field, errors.New(field+" must be a uuid"))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}
