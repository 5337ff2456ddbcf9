package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/apierr"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondMapped resolves err against table and writes the envelope. Unmapped errors
// surface as a generic 500 and are logged with their detail.
func RespondMapped(c *gin.Context, log *logger.Logger, err error, table []apierr.Mapping) {
	ae := apierr.Resolve(err, table)
	if ae.Status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
