package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-referral-backend/internal/delivery/http/response"
	"go-referral-backend/pkg/apperror"
	"go-referral-backend/pkg/logger"
)

// ErrorHandler renders errors attached to the gin context as the standard
// JSON envelope. apperror values keep their code and message; anything else
// is treated as an unanticipated internal error.
//
// SECURITY: internal error detail is logged server-side with the request ID
// but never sent to the client unless devMode is on.
func ErrorHandler(devMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		reqID, _ := c.Get("RequestID")

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("request failed", "request_id", reqID, "code", appErr.Code, "error", errString(appErr.Err))
				if devMode && appErr.Err != nil {
					response.Error(c, appErr.Code, appErr.Err.Error(), nil)
					return
				}
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		logger.Log.Error("unhandled error", "request_id", reqID, "error", err.Error())
		msg := "An unexpected error occurred. Please try again later."
		if devMode {
			msg = err.Error()
		}
		response.Error(c, http.StatusInternalServerError, msg, nil)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
