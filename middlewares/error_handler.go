package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smunch/smunch-backend/utils"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// AppErrors keep their status and code; anything else becomes a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		fields := logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"path":       c.Request.URL.Path,
		}

		if appErr, ok := utils.AsAppError(err); ok {
			if appErr.Status >= http.StatusInternalServerError {
				utils.ErrorLogger.WithFields(fields).Errorf("%v", err)
			}
			utils.RespondAppError(c, appErr)
			return
		}

		utils.ErrorLogger.WithFields(fields).Errorf("Unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Internal server error",
			"code":    utils.CodeInternal,
		})
	}
}
