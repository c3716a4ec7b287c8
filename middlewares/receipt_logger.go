package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smunch/smunch-backend/utils"
)

// ReceiptLoggerMiddleware logs every payment confirmation attempt and its outcome.
// Errors attached with c.Error are not rendered yet when it runs, so their
// status is taken from the error itself.
func ReceiptLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := logrus.Fields{
			"order_id":   c.Param("orderId"),
			"request_id": c.GetString(RequestIDKey),
		}
		utils.InfoLogger.WithFields(fields).Info("Confirming payment")

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			fields["status"] = http.StatusInternalServerError
			if appErr, ok := utils.AsAppError(err); ok {
				fields["status"] = appErr.Status
			}
			utils.ErrorLogger.WithFields(fields).Warnf("Payment confirmation failed: %v", err)
			return
		}

		fields["status"] = c.Writer.Status()
		switch status := c.Writer.Status(); {
		case status == http.StatusOK:
			utils.InfoLogger.WithFields(fields).Info("Receipt sent")
		case status == http.StatusAccepted:
			utils.InfoLogger.WithFields(fields).Info("Payment not yet verified")
		default:
			utils.ErrorLogger.WithFields(fields).Warn("Payment confirmation did not complete")
		}
	}
}
