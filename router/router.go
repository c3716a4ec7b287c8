package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smunch/smunch-backend/controllers"
	"github.com/smunch/smunch-backend/middlewares"
)

// Deps is everything the HTTP layer needs; main wires the concrete services.
type Deps struct {
	Payment    *controllers.PaymentController
	Email      *controllers.EmailController
	JWTSecret  []byte
	CORSOrigin string
	// ConfirmLimiter throttles the confirm endpoint per IP. Nil uses 5 per minute.
	ConfirmLimiter *middlewares.RateLimiter
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middlewares.RequestID(),
		middlewares.LoggerMiddleware(),
		middlewares.SecurityHeaders(),
		middlewares.CORSMiddlewares(deps.CORSOrigin),
		middlewares.ErrorHandler(),
	)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	limiter := deps.ConfirmLimiter
	if limiter == nil {
		limiter = middlewares.NewRateLimiter(5, 12*time.Second)
	}

	api := r.Group("/api")
	{
		payment := api.Group("/payment")
		payment.POST("/confirm/:orderId",
			limiter.RateLimit(),
			middlewares.ReceiptLoggerMiddleware(),
			deps.Payment.ConfirmPaymentAndSendReceipt,
		)

		api.GET("/orders/:orderId/payment", deps.Payment.GetPaymentInstructions)

		admin := api.Group("/admin")
		admin.Use(middlewares.AuthMiddleware(deps.JWTSecret), middlewares.RequireRole("admin"))
		{
			adminEmails := admin.Group("/emails")
			adminEmails.GET("/preview/:kind", middlewares.PreviewSecurityHeaders(), deps.Email.PreviewEmail)
			adminEmails.POST("/test", deps.Email.SendTestEmail)
		}
	}

	return r
}
