package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smunch/smunch-backend/config"
	"github.com/smunch/smunch-backend/controllers"
	"github.com/smunch/smunch-backend/emails"
	"github.com/smunch/smunch-backend/router"
	"github.com/smunch/smunch-backend/services"
	"github.com/smunch/smunch-backend/utils"
)

func main() {
	utils.InitLogger()
	cfg := config.Load()
	utils.SetLevel(cfg.LogLevel)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	verifier, err := services.NewPaymentVerifier(cfg.PaymentVerifier, db)
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid payment verifier: %v", err)
	}

	var mailer services.Mailer = services.LogMailer{}
	if smtpMailer, err := services.NewSMTPMailer(cfg.SMTP); err == nil {
		mailer = smtpMailer
	} else {
		utils.InfoLogger.Warnf("SMTP not configured, emails will only be logged: %v", err)
	}

	renderer := emails.NewRenderer(emails.Config{
		BannerURL:    cfg.BannerURL,
		ContactEmail: cfg.ContactEmail,
		Location:     utils.Singapore,
	})
	notifier := services.NewNotifier(renderer, mailer)
	store := services.NewOrderStore(db)
	paymentService := services.NewPaymentService(cfg.PayNow)

	if cfg.RemindersEnabled {
		scheduler := services.NewReminderScheduler(store, notifier, cfg.ReminderInterval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	r := router.SetupRouter(router.Deps{
		Payment:    controllers.NewPaymentController(store, paymentService, verifier, notifier),
		Email:      controllers.NewEmailController(renderer, store, paymentService, notifier),
		JWTSecret:  []byte(cfg.JWTSecret),
		CORSOrigin: cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}
}
