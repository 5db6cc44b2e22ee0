package main

import (
	"kindtrail/internal/config"
	"kindtrail/internal/db"
	"kindtrail/internal/middleware"
	"kindtrail/internal/repository"
	"kindtrail/internal/router"
	"kindtrail/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	cfg.ConfigureLogging()

	// Initialize Database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open database")
	}
	store := repository.NewStore(gdb)

	geocoder, err := services.NewGeocoder(cfg.GeocodeTTL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create geocoder")
	}
	if cfg.StripeSecretKey == "" {
		logrus.Warn("STRIPE_SECRET_KEY is not set, checkout will fail")
	}

	users := services.NewUserService(store)
	prize := services.NewPrizeService(store)
	deps := router.Deps{
		Users:    users,
		Stories:  services.NewStoryService(store),
		Prize:    prize,
		Winners:  services.NewWinnerService(store, prize),
		Payments: services.NewPaymentService(users, services.NewStripeProvider(cfg.StripeSecretKey), cfg.SuccessURL(), cfg.CancelURL()),
		Geocoder: geocoder,
		Captcha:  services.NewCaptchaService(),
		Images:   services.NewImageStore(cfg.UploadsDir, cfg.MaxUploadMB),
		PriceID:  cfg.StripePriceID,
		SiteURL:  cfg.SiteURL,
	}

	// Initialize Gin
	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20

	// Setup Sessions
	sessionStore := middleware.NewSessionStore(cfg.SessionSecret, cfg.SiteURL)
	r.Use(sessions.Sessions(middleware.SessionName, sessionStore))

	renderer, err := router.LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load templates")
	}
	r.HTMLRender = renderer

	router.RegisterRoutes(r, deps)

	logrus.WithField("port", cfg.Port).Info("Kindness Trail server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("Server stopped")
	}
}
