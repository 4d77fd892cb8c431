// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/healinghands/smart-health-api/config"
	"github.com/healinghands/smart-health-api/endpoint"
	"github.com/healinghands/smart-health-api/middleware"
	"github.com/healinghands/smart-health-api/model"
	"github.com/healinghands/smart-health-api/util"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	err = db.AutoMigrate(
		&model.Doctor{},
		&model.Patient{},
		&model.ActorCode{},
		&model.Report{},
		&model.Session{},
		&model.SecurityLog{},
	)
	if err != nil {
		log.Fatalf("Error migrating schema: %v", err)
	}
	if err := model.SeedActorCodes(db); err != nil {
		log.Fatalf("Error seeding actor code counters: %v", err)
	}

	util.SetSecurityLoggerDB(db)
	// Re-read after LoadConfig so a .env-provided secret wins over the
	// package-init default.
	if secret := os.Getenv("JWTSECRET"); secret != "" {
		util.SetJWTSecret(secret)
	}
	util.InitActorNameCache(1024)

	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("redis unavailable, session mirror and rate limiting degraded: %v", err)
	}
	if err := util.InitGeoIP(""); err != nil {
		log.Printf("geoip database not loaded: %v", err)
	}
	defer util.CloseGeoIP()

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	authLimiter := middleware.RateLimiter(middleware.RateLimitConfig{})

	router.POST("/login", authLimiter, endpoint.Login)
	router.POST("/register/doctor", authLimiter, endpoint.RegisterDoctor)
	router.POST("/register/patient", authLimiter, endpoint.RegisterPatient)
	router.GET("/token/validate", endpoint.ValidateToken)

	authed := router.Group("/")
	authed.Use(middleware.ValidateLoginToken())
	{
		authed.DELETE("/logout", endpoint.Logout)
		authed.GET("/profile", endpoint.GetProfile)

		authed.GET("/patients/:id", endpoint.GetPatientInfo)
		authed.GET("/patients/:id/vitals", endpoint.GetVitals)

		authed.POST("/reports", endpoint.CreateReport)
		authed.GET("/reports", endpoint.ListReports)
		authed.GET("/reports/:id", endpoint.GetReport)
		authed.PUT("/reports/:id", endpoint.UpdateReportDetails)
		authed.POST("/reports/:id/entries", endpoint.AddReportEntry)
		authed.DELETE("/reports/:id/entries", endpoint.RemoveReportEntry)
		authed.PUT("/reports/:id/submit", endpoint.SubmitReport)
		authed.GET("/reports/:id/export", endpoint.ExportReport)
	}

	doctorOnly := router.Group("/")
	doctorOnly.Use(middleware.ValidateLoginToken(), middleware.RequireRole(model.RoleDoctor))
	{
		doctorOnly.GET("/patients", endpoint.ListPatients)
		doctorOnly.GET("/patients/pending", endpoint.ListPendingPatients)
		doctorOnly.PUT("/patients/:id/approve", endpoint.ApprovePatient)
		doctorOnly.PUT("/patients/:id/reject", endpoint.RejectPatient)

		doctorOnly.GET("/reports/pending", endpoint.ListPendingReports)
		doctorOnly.PUT("/reports/:id/confirm", endpoint.ConfirmReport)
		doctorOnly.PUT("/reports/:id/reject", endpoint.RejectReport)
	}

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
