package main

import (
	"flag"
	"log"
	"strconv"
	"strings"
	"time"

	"expirywatch/internal/api"
	"expirywatch/internal/config"
	"expirywatch/internal/database"
	"expirywatch/internal/metrics"
	"expirywatch/internal/models"
	"expirywatch/internal/scheduler"
	"expirywatch/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// loadSettingsFromDB loads settings from database and overrides config
func loadSettingsFromDB(cfg *config.Config) {
	db := database.GetDB()
	if db == nil {
		return
	}

	var settings []models.Setting
	if err := db.Find(&settings).Error; err != nil {
		log.Printf("Warning: Failed to load settings from database: %v", err)
		return
	}

	settingsMap := make(map[string]string)
	for _, s := range settings {
		settingsMap[s.Key] = s.Value
	}

	// Override monitoring settings
	if val, ok := settingsMap["monitoring.alert_threshold_days"]; ok && val != "" {
		if days, err := strconv.Atoi(val); err == nil {
			cfg.Monitoring.AlertThresholdDays = days
		}
	}
	if val, ok := settingsMap["monitoring.check_interval"]; ok && val != "" {
		cfg.Monitoring.CheckInterval = val
	}
	if val, ok := settingsMap["monitoring.save_results"]; ok {
		cfg.Monitoring.SaveResults = val == "true"
	}

	// Override email settings
	if val, ok := settingsMap["email.enabled"]; ok {
		cfg.Notifications.Email.Enabled = val == "true"
	}
	if val, ok := settingsMap["email.smtp_host"]; ok {
		cfg.Notifications.Email.SMTPHost = val
	}
	if val, ok := settingsMap["email.smtp_port"]; ok {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Notifications.Email.SMTPPort = port
		}
	}
	if val, ok := settingsMap["email.from"]; ok {
		cfg.Notifications.Email.From = val
	}
	if val, ok := settingsMap["email.password"]; ok {
		cfg.Notifications.Email.Password = val
	}
	if val, ok := settingsMap["email.recipients"]; ok && val != "" {
		recipients := []config.EmailRecipient{}
		for _, addr := range strings.Split(val, ",") {
			recipients = append(recipients, config.EmailRecipient{Email: strings.TrimSpace(addr)})
		}
		cfg.Notifications.Email.Recipients = recipients
	}

	// Override slack settings
	if val, ok := settingsMap["slack.enabled"]; ok {
		cfg.Notifications.Slack.Enabled = val == "true"
	}
	if val, ok := settingsMap["slack.webhook_url"]; ok {
		cfg.Notifications.Slack.WebhookURL = val
	}
	if val, ok := settingsMap["slack.channel"]; ok {
		cfg.Notifications.Slack.Channel = val
	}

	log.Println("Settings loaded from database and applied to configuration")
}

// syncConfigDomains ensures every configured domain has a database row
func syncConfigDomains(cfg *config.Config) {
	db := database.GetDB()
	if db == nil {
		return
	}

	for _, d := range cfg.Domains {
		name := services.CleanDomain(d.Name)

		var existing models.Domain
		if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
			continue
		}

		domain := models.Domain{
			Name:               name,
			Description:        d.Description,
			AlertThresholdDays: d.AlertThresholdDays,
			IsActive:           true,
			CreatedAt:          time.Now(),
			UpdatedAt:          time.Now(),
		}
		if err := db.Create(&domain).Error; err != nil {
			log.Printf("Failed to create domain %s: %v", name, err)
		}
	}
}

// initDefaultAdmin initializes the default admin account
func initDefaultAdmin(authService *services.AuthService) {
	db := database.GetDB()

	var existingUser models.User
	if err := db.Where("username = ?", "admin").First(&existingUser).Error; err == nil {
		log.Println("Admin account already exists")
		return
	}

	// Create default admin account (username: admin, password: admin123)
	hashedPassword, err := authService.HashPassword("admin123")
	if err != nil {
		log.Printf("Failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Username:  "admin",
		Password:  hashedPassword,
		Email:     "admin@example.com",
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to create default admin account: %v", err)
		return
	}

	log.Println("Default admin account created (username: admin, password: admin123)")
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	runOnce := flag.Bool("once", false, "Run a single check batch and exit")
	flag.Parse()

	godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.InitDB(&cfg.Database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully")

	loadSettingsFromDB(cfg)
	syncConfigDomains(cfg)

	// Initialize services
	whoisChecker := services.NewWhoisChecker(cfg.Advanced.Timeouts.WhoisTimeout())
	sslChecker := services.NewSSLChecker(cfg.Advanced.Timeouts.SSLTimeout())
	notifyService := services.NewNotifyService(&cfg.Notifications)
	collector := metrics.NewCollector()
	monitorService := services.NewMonitorService(cfg, whoisChecker, sslChecker, notifyService, collector)
	authService := services.NewAuthService()

	if *runOnce {
		reports, alerts := monitorService.RunOnce()
		log.Printf("Checked %d domains, %d alerts generated", len(reports), len(alerts))
		return
	}

	initDefaultAdmin(authService)

	// Initialize scheduler
	sched := scheduler.NewScheduler(monitorService)
	if err := sched.Start(cfg.Monitoring.CheckInterval); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup Gin
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Enable CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Setup API routes
	handler := api.NewHandler(monitorService, notifyService, authService)
	api.SetupRoutes(r, handler)

	// Serve static files
	r.Static("/static", "./web/dist")

	// Serve frontend
	r.GET("/", func(c *gin.Context) {
		c.File("./web/dist/index.html")
	})

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
