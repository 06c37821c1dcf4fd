package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/controllers"
	"github.com/resume-studio/resume-studio-api/middleware"
	"github.com/resume-studio/resume-studio-api/models"
	"github.com/resume-studio/resume-studio-api/services"
)

func main() {
	log.Println("Starting Resume Studio API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Structured logger for the engines and request middleware
	logger, err := config.InitLogger(cfg.GoEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Payment{},
		&models.Revision{},
		&models.AuditEntry{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.OrderFile{},
		&models.WorkflowStep{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Document storage (S3). The API runs without it, but uploads are rejected.
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitDocumentService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, document uploads disabled")
	}

	// Initialize Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Everything else requires a valid Auth0 JWT
		authorized := v1.Group("")
		authorized.Use(middleware.EnsureValidToken(cfg))
		{
			// Users
			authorized.POST("/users", controllers.CreateUser)
			authorized.GET("/users/me", controllers.GetMyProfile)
			authorized.PUT("/users/me", controllers.UpdateMyProfile)

			// Orders
			authorized.POST("/orders", controllers.CreateOrder)
			authorized.GET("/orders", controllers.ListOrders)
			authorized.GET("/orders/:id", controllers.GetOrder)
			authorized.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
			authorized.POST("/orders/:id/notes", controllers.AddOrderNote)

			// Payments
			authorized.POST("/orders/:id/payments", controllers.CreatePayment)
			authorized.GET("/payments/:paymentId", controllers.GetPayment)
			authorized.POST("/payments/:paymentId/confirm", controllers.ConfirmPayment)
			authorized.POST("/payments/:paymentId/refund", controllers.RefundPayment)

			// Revisions
			authorized.POST("/orders/:id/revisions", controllers.RequestRevision)
			authorized.GET("/orders/:id/revisions", controllers.ListRevisions)
			authorized.PATCH("/revisions/:revisionId/status", controllers.UpdateRevisionStatus)
			authorized.POST("/revisions/:revisionId/complete", controllers.CompleteRevision)
			authorized.POST("/revisions/:revisionId/respond", controllers.RespondToRevision)

			// Audit trail
			authorized.GET("/audit/:entityType/:entityId", controllers.ListAuditTrail)

			// Files
			authorized.POST("/orders/:id/files", controllers.UploadOrderFile)
			authorized.GET("/orders/:id/files", controllers.ListOrderFiles)
			authorized.DELETE("/files/:fileId", controllers.DeleteOrderFile)

			// Chat
			authorized.POST("/orders/:id/messages", controllers.SendMessage)
			authorized.GET("/orders/:id/messages", controllers.ListMessages)

			// Analytics
			authorized.GET("/analytics/summary", controllers.GetAnalyticsSummary)
		}
	}

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Resume Studio API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
