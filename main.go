package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/FRMWRKD/mooderi-sub001/config"
	"github.com/FRMWRKD/mooderi-sub001/database"
	"github.com/FRMWRKD/mooderi-sub001/handlers"
	"github.com/FRMWRKD/mooderi-sub001/logger"
	"github.com/FRMWRKD/mooderi-sub001/middleware"
	"github.com/FRMWRKD/mooderi-sub001/models"
	"github.com/FRMWRKD/mooderi-sub001/repositories"
	"github.com/FRMWRKD/mooderi-sub001/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("starting mooderi service")

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	logger.SetLevel(cfg.Log.Level)

	if err := database.InitMySQL(&cfg.Database); err != nil {
		log.Fatalf("init mysql failed: %v", err)
	}

	database.DB.AutoMigrate(
		&models.User{},
		&models.Video{},
		&models.Image{},
		&models.Board{},
		&models.Notification{},
	)
	log.Println("database migration completed")

	if err := database.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("init redis failed: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(cfg.Storage.BasePath, "thumbnails"), 0o755); err != nil {
		log.Fatalf("create thumbnails dir failed: %v", err)
	}

	repoContainer := repositories.NewGormRepositories(database.DB, database.RedisClient).BuildContainer()
	serviceContainer := services.NewContainer(repoContainer)
	handlers.SetServices(serviceContainer)

	services.StartRetentionWorkers()
	log.Println("retention workers started")

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger())
	setupRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("server listening on http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}

func setupRoutes(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.GET("/health", handlers.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	// Intake and polling accept anonymous submissions; a valid token
	// attaches the job to the user.
	process := api.Group("/process-video")
	process.Use(middleware.OptionalAuth())
	{
		process.POST("", handlers.StartProcessing)
		process.GET("/status/:job_id", handlers.JobStatus)
		process.GET("/frames/:job_id", handlers.PendingFrames)
		process.POST("/approve", handlers.ApproveFrames)
		process.POST("/reject", handlers.RejectFrames)
	}

	api.GET("/images", handlers.ListPublicImages)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", handlers.GetProfile)

		protected.GET("/videos", handlers.ListVideos)
		protected.GET("/videos/:id", handlers.GetVideoDetail)
		protected.DELETE("/videos/:id", handlers.DeleteVideo)

		protected.GET("/images/mine", handlers.ListMyImages)
		protected.PUT("/images/:id/visibility", handlers.SetImageVisibility)
		protected.POST("/images/visibility/batch", handlers.SetImageVisibilityBulk)

		protected.GET("/boards", handlers.ListBoards)
		protected.POST("/boards", handlers.CreateBoard)
		protected.GET("/boards/:id", handlers.GetBoard)
		protected.PUT("/boards/:id", handlers.UpdateBoard)
		protected.DELETE("/boards/:id", handlers.DeleteBoard)
		protected.POST("/boards/:id/images", handlers.AddImageToBoard)
		protected.DELETE("/boards/:id/images/:image_id", handlers.RemoveImageFromBoard)

		protected.GET("/credits/share-progress", handlers.GetShareProgress)

		protected.GET("/notifications", handlers.ListNotifications)
		protected.POST("/notifications/read", handlers.MarkNotificationsRead)
	}
}
