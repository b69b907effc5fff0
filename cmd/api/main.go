package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/danbi-app/danbi-backend/internal/config"
	"github.com/danbi-app/danbi-backend/internal/handler"
	"github.com/danbi-app/danbi-backend/internal/middleware"
	"github.com/danbi-app/danbi-backend/internal/migration"
	"github.com/danbi-app/danbi-backend/internal/push"
	"github.com/danbi-app/danbi-backend/internal/repository"
	"github.com/danbi-app/danbi-backend/internal/routes"
	"github.com/danbi-app/danbi-backend/internal/service"
	"github.com/danbi-app/danbi-backend/internal/ws"
	"github.com/danbi-app/danbi-backend/pkg/jwt"
	pkglogger "github.com/danbi-app/danbi-backend/pkg/logger"
	pkgredis "github.com/danbi-app/danbi-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	// 로거 초기화
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	// 설정 로드
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL 연결
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis 연결 (실패해도 단일 인스턴스로 계속)
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Info("Warning: Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	// WebSocket Hub
	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()
	defer wsHub.Stop()

	// JWT Manager
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	// Repositories
	profileRepo := repository.NewProfileRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	petRepo := repository.NewPetRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	reportRepo := repository.NewReportRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	pushSubRepo := repository.NewPushSubscriptionRepository(db)

	// Web Push
	notifier := push.NewSender(pushSubRepo, cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey, cfg.Push.Subscriber)
	if cfg.Push.VAPIDPublicKey == "" {
		pkglogger.Info("VAPID keys not configured; web push disabled")
	}

	// Services
	access := service.NewAccessResolver(groupRepo)
	reportService := service.NewReportService(reportRepo, petRepo, groupRepo, membershipRepo, access, notifier)
	commentService := service.NewCommentService(commentRepo, reportRepo, membershipRepo, access, notifier, wsHub)
	membershipService := service.NewMembershipService(membershipRepo, groupRepo, petRepo)

	// Handlers
	reportHandler := handler.NewReportHandler(reportService)
	commentHandler := handler.NewCommentHandler(commentService)
	membershipHandler := handler.NewMembershipHandler(membershipService)
	profileHandler := handler.NewProfileHandler(profileRepo)
	pushHandler := handler.NewPushHandler(pushSubRepo)
	wsHandler := handler.NewWSHandler(wsHub, reportService)

	// Gin 라우터 생성
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	// CORS 설정
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "danbi-backend",
			"time":    time.Now().Unix(),
		})
	})

	routes.Setup(router, reportHandler, commentHandler, membershipHandler, profileHandler, pushHandler, wsHandler, jwtManager)

	// 서버 시작
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	pkglogger.Info("Server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	logMode := gormlogger.Warn
	if cfg.IsDevelopment() {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// splitAndTrim splits a string by delimiter and trims spaces
func splitAndTrim(s, delimiter string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, delimiter) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
