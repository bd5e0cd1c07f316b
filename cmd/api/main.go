package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"registration/internal/auth"
	"registration/internal/config"
	"registration/internal/httpapi"
	"registration/internal/httpmiddleware"
	"registration/internal/payment"
	"registration/internal/queue"
	"registration/internal/registration"
	"registration/internal/store"
	"registration/internal/upload"
	"registration/internal/user"
)

func main() {
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx := context.Background()

	var regStore registration.Store
	var userStore user.Store
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		// Dev fallback: serve from memory so the flow can be exercised
		// without Postgres. Nothing survives a restart.
		log.Printf("warning: db not reachable, using in-memory stores: %v", err)
		if db != nil {
			_ = db.Close()
		}
		db = nil
		regStore = registration.NewMemoryStore()
		userStore = user.NewMemoryStore()
	} else {
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		regStore = registration.NewRepository(db.Client)
		userStore = user.NewRepository(db.Client)
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" || db == nil {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "registration:events")
	}

	regSvc := registration.NewService(regStore)
	userSvc := user.NewService(userStore)

	payClient := payment.NewClient(cfg.PaymentURL, cfg.PaymentAPIKey, cfg.PaymentSandbox, cfg.PaymentTimeout)
	if cfg.PaymentSandbox {
		log.Println("payment provider in sandbox mode, invoices are fabricated locally")
	}
	fees := payment.Fees{
		Base:          cfg.BaseFee,
		DriverDay:     cfg.DriverDayFee,
		FamilyMember:  cfg.FamilyMemberFee,
		ChildDiscount: cfg.ChildDiscount,
	}
	paySvc := payment.NewService(payClient, regStore, fees, cfg.SuccessPageURL, cfg.CancelPageURL)

	uploads, err := upload.NewStorage(cfg.UploadDir)
	if err != nil {
		return err
	}

	h := httpapi.New(userSvc, regSvc, paySvc, uploads, q,
		cfg.JWTIssuer, cfg.JWTSigningKey, cfg.TokenTTL, cfg.SuccessPageURL)

	r := gin.New()

	// Recovery middleware
	r.Use(gin.Recovery())

	// Custom logger
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))

	// CORS middleware
	r.Use(corsMiddleware())

	// Security headers
	r.Use(securityHeaders())

	// Rate limiting
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db != nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Registration API")
	})

	h.Register(r, auth.AdminOnly(cfg.JWTSigningKey, cfg.JWTIssuer))

	// Uploaded images
	r.Static("/public", cfg.UploadDir)

	// Graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
