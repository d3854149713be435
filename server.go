package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mmdatafocus/ffbaudit_backend/audit"
	"github.com/mmdatafocus/ffbaudit_backend/config"
	"github.com/mmdatafocus/ffbaudit_backend/middlewares"
	"github.com/mmdatafocus/ffbaudit_backend/models"
	"github.com/mmdatafocus/ffbaudit_backend/models/reports"
	"github.com/mmdatafocus/ffbaudit_backend/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("ffbaudit-backend")

var validate = validator.New()

// AuditRunRequest triggers one analysis run. Estates defaults to the
// configured estate list; the status filter pair overrides the env config
// for period-specific reruns.
type AuditRunRequest struct {
	Estates  []string `json:"Estates"`
	FromDate string   `json:"FromDate" validate:"required,datetime=2006-01-02"`
	ToDate   string   `json:"ToDate" validate:"required,datetime=2006-01-02"`

	ApplyVerifierStatusFilter *bool   `json:"ApplyVerifierStatusFilter,omitempty"`
	VerifierStatus            *string `json:"VerifierStatus,omitempty"`
}

func buildRunConfig(auditCfg config.AuditConfig, req AuditRunRequest) audit.RunConfig {
	cfg := auditCfg.RunConfig(req.FromDate, req.ToDate)
	if len(req.Estates) > 0 {
		cfg.Estates = req.Estates
	}
	if req.ApplyVerifierStatusFilter != nil {
		cfg.ApplyVerifierStatusFilter = *req.ApplyVerifierStatusFilter
	}
	if req.VerifierStatus != nil {
		cfg.VerifierStatus = *req.VerifierStatus
	}
	return cfg
}

// runAnalysis performs one run behind a redis lock keyed by the run
// parameters, so a double-submitted report does not hammer the estate
// databases twice.
func runAnalysis(ctx context.Context, orchestrator *audit.Orchestrator, logger *logrus.Logger, cfg audit.RunConfig) (*audit.AnalysisResult, error) {
	if cached, ok := reports.GetCachedAnalysis(cfg); ok {
		return cached, nil
	}

	lockKey := "lock:" + reports.AnalysisCacheKey(cfg)
	if redisLock := config.GetRedisLock(); redisLock != nil {
		lock, err := redisLock.Obtain(ctx, lockKey, 10*time.Minute, nil)
		if err == redislock.ErrNotObtained {
			return nil, fmt.Errorf("an identical audit run is already in progress")
		}
		if err == nil {
			defer lock.Release(context.Background())
		}
	}

	ctx, span := tracer.Start(ctx, "audit.Run")
	defer span.End()

	result, err := orchestrator.Run(ctx, cfg, func(i, n int, message string) {
		logger.WithFields(logrus.Fields{
			"estate_index": i,
			"estate_count": n,
		}).Info(message)
	})
	if err != nil {
		return nil, err
	}

	reports.CacheAnalysis(cfg, result)
	return result, nil
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	logger := config.GetLogger()

	auditCfg, err := config.LoadAuditConfig()
	if err != nil {
		log.Fatalf("invalid audit configuration: %v", err)
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	config.ConnectRedis()
	if failures := config.ConnectEstateDatabases(auditCfg.Estates); len(failures) > 0 {
		for estate, ferr := range failures {
			config.LogError(logger, "server.go", "main", "connecting estate database", estate, ferr)
		}
	}

	repo := models.NewScannerRepository(logger)
	orchestrator := &audit.Orchestrator{Source: repo, Directory: repo, Logger: logger}

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); allowedOrigins != "" {
		corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Single-operator auth: the estate office account comes from env
	// (API_ADMIN_USER + API_ADMIN_PASSWORD_HASH, a bcrypt hash).
	r.POST("/api/auth/token", func(c *gin.Context) {
		var req struct {
			Username string `json:"Username" validate:"required"`
			Password string `json:"Password" validate:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		adminUser := os.Getenv("API_ADMIN_USER")
		adminHash := os.Getenv("API_ADMIN_PASSWORD_HASH")
		if adminUser == "" || adminHash == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth not configured"})
			return
		}
		if req.Username != adminUser || utils.ComparePassword(adminHash, req.Password) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := utils.JwtGenerate(1, "admin")
		if err != nil {
			config.LogError(logger, "server.go", "token", "generating token", req.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	})

	api := r.Group("/api/audit", middlewares.RequireAuth())

	api.POST("/runs", func(c *gin.Context) {
		var req AuditRunRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), uuid.NewString())
		result, err := runAnalysis(ctx, orchestrator, logger, buildRunConfig(auditCfg, req))
		if err != nil {
			config.LogError(logger, "server.go", "runs", "running analysis", req, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	api.POST("/runs/export", func(c *gin.Context) {
		var req AuditRunRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := runAnalysis(c.Request.Context(), orchestrator, logger, buildRunConfig(auditCfg, req))
		if err != nil {
			config.LogError(logger, "server.go", "export", "running analysis", req, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		filename := fmt.Sprintf("ffb-verification_%s_%s.xlsx", req.FromDate, req.ToDate)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename="+filename)
		if err := reports.WriteAnalysisExcel(c.Writer, result); err != nil {
			config.LogError(logger, "server.go", "export", "writing workbook", filename, err)
		}
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-sigCtx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
