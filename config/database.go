package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	sqlmysql "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Every estate runs its own scanner database on the shared MySQL host, so
// connections are kept in a registry keyed by estate code instead of one
// global handle.
var (
	dbMu sync.RWMutex
	dbs  = map[string]*gorm.DB{}
)

func init() {
	// Load env from .env; connection happens explicitly from main().
	godotenv.Load()
}

// GetEstateDB returns the pool for one estate, nil when the estate was never
// connected.
func GetEstateDB(estate string) *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return dbs[strings.ToUpper(strings.TrimSpace(estate))]
}

// ConnectEstateDatabases opens a pool per estate with bounded retry.
// Estates that stay unreachable are skipped with an error in the returned
// map; the audit run will surface them as per-estate failures instead of
// refusing to start.
func ConnectEstateDatabases(estates []string) map[string]error {
	failures := map[string]error{}
	for _, estate := range estates {
		estate = strings.ToUpper(strings.TrimSpace(estate))
		if estate == "" {
			continue
		}
		db, err := connectEstate(estate)
		if err != nil {
			failures[estate] = err
			continue
		}
		dbMu.Lock()
		dbs[estate] = db
		dbMu.Unlock()
	}
	return failures
}

func connectEstate(estate string) (*gorm.DB, error) {
	dsn := estateDSN(estate)

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		db, err := gorm.Open(mysql.Open(dsn), initConfig())
		if err == nil {
			tunePool(db)
			if pluginErr := db.Use(otelgorm.NewPlugin()); pluginErr != nil {
				log.Printf("estate %s connected but failed to install otelgorm plugin: %v", estate, pluginErr)
			}
			log.Printf("connected to estate database %s (attempt=%d)", estate, attempt)
			return db, nil
		}
		lastErr = err
		sleep := time.Second * time.Duration(1<<min(attempt, 4))
		log.Printf("failed to connect estate %s (attempt=%d): %v; retrying in %s", estate, attempt, err, sleep)
		time.Sleep(sleep)
	}
	return nil, fmt.Errorf("estate %s: %w", estate, lastErr)
}

// estateDSN builds the DSN for one estate database.
//
// Env:
// - AUDIT_DB_USER / AUDIT_DB_PASSWORD
// - AUDIT_DB_HOST / AUDIT_DB_PORT
// - AUDIT_DB_NAME_PATTERN (default "ffb_%s", %s replaced by lowercased estate code)
// - AUDIT_DB_NAME_<ESTATE> overrides the pattern per estate
func estateDSN(estate string) string {
	dbName := os.Getenv("AUDIT_DB_NAME_" + estate)
	if dbName == "" {
		pattern := os.Getenv("AUDIT_DB_NAME_PATTERN")
		if pattern == "" {
			pattern = "ffb_%s"
		}
		dbName = fmt.Sprintf(pattern, strings.ToLower(estate))
	}

	cfg := sqlmysql.NewConfig()
	cfg.User = os.Getenv("AUDIT_DB_USER")
	cfg.Passwd = os.Getenv("AUDIT_DB_PASSWORD")
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%s", os.Getenv("AUDIT_DB_HOST"), os.Getenv("AUDIT_DB_PORT"))
	cfg.DBName = dbName
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// Pool tuning, env overrides:
// - DB_MAX_OPEN_CONNS (default 10 — estate DBs sit behind small connection limits)
// - DB_MAX_IDLE_CONNS (default 5)
// - DB_CONN_MAX_LIFETIME_SECONDS (default 300)
// - DB_CONN_MAX_IDLE_TIME_SECONDS (default 60)
func tunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil || sqlDB == nil {
		return
	}
	if maxOpen := intFromEnv("DB_MAX_OPEN_CONNS", 10); maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle := intFromEnv("DB_MAX_IDLE_CONNS", 5); maxIdle >= 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	if life := intFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 300); life > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(life) * time.Second)
	}
	if idle := intFromEnv("DB_CONN_MAX_IDLE_TIME_SECONDS", 60); idle > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(idle) * time.Second)
	}
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func initConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         initLog(),
		NamingStrategy: initNamingStrategy(),
	}
}

func initLog() logger.Interface {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			Colorful:      false,
			LogLevel:      logger.Error,
			SlowThreshold: time.Second,
		},
	)
	return newLogger
}

func initNamingStrategy() *schema.NamingStrategy {
	return &schema.NamingStrategy{
		SingularTable: false,
		TablePrefix:   "",
	}
}
