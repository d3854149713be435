package reports

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mmdatafocus/ffbaudit_backend/audit"
	"github.com/mmdatafocus/ffbaudit_backend/config"
)

func reportCacheEnabled() bool {
	v := strings.TrimSpace(os.Getenv("ENABLE_REPORT_CACHE"))
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") || strings.EqualFold(v, "on")
}

// Env: REPORT_CACHE_TTL_SECONDS (default 600s — audit results only change
// when the scanners re-upload)
func reportCacheTTL() time.Duration {
	ttl := 600
	if v := strings.TrimSpace(os.Getenv("REPORT_CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = n
		}
	}
	return time.Duration(ttl) * time.Second
}

// AnalysisCacheKey identifies a run by everything that can change its
// output, including the role table version and the status filter.
func AnalysisCacheKey(cfg audit.RunConfig) string {
	filter := "nofilter"
	if cfg.ApplyVerifierStatusFilter {
		filter = "status=" + cfg.VerifierStatus
	}
	fields := make([]string, 0, len(cfg.CompareFields))
	for _, f := range cfg.CompareFields {
		fields = append(fields, string(f))
	}
	return fmt.Sprintf("ffbaudit:%s:%s:%s:%s:%s:%s",
		strings.Join(cfg.Estates, "+"),
		cfg.FromDate, cfg.ToDate,
		cfg.RoleTable.Version,
		filter,
		strings.Join(fields, "+"),
	)
}

// GetCachedAnalysis returns a previously cached result for identical run
// parameters, if caching is on and redis holds one.
func GetCachedAnalysis(cfg audit.RunConfig) (*audit.AnalysisResult, bool) {
	if !reportCacheEnabled() {
		return nil, false
	}
	var result audit.AnalysisResult
	found, err := config.GetRedisObject(AnalysisCacheKey(cfg), &result)
	if err != nil || !found {
		return nil, false
	}
	return &result, true
}

// CacheAnalysis stores a completed result. Failed or cancelled runs are
// never cached; a retry must recompute.
func CacheAnalysis(cfg audit.RunConfig, result *audit.AnalysisResult) {
	if !reportCacheEnabled() || result == nil || result.Status != audit.RunCompleted {
		return
	}
	_ = config.SetRedisObject(AnalysisCacheKey(cfg), result, reportCacheTTL())
}
