package providers

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/cache"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/config"
	"github.com/davidleathers/phonenumbers-na/internal/service/crosscheck"
)

// NewSources builds every source enabled in cfg. Page sources share one HTTP
// client and one rate limiter. reportCache and metrics may be nil.
func NewSources(
	cfg config.CrossCheckConfig,
	reportCache cache.ReportCache,
	metrics CacheMetrics,
	logger *zap.Logger,
) []crosscheck.Source {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &http.Client{Timeout: cfg.HTTPTimeout}
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)

	var pages []PageConfig
	if cfg.NANPAGeographicURL != "" {
		pages = append(pages, NANPAGeographic(cfg.NANPAGeographicURL))
	}
	if cfg.NANPANonGeographicURL != "" {
		pages = append(pages, NANPANonGeographic(cfg.NANPANonGeographicURL))
	}
	if cfg.NANPACountryURL != "" {
		pages = append(pages, NANPACountryOrTerritory(cfg.NANPACountryURL))
	}
	if cfg.CNAURL != "" {
		pages = append(pages, CNACanadian(cfg.CNAURL))
	}

	var sources []crosscheck.Source
	for _, page := range pages {
		page.UserAgent = cfg.UserAgent
		page.CacheTTL = cfg.CacheTTL
		sources = append(sources, NewPageProvider(page, client, limiter, reportCache, metrics, logger))
	}
	if cfg.CSVReportPath != "" {
		sources = append(sources, NewCSVProvider("csv", cfg.CSVReportPath, cfg.CSVComplete))
	}
	if cfg.LibPhoneNumber {
		sources = append(sources, NewLibPhoneNumberProvider())
	}

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	logger.Info("cross-check sources configured", zap.Strings("sources", names))
	return sources
}
