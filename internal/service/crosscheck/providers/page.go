// Package providers implements the report sources used by the cross-check:
// publisher web pages, local CSV files and libphonenumber metadata.
package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/time/rate"

	"github.com/davidleathers/phonenumbers-na/internal/domain/areacode"
	"github.com/davidleathers/phonenumbers-na/internal/domain/crosscheck"
	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/cache"
)

// maxPageBytes bounds a downloaded report page.
const maxPageBytes = 8 << 20

var (
	// threeDigits matches any run of three digits.
	threeDigits = regexp.MustCompile(`\d\d\d`)
	// cellDigits matches three digits that fill an HTML cell.
	cellDigits = regexp.MustCompile(`>(\d\d\d)<`)
)

// PageReport extracts one reference set from a page. Codes are kept when
// Min < code < Max. When Pattern has a capture group, the first group is the code.
type PageReport struct {
	Set     areacode.Set
	Pattern *regexp.Regexp
	Min     int
	Max     int
}

func (r PageReport) codes(page string) []crosscheck.Entry {
	var out []crosscheck.Entry
	for _, m := range r.Pattern.FindAllStringSubmatch(page, -1) {
		text := m[0]
		if len(m) > 1 {
			text = m[1]
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			continue
		}
		if n > r.Min && n < r.Max {
			out = append(out, crosscheck.Entry{Code: n})
		}
	}
	return out
}

// PageConfig describes a publisher page and the reports read from it.
type PageConfig struct {
	Name      string
	URL       string
	UserAgent string
	CacheTTL  time.Duration
	Reports   []PageReport
}

// CacheMetrics counts report cache hits and misses.
type CacheMetrics interface {
	RecordReportCacheLookup(ctx context.Context, source string, hit bool)
}

// PageProvider downloads an ISO-8859-1 report page and scrapes area codes from it.
type PageProvider struct {
	cfg     PageConfig
	client  *http.Client
	limiter *rate.Limiter
	cache   cache.ReportCache
	metrics CacheMetrics
	logger  *zap.Logger
}

// NewPageProvider creates a page source. limiter, reportCache and metrics may be nil.
func NewPageProvider(
	cfg PageConfig,
	client *http.Client,
	limiter *rate.Limiter,
	reportCache cache.ReportCache,
	metrics CacheMetrics,
	logger *zap.Logger,
) *PageProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageProvider{
		cfg:     cfg,
		client:  client,
		limiter: limiter,
		cache:   reportCache,
		metrics: metrics,
		logger:  logger.With(zap.String("source", cfg.Name)),
	}
}

func (p *PageProvider) Name() string { return p.cfg.Name }

// Fetch returns one report per configured PageReport.
func (p *PageProvider) Fetch(ctx context.Context) ([]crosscheck.Report, error) {
	raw, err := p.body(ctx)
	if err != nil {
		return nil, err
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, errors.ErrReportMalformed.WithCause(err).WithDetails(map[string]interface{}{
			"url": p.cfg.URL,
		})
	}
	page := string(decoded)

	reports := make([]crosscheck.Report, 0, len(p.cfg.Reports))
	for _, r := range p.cfg.Reports {
		reports = append(reports, crosscheck.Report{
			Source:  p.cfg.Name,
			Set:     r.Set,
			Entries: r.codes(page),
		})
	}
	return reports, nil
}

func (p *PageProvider) body(ctx context.Context) ([]byte, error) {
	if p.cache != nil {
		body, ok, err := p.cache.GetReport(ctx, p.cfg.URL)
		if err != nil {
			p.logger.Warn("report cache lookup failed", zap.Error(err))
		}
		if p.metrics != nil {
			p.metrics.RecordReportCacheLookup(ctx, p.cfg.Name, ok)
		}
		if ok {
			p.logger.Debug("report served from cache", zap.Int("bytes", len(body)))
			return body, nil
		}
	}

	body, err := p.download(ctx)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.PutReport(ctx, p.cfg.URL, body, p.cfg.CacheTTL); err != nil {
			p.logger.Warn("failed to cache report", zap.Error(err))
		}
	}
	return body, nil
}

func (p *PageProvider) download(ctx context.Context) ([]byte, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", p.cfg.URL, err)
	}
	if p.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", p.cfg.UserAgent)
	}
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.ErrReportUnavailable.WithCause(err).WithDetails(map[string]interface{}{
			"url": p.cfg.URL,
		})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.ErrReportUnavailable.WithDetails(map[string]interface{}{
			"url":    p.cfg.URL,
			"status": resp.StatusCode,
		})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, errors.ErrReportUnavailable.WithCause(err).WithDetails(map[string]interface{}{
			"url": p.cfg.URL,
		})
	}

	p.logger.Info("report downloaded",
		zap.String("url", p.cfg.URL),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))
	return body, nil
}

// NANPAGeographic reads every assigned geographic code from the NANPA report.
func NANPAGeographic(url string) PageConfig {
	return PageConfig{
		Name: "nanpa-geographic",
		URL:  url,
		Reports: []PageReport{
			{Set: areacode.SetAll, Pattern: threeDigits, Min: 200, Max: 999},
		},
	}
}

// NANPANonGeographic reads the non-geographic service report. The same page
// yields the toll-free codes.
func NANPANonGeographic(url string) PageConfig {
	return PageConfig{
		Name: "nanpa-nongeographic",
		URL:  url,
		Reports: []PageReport{
			{Set: areacode.SetNonGeographic, Pattern: threeDigits, Min: 499, Max: 901},
			{Set: areacode.SetTollFree, Pattern: threeDigits, Min: 799, Max: 889},
			{Set: areacode.SetAll, Pattern: threeDigits, Min: 499, Max: 999},
		},
	}
}

// NANPACountryOrTerritory reads the country and territory area code map.
func NANPACountryOrTerritory(url string) PageConfig {
	return PageConfig{
		Name: "nanpa-country-territory",
		URL:  url,
		Reports: []PageReport{
			{Set: areacode.SetCountryOrTerritory, Pattern: cellDigits, Min: 200, Max: 999},
		},
	}
}

// CNACanadian reads the Canadian Numbering Administrator code lookup page.
func CNACanadian(url string) PageConfig {
	return PageConfig{
		Name: "cna-canadian",
		URL:  url,
		Reports: []PageReport{
			{Set: areacode.SetCanadian, Pattern: cellDigits, Min: 200, Max: 999},
		},
	}
}
