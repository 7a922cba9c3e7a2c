package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	domain "github.com/davidleathers/phonenumbers-na/internal/domain/crosscheck"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/cache"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/config"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/database"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/telemetry"
	"github.com/davidleathers/phonenumbers-na/internal/service/crosscheck"
	"github.com/davidleathers/phonenumbers-na/internal/service/crosscheck/providers"
)

// Exit codes
const (
	exitOK          = 0
	exitDiscrepancy = 1
	exitError       = 2
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("crosscheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath     = fs.String("config", "", "Path to configuration file")
		csvPath        = fs.String("csv", "", "CSV report to compare (npa,set[,location])")
		csvComplete    = fs.Bool("csv-complete", false, "Treat the CSV report as listing every member of its sets")
		libPhoneNumber = fs.Bool("libphonenumber", false, "Compare against libphonenumber region metadata")
		format         = fs.String("format", "text", "Output format: text, json")
		logLevel       = fs.String("log-level", "", "Override the configured log level")
		noStore        = fs.Bool("no-store", false, "Do not persist the result even when a database is configured")
		offline        = fs.Bool("offline", false, "Skip the published NANPA and CNA web reports")
	)
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintf(stderr, "unknown format %q\n", *format)
		return exitError
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return exitError
	}
	if *csvPath != "" {
		cfg.CrossCheck.CSVReportPath = *csvPath
		cfg.CrossCheck.CSVComplete = *csvComplete
	}
	if *offline {
		cfg.CrossCheck.NANPAGeographicURL = ""
		cfg.CrossCheck.NANPANonGeographicURL = ""
		cfg.CrossCheck.NANPACountryURL = ""
		cfg.CrossCheck.CNAURL = ""
	}
	if *libPhoneNumber {
		cfg.CrossCheck.LibPhoneNumber = true
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	logger, err := telemetry.NewZapLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(stderr, "failed to setup logger: %v\n", err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()

	var (
		store       crosscheck.ResultStore
		resultCache crosscheck.ResultCache
		reportCache cache.ReportCache
	)
	if cfg.Database.Enabled() && !*noStore {
		pool, err := database.NewConnectionPool(&cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", zap.Error(err))
			return exitError
		}
		defer pool.Close()
		store = database.NewCrossCheckRepository(pool.Pool())
	}
	if cfg.Redis.Enabled() {
		rc, err := cache.NewRedisCache(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, reports will not be cached", zap.Error(err))
		} else {
			defer rc.Close()
			reportCache = rc
			resultCache = rc
		}
	}

	sources := providers.NewSources(cfg.CrossCheck, reportCache, nil, logger)
	if len(sources) == 0 {
		fmt.Fprintln(stderr, "no cross-check sources configured; set report URLs, -csv or -libphonenumber")
		return exitError
	}

	svc := crosscheck.NewService(sources, store, resultCache, nil, logger)
	result, err := svc.Run(ctx)
	if err != nil {
		logger.Error("cross-check failed", zap.Error(err))
		return exitError
	}

	if *format == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "failed to encode result: %v\n", err)
			return exitError
		}
		fmt.Fprintln(stdout, string(data))
	} else {
		printResult(stdout, result)
	}

	if !result.OK() {
		return exitDiscrepancy
	}
	return exitOK
}

func printResult(w io.Writer, result *domain.Result) {
	fmt.Fprintf(w, "Run %s (%s)\n\n", result.RunID, result.Duration())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tREPORTS\tENTRIES\tDISCREPANCIES\tERROR")
	for _, s := range result.Sources {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", s.Source, s.Reports, s.Entries, s.Discrepancies, s.Error)
	}
	_ = tw.Flush()

	if len(result.Discrepancies) == 0 {
		fmt.Fprintln(w, "\nNo discrepancies.")
		return
	}

	fmt.Fprintln(w, "\nDiscrepancies:")
	bySource := result.BySource()
	names := make([]string, 0, len(bySource))
	for name := range bySource {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, d := range bySource[name] {
			fmt.Fprintf(w, "  %s\t%s\t%03d\t%s\n", d.Source, d.Set, d.Code, d.Kind)
		}
	}
}
