// Package main implements the gtfscheck CLI, which validates a GTFS feed on
// disk and prints the report.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/transitcheck/internal/config"
	"github.com/JonMunkholm/transitcheck/internal/core"
	"github.com/JonMunkholm/transitcheck/internal/input"
	"github.com/JonMunkholm/transitcheck/internal/logging"
	_ "github.com/JonMunkholm/transitcheck/internal/rules"
	_ "github.com/JonMunkholm/transitcheck/internal/schema/gtfs"
)

const usage = `gtfscheck - GTFS feed validator

Usage:
  gtfscheck [options] <feed.zip | feed directory>

Examples:
  gtfscheck feed.zip
  gtfscheck -country CA -now 20240601 feed.zip
  gtfscheck -output json -o report.json ./feed
  gtfscheck -skip stops_stop_timezone_valid feed.zip

Exit status is 0 for a valid feed, 1 when the feed has errors and 2 when the
run itself failed.

Options:
`

// Exit codes.
const (
	exitValid   = 0
	exitInvalid = 1
	exitFailed  = 2
)

type options struct {
	country string
	feedID  string
	now     string
	skip    string
	output  string
	outFile string
	quiet   bool
	path    string
}

func main() {
	opts := parseFlags()
	if opts.path == "" {
		flag.Usage()
		os.Exit(exitFailed)
	}

	// .env is optional for the CLI
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(exitFailed)
	}
	level := cfg.Logging.Level
	if opts.quiet {
		level = "error"
	}
	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, level, cfg.Logging.Format)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, opts))
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.country, "country", "", "ISO 3166 alpha-2 region for phone number checks")
	flag.StringVar(&o.feedID, "feed-id", "", "Identifier recorded in the report")
	flag.StringVar(&o.now, "now", "", "Reference date, YYYYMMDD or RFC 3339 (default: now)")
	flag.StringVar(&o.skip, "skip", "", "Validators to skip (comma-separated)")
	flag.StringVar(&o.output, "output", "text", "Output format: text, json")
	flag.StringVar(&o.outFile, "o", "", "Write the report to this file instead of stdout")
	flag.BoolVar(&o.quiet, "quiet", false, "Only log errors")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 0 {
		o.path = flag.Arg(0)
	}
	return o
}

func run(ctx context.Context, cfg *config.Config, o options) int {
	validateOpts := core.ValidateOptions{
		FeedID:      o.feedID,
		CountryCode: strings.ToUpper(o.country),
	}
	for _, name := range strings.Split(o.skip, ",") {
		if name = strings.TrimSpace(name); name != "" {
			validateOpts.Skip = append(validateOpts.Skip, name)
		}
	}
	if o.now != "" {
		now, err := parseNow(o.now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -now %q: %v\n", o.now, err)
			return exitFailed
		}
		validateOpts.Now = now
	}

	service, err := core.NewService(cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", core.FormatUserError(err))
		return exitFailed
	}

	in, err := input.Open(o.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", core.FormatUserError(err))
		return exitFailed
	}
	defer in.Close()

	report, err := service.Validate(ctx, in, validateOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", core.FormatUserError(err))
		return exitFailed
	}

	out := io.Writer(os.Stdout)
	if o.outFile != "" {
		f, err := os.Create(o.outFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", o.outFile, err)
			return exitFailed
		}
		defer f.Close()
		out = f
	}

	if strings.EqualFold(o.output, "json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	} else {
		err = writeText(out, report)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "write report: %v\n", err)
		return exitFailed
	}

	if !report.Summary.Valid {
		return exitInvalid
	}
	return exitValid
}

// writeText prints a human-readable summary: per-table counts, then notice
// codes by severity.
func writeText(w io.Writer, r *core.Report) error {
	status := "VALID"
	if !r.Summary.Valid {
		status = "INVALID"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s (run %s, %s)\n", status, r.Source, r.RunID, r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "  %d errors, %d warnings, %d infos\n\n", r.Summary.Errors, r.Summary.Warnings, r.Summary.Infos)

	b.WriteString("Tables:\n")
	for _, t := range r.Tables {
		fmt.Fprintf(&b, "  %-28s %-16s %8d\n", t.Filename, t.Status, t.Records)
	}

	if len(r.Summary.Codes) > 0 {
		b.WriteString("\nNotices:\n")
		for _, c := range r.Summary.Codes {
			fmt.Fprintf(&b, "  %-8s %-48s %6d\n", c.Severity, c.Code, c.Count)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// parseNow accepts YYYYMMDD dates (noon UTC) and RFC 3339 timestamps.
func parseNow(raw string) (time.Time, error) {
	if d, err := time.Parse("20060102", raw); err == nil {
		return d.Add(12 * time.Hour), nil
	}
	return time.Parse(time.RFC3339, raw)
}
