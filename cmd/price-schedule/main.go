// Command price-schedule prices a grid of (elapsed, sold) pairs for one curve
// preset and stores the result as a parquet table.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/smarsx/larena/config"
	"github.com/smarsx/larena/logger"
	"github.com/smarsx/larena/models"
	"github.com/smarsx/larena/processor"
	"github.com/smarsx/larena/writer"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	log := logger.GetLogger()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("error loading .env file")
	}

	fs := flag.NewFlagSet("price-schedule", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "config/config.yml", "Path to configuration file")
	curveName := fs.String("curve", "", "Name of the curve preset to price")
	workers := fs.Int("workers", 0, "Override schedule.workers")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *curveName == "" || fs.NArg() > 0 {
		fmt.Fprintln(stderr, "usage: price-schedule --config cfg.yml --curve <preset>")
		return exitUsage
	}

	cfg, err := config.LoadConfig(config.ResolvePath(*configPath))
	if err != nil {
		log.WithError(err).Error("failed to load configuration")
		return exitError
	}
	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("failed to configure logger")
		return exitError
	}
	if *workers > 0 {
		cfg.Schedule.Workers = *workers
	}

	runID := uuid.NewString()
	entry := log.WithComponent("price_schedule").WithFields(logger.Fields{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
		"curve":   *curveName,
		"run_id":  runID,
	})

	curve, err := cfg.Curve(*curveName)
	if err != nil {
		entry.WithError(err).WithFields(logger.Fields{
			"available": strings.Join(curveNames(cfg), ","),
		}).Error("unknown curve preset")
		return exitError
	}

	if cfg.Metrics.CloudWatch.Enabled {
		cw := cfg.Metrics.CloudWatch
		if err := logger.InitCloudWatch(ctx, cw.Region, cw.Namespace, cw.Dashboard); err != nil {
			entry.WithError(err).Warn("continuing without CloudWatch metrics")
		}
	}

	start := time.Now()

	pricer, err := processor.NewPricer(*curveName, curve, cfg.Units.Scale(), cfg.Schedule.Workers)
	if err != nil {
		entry.WithError(err).Error("failed to create pricer")
		return exitError
	}
	rows, err := pricer.Run(ctx, cfg.Schedule.Elapsed.Points(), cfg.Schedule.Sold.Points())
	if err != nil {
		entry.WithError(err).Error("failed to price schedule")
		return exitError
	}

	w, err := writer.NewScheduleWriter(ctx, cfg)
	if err != nil {
		entry.WithError(err).Error("failed to create schedule writer")
		return exitError
	}
	res, err := w.Write(ctx, models.ScheduleBatch{
		RunID:     runID,
		Curve:     *curveName,
		Rows:      rows,
		Timestamp: start,
	})
	if err != nil {
		entry.WithError(err).Error("failed to write schedule")
		return exitError
	}

	priced, failed := pricer.Stats()
	entry.LogMetric("price_schedule", "rows_priced", priced, "counter", nil)
	entry.LogMetric("price_schedule", "rows_failed", failed, "counter", nil)
	logger.LogPerformanceEntry(entry, "price_schedule", "run", time.Since(start), logger.Fields{
		"rows": len(rows),
	})

	location := res.LocalPath
	if res.S3URI != "" {
		location = res.S3URI
	}
	fmt.Fprintf(stdout, "%s rows=%d priced=%d failed=%d\n", location, len(rows), priced, failed)
	return exitOK
}

func curveNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Curves))
	for name := range cfg.Curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
