// Command compute-price prints the VRGDA price of one sale as an ABI encoded
// uint256 on stdout. Logs go to stderr.
//
//	compute-price <larena|pages|logistic|linear> --time_since_start 86400 --num_sold 3 \
//	    --initial_price 4200000000000000000 --per_period_price_decrease 310000000000000000 ...
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/smarsx/larena/config"
	"github.com/smarsx/larena/internal/abi"
	"github.com/smarsx/larena/internal/ffi"
	"github.com/smarsx/larena/logger"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	log := logger.GetLogger()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("error loading .env file")
	}

	kind, a, configPath, err := parseArgs(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return exitUsage
	}

	cfg, err := config.LoadConfig(config.ResolvePath(configPath))
	if err != nil {
		log.WithError(err).Error("failed to load configuration")
		return exitError
	}
	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("failed to configure logger")
		return exitError
	}

	entry := log.WithComponent("compute_price").WithFields(logger.Fields{
		"request_id": uuid.NewString(),
		"type":       string(kind),
	})

	scale := cfg.Units.Scale()
	req, err := ffi.Build(kind, a, scale)
	if err != nil {
		entry.WithError(err).Error("invalid arguments")
		return exitError
	}

	fixed, q, err := ffi.Compute(req, scale)
	if err != nil {
		entry.WithError(err).WithFields(logger.Fields{
			"elapsed": req.Elapsed,
			"sold":    req.Sold,
		}).Error("failed to compute price")
		return exitError
	}

	entry.WithFields(logger.Fields{
		"elapsed":     req.Elapsed,
		"sold":        req.Sold,
		"target_time": q.TargetTime,
		"decay":       q.Decay,
		"phase":       q.Phase.String(),
		"price":       scale.FormatFixed(fixed),
	}).Debug("price computed")

	fmt.Fprintln(stdout, abi.EncodeUint256(fixed))
	return exitOK
}

// parseArgs reads the item type followed by flags.
func parseArgs(args []string, stderr io.Writer) (ffi.Kind, ffi.Args, string, error) {
	var a ffi.Args
	if len(args) == 0 || len(args[0]) == 0 || args[0][0] == '-' {
		return "", a, "", fmt.Errorf("%w: compute-price <type> [flags], type is required", errUsage)
	}
	kind, err := ffi.ParseKind(args[0])
	if err != nil {
		return "", a, "", err
	}

	fs := flag.NewFlagSet("compute-price", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Int64Var(&a.TimeSinceStart, "time_since_start", 0, "Seconds since the auction started")
	fs.StringVar(&a.NumSold, "num_sold", "", "Units sold so far")
	fs.StringVar(&a.InitialPrice, "initial_price", "", "Target price, fixed point")
	fs.StringVar(&a.PerPeriodPriceDecrease, "per_period_price_decrease", "", "Price decay per period, fixed point")
	fs.StringVar(&a.LogisticScale, "logistic_scale", "", "Logistic asymptote, fixed point")
	fs.StringVar(&a.TimeScale, "time_scale", "", "Logistic steepness, fixed point")
	fs.StringVar(&a.TimeShift, "time_shift", "", "Logistic time shift in periods, fixed point")
	fs.StringVar(&a.PerPeriodPostSwitchover, "per_period_post_switchover", "", "Units per period on the linear schedule, fixed point")
	fs.StringVar(&a.SwitchoverTime, "switchover_time", "", "Periods after which larena switches to linear, fixed point")
	fs.StringVar(&a.SwitchoverUnits, "switchover_units", "", "Units after which larena switches to linear")
	fs.StringVar(&a.PostSwitchoverDecay, "post_switchover_decay", "", "Price decay after the switchover, fixed point")
	configPath := fs.String("config", "", "Path to configuration file")

	if err := fs.Parse(args[1:]); err != nil {
		return "", a, "", err
	}
	if fs.NArg() > 0 {
		return "", a, "", fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	return kind, a, *configPath, nil
}
