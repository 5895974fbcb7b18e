// Command cic-vectors evaluates the CIC interpolator model, filters a
// two-tone stimulus and writes the hex test vectors for HDL simulation.
//
// Usage:
//
//	cic-vectors                                  # R=10, M=1, N=3 at 25 MHz
//	cic-vectors -variant                         # R=1, M=3, N=2 at 50 MHz
//	cic-vectors -config cic.yaml -plot out/plots
//	cic-vectors -bits 12 -samples 500 -wav
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	cicmodel "github.com/tphakala/go-cic-model"
	"github.com/tphakala/go-cic-model/internal/logging"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	if opts.cpuProfile != "" {
		f, err := os.Create(opts.cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	logger, err := logging.New(logging.WithLevel(opts.logLevel), logging.WithConsole(),
		logging.WithFields(map[string]any{"tool": "cic-vectors"}))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	res, err := cicmodel.Run(ctx, cfg, cicmodel.WithLogger(logger))
	if err != nil {
		return err
	}

	if opts.plotDir != "" {
		if err := cicmodel.WritePlotData(opts.plotDir, res); err != nil {
			return err
		}
		logger.Info("plot data written", zap.String("dir", opts.plotDir))
	}

	printSummary(os.Stdout, res, time.Since(start))
	return nil
}
