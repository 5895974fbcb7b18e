// Command design-compensator runs the equiripple design of the lowpass FIR
// placed in front of the CIC interpolator and writes its coefficient file.
//
// Usage:
//
//	design-compensator                          # 86 taps, bands [0, 1/4] and [1/3, 1]
//	design-compensator -taps 64 -atten 60 -out sim/data
//	design-compensator -config cic.yaml -plot out/plots
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	cicmodel "github.com/tphakala/go-cic-model"
	"github.com/tphakala/go-cic-model/internal/filter"
	"github.com/tphakala/go-cic-model/internal/logging"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	spec       filter.CompensatorSpec
	outDir     string
	plotDir    string
	logLevel   string
	set        map[string]bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.WithLevel(opts.logLevel), logging.WithConsole(),
		logging.WithFields(map[string]any{"tool": "design-compensator"}))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}

	comp, err := cicmodel.DesignCompensation(cfg)
	if errors.Is(err, filter.ErrNotConverged) {
		logger.Error("equiripple design did not converge; adjust taps, band edges or weights",
			zap.Int("taps", cfg.Compensator.NumTaps),
			zap.Float64("passband_edge", cfg.Compensator.PassbandEdge),
			zap.Float64("stopband_edge", cfg.Compensator.StopbandEdge))
	}
	if err != nil {
		return err
	}

	path, err := comp.SaveTaps(opts.outDir)
	if err != nil {
		return err
	}
	logger.Info("coefficients written", zap.String("path", path), zap.Int("taps", len(comp.Taps)))

	if opts.plotDir != "" {
		if err := cicmodel.WriteCompensationData(opts.plotDir, comp); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "Compensator: %d taps -> %s\n", len(comp.Taps), path)
	fmt.Fprintf(stdout, "  Passband edge: %.0f Hz\n", comp.PassbandEdgeHz)
	fmt.Fprintf(stdout, "  CIC droop at edge: %.3f dB\n", comp.DroopDB)
	fmt.Fprintf(stdout, "  Cascade droop at edge: %.3f dB\n", comp.CascadeDroopDB)
	return nil
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("design-compensator", flag.ContinueOnError)
	opts := &options{set: make(map[string]bool)}
	def := cicmodel.DefaultConfig().Compensator

	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file; missing keys keep their defaults")
	fs.IntVar(&opts.spec.NumTaps, "taps", def.NumTaps, "Number of FIR taps")
	fs.Float64Var(&opts.spec.PassbandEdge, "pass", def.PassbandEdge, "Passband edge (1 = Nyquist)")
	fs.Float64Var(&opts.spec.StopbandEdge, "stop", def.StopbandEdge, "Stopband edge (1 = Nyquist)")
	fs.Float64Var(&opts.spec.RippleDB, "ripple", def.RippleDB, "Passband ripple in dB")
	fs.Float64Var(&opts.spec.AttenuationDB, "atten", def.AttenuationDB, "Stopband attenuation in dB")
	fs.IntVar(&opts.spec.GridDensity, "density", 0, "Grid points per extremal (0 = default)")
	fs.IntVar(&opts.spec.MaxIterations, "iterations", 0, "Exchange iteration limit (0 = default)")
	fs.StringVar(&opts.outDir, "out", ".", "Directory for "+filter.CoefficientFileName)
	fs.StringVar(&opts.plotDir, "plot", "", "Write compensation.csv to this directory")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// buildConfig loads the base configuration and replaces the compensator
// fields given on the command line.
func buildConfig(opts *options) (cicmodel.Config, error) {
	cfg := cicmodel.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := cicmodel.LoadConfig(opts.configPath)
		if err != nil {
			return cicmodel.Config{}, err
		}
		cfg = loaded
	}

	c := &cfg.Compensator
	overrides := map[string]func(){
		"taps":       func() { c.NumTaps = opts.spec.NumTaps },
		"pass":       func() { c.PassbandEdge = opts.spec.PassbandEdge },
		"stop":       func() { c.StopbandEdge = opts.spec.StopbandEdge },
		"ripple":     func() { c.RippleDB = opts.spec.RippleDB },
		"atten":      func() { c.AttenuationDB = opts.spec.AttenuationDB },
		"density":    func() { c.GridDensity = opts.spec.GridDensity },
		"iterations": func() { c.MaxIterations = opts.spec.MaxIterations },
	}
	for name, apply := range overrides {
		if opts.set[name] {
			apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return cicmodel.Config{}, err
	}
	if err := cfg.ValidateCompensator(); err != nil {
		return cicmodel.Config{}, err
	}
	return cfg, nil
}
