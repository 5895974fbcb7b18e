package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	cicmodel "github.com/tphakala/go-cic-model"
)

// options holds the parsed command line. set records which flags were
// given explicitly so that only those override the configuration.
type options struct {
	configPath string
	variant    bool
	dir        string
	bits       int
	samples    int
	kernel     string
	axis       string
	wav        bool
	plotDir    string
	logLevel   string
	cpuProfile string
	set        map[string]bool
}

var errConflictingFlags = errors.New("-variant and -config cannot be combined")

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("cic-vectors", flag.ContinueOnError)
	opts := &options{set: make(map[string]bool)}

	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file; missing keys keep their defaults")
	fs.BoolVar(&opts.variant, "variant", false, "Use the R=1, M=3, N=2 response variant")
	fs.StringVar(&opts.dir, "dir", "", "Directory for the test-vector file")
	fs.IntVar(&opts.bits, "bits", 0, "Test-vector word width in bits")
	fs.IntVar(&opts.samples, "samples", 0, "Number of stimulus samples to quantize")
	fs.StringVar(&opts.kernel, "kernel", "", "Filter kernel: response or impulse")
	fs.StringVar(&opts.axis, "axis", "", "Response frequency axis: clock or output")
	fs.BoolVar(&opts.wav, "wav", false, "Also write the test vectors as a WAV file")
	fs.StringVar(&opts.plotDir, "plot", "", "Write CSV plot data to this directory")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.cpuProfile, "cpuprofile", "", "Write CPU profile to file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if opts.variant && opts.configPath != "" {
		return nil, errConflictingFlags
	}
	return opts, nil
}

// loadConfig picks the base configuration and applies explicit flag
// overrides on top of it.
func loadConfig(opts *options) (cicmodel.Config, error) {
	var cfg cicmodel.Config
	switch {
	case opts.configPath != "":
		loaded, err := cicmodel.LoadConfig(opts.configPath)
		if err != nil {
			return cicmodel.Config{}, err
		}
		cfg = loaded
	case opts.variant:
		cfg = cicmodel.ResponseVariantConfig()
	default:
		cfg = cicmodel.DefaultConfig()
	}

	if opts.set["dir"] {
		cfg.Vector.Dir = opts.dir
	}
	if opts.set["bits"] {
		cfg.Vector.Bits = opts.bits
	}
	if opts.set["samples"] {
		cfg.Vector.Samples = opts.samples
	}
	if opts.set["kernel"] {
		cfg.Kernel = cicmodel.KernelSource(opts.kernel)
	}
	if opts.set["axis"] {
		cfg.Axis = opts.axis
	}
	if opts.set["wav"] {
		cfg.Vector.WAV = opts.wav
	}

	if err := cfg.Validate(); err != nil {
		return cicmodel.Config{}, err
	}
	return cfg, nil
}

func printSummary(w io.Writer, res *cicmodel.Result, elapsed time.Duration) {
	f := res.Config.Filter
	peakHz, peakMag := res.RawSpectrum.Peak()
	filteredHz, filteredMag := res.FilteredSpectrum.Peak()

	fmt.Fprintf(w, "CIC R=%d M=%d N=%d at %g Hz\n", f.Rate, f.DiffDelay, f.Stages, f.ClockHz)
	fmt.Fprintf(w, "  DC gain: %.2f dB\n", res.ResponseDB[0])
	fmt.Fprintf(w, "  Stimulus: %d samples at %g Hz\n", res.Raw.Len(), res.Raw.SampleRate)
	fmt.Fprintf(w, "  Raw peak: %.6f at %.0f Hz\n", peakMag, peakHz)
	fmt.Fprintf(w, "  Filtered peak: %.6g at %.0f Hz\n", filteredMag, filteredHz)
	fmt.Fprintf(w, "  Vectors: %s (%d samples, %d overflows)\n",
		res.VectorPath, res.Stats.Samples, res.Stats.Overflows)
	if res.WAVPath != "" {
		fmt.Fprintf(w, "  WAV: %s\n", res.WAVPath)
	}
	for _, st := range res.Timings {
		fmt.Fprintf(w, "  %-10s %v\n", st.Name, st.Duration.Round(time.Microsecond))
	}
	fmt.Fprintf(w, "  Total: %.3fs\n", elapsed.Seconds())
}
