// Command analyze-cic prints the gain structure of a CIC interpolator: its
// polyphase branch gains, the droop across the passband and the effect of
// a short frequency-sampled FIR in front of it.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	cicmodel "github.com/tphakala/go-cic-model"
	"github.com/tphakala/go-cic-model/internal/conv"
	"github.com/tphakala/go-cic-model/internal/filter"
)

const (
	// Frequency-sampled comparison filter: unity to 0.1·Nyquist, ramping
	// to zero at Nyquist.
	firTaps       = 31
	firKneeFreq   = 0.1
	stepLength    = 2000 // Samples of unit step fed to the interpolator
	droopFraction = 8    // Droop is listed at Nyquist/droopFraction steps
)

func main() {
	variant := flag.Bool("variant", false, "Analyze the R=1, M=3, N=2 response variant")
	configPath := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	cfg := cicmodel.DefaultConfig()
	if *variant {
		cfg = cicmodel.ResponseVariantConfig()
	}
	if *configPath != "" {
		loaded, err := cicmodel.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	if err := analyze(os.Stdout, cfg); err != nil {
		log.Fatal(err)
	}
}

func analyze(w io.Writer, cfg cicmodel.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	spec := cfg.Filter

	fmt.Fprintln(w, "=== Analyzing CIC Gain ===")
	fmt.Fprintf(w, "  R=%d M=%d N=%d, clock %g Hz\n", spec.Rate, spec.DiffDelay, spec.Stages, spec.ClockHz)
	fmt.Fprintf(w, "  DC gain (R·M)^N: %.0f\n", spec.DCGain())
	fmt.Fprintf(w, "  Peak gain: %.2f dB\n\n", filter.PeakGainDB(filter.Evaluate(spec, cfg.ResponsePoints)))

	impulse := filter.CICImpulseResponse(spec)
	bank, err := filter.DecomposePolyphase(impulse, spec.Rate)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Polyphase bank: %d branches of %d taps (%d total)\n", bank.Phases, bank.TapsPerPhase, bank.TotalTaps)
	for phase := range bank.Phases {
		fmt.Fprintf(w, "  Branch %2d: DC gain %.1f\n", phase, bank.BranchDCGain(phase))
	}

	ip, err := conv.NewInterpolator(spec)
	if err != nil {
		return err
	}
	step := make([]float64, stepLength)
	for i := range step {
		step[i] = 1
	}
	out := ip.Process(step)
	fmt.Fprintf(w, "  Steady-state output for a unit step: %.1f (expected %.1f)\n\n", out[len(out)-1], ip.Gain())

	resp := filter.Evaluate(spec, cfg.ResponsePoints)
	nyquist := resp.Frequencies[resp.Len()-1]
	fmt.Fprintln(w, "Passband droop (DC-normalized):")
	for k := 1; k < droopFraction; k++ {
		f := nyquist * float64(k) / droopFraction
		fmt.Fprintf(w, "  %12.0f Hz: %7.2f dB\n", f, filter.PassbandDroopDB(resp, spec, f))
	}

	taps, err := filter.DesignFrequencySampled(firTaps, []float64{0, firKneeFreq, 1}, []float64{1, 1, 0}, filter.Window{})
	if err != nil {
		return err
	}
	comp, err := cicmodel.AnalyzeCompensation(cfg, taps)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n=== %d-tap frequency-sampled FIR + CIC ===\n", firTaps)
	for k := 1; k < droopFraction; k++ {
		idx := k * (len(comp.Frequencies) - 1) / droopFraction
		fmt.Fprintf(w, "  %12.0f Hz: CIC %7.2f dB, cascade %7.2f dB\n",
			comp.Frequencies[idx], comp.CICDB[idx], comp.CascadeDB[idx])
	}
	return nil
}
