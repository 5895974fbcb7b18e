// Package cicmodel models a cascaded-integrator-comb (CIC) interpolation
// filter and produces the artifacts used to verify a hardware
// implementation of it.
//
// A run evaluates the closed-form transfer function
//
//	H(z) = (1 - z^(-R·M))^N / (1 - z^(-1))^N
//
// on the upper half of the unit circle, filters a synthetic multi-tone
// stimulus with it, computes the amplitude spectra before and after
// filtering and writes the first samples of the stimulus as W-bit
// two's-complement hexadecimal words for an HDL testbench.
//
// # Quick Start
//
//	cfg := cicmodel.DefaultConfig()
//	cfg.Vector.Dir = "sim/data"
//
//	res, err := cicmodel.Run(ctx, cfg, cicmodel.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.VectorPath, res.Stats.Overflows)
//
// # Compensation
//
// The passband droop of the CIC is corrected by a weighted-equiripple FIR
// designed with [DesignCompensation]. Its taps are written one per line
// with 8 decimal digits for the FIR generator of the HDL flow.
//
// # Configuration
//
// [Config] is an immutable value. [DefaultConfig] reproduces the R=10,
// M=1, N=3 interpolator at 25 MHz; [ResponseVariantConfig] the R=1, M=3,
// N=2 filter at 50 MHz. [LoadConfig] overlays a YAML file on the defaults.
//
// # Plot Data
//
// Plotting is left to external tools. [WritePlotData] exports the arrays of
// a [Result] as CSV files.
package cicmodel
