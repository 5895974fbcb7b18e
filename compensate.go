package cicmodel

import (
	"fmt"
	"path/filepath"

	"github.com/tphakala/go-cic-model/internal/filter"
	"github.com/tphakala/go-cic-model/internal/mathutil"
)

// Compensation describes a droop-compensating FIR placed in front of the
// CIC, evaluated on the CIC's own frequency grid.
type Compensation struct {
	// Taps are the FIR coefficients.
	Taps []float64

	// Frequencies in Hz of the evaluation grid.
	Frequencies []float64

	// CICDB is the DC-normalized CIC magnitude in dB.
	CICDB []float64

	// CascadeDB is the DC-normalized CIC followed by the FIR, in dB.
	CascadeDB []float64

	// PassbandEdgeHz is the compensator passband edge on the Hz axis.
	PassbandEdgeHz float64

	// DroopDB is the CIC attenuation at the passband edge.
	DroopDB float64

	// CascadeDroopDB is the cascade attenuation at the passband edge.
	CascadeDroopDB float64
}

// DesignCompensation runs the equiripple design described by
// cfg.Compensator and evaluates it against the configured CIC.
// A design that does not converge is reported as filter.ErrNotConverged.
func DesignCompensation(cfg Config) (*Compensation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateCompensator(); err != nil {
		return nil, err
	}

	taps, err := filter.DesignCompensator(cfg.Compensator)
	if err != nil {
		return nil, fmt.Errorf("compensator design failed: %w", err)
	}

	return AnalyzeCompensation(cfg, taps)
}

// AnalyzeCompensation evaluates arbitrary compensator taps against the
// configured CIC. The FIR is assumed to run at the clock rate, sharing the
// CIC's digital frequency grid.
func AnalyzeCompensation(cfg Config, taps []float64) (*Compensation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateCompensator(); err != nil {
		return nil, err
	}
	if len(taps) == 0 {
		return nil, fmt.Errorf("%w: no compensator taps", ErrInvalidConfig)
	}

	resp := filter.Evaluate(cfg.Filter, cfg.ResponsePoints)
	normalized := filter.NormalizeDC(resp, cfg.Filter)
	cascade := filter.CascadeResponse(resp, cfg.Filter, taps)

	comp := &Compensation{
		Taps:           append([]float64(nil), taps...),
		Frequencies:    resp.Frequencies,
		CICDB:          normalized.MagnitudeDB(),
		CascadeDB:      make([]float64, len(cascade)),
		PassbandEdgeHz: cfg.Compensator.PassbandEdge * cfg.Filter.ClockHz / 2,
	}
	for i, m := range cascade {
		comp.CascadeDB[i] = mathutil.ToDB(m, filter.MagnitudeFloor)
	}

	comp.DroopDB = filter.PassbandDroopDB(resp, cfg.Filter, comp.PassbandEdgeHz)
	comp.CascadeDroopDB = -comp.CascadeDB[edgeIndex(comp.Frequencies, comp.PassbandEdgeHz)]

	return comp, nil
}

// SaveTaps writes the coefficient artifact into dir and returns its path.
func (c *Compensation) SaveTaps(dir string) (string, error) {
	path := filepath.Join(dir, filter.CoefficientFileName)
	if err := filter.SaveCoefficients(path, c.Taps); err != nil {
		return "", err
	}
	return path, nil
}

// edgeIndex returns the last index whose frequency does not exceed edgeHz.
func edgeIndex(freqs []float64, edgeHz float64) int {
	idx := 0
	for i, f := range freqs {
		if f > edgeHz {
			break
		}
		idx = i
	}
	return idx
}
