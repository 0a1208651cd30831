package core

import (
	"errors"
	"fmt"
)

// Board oscillator constants for the FRDM-KL25Z
const (
	DefaultExternalHz     = 8000000 // External crystal
	DefaultSlowInternalHz = 32768   // Slow internal reference (IRC32K)
	DefaultFastInternalHz = 4000000 // Fast internal reference (IRC4M)
)

var (
	// ErrUnsupportedClockConfiguration is returned by a strict Resolver when
	// the selector fields name a reserved clock path or a divider code does
	// not fit its register field.
	ErrUnsupportedClockConfiguration = errors.New("unsupported clock configuration")
	// ErrInvalidBoard is returned by a strict Resolver when a board oscillator
	// constant is zero.
	ErrInvalidBoard                  = errors.New("invalid board oscillator constants")
)

// ClockSource is the MCG_C1.CLKS selector
type ClockSource uint8

const (
	ClockSourceLoop     ClockSource = 0 // FLL or PLL output, depending on PLLS
	ClockSourceInternal ClockSource = 1 // Internal reference clock
	ClockSourceExternal ClockSource = 2 // External reference clock
	clockSourceReserved ClockSource = 3
)

// ReferenceSource names the oscillator path that feeds MCGOUTCLK
type ReferenceSource uint8

const (
	InternalSlow ReferenceSource = iota
	InternalFast
	External
	FllOutput
	PllOutput
	Unsupported
)

func (s ReferenceSource) String() string {
	switch s {
	case InternalSlow:
		return "internal-slow"
	case InternalFast:
		return "internal-fast"
	case External:
		return "external"
	case FllOutput:
		return "fll"
	case PllOutput:
		return "pll"
	default:
		return "unsupported"
	}
}

// ClockConfiguration is a snapshot of the MCG and SIM clock fields.
// Values are the encoded register fields, not the decoded factors.
type ClockConfiguration struct {
	ClockSource         ClockSource // MCG_C1.CLKS
	PLLSelected         bool        // MCG_C6.PLLS
	InternalReference   bool        // MCG_C1.IREFS, slow IRC feeds the FLL
	FastInternal        bool        // MCG_C2.IRCS
	FastInternalDivider uint8       // MCG_SC.FCRDIV
	OscillatorRange     uint8       // MCG_C2.RANGE0
	ReferenceDivider    uint8       // MCG_C1.FRDIV
	DCORange            uint8       // MCG_C4 DMX32:DRST_DRS
	PLLPredivider       uint32      // MCG_C5.PRDIV0, divide by N+1
	PLLMultiplier       uint32      // MCG_C6.VDIV0, multiply by M+24
	OutputDivider1      uint32      // SIM_CLKDIV1.OUTDIV1, core = osc/(N+1)
	OutputDivider4      uint32      // SIM_CLKDIV1.OUTDIV4, bus = core/(N+1)
}

// Source reports which oscillator path the two selectors activate.
func (c ClockConfiguration) Source() ReferenceSource {
	switch c.ClockSource {
	case ClockSourceLoop:
		if c.PLLSelected {
			return PllOutput
		}
		return FllOutput
	case ClockSourceInternal:
		if c.FastInternal {
			return InternalFast
		}
		return InternalSlow
	case ClockSourceExternal:
		return External
	default:
		return Unsupported
	}
}

// Board holds the oscillator frequencies that cannot be read from hardware
type Board struct {
	ExternalHz     uint32
	SlowInternalHz uint32
	FastInternalHz uint32
}

// DefaultBoard returns the FRDM-KL25Z oscillator constants
func DefaultBoard() Board {
	return Board{
		ExternalHz:     DefaultExternalHz,
		SlowInternalHz: DefaultSlowInternalHz,
		FastInternalHz: DefaultFastInternalHz,
	}
}

// ResolvedClocks are the published core and bus frequencies, both floored
// to whole kHz. OscillatorHz is the unrounded MCGOUTCLK they came from.
type ResolvedClocks struct {
	OscillatorHz uint32
	CoreHz       uint32
	BusHz        uint32
}

// FLL multipliers indexed by the DMX32:DRST_DRS code
var dcoMultipliers = [8]uint32{640, 1280, 1920, 2560, 732, 1464, 2197, 2929}

// fllReferenceDivider decodes MCG_C1.FRDIV. In the high frequency crystal
// ranges the divider carries an extra factor of 32 and the top two codes
// are the irregular 1280 and 1536.
func fllReferenceDivider(frdiv, oscRange uint8) uint32 {
	frdiv &= 0x07
	if oscRange == 0 {
		return 1 << frdiv
	}
	switch frdiv {
	case 7:
		return 1536
	case 6:
		return 1280
	default:
		return 32 << frdiv
	}
}

// Resolver computes clock frequencies from configuration snapshots.
// It remembers the last oscillator frequency so that a lenient resolver
// can keep it when the selectors name a reserved path.
type Resolver struct {
	Board  Board
	Strict bool

	oscillatorHz uint32
}

// NewResolver returns a lenient resolver for the given board
func NewResolver(board Board) *Resolver {
	return &Resolver{Board: board}
}

// OscillatorHz returns the MCGOUTCLK value from the last resolution
func (r *Resolver) OscillatorHz() uint32 {
	return r.oscillatorHz
}

// Resolve evaluates exactly one oscillator path and derives the core and
// bus clocks from it.
func (r *Resolver) Resolve(cfg ClockConfiguration) (ResolvedClocks, error) {
	b := r.Board
	if r.Strict && (b.ExternalHz == 0 || b.SlowInternalHz == 0 || b.FastInternalHz == 0) {
		return ResolvedClocks{}, ErrInvalidBoard
	}
	if r.Strict {
		if err := checkFieldWidths(cfg); err != nil {
			return ResolvedClocks{}, err
		}
	}

	source := cfg.Source()
	switch source {
	case FllOutput:
		r.oscillatorHz = r.fllClock(cfg)
	case PllOutput:
		r.oscillatorHz = r.pllClock(cfg)
	case InternalSlow:
		r.oscillatorHz = b.SlowInternalHz
	case InternalFast:
		r.oscillatorHz = b.FastInternalHz >> (cfg.FastInternalDivider & 0x07)
	case External:
		r.oscillatorHz = b.ExternalHz
	default:
		if r.Strict {
			return ResolvedClocks{}, fmt.Errorf("%w: CLKS=%d", ErrUnsupportedClockConfiguration, cfg.ClockSource)
		}
		// Reserved selector, keep the stale oscillator value
		RecordTiming(EvtClockStale, uint8(cfg.ClockSource), r.oscillatorHz, 0, 0)
	}

	clocks := deriveClocks(r.oscillatorHz, cfg.OutputDivider1, cfg.OutputDivider4)
	RecordTiming(EvtClockResolved, uint8(source), clocks.OscillatorHz, clocks.CoreHz, clocks.BusHz)
	return clocks, nil
}

// Register field widths of the divider encodings
const (
	maxPLLPredivider  = 0x1F // MCG_C5.PRDIV0
	maxOutputDivider1 = 0x0F // SIM_CLKDIV1.OUTDIV1
	maxOutputDivider4 = 0x07 // SIM_CLKDIV1.OUTDIV4
)

func checkFieldWidths(cfg ClockConfiguration) error {
	switch {
	case cfg.PLLPredivider > maxPLLPredivider:
		return fmt.Errorf("%w: PRDIV0=%d", ErrUnsupportedClockConfiguration, cfg.PLLPredivider)
	case cfg.OutputDivider1 > maxOutputDivider1:
		return fmt.Errorf("%w: OUTDIV1=%d", ErrUnsupportedClockConfiguration, cfg.OutputDivider1)
	case cfg.OutputDivider4 > maxOutputDivider4:
		return fmt.Errorf("%w: OUTDIV4=%d", ErrUnsupportedClockConfiguration, cfg.OutputDivider4)
	}
	return nil
}

func (r *Resolver) fllClock(cfg ClockConfiguration) uint32 {
	var ref uint32
	if cfg.InternalReference {
		ref = r.Board.SlowInternalHz
	} else {
		ref = r.Board.ExternalHz / fllReferenceDivider(cfg.ReferenceDivider, cfg.OscillatorRange)
	}
	return ref * dcoMultipliers[cfg.DCORange&0x07]
}

func (r *Resolver) pllClock(cfg ClockConfiguration) uint32 {
	osc := divide(r.Board.ExternalHz, cfg.PLLPredivider)
	return osc * (cfg.PLLMultiplier + 24)
}

// deriveClocks applies the output dividers. The bus clock divides the
// already rounded core clock.
func deriveClocks(oscHz, outdiv1, outdiv4 uint32) ResolvedClocks {
	core := floorKHz(divide(oscHz, outdiv1))
	bus := floorKHz(divide(core, outdiv4))
	return ResolvedClocks{OscillatorHz: oscHz, CoreHz: core, BusHz: bus}
}

// divide applies a divide-by-(code+1) encoding. The divisor is widened so
// that code MaxUint32 cannot wrap to zero.
func divide(hz, code uint32) uint32 {
	return uint32(uint64(hz) / (uint64(code) + 1))
}

func floorKHz(hz uint32) uint32 {
	return hz / 1000 * 1000
}

// Resolve is a one-shot lenient resolution against a fresh resolver
func Resolve(cfg ClockConfiguration, board Board) (ResolvedClocks, error) {
	return NewResolver(board).Resolve(cfg)
}
