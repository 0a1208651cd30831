package core

import (
	"errors"
	"sort"
	"sync"
)

// Reset defaults published before the clock tree is resolved
const (
	CoreClockDefault = 20970000 // FEI mode, ~20.97 MHz
	BusClockDefault  = 10500000 // Half of the core clock
)

const (
	sysTickMaxReload = 0xFFFFFF // SysTick reload field is 24 bits
	uartMaxSBR       = 0x1FFF   // UART BDH:BDL baud divisor is 13 bits
)

var (
	ErrReloadOutOfRange = errors.New("systick reload out of range")
	ErrBaudOutOfRange   = errors.New("uart baud divisor out of range")
)

var (
	clocksMu      sync.RWMutex
	coreClock     uint32 = CoreClockDefault
	busClock      uint32 = BusClockDefault
	clockResolver *Resolver
)

// CoreClock returns the published core clock in Hz
func CoreClock() uint32 {
	clocksMu.RLock()
	defer clocksMu.RUnlock()
	return coreClock
}

// BusClock returns the published bus clock in Hz
func BusClock() uint32 {
	clocksMu.RLock()
	defer clocksMu.RUnlock()
	return busClock
}

// InitClocks resolves the clock tree from the installed registers and
// publishes the result. Called once at boot.
func InitClocks(board Board, strict bool) (ResolvedClocks, error) {
	clocksMu.Lock()
	clockResolver = &Resolver{Board: board, Strict: strict}
	clocksMu.Unlock()
	return ReresolveClocks()
}

// ReresolveClocks re-reads the registers after the clock tree has been
// reprogrammed. The published values are left untouched on error.
func ReresolveClocks() (ResolvedClocks, error) {
	cfg := ReadClockConfiguration(MustClockRegisters())

	clocksMu.Lock()
	defer clocksMu.Unlock()
	if clockResolver == nil {
		clockResolver = NewResolver(DefaultBoard())
	}
	clocks, err := clockResolver.Resolve(cfg)
	if err != nil {
		return ResolvedClocks{}, err
	}
	coreClock = clocks.CoreHz
	busClock = clocks.BusHz

	RegisterConstant("CLOCK_FREQ", clocks.CoreHz)
	RegisterConstant("BUS_FREQ", clocks.BusHz)
	RegisterConstant("CLOCK_SOURCE", cfg.Source().String())
	DebugPrintln("[clock] source=" + cfg.Source().String() +
		" core=" + utoa(clocks.CoreHz) + " bus=" + utoa(clocks.BusHz))
	return clocks, nil
}

// resetClocks restores the reset defaults (tests only)
func resetClocks() {
	clocksMu.Lock()
	defer clocksMu.Unlock()
	coreClock = CoreClockDefault
	busClock = BusClockDefault
	clockResolver = nil
}

// SysTickReload returns the reload value that makes SysTick fire tickHz
// times per second from a core clock of coreHz.
func SysTickReload(coreHz, tickHz uint32) (uint32, error) {
	if tickHz == 0 {
		return 0, ErrReloadOutOfRange
	}
	ticks := coreHz / tickHz
	if ticks == 0 || ticks-1 > sysTickMaxReload {
		return 0, ErrReloadOutOfRange
	}
	return ticks - 1, nil
}

// UARTDivisor returns the SBR value for the given baud rate with the
// default 16x oversampling.
func UARTDivisor(busHz, baud uint32) (uint16, error) {
	if baud == 0 {
		return 0, ErrBaudOutOfRange
	}
	sbr := busHz / (16 * baud)
	if sbr == 0 || sbr > uartMaxSBR {
		return 0, ErrBaudOutOfRange
	}
	return uint16(sbr), nil
}

// Constant is a named value published by the firmware
type Constant struct {
	Name  string
	Value interface{}
}

var (
	constantsMu sync.RWMutex
	constants   = make(map[string]*Constant)
)

// RegisterConstant publishes a constant, replacing any previous value
func RegisterConstant(name string, value interface{}) {
	constantsMu.Lock()
	defer constantsMu.Unlock()
	constants[name] = &Constant{Name: name, Value: value}
}

// Constants returns the published constants sorted by name
func Constants() []Constant {
	constantsMu.RLock()
	defer constantsMu.RUnlock()

	out := make([]Constant, 0, len(constants))
	for _, c := range constants {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ConstantString returns the string form of a published constant
func ConstantString(name string) (string, bool) {
	constantsMu.RLock()
	defer constantsMu.RUnlock()
	c, ok := constants[name]
	if !ok {
		return "", false
	}
	return valueToString(c.Value), true
}
