package core

// ClockRegisters is the abstract clock-tree register interface that core
// code uses. Each accessor returns one encoded field.
type ClockRegisters interface {
	ReadClockSource() ClockSource
	ReadPLLSelect() bool
	ReadInternalReference() bool
	ReadInternalClockSelect() bool
	ReadFastInternalDivider() uint8
	ReadOscillatorRange() uint8
	ReadReferenceDivider() uint8
	ReadDCORange() uint8
	ReadPLLPredivider() uint32
	ReadPLLMultiplier() uint32
	ReadOutputDivider1() uint32
	ReadOutputDivider4() uint32
}

// ReadClockConfiguration takes a single snapshot of the clock fields.
// The clock tree must be quiescent while this runs.
func ReadClockConfiguration(regs ClockRegisters) ClockConfiguration {
	return ClockConfiguration{
		ClockSource:         regs.ReadClockSource(),
		PLLSelected:         regs.ReadPLLSelect(),
		InternalReference:   regs.ReadInternalReference(),
		FastInternal:        regs.ReadInternalClockSelect(),
		FastInternalDivider: regs.ReadFastInternalDivider(),
		OscillatorRange:     regs.ReadOscillatorRange(),
		ReferenceDivider:    regs.ReadReferenceDivider(),
		DCORange:            regs.ReadDCORange(),
		PLLPredivider:       regs.ReadPLLPredivider(),
		PLLMultiplier:       regs.ReadPLLMultiplier(),
		OutputDivider1:      regs.ReadOutputDivider1(),
		OutputDivider4:      regs.ReadOutputDivider4(),
	}
}

// Global singleton used by core code.
var clockRegisters ClockRegisters

// SetClockRegisters is called by target-specific code to register its
// clock register accessor.
func SetClockRegisters(r ClockRegisters) {
	clockRegisters = r
}

// MustClockRegisters returns the configured accessor or panics if missing.
func MustClockRegisters() ClockRegisters {
	if clockRegisters == nil {
		panic("clock registers not configured")
	}
	return clockRegisters
}
