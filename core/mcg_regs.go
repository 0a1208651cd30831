package core

// KL25Z MCG and SIM register map
// Based on KL25 Sub-Family Reference Manual Rev. 3, chapters 12 and 24
const (
	MCGBase = 0x40064000
	MCG_C1  = MCGBase + 0x00 // Clock source, FLL divider, IREFS
	MCG_C2  = MCGBase + 0x01 // Oscillator range, IRCS
	MCG_C4  = MCGBase + 0x03 // DCO range
	MCG_C5  = MCGBase + 0x04 // PLL external reference divider
	MCG_C6  = MCGBase + 0x05 // PLL select, VCO divider
	MCG_S   = MCGBase + 0x06 // Status
	MCG_SC  = MCGBase + 0x08 // Fast IRC divider

	SIMBase     = 0x40047000
	SIM_CLKDIV1 = SIMBase + 0x1044 // System clock divider register 1
)

// Field masks and shifts
const (
	MCG_C1_CLKS_MASK    = 0xC0
	MCG_C1_CLKS_SHIFT   = 6
	MCG_C1_FRDIV_MASK   = 0x38
	MCG_C1_FRDIV_SHIFT  = 3
	MCG_C1_IREFS_MASK   = 0x04
	MCG_C2_RANGE0_MASK  = 0x30
	MCG_C2_RANGE0_SHIFT = 4
	MCG_C2_IRCS_MASK    = 0x01
	MCG_C4_DMX32_MASK   = 0x80
	MCG_C4_DRST_MASK    = 0x60
	MCG_C4_DCO_SHIFT    = 5
	MCG_C5_PRDIV0_MASK  = 0x1F
	MCG_C6_PLLS_MASK    = 0x40
	MCG_C6_VDIV0_MASK   = 0x1F
	MCG_SC_FCRDIV_MASK  = 0x0E
	MCG_SC_FCRDIV_SHIFT = 1

	SIM_CLKDIV1_OUTDIV1_MASK  = 0xF0000000
	SIM_CLKDIV1_OUTDIV1_SHIFT = 28
	SIM_CLKDIV1_OUTDIV4_MASK  = 0x00070000
	SIM_CLKDIV1_OUTDIV4_SHIFT = 16
)

// RegisterReader is a raw load capability for memory-mapped registers
type RegisterReader interface {
	Read8(addr uint32) uint8
	Read32(addr uint32) uint32
}

// MCGRegisters decodes the MCG and SIM clock fields from raw registers
type MCGRegisters struct {
	bus RegisterReader
}

// NewMCGRegisters wraps a raw register reader
func NewMCGRegisters(bus RegisterReader) *MCGRegisters {
	return &MCGRegisters{bus: bus}
}

func (m *MCGRegisters) ReadClockSource() ClockSource {
	return ClockSource((m.bus.Read8(MCG_C1) & MCG_C1_CLKS_MASK) >> MCG_C1_CLKS_SHIFT)
}

func (m *MCGRegisters) ReadPLLSelect() bool {
	return m.bus.Read8(MCG_C6)&MCG_C6_PLLS_MASK != 0
}

func (m *MCGRegisters) ReadInternalReference() bool {
	return m.bus.Read8(MCG_C1)&MCG_C1_IREFS_MASK != 0
}

func (m *MCGRegisters) ReadInternalClockSelect() bool {
	return m.bus.Read8(MCG_C2)&MCG_C2_IRCS_MASK != 0
}

func (m *MCGRegisters) ReadFastInternalDivider() uint8 {
	return (m.bus.Read8(MCG_SC) & MCG_SC_FCRDIV_MASK) >> MCG_SC_FCRDIV_SHIFT
}

func (m *MCGRegisters) ReadOscillatorRange() uint8 {
	return (m.bus.Read8(MCG_C2) & MCG_C2_RANGE0_MASK) >> MCG_C2_RANGE0_SHIFT
}

func (m *MCGRegisters) ReadReferenceDivider() uint8 {
	return (m.bus.Read8(MCG_C1) & MCG_C1_FRDIV_MASK) >> MCG_C1_FRDIV_SHIFT
}

func (m *MCGRegisters) ReadDCORange() uint8 {
	return (m.bus.Read8(MCG_C4) & (MCG_C4_DMX32_MASK | MCG_C4_DRST_MASK)) >> MCG_C4_DCO_SHIFT
}

func (m *MCGRegisters) ReadPLLPredivider() uint32 {
	return uint32(m.bus.Read8(MCG_C5) & MCG_C5_PRDIV0_MASK)
}

func (m *MCGRegisters) ReadPLLMultiplier() uint32 {
	return uint32(m.bus.Read8(MCG_C6) & MCG_C6_VDIV0_MASK)
}

func (m *MCGRegisters) ReadOutputDivider1() uint32 {
	return (m.bus.Read32(SIM_CLKDIV1) & SIM_CLKDIV1_OUTDIV1_MASK) >> SIM_CLKDIV1_OUTDIV1_SHIFT
}

func (m *MCGRegisters) ReadOutputDivider4() uint32 {
	return (m.bus.Read32(SIM_CLKDIV1) & SIM_CLKDIV1_OUTDIV4_MASK) >> SIM_CLKDIV1_OUTDIV4_SHIFT
}

// RegisterFile is a software register set for tests and host tools.
// Unwritten registers read as their KL25Z reset values.
type RegisterFile struct {
	regs map[uint32]uint32
}

// Reset values of the clock registers (FEI mode, OUTDIV4 = divide by 2)
var registerResetValues = map[uint32]uint32{
	MCG_C1:      0x04,
	MCG_C2:      0x80,
	MCG_C4:      0x00,
	MCG_C5:      0x00,
	MCG_C6:      0x00,
	MCG_SC:      0x02,
	SIM_CLKDIV1: 0x00010000,
}

// NewRegisterFile returns a register file holding reset values
func NewRegisterFile() *RegisterFile {
	f := &RegisterFile{regs: make(map[uint32]uint32, len(registerResetValues))}
	for addr, v := range registerResetValues {
		f.regs[addr] = v
	}
	return f
}

func (f *RegisterFile) Read8(addr uint32) uint8 {
	return uint8(f.regs[addr])
}

func (f *RegisterFile) Read32(addr uint32) uint32 {
	return f.regs[addr]
}

func (f *RegisterFile) Write8(addr uint32, v uint8) {
	f.regs[addr] = uint32(v)
}

func (f *RegisterFile) Write32(addr uint32, v uint32) {
	f.regs[addr] = v
}
