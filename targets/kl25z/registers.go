//go:build tinygo && kl25z

package main

import (
	"runtime/volatile"
	"unsafe"
)

// volatileBus reads clock registers straight from the peripheral bus
type volatileBus struct{}

func (volatileBus) Read8(addr uint32) uint8 {
	return reg8(addr).Get()
}

func (volatileBus) Read32(addr uint32) uint32 {
	return reg32(addr).Get()
}

func reg8(addr uint32) *volatile.Register8 {
	return (*volatile.Register8)(unsafe.Pointer(uintptr(addr)))
}

func reg32(addr uint32) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(addr)))
}

// System integration and Cortex-M SysTick registers
const (
	simCOPC  = 0x40048100 // COP watchdog control
	simSCGC4 = 0x40048034 // UART clock gates
	simSCGC5 = 0x40048038 // PORT clock gates

	systCSR = 0xE000E010
	systRVR = 0xE000E014
	systCVR = 0xE000E018

	systCSREnable    = 1 << 0
	systCSRTickInt   = 1 << 1
	systCSRClkSource = 1 << 2 // Processor clock
)
