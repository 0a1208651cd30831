//go:build tinygo && kl25z

package main

import (
	"kinetis/core"
)

//export SysTick_Handler
func sysTickHandler() {
	core.SystemTicks.Advance()
}

// startSysTick programs the tick interrupt from the resolved core clock
func startSysTick(coreHz uint32) error {
	reload, err := core.SysTickReload(coreHz, core.TickHz)
	if err != nil {
		return err
	}
	reg32(systRVR).Set(reload)
	reg32(systCVR).Set(0)
	reg32(systCSR).Set(systCSREnable | systCSRTickInt | systCSRClkSource)
	return nil
}

func main() {
	// Watchdog off before anything slow runs
	reg32(simCOPC).Set(0)

	core.SetClockRegisters(core.NewMCGRegisters(volatileBus{}))
	clocks, err := core.InitClocks(core.DefaultBoard(), false)
	if err != nil {
		// Lenient resolution does not fail; keep the reset defaults
		clocks = core.ResolvedClocks{CoreHz: core.CoreClock(), BusHz: core.BusClock()}
	}

	if sbr, err := core.UARTDivisor(clocks.BusHz, 9600); err == nil {
		initUART1(sbr)
		core.SetDebugWriter(uartWriteString)
	}
	if err := startSysTick(clocks.CoreHz); err != nil {
		core.DebugPrintln("[boot] systick: " + err.Error())
	}

	var buf []byte
	uartWrite(core.AppendClockReport(buf[:0], clocks))

	var sched core.Scheduler
	sched.Add(&core.Task{
		Name:   "heartbeat",
		Period: core.TimerFromMS(1000),
		Handler: func(now uint32) uint8 {
			buf = core.AppendTickReport(buf[:0], "UART", now)
			uartWrite(buf)
			return core.SF_RESCHEDULE
		},
	})

	for {
		sched.Run(core.SystemTicks.Now())
	}
}
