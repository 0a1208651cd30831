package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"kinetis/board"
	"kinetis/core"
	"kinetis/host/monitor"
	"kinetis/host/serial"
)

var errQuit = errors.New("quit")

// registerNames maps command arguments to clock register addresses
var registerNames = map[string]uint32{
	"c1":      core.MCG_C1,
	"c2":      core.MCG_C2,
	"c4":      core.MCG_C4,
	"c5":      core.MCG_C5,
	"c6":      core.MCG_C6,
	"sc":      core.MCG_SC,
	"clkdiv1": core.SIM_CLKDIV1,
}

// session holds the state shared by interactive commands
type session struct {
	out    io.Writer
	config *board.Config
	serial *serial.Config
	open   func(*serial.Config) (serial.Port, error)
}

func newSession(out io.Writer, cfg *board.Config, serialCfg *serial.Config) *session {
	return &session{
		out:    out,
		config: cfg,
		serial: serialCfg,
		open:   serial.Open,
	}
}

// execute runs one already-split command line
func (s *session) execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		s.printHelp()
		return nil
	case "resolve":
		return s.resolve(args[1:])
	case "constants":
		for _, c := range core.Constants() {
			v, _ := core.ConstantString(c.Name)
			fmt.Fprintf(s.out, "  %-14s %s\n", c.Name, v)
		}
		return nil
	case "monitor":
		return s.monitor(ctx)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", args[0])
	}
}

func (s *session) printHelp() {
	fmt.Fprintln(s.out, "\nAvailable commands:")
	fmt.Fprintln(s.out, "  help                      - Show this help message")
	fmt.Fprintln(s.out, "  resolve c1=0x.. c6=0x..   - Resolve clocks from MCG/SIM register values")
	fmt.Fprintln(s.out, "          (c1 c2 c4 c5 c6 sc clkdiv1, unset registers keep reset values)")
	fmt.Fprintln(s.out, "  constants                 - Print constants from the last resolve")
	fmt.Fprintln(s.out, "  monitor                   - Follow the board's report UART")
	fmt.Fprintln(s.out, "  quit/exit/q               - Exit the program")
	fmt.Fprintln(s.out)
}

// parseRegisters loads name=value arguments into a register file
func parseRegisters(args []string) (*core.RegisterFile, error) {
	regs := core.NewRegisterFile()
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected register=value, got %q", arg)
		}
		addr, known := registerNames[strings.ToLower(name)]
		if !known {
			return nil, fmt.Errorf("unknown register %q", name)
		}
		v, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", name, err)
		}
		if addr == core.SIM_CLKDIV1 {
			regs.Write32(addr, uint32(v))
			continue
		}
		if v > 0xFF {
			return nil, fmt.Errorf("register %s: value 0x%X does not fit 8 bits", name, v)
		}
		regs.Write8(addr, uint8(v))
	}
	return regs, nil
}

func (s *session) resolve(args []string) error {
	regs, err := parseRegisters(args)
	if err != nil {
		return err
	}

	core.SetClockRegisters(core.NewMCGRegisters(regs))
	clocks, err := core.InitClocks(s.config.Board(), s.config.Strict)
	if err != nil {
		return fmt.Errorf("resolve clocks: %w", err)
	}
	cfg := core.ReadClockConfiguration(core.MustClockRegisters())

	fmt.Fprintf(s.out, "Source:      %s\n", cfg.Source())
	fmt.Fprintf(s.out, "Oscillator:  %d Hz\n", clocks.OscillatorHz)
	fmt.Fprintf(s.out, "Core clock:  %d Hz\n", clocks.CoreHz)
	fmt.Fprintf(s.out, "Bus clock:   %d Hz\n", clocks.BusHz)

	if reload, err := core.SysTickReload(clocks.CoreHz, s.config.TickHz); err == nil {
		fmt.Fprintf(s.out, "SysTick:     reload %d (%d Hz tick)\n", reload, s.config.TickHz)
	} else {
		fmt.Fprintf(s.out, "SysTick:     %v\n", err)
	}
	if sbr, err := core.UARTDivisor(clocks.BusHz, s.config.UARTBaud); err == nil {
		fmt.Fprintf(s.out, "UART:        SBR %d (%d baud)\n", sbr, s.config.UARTBaud)
	} else {
		fmt.Fprintf(s.out, "UART:        %v\n", err)
	}
	return nil
}

func (s *session) monitor(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	port, err := s.open(s.serial)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	defer port.Close()

	fmt.Fprintf(s.out, "Monitoring %s at %d baud (Ctrl-C to stop)...\n", s.serial.Device, s.serial.Baud)
	mon := monitor.New(func(evt monitor.Event) {
		switch evt.Kind {
		case monitor.EventTick:
			fmt.Fprintf(s.out, "  tick %d %s\n", evt.Value, evt.Label)
		default:
			fmt.Fprintf(s.out, "  %s %d Hz\n", evt.Kind, evt.Value)
		}
	})

	err = mon.Run(ctx, port)
	stats := mon.Stats()
	fmt.Fprintf(s.out, "Heartbeats: %d, max gap: %d ticks, ignored lines: %d\n",
		stats.Heartbeats, stats.MaxGap, stats.Ignored)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
