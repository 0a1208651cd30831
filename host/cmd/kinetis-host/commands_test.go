package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"kinetis/board"
	"kinetis/host/serial"
)

// pipePort serves canned report output as a serial port
type pipePort struct {
	io.Reader
	closed bool
}

func (p *pipePort) Write(b []byte) (int, error) { return len(b), nil }
func (p *pipePort) Close() error                { p.closed = true; return nil }
func (p *pipePort) Flush() error                { return nil }

func newTestSession(out io.Writer) *session {
	return newSession(out, board.DefaultConfig(), serial.DefaultConfig("/dev/null"))
}

func TestResolveCommand(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)

	args := []string{"resolve", "c1=0x18", "c2=0x14", "c5=0x01", "c6=0x40", "clkdiv1=0x10010000"}
	if err := s.execute(context.Background(), args); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	for _, want := range []string{
		"Source:      pll",
		"Core clock:  48000000 Hz",
		"Bus clock:   24000000 Hz",
		"SysTick:     reload 47999",
		"UART:        SBR 156 (9600 baud)",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := s.execute(context.Background(), []string{"constants"}); err != nil {
		t.Fatalf("constants failed: %v", err)
	}
	if !strings.Contains(out.String(), "CLOCK_FREQ") || !strings.Contains(out.String(), "48000000") {
		t.Errorf("constants output missing CLOCK_FREQ:\n%s", out.String())
	}
}

func TestResolveCommandStrict(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)
	s.config.Strict = true

	err := s.execute(context.Background(), []string{"resolve", "c1=0xC0"})
	if err == nil || !strings.Contains(err.Error(), "unsupported clock configuration") {
		t.Errorf("Expected unsupported configuration error, got %v", err)
	}
}

func TestParseRegistersErrors(t *testing.T) {
	testCases := [][]string{
		{"c1"},
		{"c3=0x00"},
		{"c1=zz"},
		{"c6=0x100"},
	}
	for _, args := range testCases {
		if _, err := parseRegisters(args); err == nil {
			t.Errorf("parseRegisters(%v) expected error", args)
		}
	}
}

func TestExecuteQuitAndUnknown(t *testing.T) {
	s := newTestSession(io.Discard)
	if err := s.execute(context.Background(), []string{"q"}); !errors.Is(err, errQuit) {
		t.Errorf("Expected errQuit, got %v", err)
	}
	if err := s.execute(context.Background(), []string{"bogus"}); err == nil {
		t.Error("Expected error for unknown command")
	}
	if err := s.execute(context.Background(), nil); err != nil {
		t.Errorf("Empty line returned %v", err)
	}
}

func TestMonitorCommand(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)

	port := &pipePort{Reader: strings.NewReader("System Clock: 48000000\r\nUART RD: 0, tick: 1000\r\nUART RD: 0, tick: 2000\r\n")}
	s.open = func(*serial.Config) (serial.Port, error) { return port, nil }

	if err := s.execute(context.Background(), []string{"monitor"}); err != nil {
		t.Fatalf("monitor failed: %v", err)
	}
	if !port.closed {
		t.Error("Port not closed")
	}
	if !strings.Contains(out.String(), "Heartbeats: 2, max gap: 1000 ticks") {
		t.Errorf("Unexpected monitor output:\n%s", out.String())
	}
}
