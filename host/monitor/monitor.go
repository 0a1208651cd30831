package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"kinetis/core"
)

// EventKind identifies a parsed report line
type EventKind uint8

const (
	EventCoreClock EventKind = iota + 1
	EventBusClock
	EventTick
)

func (k EventKind) String() string {
	switch k {
	case EventCoreClock:
		return "core_clock"
	case EventBusClock:
		return "bus_clock"
	case EventTick:
		return "tick"
	default:
		return "unknown"
	}
}

// Event is one report line printed by the firmware
type Event struct {
	Kind  EventKind
	Label string // Text before ", tick:" on heartbeat lines
	Value uint32
}

// ParseLine recognises the firmware report lines. Lines it does not
// understand return false.
func ParseLine(line string) (Event, bool) {
	line = strings.TrimRight(line, "\r\n")

	if rest, ok := strings.CutPrefix(line, core.ReportCoreClock); ok {
		v, err := parseUint(rest)
		return Event{Kind: EventCoreClock, Value: v}, err == nil
	}
	if rest, ok := strings.CutPrefix(line, core.ReportBusClock); ok {
		v, err := parseUint(rest)
		return Event{Kind: EventBusClock, Value: v}, err == nil
	}

	idx := strings.LastIndex(line, core.ReportTick)
	if idx < 0 {
		return Event{}, false
	}
	v, err := parseUint(line[idx+len(core.ReportTick):])
	if err != nil {
		return Event{}, false
	}
	label := strings.TrimSuffix(strings.TrimSpace(line[:idx]), ",")
	return Event{Kind: EventTick, Label: label, Value: v}, true
}

func parseUint(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Stats summarises a monitoring session
type Stats struct {
	CoreHz     uint32
	BusHz      uint32
	Heartbeats int
	LastTick   uint32
	MaxGap     uint32 // Largest tick difference between heartbeats
	Ignored    int    // Lines that were not report lines
}

// Monitor follows the report stream of a running board
type Monitor struct {
	// Handler is called for every parsed event, may be nil
	Handler func(Event)

	mu    sync.Mutex
	stats Stats
}

// New returns a monitor that reports events to handler
func New(handler func(Event)) *Monitor {
	return &Monitor{Handler: handler}
}

// Stats returns a copy of the current statistics
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Run reads lines from r until EOF or until ctx is cancelled. The reader
// is consumed on a separate goroutine; cancellation does not close it.
func (m *Monitor) Run(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					if err != nil {
						return fmt.Errorf("read report stream: %w", err)
					}
				default:
				}
				return nil
			}
			m.handleLine(line)
		}
	}
}

func (m *Monitor) handleLine(line string) {
	evt, ok := ParseLine(line)

	m.mu.Lock()
	if !ok {
		m.stats.Ignored++
		m.mu.Unlock()
		return
	}
	switch evt.Kind {
	case EventCoreClock:
		m.stats.CoreHz = evt.Value
	case EventBusClock:
		m.stats.BusHz = evt.Value
	case EventTick:
		if m.stats.Heartbeats > 0 {
			// Wrap-safe difference, the tick counter is 32 bits
			if gap := evt.Value - m.stats.LastTick; gap > m.stats.MaxGap {
				m.stats.MaxGap = gap
			}
		}
		m.stats.Heartbeats++
		m.stats.LastTick = evt.Value
	}
	m.mu.Unlock()

	if m.Handler != nil {
		m.Handler(evt)
	}
}
