package core

import "sync/atomic"

// Tick quantum of the system timer
const (
	TickHz     = 1000 // SysTick fires once per millisecond
	TickMicros = 1000000 / TickHz
)

// TickCounter is a monotonically advancing 32-bit tick count. It has a
// single writer (the tick interrupt) and any number of readers; it wraps
// silently on overflow and is never reset.
type TickCounter struct {
	ticks uint32
}

// SystemTicks is the process-wide millisecond tick count
var SystemTicks TickCounter

// Advance adds one tick. This is the only work the tick handler does.
func (c *TickCounter) Advance() {
	atomic.AddUint32(&c.ticks, 1)
}

// Now returns the current tick count
func (c *TickCounter) Now() uint32 {
	return atomic.LoadUint32(&c.ticks)
}

// setTicks forces the counter to a value (tests only)
func (c *TickCounter) setTicks(ticks uint32) {
	atomic.StoreUint32(&c.ticks, ticks)
}

// Expired reports whether a period has elapsed for the expiration slot
// and arms the next expiration. An expiration of zero means unarmed.
// The steps run in a fixed order and are not independent.
func Expired(expiration *uint32, now, period uint32) bool {
	if now+period < *expiration {
		// Counter wrapped, the stored expiration is stale
		*expiration = 0
		RecordTiming(EvtTimerWrap, 0, now, period, 0)
	}
	if *expiration == 0 {
		*expiration = now + period
		RecordTiming(EvtTimerArm, 0, now, *expiration, 0)
	}
	if *expiration > now {
		return false
	}
	if now-*expiration > period {
		// More than a full period late, skip the missed firings
		RecordTiming(EvtTimerCatchUp, 0, now, *expiration, period)
		*expiration = now + period
	} else {
		*expiration += period
	}
	RecordTiming(EvtTimerFire, 0, now, *expiration, 0)
	return true
}

// PeriodicTimer owns one expiration slot. It must not be shared between
// concurrent callers.
type PeriodicTimer struct {
	Period     uint32
	expiration uint32
}

// NewPeriodicTimer returns an unarmed timer with the given period in ticks
func NewPeriodicTimer(period uint32) *PeriodicTimer {
	return &PeriodicTimer{Period: period}
}

// Poll reports whether the timer fired at tick now
func (t *PeriodicTimer) Poll(now uint32) bool {
	return Expired(&t.expiration, now, t.Period)
}

// Expiration returns the tick at which the timer next fires, or zero if
// the timer has not been armed yet.
func (t *PeriodicTimer) Expiration() uint32 {
	return t.expiration
}

// Reset disarms the timer; the next Poll re-arms it
func (t *PeriodicTimer) Reset() {
	t.expiration = 0
}

// DelayMS spins until ms ticks of c have elapsed. idle is called on every
// iteration and may be nil. The subtraction is wrap safe.
func DelayMS(c *TickCounter, ms uint32, idle func()) {
	start := c.Now()
	for c.Now()-start < ms {
		if idle != nil {
			idle()
		}
	}
}

// TimerFromMS converts milliseconds to ticks
func TimerFromMS(ms uint32) uint32 {
	return ms * TickHz / 1000
}

// TimerToUS converts ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return ticks * TickMicros
}
