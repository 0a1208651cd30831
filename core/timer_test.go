package core

import (
	"math"
	"sync"
	"testing"
)

func TestExpiredFirstCallArms(t *testing.T) {
	var expiration uint32
	if Expired(&expiration, 100, 50) {
		t.Error("First call reported expiration")
	}
	if expiration != 150 {
		t.Errorf("Expected expiration 150, got %d", expiration)
	}
}

func TestExpiredSteadyState(t *testing.T) {
	expiration := uint32(150)
	if !Expired(&expiration, 150, 50) {
		t.Fatal("Expected expiration at tick 150")
	}
	if expiration != 200 {
		t.Errorf("Expected expiration 200, got %d", expiration)
	}
	if Expired(&expiration, 150, 50) {
		t.Error("Second call at the same tick reported expiration")
	}
	if expiration != 200 {
		t.Errorf("Expected expiration to stay 200, got %d", expiration)
	}
}

func TestExpiredPreservesPhase(t *testing.T) {
	expiration := uint32(150)
	if !Expired(&expiration, 180, 50) {
		t.Fatal("Expected expiration at tick 180")
	}
	if expiration != 200 {
		t.Errorf("Expected phase-aligned expiration 200, got %d", expiration)
	}
}

func TestExpiredCatchUp(t *testing.T) {
	expiration := uint32(150)
	if !Expired(&expiration, 400, 50) {
		t.Fatal("Expected expiration at tick 400")
	}
	if expiration != 450 {
		t.Errorf("Expected expiration 450, got %d", expiration)
	}
	// No burst of missed periods
	for now := uint32(401); now < 450; now++ {
		if Expired(&expiration, now, 50) {
			t.Fatalf("Unexpected expiration at tick %d", now)
		}
	}
}

func TestExpiredAfterCounterWrap(t *testing.T) {
	// Armed just before the wrap, polled just after it
	expiration := uint32(math.MaxUint32 - 15)
	if Expired(&expiration, 5, 50) {
		t.Error("Wrapped counter reported expiration")
	}
	if expiration != 55 {
		t.Errorf("Expected fresh arming at 55, got %d", expiration)
	}
	if !Expired(&expiration, 55, 50) {
		t.Error("Expected expiration at tick 55")
	}
	if expiration != 105 {
		t.Errorf("Expected expiration 105, got %d", expiration)
	}
}

func TestExpiredAcrossCounterWrap(t *testing.T) {
	var expiration uint32
	var fired []uint32

	start := uint32(math.MaxUint32 - 999)
	for i := uint32(0); i < 3000; i++ {
		now := start + i
		if Expired(&expiration, now, 50) && now < math.MaxUint32/2 {
			fired = append(fired, now)
		}
	}

	if len(fired) < 4 {
		t.Fatalf("Expected periodic firing after the wrap, got %v", fired)
	}
	want := []uint32{49, 99, 149, 199}
	for i, w := range want {
		if fired[i] != w {
			t.Errorf("Firing %d: expected tick %d, got %d", i, w, fired[i])
		}
	}
	for i := 1; i < len(fired); i++ {
		if fired[i]-fired[i-1] != 50 {
			t.Errorf("Firings %d and %d are %d ticks apart", i-1, i, fired[i]-fired[i-1])
		}
	}
}

func TestExpiredFiresEveryPollBeforeCounterWrap(t *testing.T) {
	// now+period wraps below an expiration that is still ahead, so every
	// poll re-arms past the wrap and reports a late firing
	expiration := uint32(math.MaxUint32 - 5)
	fired := 0
	for now := uint32(math.MaxUint32 - 40); now <= math.MaxUint32-6; now++ {
		if !Expired(&expiration, now, 50) {
			t.Errorf("Expected expiration at tick MAX-%d", math.MaxUint32-now)
			continue
		}
		fired++
		if expiration != now+50 {
			t.Errorf("Tick MAX-%d: expected expiration %d, got %d", math.MaxUint32-now, now+50, expiration)
		}
	}
	if fired != 35 {
		t.Errorf("Expected 35 firings, got %d", fired)
	}
}

func TestPeriodicTimer(t *testing.T) {
	timer := NewPeriodicTimer(1000)
	if timer.Poll(0) {
		t.Error("First poll fired")
	}
	if timer.Expiration() != 1000 {
		t.Errorf("Expected expiration 1000, got %d", timer.Expiration())
	}

	count := 0
	for now := uint32(1); now <= 5000; now++ {
		if timer.Poll(now) {
			count++
		}
	}
	if count != 5 {
		t.Errorf("Expected 5 firings in 5000 ticks, got %d", count)
	}

	timer.Reset()
	if timer.Expiration() != 0 {
		t.Errorf("Expected disarmed timer, got expiration %d", timer.Expiration())
	}
}

func TestIndependentExpirationSlots(t *testing.T) {
	fast := NewPeriodicTimer(10)
	slow := NewPeriodicTimer(100)

	fastCount, slowCount := 0, 0
	for now := uint32(1); now <= 1000; now++ {
		if fast.Poll(now) {
			fastCount++
		}
		if slow.Poll(now) {
			slowCount++
		}
	}
	if fastCount != 99 || slowCount != 9 {
		t.Errorf("Expected 99/9 firings, got %d/%d", fastCount, slowCount)
	}
}

func TestTickCounter(t *testing.T) {
	var c TickCounter
	c.setTicks(math.MaxUint32)
	c.Advance()
	if c.Now() != 0 {
		t.Errorf("Expected counter to wrap to 0, got %d", c.Now())
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Advance()
			}
		}()
	}
	wg.Wait()
	if c.Now() != 4000 {
		t.Errorf("Expected 4000 ticks, got %d", c.Now())
	}
}

func TestDelayMS(t *testing.T) {
	var c TickCounter
	c.setTicks(math.MaxUint32 - 2)

	// Each idle call stands in for one tick interrupt
	calls := 0
	DelayMS(&c, 10, func() {
		calls++
		c.Advance()
	})
	if calls != 10 {
		t.Errorf("Expected 10 idle calls, got %d", calls)
	}
	if c.Now() != 7 {
		t.Errorf("Expected counter at 7, got %d", c.Now())
	}
}

func TestTimerConversions(t *testing.T) {
	if TimerFromMS(1000) != 1000 {
		t.Errorf("TimerFromMS(1000) = %d", TimerFromMS(1000))
	}
	if TimerToUS(3) != 3000 {
		t.Errorf("TimerToUS(3) = %d", TimerToUS(3))
	}
}
