package core

// Task is a periodic action driven from the main loop
type Task struct {
	Name    string
	Period  uint32 // Period in ticks
	Handler func(now uint32) uint8

	expiration uint32
	next       *Task
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler polls a list of periodic tasks. Each task keeps its own
// expiration slot, so tasks with different periods stay independent.
type Scheduler struct {
	head *Task
	tail *Task
	n    int
}

// Add appends a task and arms it on the next Run. Tasks run in the order
// they were added.
func (s *Scheduler) Add(t *Task) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	t.next = nil
	t.expiration = 0
	if s.tail == nil {
		s.head = t
	} else {
		s.tail.next = t
	}
	s.tail = t
	s.n++
}

// Len returns the number of scheduled tasks
func (s *Scheduler) Len() int {
	return s.n
}

// Run polls every task at tick now and returns how many fired.
// Tasks whose handler returns SF_DONE are removed.
func (s *Scheduler) Run(now uint32) int {
	fired := 0
	var prev *Task
	for t := s.head; t != nil; {
		next := t.next
		if !Expired(&t.expiration, now, t.Period) {
			prev = t
			t = next
			continue
		}

		fired++
		if t.Handler(now) == SF_DONE {
			s.remove(prev, t)
		} else {
			prev = t
		}
		t = next
	}
	return fired
}

// remove unlinks t, whose predecessor is prev
func (s *Scheduler) remove(prev, t *Task) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if prev == nil {
		s.head = t.next
	} else {
		prev.next = t.next
	}
	if s.tail == t {
		s.tail = prev
	}
	t.next = nil
	s.n--
}
