package cycle

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser is configured for descriptor syntax only ("@every <duration>"),
// since that is the one schedule form spec.md §5's default 300s polling
// interval needs. Unlike roelfdiedericks-goclaw's internal/cron package,
// this module never exposes standard 5-field cron expressions to the
// user — there is exactly one schedule per project, its interval.
var cronParser = cron.NewParser(cron.Descriptor)

// Schedule wraps a parsed "@every <duration>" cron.Schedule purely for its
// next-tick computation. The cycle runner owns its own loop (a time.Timer
// reset after each tick) rather than handing control to cron's own
// goroutine dispatcher, so cancellation stays cycle-boundary-only as
// spec.md §5 requires — nothing here ever fires mid-cycle.
type Schedule struct {
	sched cron.Schedule
}

// NewSchedule parses interval (e.g. 5*time.Minute) into a descriptor-form
// cron.Schedule.
func NewSchedule(interval time.Duration) (*Schedule, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("polling interval must be positive, got %s", interval)
	}
	sched, err := cronParser.Parse(fmt.Sprintf("@every %s", interval))
	if err != nil {
		return nil, fmt.Errorf("parsing schedule for interval %s: %w", interval, err)
	}
	return &Schedule{sched: sched}, nil
}

// Next returns the next tick after now.
func (s *Schedule) Next(now time.Time) time.Time {
	return s.sched.Next(now)
}
