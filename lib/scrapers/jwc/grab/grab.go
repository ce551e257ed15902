// Package grab drives a worklist of desired enrollments against the
// portal until every item is resolved. Contention (rate limiting, full
// sections) is the normal operating state here, not an error: items stay
// in the worklist and the loop paces itself by the portal's pushback.
package grab

import (
	"context"
	"log/slog"
	"time"

	"bnuportal/lib/scrapers/jwc"
	"bnuportal/lib/scrapers/jwc/extract"
)

// Selector is the slice of the portal client the scheduler needs.
type Selector interface {
	SelectElectiveCourse(ctx context.Context, course extract.Record) (jwc.ActionResult, error)
	SelectPlanCourse(ctx context.Context, course, section extract.Record) (jwc.ActionResult, error)
}

// PlannedItem is one planned-course enrollment: the course record plus
// the concrete section to enroll into.
type PlannedItem struct {
	Course  extract.Record
	Section extract.Record
}

// Worklist holds the outstanding enrollment wishes. Within one cycle
// electives are always attempted before planned items, each category in
// its original order.
type Worklist struct {
	Elective []extract.Record
	Planned  []PlannedItem
}

func (w *Worklist) Empty() bool {
	return len(w.Elective) == 0 && len(w.Planned) == 0
}

const (
	initialDelay = 1200 * time.Millisecond
	delayStep    = 200 * time.Millisecond
)

// Scheduler retries the worklist with a shared adaptive delay. Single
// threaded and blocking, like the rest of the session: one request at a
// time, sleeping between cycles.
type Scheduler struct {
	selector Selector
	delay    time.Duration
	sleep    func(time.Duration)
}

func NewScheduler(selector Selector) *Scheduler {
	return &Scheduler{
		selector: selector,
		delay:    initialDelay,
		sleep:    time.Sleep,
	}
}

// Delay returns the current shared inter-cycle delay.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Run attempts every pending item once per cycle, removes resolved items
// from the worklist, and sleeps the shared delay between cycles. It
// returns once the worklist is empty, or with the context error if the
// caller cancels between cycles. An empty worklist returns immediately
// without a single request.
func (s *Scheduler) Run(ctx context.Context, w *Worklist) error {
	for !w.Empty() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var elective []extract.Record
		for _, course := range w.Elective {
			res, err := s.selector.SelectElectiveCourse(ctx, course)
			if s.retain(ctx, course["kc"], res, err) {
				elective = append(elective, course)
			}
		}
		w.Elective = elective

		var planned []PlannedItem
		for _, item := range w.Planned {
			res, err := s.selector.SelectPlanCourse(ctx, item.Course, item.Section)
			if s.retain(ctx, item.Course["kc"], res, err) {
				planned = append(planned, item)
			}
		}
		w.Planned = planned

		if !w.Empty() {
			s.sleep(s.delay)
		}
	}
	return nil
}

// retain classifies one attempt. Rate limiting bumps the shared delay
// and keeps the item; a full section keeps the item unchanged; transport
// errors keep the item (this loop is the one place such errors are
// retried). Every other outcome resolves the item. The portal's message
// vocabulary does not distinguish success from an unrelated permanent
// rejection, so neither does this; the raw status and message are logged
// for the operator.
func (s *Scheduler) retain(ctx context.Context, name string, res jwc.ActionResult, err error) bool {
	if err != nil {
		slog.WarnContext(ctx, "selection attempt failed, keeping item", "course", name, "err", err)
		return true
	}
	if res.RateLimited() {
		s.delay += delayStep
		slog.DebugContext(ctx, "rate limited, easing off", "course", name, "delay", s.delay)
		return true
	}
	if res.SlotFull() {
		slog.DebugContext(ctx, "section full, keeping item", "course", name)
		return true
	}
	slog.InfoContext(ctx, "item resolved",
		"course", name,
		"status", res.Status,
		"message", res.Message,
	)
	return false
}
