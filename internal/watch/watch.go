// Package watch re-polls a submission's verdict until it reaches a
// terminal state. The judge client itself never retries; this is the one
// sanctioned polling caller, with a growing jittered cadence to stay
// polite toward the scraped site.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"ojtool/internal/judge"
)

type Options struct {
	// Must be positive. Zero means default.
	Interval time.Duration `toml:"interval"`
	// Must be positive. Zero means default.
	Max time.Duration `toml:"max"`
	// Must be >= 1.0. Zero means default.
	Grow float64 `toml:"grow"`
	// Must be >= 1.0. Zero means default.
	Jitter float64 `toml:"jitter"`
	// Zero means default, negative means unlimited.
	MaxPolls int64 `toml:"max-polls"`
}

func (o *Options) Validate() error {
	if o.Interval < 0 {
		return fmt.Errorf("negative interval")
	}
	if o.Max < 0 {
		return fmt.Errorf("negative max")
	}
	if o.Grow < 1.0 && o.Grow != 0.0 {
		return fmt.Errorf("grow < 1.0")
	}
	if o.Jitter < 1.0 && o.Jitter != 0.0 {
		return fmt.Errorf("jitter < 1.0")
	}
	return nil
}

func (o *Options) FillDefaults() {
	if o.Interval == 0 {
		o.Interval = 2 * time.Second
	}
	if o.Max == 0 {
		o.Max = 30 * time.Second
	}
	if o.Grow == 0.0 {
		o.Grow = 1.5
	}
	if o.Jitter == 0.0 {
		o.Jitter = 1.3
	}
	if o.MaxPolls == 0 {
		o.MaxPolls = 200
	}
}

// Schedule yields the waiting time before each re-poll.
type Schedule struct {
	o    Options
	cur  time.Duration
	left int64
}

func NewSchedule(o Options) (*Schedule, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("bad config: %w", err)
	}
	o.FillDefaults()
	s := &Schedule{o: o}
	s.Reset()
	return s, nil
}

func (s *Schedule) Reset() {
	s.cur = s.o.Interval
	s.left = s.o.MaxPolls
}

func (s *Schedule) Next() (time.Duration, bool) {
	if s.left > 0 {
		s.left--
	}
	if s.left == 0 {
		return 0, false
	}
	flMax := float64(s.o.Max.Nanoseconds())
	next := min(flMax, float64(s.cur.Nanoseconds())*s.o.Grow)
	jitter := 1.0 + rand.Float64()*(s.o.Jitter-1.0)
	wait := min(flMax, float64(s.cur.Nanoseconds())*jitter)
	s.cur = time.Duration(int64(next))
	return time.Duration(int64(wait)), true
}

// PollFunc fetches the current verdict of one submission.
type PollFunc func(ctx context.Context) (judge.Verdict, error)

// Wait polls until the verdict turns terminal, the context is canceled, or
// the poll budget runs out. Pending is the only verdict that keeps the
// loop going; any poll error ends it immediately.
func Wait(ctx context.Context, log *slog.Logger, o Options, poll PollFunc) (judge.Verdict, error) {
	sched, err := NewSchedule(o)
	if err != nil {
		return judge.Verdict{}, err
	}
	for {
		verdict, err := poll(ctx)
		if err != nil {
			return judge.Verdict{}, err
		}
		if verdict.Terminal() {
			return verdict, nil
		}
		log.Info("submission pending", slog.String("verdict", verdict.String()))
		wait, ok := sched.Next()
		if !ok {
			return judge.Verdict{}, fmt.Errorf("poll limit exceeded, last verdict: %v", verdict)
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return judge.Verdict{}, ctx.Err()
		}
	}
}

// Submission builds a PollFunc that looks one submission up in the task's
// submission list.
func Submission(client judge.Client, task judge.Resource, id string) PollFunc {
	return func(ctx context.Context) (judge.Verdict, error) {
		submissions, err := client.Submissions(ctx, task)
		if err != nil {
			return judge.Verdict{}, err
		}
		for _, sub := range submissions {
			if sub.ID == id {
				return sub.Verdict, nil
			}
		}
		return judge.Verdict{}, fmt.Errorf("submission %s not in list", id)
	}
}
