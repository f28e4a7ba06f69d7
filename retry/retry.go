// Package retry implements bounded exponential backoff for transient
// failures talking to a store endpoint.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/cockroachdb/errors"
)

type Settings struct {
	InitialBackoff time.Duration
	Multiplier     int
	MaxBackoff     time.Duration
	MaxRetries     int
}

func (s Settings) Verify() error {
	if s.InitialBackoff <= 0 {
		return errors.Newf("initial backoff must be set to >= 0, got %s", s.InitialBackoff)
	}
	if s.Multiplier < 1 {
		return errors.Newf("multiplier must be >= 1, got %d", s.Multiplier)
	}
	if s.MaxBackoff > 0 && s.InitialBackoff > s.MaxBackoff {
		return errors.Newf("initial backoff (%s) must be less than max backoff (%s)", s.InitialBackoff, s.MaxBackoff)
	}
	return nil
}

// DefaultSettings are tuned for REST endpoints which apply request rate
// limits: short initial backoff, a handful of attempts.
func DefaultSettings() Settings {
	return Settings{
		InitialBackoff: 500 * time.Millisecond,
		Multiplier:     2,
		MaxBackoff:     5 * time.Second,
		MaxRetries:     4,
	}
}

type Retry struct {
	Iteration int
	StartTime time.Time
	NextRetry time.Time

	settings Settings
}

func NewRetry(settings Settings) (*Retry, error) {
	return NewRetryWithTime(time.Now(), settings)
}

func NewRetryWithTime(t time.Time, settings Settings) (*Retry, error) {
	if err := settings.Verify(); err != nil {
		return nil, err
	}
	return &Retry{
		Iteration: 1,
		StartTime: t,
		NextRetry: t.Add(settings.InitialBackoff),
		settings:  settings,
	}, nil
}

func (rm *Retry) ShouldContinue() bool {
	if rm.settings.MaxRetries == 0 {
		return true
	}
	return rm.Iteration < rm.settings.MaxRetries
}

func (rm *Retry) Next() {
	nextDuration := rm.settings.InitialBackoff * time.Duration(math.Pow(float64(rm.settings.Multiplier), float64(rm.Iteration)))
	if rm.settings.MaxBackoff > 0 && nextDuration > rm.settings.MaxBackoff {
		nextDuration = rm.settings.MaxBackoff
	}
	rm.Iteration++
	rm.NextRetry = rm.NextRetry.Add(nextDuration)
}

// backoff returns how long to sleep before the attempt numbered
// iteration (1-based) is retried.
func (s Settings) backoff(iteration int) time.Duration {
	d := s.InitialBackoff * time.Duration(math.Pow(float64(s.Multiplier), float64(iteration-1)))
	if s.MaxBackoff > 0 && d > s.MaxBackoff {
		d = s.MaxBackoff
	}
	return d
}

// MarkRetryable marks an error as retryable by Do.
func MarkRetryable(err error) error {
	return errors.Mark(err, errRetryable)
}

var errRetryable = errors.New("retryable error")

// Do runs f, retrying with backoff while f returns an error marked with
// MarkRetryable and attempts remain. Any other error, or context
// cancellation mid-backoff, stops the loop.
func Do(ctx context.Context, settings Settings, f func() error) error {
	r, err := NewRetry(settings)
	if err != nil {
		return err
	}
	for {
		err := f()
		if err == nil {
			return nil
		}
		if !errors.Is(err, errRetryable) || !r.ShouldContinue() {
			return err
		}
		t := time.NewTimer(settings.backoff(r.Iteration))
		select {
		case <-ctx.Done():
			t.Stop()
			return errors.CombineErrors(ctx.Err(), err)
		case <-t.C:
		}
		r.Next()
	}
}
