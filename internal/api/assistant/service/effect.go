package assistantService

import (
	contextPkg "HomeFinder/pkg/context"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Effect is the outcome of a non-critical side call such as interaction
// tracking. Its failure is logged where it happens; callers discard it.
type Effect struct {
	Name string
	Err  error
}

func (e Effect) Failed() bool {
	return e.Err != nil
}

func (s *assistantService) runEffect(ctx context.Context, name string, fn func(ctx context.Context) error) Effect {
	err := fn(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"effect":     name,
			"error":      err.Error(),
		}).Warn("Best-effort effect failed")
	}
	return Effect{Name: name, Err: err}
}

// runEffects starts a committed turn's effects in the background. They keep
// the request values but not its deadline, and get EffectTimeout of their own.
func (s *assistantService) runEffects(ctx context.Context, effects []func(ctx context.Context) Effect) {
	if len(effects) == 0 {
		return
	}

	s.effects.Add(1)
	go func() {
		defer s.effects.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.EffectTimeout)
		defer cancel()

		for _, effect := range effects {
			_ = effect(ctx)
		}
	}()
}

// WaitEffects blocks until every effect started so far has returned.
func (s *assistantService) WaitEffects() {
	s.effects.Wait()
}

func (s *assistantService) SweepRateLimits(now time.Time) int {
	return s.limiter.Sweep(now)
}
