package service

import (
	"context"

	"github.com/rs/zerolog/log"
)

// SagaStep is one unit of a multi-step operation. Run performs the work;
// Compensate undoes it if a later step fails. Compensate may be nil when
// the step leaves nothing behind.
type SagaStep struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// RunSaga executes steps in order. When a step fails, the compensations
// of all previously completed steps run in reverse order. Compensation
// failures are logged but never mask the original error.
func RunSaga(ctx context.Context, steps []SagaStep) error {
	completed := make([]SagaStep, 0, len(steps))
	for _, step := range steps {
		if err := step.Run(ctx); err != nil {
			for i := len(completed) - 1; i >= 0; i-- {
				prev := completed[i]
				if prev.Compensate == nil {
					continue
				}
				if cerr := prev.Compensate(ctx); cerr != nil {
					log.Error().
						Err(cerr).
						Str("step", prev.Name).
						Msg("saga compensation failed")
				}
			}
			return err
		}
		completed = append(completed, step)
	}
	return nil
}
