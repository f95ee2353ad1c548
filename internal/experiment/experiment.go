package experiment

import (
	"context"
	"log/slog"
	"time"

	"github.com/san-kum/astropc/internal/config"
	"github.com/san-kum/astropc/internal/logging"
	"github.com/san-kum/astropc/internal/physics"
	"github.com/san-kum/astropc/internal/report"
)

type Experiment struct {
	Chapter physics.Chapter
	Config  *config.Config
	Input   physics.Input
	Logger  *slog.Logger
}

// Run streams the chapter's tables to out.
func (e *Experiment) Run(ctx context.Context, out report.Emitter) error {
	log := e.Logger
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("chapter", e.Chapter.Name())

	log.Debug("run started", "values", e.Input.Values, "integrator", e.Config.Integrator, "max_steps", e.Input.MaxSteps)
	start := time.Now()
	err := e.Chapter.Run(ctx, e.Input, out)
	if err != nil {
		log.Error("run failed", "error", err)
		return err
	}
	log.Debug("run finished", "elapsed", time.Since(start))
	return nil
}
