// # internal/build/build.go

// Package build runs the token build command when a relevant change lands,
// derives the output file set from the platform configuration, and can
// verify that generated CSS parses cleanly.
package build

import (
	"context"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"tokenbridge/internal/config"
	"tokenbridge/internal/shared/observability"
)

// RunFunc executes the configured build command. Split out so tests can
// swap the process launch for a recorder.
type RunFunc func(ctx context.Context, command []string, dir string) error

// Result describes one finished build attempt.
type Result struct {
	RunID    string
	Err      error
	Duration time.Duration
	Outputs  []string
}

type Runner struct {
	cfg config.Build
	dir string
	run RunFunc

	// One build at a time; the rate limiter upstream spaces them out, this
	// mutex keeps overlapping triggers from interleaving output files.
	mu sync.Mutex

	onDone func(Result)
}

func NewRunner(cfg config.Build, dir string, run RunFunc, onDone func(Result)) *Runner {
	if run == nil {
		run = CommandRunFunc
	}
	return &Runner{cfg: cfg, dir: dir, run: run, onDone: onDone}
}

// CommandRunFunc launches the build command as a child process.
func CommandRunFunc(ctx context.Context, command []string, dir string) error {
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		slog.Error("build command failed", "command", command[0], "error", err, "output", string(out))
	}
	return err
}

// Build runs one build. Failures are logged and reported through the result
// callback; the watcher loop keeps going either way.
func (r *Runner) Build(ctx context.Context, reason string) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID := uuid.NewString()

	ctx, span := observability.Tracer.Start(ctx, "build.run")
	span.SetAttributes(
		attribute.String("build.run_id", runID),
		attribute.String("build.reason", reason),
	)
	defer span.End()

	start := time.Now()
	result := Result{RunID: runID, Outputs: OutputFiles(r.cfg, r.dir)}

	if len(r.cfg.Command) == 0 {
		slog.Warn("no build command configured, skipping", "run_id", runID)
		result.Duration = time.Since(start)
		observability.BuildsTotal.WithLabelValues("skipped").Inc()
		r.report(result)
		return result
	}

	slog.Info("running token build", "run_id", runID, "reason", reason, "command", r.cfg.Command)

	err := r.run(ctx, r.cfg.Command, r.dir)
	result.Duration = time.Since(start)
	observability.BuildDuration.Observe(result.Duration.Seconds())

	if err != nil {
		result.Err = err
		observability.BuildsTotal.WithLabelValues("failure").Inc()
		span.RecordError(err)
		r.report(result)
		return result
	}

	if r.cfg.VerifyCSS {
		if verifyErr := VerifyCSSOutputs(result.Outputs); verifyErr != nil {
			result.Err = verifyErr
			observability.BuildsTotal.WithLabelValues("failure").Inc()
			slog.Error("generated CSS failed verification", "run_id", runID, "error", verifyErr)
			r.report(result)
			return result
		}
	}

	observability.BuildsTotal.WithLabelValues("success").Inc()
	slog.Info("token build finished", "run_id", runID, "duration", result.Duration)
	r.report(result)
	return result
}

func (r *Runner) report(result Result) {
	if r.onDone != nil {
		r.onDone(result)
	}
}
