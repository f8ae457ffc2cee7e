package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Manager executes pipeline stages sequentially. Each stage reads the
// artifacts the previous one wrote, so there is no parallelism across
// stages; a failed stage aborts the run.
type Manager struct {
	logger *slog.Logger
	stages []Stage
	states map[string]*StageState
}

// NewManager creates a manager over the given stages
func NewManager(logger *slog.Logger, stages ...Stage) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	states := make(map[string]*StageState, len(stages))
	for _, stage := range stages {
		states[stage.ID()] = NewStageState(stage.ID(), stage.Name())
	}
	return &Manager{
		logger: logger,
		stages: stages,
		states: states,
	}
}

// Run executes all stages in order. The first validation or execution
// failure aborts the run and is returned wrapped with the stage ID.
func (m *Manager) Run(ctx context.Context, env *Env) error {
	start := time.Now()
	m.logger.InfoContext(ctx, "Pipeline run starting", slog.Int("stages", len(m.stages)))

	for _, stage := range m.stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline cancelled before stage %s: %w", stage.ID(), err)
		}

		state := m.states[stage.ID()]
		state.Start()
		m.logger.InfoContext(ctx, "Stage starting",
			slog.String("stage", stage.ID()),
			slog.String("name", stage.Name()))

		if err := stage.Validate(env); err != nil {
			state.Fail(err)
			m.logger.ErrorContext(ctx, "Stage validation failed",
				slog.String("stage", stage.ID()),
				slog.String("error", err.Error()))
			return fmt.Errorf("stage %s validation: %w", stage.ID(), err)
		}

		if err := stage.Execute(ctx, env); err != nil {
			state.Fail(err)
			m.logger.ErrorContext(ctx, "Stage failed",
				slog.String("stage", stage.ID()),
				slog.String("error", err.Error()),
				slog.Duration("duration", state.Duration()))
			return fmt.Errorf("stage %s: %w", stage.ID(), err)
		}

		state.Complete()
		m.logger.InfoContext(ctx, "Stage completed",
			slog.String("stage", stage.ID()),
			slog.Duration("duration", state.Duration()))
	}

	m.logger.InfoContext(ctx, "Pipeline run complete",
		slog.Duration("duration", time.Since(start)))
	return nil
}

// StageState returns the state of a stage by ID
func (m *Manager) StageState(id string) (*StageState, bool) {
	state, ok := m.states[id]
	return state, ok
}
