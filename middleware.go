package agent

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Middleware wraps a Tool with cross-cutting behavior (logging, recovery).
type Middleware func(Tool) Tool

// WithToolLogging returns a middleware that logs invocation start, duration,
// and errors through the given logger.
func WithToolLogging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next Tool) Tool {
		return &loggingTool{toolBase: toolBase{next: next}, logger: logger}
	}
}

// WithRecovery returns a middleware that recovers panics and reports them as
// invocation errors.
func WithRecovery() Middleware {
	return func(next Tool) Tool {
		return &recoveryTool{toolBase{next: next}}
	}
}

// toolBase delegates the descriptor methods to the wrapped Tool.
type toolBase struct{ next Tool }

func (b *toolBase) Name() string        { return b.next.Name() }
func (b *toolBase) Description() string { return b.next.Description() }
func (b *toolBase) Schema() ToolSchema  { return b.next.Schema() }

type loggingTool struct {
	toolBase
	logger *zap.Logger
}

func (m *loggingTool) Invoke(ctx context.Context, args json.RawMessage) (string, error) {
	m.logger.Debug("tool start", zap.String("tool", m.next.Name()))
	start := time.Now()
	out, err := m.next.Invoke(ctx, args)
	dur := time.Since(start)
	if err != nil {
		m.logger.Warn("tool error",
			zap.String("tool", m.next.Name()),
			zap.Duration("duration", dur),
			zap.Error(err),
		)
		return "", err
	}
	m.logger.Debug("tool end",
		zap.String("tool", m.next.Name()),
		zap.Duration("duration", dur),
	)
	return out, nil
}

type recoveryTool struct{ toolBase }

func (r *recoveryTool) Invoke(ctx context.Context, args json.RawMessage) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = ""
			err = &panicError{p: p}
		}
	}()
	return r.next.Invoke(ctx, args)
}
