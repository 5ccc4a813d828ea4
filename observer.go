package agent

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestInfo describes one outgoing API request.
type RequestInfo struct {
	Model        string
	MessageCount int
	ToolCount    int
	MaxTokens    int
}

// ResponseInfo describes one incoming reply.
type ResponseInfo struct {
	ID         string
	StopReason string
	BlockCount int
	Usage      Usage
}

// ToolExecutionInfo describes one tool execution, successful or not.
type ToolExecutionInfo struct {
	ID       string
	Name     string
	Args     json.RawMessage
	Output   string
	Err      error
	Duration time.Duration
}

// Observer is a pure side-channel reporting the orchestrator's activity.
// Implementations must not assume they are called from a single goroutine
// when parallel tool execution is enabled. A nil Observer on Chat disables
// reporting; absence never alters orchestrator behavior.
type Observer interface {
	OnRequest(info RequestInfo)
	OnResponse(info ResponseInfo)
	OnToolExecution(info ToolExecutionInfo)
}

// ZapObserver reports orchestrator activity as structured log entries. Every
// entry carries a session id so interleaved conversations can be separated
// in aggregated logs.
type ZapObserver struct {
	logger *zap.Logger
}

// NewZapObserver creates an observer writing to the given logger. A nil
// logger is replaced with a no-op one.
func NewZapObserver(logger *zap.Logger) *ZapObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapObserver{
		logger: logger.With(zap.String("session_id", uuid.NewString())),
	}
}

func (o *ZapObserver) OnRequest(info RequestInfo) {
	o.logger.Info("api request",
		zap.String("model", info.Model),
		zap.Int("messages", info.MessageCount),
		zap.Int("tools", info.ToolCount),
		zap.Int("max_tokens", info.MaxTokens),
	)
}

func (o *ZapObserver) OnResponse(info ResponseInfo) {
	o.logger.Info("api response",
		zap.String("id", info.ID),
		zap.String("stop_reason", info.StopReason),
		zap.Int("blocks", info.BlockCount),
		zap.Int("input_tokens", info.Usage.InputTokens),
		zap.Int("output_tokens", info.Usage.OutputTokens),
	)
}

func (o *ZapObserver) OnToolExecution(info ToolExecutionInfo) {
	fields := []zap.Field{
		zap.String("tool_use_id", info.ID),
		zap.String("tool", info.Name),
		zap.ByteString("args", info.Args),
		zap.Duration("duration", info.Duration),
	}
	if info.Err != nil {
		o.logger.Warn("tool execution failed", append(fields, zap.Error(info.Err))...)
		return
	}
	o.logger.Info("tool executed", append(fields, zap.String("output", info.Output))...)
}

var _ Observer = (*ZapObserver)(nil)
