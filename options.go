package agent

// chatOptions hold optional Chat settings collected by NewChat.
type chatOptions struct {
	maxTokens int
	system    string
	sender    MessageSender
	registry  *Registry
	observer  Observer
	tools     []Tool
}

// ChatOption configures a Chat (e.g. WithTools, WithSender).
type ChatOption func(*chatOptions)

// WithTools registers the given tools at construction. A duplicate name fails
// NewChat with ErrDuplicateTool.
func WithTools(tools ...Tool) ChatOption {
	return func(o *chatOptions) { o.tools = append(o.tools, tools...) }
}

// WithSender replaces the default API client with the given sender
// (e.g. a mock in tests, or a Client with custom options).
func WithSender(s MessageSender) ChatOption {
	return func(o *chatOptions) { o.sender = s }
}

// WithRegistry makes the chat use an existing registry instead of a fresh
// one. The registry may be shared read-only across chats.
func WithRegistry(r *Registry) ChatOption {
	return func(o *chatOptions) { o.registry = r }
}

// WithObserver attaches an observability sink. The sink is a pure
// side-channel; leaving it unset changes nothing but the reporting.
func WithObserver(obs Observer) ChatOption {
	return func(o *chatOptions) { o.observer = obs }
}

// WithSystemPrompt sets the system prompt sent with every request.
func WithSystemPrompt(system string) ChatOption {
	return func(o *chatOptions) { o.system = system }
}

// WithMaxTokens sets the default per-request output token budget.
func WithMaxTokens(n int) ChatOption {
	return func(o *chatOptions) { o.maxTokens = n }
}

// callOptions hold per-call overrides.
type callOptions struct {
	maxTokens int
}

// CallOption configures a single Call.
type CallOption func(*callOptions)

// WithCallMaxTokens overrides the output token budget for one call.
func WithCallMaxTokens(n int) CallOption {
	return func(o *callOptions) { o.maxTokens = n }
}

// loopOptions hold ToolLoop settings.
type loopOptions struct {
	maxSteps int
	cont     func(*MessageResponse) bool
	parallel bool
}

// LoopOption configures a ToolLoop.
type LoopOption func(*loopOptions)

// WithMaxSteps bounds the number of tool-execution rounds. The initial call
// does not consume a step; zero means call once and never execute tools.
func WithMaxSteps(n int) LoopOption {
	return func(o *loopOptions) { o.maxSteps = n }
}

// WithContinue sets a continuation predicate consulted after every reply;
// returning false stops the loop before any further tool execution.
func WithContinue(cont func(*MessageResponse) bool) LoopOption {
	return func(o *loopOptions) { o.cont = cont }
}

// WithParallelTools executes independent tool requests of one turn
// concurrently. The result message still preserves request order.
func WithParallelTools() LoopOption {
	return func(o *loopOptions) { o.parallel = true }
}
