package agent

import (
	"context"
	"iter"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxSteps bounds the number of tool-execution rounds in a ToolLoop
// when no explicit budget is given.
const DefaultMaxSteps = 10

// Chat drives a conversation with the model: it owns the append-only message
// history and the tool registry, and exposes a single exchange (Call) and the
// autonomous tool loop (ToolLoop). A Chat serves one conversation at a time;
// it must not be used from multiple goroutines concurrently.
type Chat struct {
	model     string
	maxTokens int
	system    string
	sender    MessageSender
	registry  *Registry
	observer  Observer
	history   []Message
}

// NewChat creates a Chat for the given model. Without WithSender the client
// is built from the environment (LoadConfig), so an API key must be available
// there.
func NewChat(model string, opts ...ChatOption) (*Chat, error) {
	if model == "" {
		return nil, ErrEmptyModel
	}
	var o chatOptions
	for _, opt := range opts {
		opt(&o)
	}
	c := &Chat{
		model:     model,
		maxTokens: o.maxTokens,
		system:    o.system,
		sender:    o.sender,
		registry:  o.registry,
		observer:  o.observer,
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	if c.registry == nil {
		c.registry = NewRegistry()
	}
	for _, t := range o.tools {
		if err := c.registry.Register(t); err != nil {
			return nil, err
		}
	}
	if c.sender == nil {
		client, err := NewClient(LoadConfig())
		if err != nil {
			return nil, err
		}
		c.sender = client
	}
	return c, nil
}

// RegisterTool adds a tool to the chat's registry. A late registration simply
// becomes visible on the next request's schema snapshot.
func (c *Chat) RegisterTool(t Tool) error {
	return c.registry.Register(t)
}

// Registry returns the chat's tool registry.
func (c *Chat) Registry() *Registry { return c.registry }

// Messages returns a copy of the conversation history so far.
func (c *Chat) Messages() []Message {
	return slices.Clone(c.history)
}

// Call sends one user message and returns the assistant's reply. The user
// message and the reply are committed to history together, only on success:
// a failed remote call leaves the history exactly as it was.
func (c *Chat) Call(ctx context.Context, text string, opts ...CallOption) (*MessageResponse, error) {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return c.exchange(ctx, UserMessage(text), o)
}

// ToolLoop sends the initial message and then autonomously executes the tools
// the model requests, feeding results back, until the reply carries no
// tool_use blocks, the continuation predicate declines, or the step budget is
// exhausted. The budget counts tool-execution rounds: the initial call is
// unconditional, so even a budget of zero yields one reply.
//
// The returned sequence is lazy, finite, and single-use. A transport failure
// is yielded as the final element and aborts the loop; already-executed tool
// results stay committed to history, so every tool_use remains answered. Tool
// failures never abort, they are answered with textual error results the
// model can react to.
func (c *Chat) ToolLoop(ctx context.Context, text string, opts ...LoopOption) iter.Seq2[*MessageResponse, error] {
	o := loopOptions{maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(&o)
	}
	return func(yield func(*MessageResponse, error) bool) {
		resp, err := c.exchange(ctx, UserMessage(text), callOptions{})
		if err != nil {
			yield(nil, err)
			return
		}
		if !yield(resp, nil) {
			return
		}
		for step := 0; step < o.maxSteps; step++ {
			if o.cont != nil && !o.cont(resp) {
				return
			}
			uses := Message{Role: RoleAssistant, Content: resp.Content}.ToolUses()
			if len(uses) == 0 {
				return
			}
			// Tool results are local facts, committed as soon as they exist:
			// even an aborted loop leaves every tool_use answered in history.
			results := c.executeTools(ctx, uses, o.parallel)
			c.history = append(c.history, Message{Role: RoleUser, Content: results})
			resp, err = c.send(ctx, c.history, callOptions{})
			if err != nil {
				yield(nil, err)
				return
			}
			c.history = append(c.history, Message{Role: RoleAssistant, Content: resp.Content})
			if !yield(resp, nil) {
				return
			}
		}
	}
}

// exchange submits the full history plus the pending user message, and on
// success appends both the pending message and the reply atomically.
func (c *Chat) exchange(ctx context.Context, pending Message, o callOptions) (*MessageResponse, error) {
	msgs := make([]Message, 0, len(c.history)+1)
	msgs = append(msgs, c.history...)
	msgs = append(msgs, pending)

	resp, err := c.send(ctx, msgs, o)
	if err != nil {
		return nil, err
	}
	c.history = append(c.history, pending, Message{Role: RoleAssistant, Content: resp.Content})
	return resp, nil
}

// send performs one remote call over the given messages. It never touches
// history; committing is the caller's business.
func (c *Chat) send(ctx context.Context, msgs []Message, o callOptions) (*MessageResponse, error) {
	maxTokens := c.maxTokens
	if o.maxTokens > 0 {
		maxTokens = o.maxTokens
	}
	req := &MessageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    c.system,
		Messages:  msgs,
		Tools:     c.registry.Schemas(),
	}
	if c.observer != nil {
		c.observer.OnRequest(RequestInfo{
			Model:        req.Model,
			MessageCount: len(req.Messages),
			ToolCount:    len(req.Tools),
			MaxTokens:    req.MaxTokens,
		})
	}
	resp, err := c.sender.CreateMessage(ctx, req)
	if err != nil {
		return nil, err
	}
	if c.observer != nil {
		c.observer.OnResponse(ResponseInfo{
			ID:         resp.ID,
			StopReason: resp.StopReason,
			BlockCount: len(resp.Content),
			Usage:      resp.Usage,
		})
	}
	return resp, nil
}

// executeTools answers every tool_use block of one assistant turn, preserving
// request order in the returned tool_result blocks. With parallel enabled the
// invocations run concurrently but the result order is still the request
// order.
func (c *Chat) executeTools(ctx context.Context, uses []ContentBlock, parallel bool) []ContentBlock {
	results := make([]ContentBlock, len(uses))
	if parallel && len(uses) > 1 {
		var g errgroup.Group
		for i, use := range uses {
			g.Go(func() error {
				results[i] = c.executeTool(ctx, use)
				return nil
			})
		}
		_ = g.Wait()
		return results
	}
	for i, use := range uses {
		results[i] = c.executeTool(ctx, use)
	}
	return results
}

// executeTool runs one tool_use request. Every request is answered, never
// dropped: an unknown name or a failing tool produces a textual error result
// under the original correlation id.
func (c *Chat) executeTool(ctx context.Context, use ContentBlock) ContentBlock {
	start := time.Now()
	tool, ok := c.registry.Resolve(use.Name)
	if !ok {
		output := "Error: Unknown tool " + use.Name
		c.observeTool(ToolExecutionInfo{
			ID: use.ID, Name: use.Name, Args: use.Input,
			Output: output, Err: ErrToolNotFound, Duration: time.Since(start),
		})
		return ToolResultBlock(use.ID, output)
	}
	output, err := invokeTool(ctx, tool, use)
	if err != nil {
		output = "Error: " + err.Error()
	}
	c.observeTool(ToolExecutionInfo{
		ID: use.ID, Name: use.Name, Args: use.Input,
		Output: output, Err: err, Duration: time.Since(start),
	})
	return ToolResultBlock(use.ID, output)
}

// invokeTool calls the tool, converting a panic into an ordinary error so a
// misbehaving tool cannot abort the loop.
func invokeTool(ctx context.Context, tool Tool, use ContentBlock) (output string, err error) {
	defer func() {
		if p := recover(); p != nil {
			output = ""
			err = &panicError{p: p}
		}
	}()
	return tool.Invoke(ctx, use.Input)
}

func (c *Chat) observeTool(info ToolExecutionInfo) {
	if c.observer != nil {
		c.observer.OnToolExecution(info)
	}
}
