// Package agent lets a caller converse with an LLM service while the model
// invokes caller-supplied functions (tools) mid-conversation, automatically,
// across multiple turns, until the exchange naturally completes.
//
// # Overview
//
// The model answers with content blocks; some of them are tool invocation
// requests. This package turns those requests into concrete Go function
// calls, feeds the outputs back as correlated tool results, and resubmits:
// the tool loop. Pipeline: Go function + argument struct, NewTool (reflection
// and schema), Registry, Chat, ToolLoop.
//
// # Key concepts
//
//   - Append-only history: a Chat owns its message sequence; nothing is ever
//     mutated or removed, and a failed remote call commits nothing.
//   - Every request is answered: an unknown tool name or a failing tool
//     produces a textual error result under the original correlation id, so
//     the model can narrate the failure instead of the loop aborting.
//   - Bounded autonomy: the step budget and the continuation predicate are
//     the only brakes on a runaway interaction.
//
// # Example
//
//	weather, err := agent.NewTool("get_weather", "Get the weather for a city",
//	    func(_ context.Context, args struct {
//	        City string `json:"city"`
//	    }) (string, error) {
//	        return "It's sunny in " + args.City + "!", nil
//	    })
//	if err != nil { ... }
//	chat, err := agent.NewChat(agent.DefaultModel, agent.WithTools(weather))
//	if err != nil { ... }
//	for resp, err := range chat.ToolLoop(ctx, "What's the weather in Paris?") {
//	    if err != nil { ... }
//	    fmt.Println(agent.ExtractText(resp))
//	}
package agent
