package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/deskpilot/deskpilot/internal/schema"
	"github.com/deskpilot/deskpilot/internal/shared/llmutils"
	"github.com/deskpilot/deskpilot/internal/tools"
)

// TurnHooks lets a caller observe a turn while it runs. Nil hooks are skipped.
type TurnHooks struct {
	// OnFragment receives every streamed fragment, unmodified, as it arrives.
	OnFragment func(schema.Fragment)
	// OnToolCall fires right before a tool runs.
	OnToolCall func(schema.ToolCall)
	// OnToolResult fires after a tool result has been recorded.
	OnToolResult func(call schema.ToolCall, result string)
}

func (h TurnHooks) toolCall(tc schema.ToolCall) {
	if h.OnToolCall != nil {
		h.OnToolCall(tc)
	}
}

func (h TurnHooks) toolResult(tc schema.ToolCall, result string) {
	if h.OnToolResult != nil {
		h.OnToolResult(tc, result)
	}
}

// LoopRunner executes the model ↔ tool iteration loop for one turn.
type LoopRunner struct {
	gateway  schema.ModelGateway
	registry *tools.Registry
	settings schema.AgentSettings
}

func NewLoopRunner(gateway schema.ModelGateway, registry *tools.Registry, settings schema.AgentSettings) *LoopRunner {
	return &LoopRunner{gateway: gateway, registry: registry, settings: settings}
}

// Run drives one turn over history, which must already end with the user
// message. Every merged assistant message and tool result is appended to
// history as it is produced; nothing is rolled back on failure.
//
// The first generation is followed by at most MaxToolRounds tool-triggered
// regenerations. Asking for more fails with a RecursionBoundError.
func (r *LoopRunner) Run(ctx context.Context, history *schema.Messages, hooks TurnHooks) (string, error) {
	descriptors := r.registry.Descriptors()
	opts := r.settings.ChatOptions()

	for round := 0; ; round++ {
		if round > r.settings.MaxToolRounds {
			slog.Warn("Tool round limit reached", "limit", r.settings.MaxToolRounds)
			return "", &schema.RecursionBoundError{Limit: r.settings.MaxToolRounds}
		}

		slog.Debug("Generating", "round", round, "messages", history.Len())
		msg, err := r.generate(ctx, *history, descriptors, opts, hooks)
		if err != nil {
			if msg.Content != "" {
				history.AddAssistant(msg.Content, nil)
			}
			slog.Error("Generation failed", "round", round, "err", err)
			return "", err
		}
		history.AddAssistant(msg.Content, msg.ToolCalls)

		if !msg.HasToolCalls() {
			return msg.Content, nil
		}
		if err := r.executeTools(ctx, history, msg.ToolCalls, hooks); err != nil {
			return "", err
		}
	}
}

func (r *LoopRunner) generate(
	ctx context.Context,
	history schema.Messages,
	descriptors []schema.ToolDescriptor,
	opts schema.ChatOptions,
	hooks TurnHooks,
) (schema.Message, error) {
	stream, err := r.gateway.Generate(ctx, history, descriptors, opts)
	if err != nil {
		return schema.Message{}, asGenerationError(err)
	}
	return Accumulate(ctx, stream, hooks.OnFragment)
}

// executeTools runs calls one after another in the order the model emitted them.
func (r *LoopRunner) executeTools(ctx context.Context, history *schema.Messages, calls []schema.ToolCall, hooks TurnHooks) error {
	for _, tc := range calls {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("turn abandoned before %s: %w", tc.Name, err)
		}

		tool, ok := r.registry.Lookup(tc.Name)
		if !ok {
			slog.Warn("Unknown tool requested", "name", tc.Name)
			return &schema.ToolLookupError{Name: tc.Name}
		}

		hooks.toolCall(tc)
		argsJSON, _ := json.Marshal(tc.Arguments)
		slog.Info("Tool call", "name", tc.Name, "args", llmutils.Truncate(string(argsJSON), 200))

		result, err := r.registry.Invoke(ctx, tool, tc)
		if err != nil {
			slog.Error("Tool failed", "name", tc.Name, "err", err)
			return err
		}
		if err := history.AddToolResult(tc.ID, tool.Name(), result); err != nil {
			return err
		}
		hooks.toolResult(tc, result)
	}
	return nil
}
