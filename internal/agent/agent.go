package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/deskpilot/deskpilot/internal/schema"
	"github.com/deskpilot/deskpilot/internal/session"
	"github.com/deskpilot/deskpilot/internal/shared/llmutils"
	"github.com/deskpilot/deskpilot/internal/tools"
)

const (
	emptyAnswer = "I've completed processing but have no response to give."
	helpText    = "deskpilot commands:\n/new - Start a new conversation\n/help - Show available commands"
)

// Agent is the caller-facing entry point: it owns the system prompt and the
// live sessions and runs one turn per user message.
type Agent struct {
	runner   *LoopRunner
	prompts  *PromptBuilder
	sessions *session.Manager
}

func New(
	gateway schema.ModelGateway,
	registry *tools.Registry,
	settings schema.AgentSettings,
	prompts *PromptBuilder,
	sessions *session.Manager,
) *Agent {
	return &Agent{
		runner:   NewLoopRunner(gateway, registry, settings),
		prompts:  prompts,
		sessions: sessions,
	}
}

// Session returns the conversation for key, creating it if needed.
func (a *Agent) Session(key string) *session.Session {
	return a.sessions.GetOrCreate(key)
}

// Sessions exposes the session manager.
func (a *Agent) Sessions() *session.Manager { return a.sessions }

// Chat runs one turn of sess for content and returns the final answer.
// Fragments reach hooks.OnFragment while the model is still talking.
// On error the turn is lost but earlier history stays usable.
func (a *Agent) Chat(ctx context.Context, sess *session.Session, content string, hooks TurnHooks) (string, error) {
	content = strings.TrimSpace(content)

	sess.Lock()
	defer sess.Unlock()

	history := sess.History()
	if history.Len() == 0 {
		sess.Reset(a.prompts.SystemPrompt())
	}

	if reply, ok := a.handleSlashCommand(sess, content); ok {
		return reply, nil
	}

	slog.Info("Processing message", "session", sess.Key, "content", llmutils.Truncate(content, 80))

	history.AddUser(content)
	sess.Touch()
	defer sess.Touch()

	final, err := a.runner.Run(ctx, history, hooks)
	if err != nil {
		slog.Error("Turn failed", "session", sess.Key, "kind", schema.ErrorKind(err), "err", err)
		return "", err
	}

	slog.Info("Response", "session", sess.Key, "length", len(final))
	return llmutils.StringOrDefault(strings.TrimSpace(final), emptyAnswer), nil
}

// handleSlashCommand answers known commands without calling the model.
// The caller must hold the session lock.
func (a *Agent) handleSlashCommand(sess *session.Session, content string) (string, bool) {
	switch strings.ToLower(content) {
	case "/new":
		sess.Reset(a.prompts.SystemPrompt())
		return "New session started.", true
	case "/help":
		return helpText, true
	}
	return "", false
}
