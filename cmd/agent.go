package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deskpilot/deskpilot/internal/agent"
	"github.com/deskpilot/deskpilot/internal/dependency"
	"github.com/deskpilot/deskpilot/internal/schema"
	"github.com/deskpilot/deskpilot/internal/session"
	"github.com/deskpilot/deskpilot/internal/shared/cmdutils"
	"github.com/deskpilot/deskpilot/internal/shared/llmutils"
)

var (
	agentMessage string
	agentSession string
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Chat with the assistant",
	RunE:  runAgent,
}

func init() {
	agentCmd.Flags().StringVarP(&agentMessage, "message", "m", "", "Send a single message and exit")
	agentCmd.Flags().StringVarP(&agentSession, "session", "s", "cli:direct", "Session ID")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runAgent(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}

	a := container.Agent()
	sess := a.Session(agentSession)

	if agentMessage != "" {
		timeout := time.Duration(cfg.Agents.Defaults.TurnTimeout) * time.Second
		return runSingleMessage(a, sess, timeout)
	}
	return runInteractive(a, sess)
}

// runSingleMessage sends one message, streams the answer and exits.
func runSingleMessage(a *agent.Agent, sess *session.Session, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return chatTurn(ctx, a, sess, agentMessage, os.Stdout)
}

// runInteractive is the REPL. Ctrl+C during a turn abandons the turn;
// at the prompt it quits.
func runInteractive(a *agent.Agent, sess *session.Session) error {
	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit, /new for a new session)\n\n", cmdutils.Logo)

	turns := &turnCanceller{}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		for sig := range sigChan {
			if sig == syscall.SIGINT && turns.cancel() {
				continue
			}
			fmt.Println("\nGoodbye!")
			os.Exit(0)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		fmt.Print("You: ")

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		ctx := turns.start()
		if err := chatTurn(ctx, a, sess, line, os.Stdout); err != nil {
			cmdutils.PrintFailure(os.Stdout, err)
		}
		turns.finish()
	}
}

// chatTurn runs one turn, printing fragments as they stream in and tool
// calls as hints. The final answer is printed only if it was not streamed.
func chatTurn(ctx context.Context, a *agent.Agent, sess *session.Session, content string, w io.Writer) error {
	p := &streamPrinter{w: w}
	final, err := a.Chat(ctx, sess, content, agent.TurnHooks{
		OnFragment: p.fragment,
		OnToolCall: p.toolCall,
	})
	p.end()
	if err != nil {
		return err
	}
	if !p.streamed {
		cmdutils.PrintResponse(w, final)
	}
	return nil
}

// streamPrinter writes one round of streamed text under a single header.
type streamPrinter struct {
	w        io.Writer
	open     bool // header written, text pending a newline
	streamed bool // text written since the last tool call
}

func (p *streamPrinter) fragment(f schema.Fragment) {
	if f.Content == "" {
		return
	}
	if !p.open {
		cmdutils.PrintHeader(p.w)
		p.open = true
	}
	fmt.Fprint(p.w, f.Content)
	p.streamed = true
}

func (p *streamPrinter) toolCall(tc schema.ToolCall) {
	p.end()
	p.streamed = false
	cmdutils.PrintToolHint(p.w, llmutils.ToolHint([]schema.ToolCall{tc}))
}

func (p *streamPrinter) end() {
	if p.open {
		fmt.Fprint(p.w, "\n\n")
		p.open = false
	}
}

// turnCanceller tracks the cancel func of the running REPL turn.
type turnCanceller struct {
	mu sync.Mutex
	fn context.CancelFunc
}

func (t *turnCanceller) start() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.mu.Lock()
	t.fn = cancel
	t.mu.Unlock()
	return ctx
}

func (t *turnCanceller) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fn != nil {
		t.fn()
		t.fn = nil
	}
}

// cancel abandons the running turn and reports whether there was one.
func (t *turnCanceller) cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fn == nil {
		return false
	}
	t.fn()
	t.fn = nil
	return true
}
