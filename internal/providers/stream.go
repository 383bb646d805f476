package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/deskpilot/deskpilot/internal/schema"
)

var errTruncatedStream = errors.New("stream ended before the model finished")

// streamChunk is the subset of a chat.completion.chunk event we care about.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Index    int    `json:"index"`
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c streamChunk) fragment() schema.Fragment {
	var f schema.Fragment
	for _, choice := range c.Choices {
		f.Content += choice.Delta.Content
		for _, tc := range choice.Delta.ToolCalls {
			f.ToolCalls = append(f.ToolCalls, schema.ToolCallDelta{
				Index:     tc.Index,
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
		if choice.FinishReason != nil && *choice.FinishReason != "" {
			f.FinishReason = *choice.FinishReason
		}
	}
	return f
}

// readStream parses server-sent events from body into out. It owns body and
// out: both are closed when the stream ends or ctx is cancelled.
func readStream(ctx context.Context, body io.ReadCloser, out chan<- schema.Fragment) {
	defer close(out)
	defer body.Close()
	// Unblocks the scanner when the caller walks away mid-read.
	stop := context.AfterFunc(ctx, func() { _ = body.Close() })
	defer stop()

	send := func(f schema.Fragment) bool {
		select {
		case out <- f:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(op string, err error) {
		send(schema.Fragment{Err: &schema.GenerationError{Op: op, Err: err}})
	}

	var (
		dataLines []string
		finished  bool
	)

	// flush handles one complete SSE event; false means stop reading.
	flush := func() bool {
		defer func() { dataLines = dataLines[:0] }()
		if len(dataLines) == 0 {
			return true
		}
		data := strings.Join(dataLines, "\n")
		if data == "[DONE]" {
			finished = true
			return false
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			fail("decode chunk", err)
			return false
		}
		if chunk.Error != nil {
			fail("stream", errors.New(chunk.Error.Message))
			return false
		}
		if chunk.Usage != nil {
			slog.Debug("Token usage",
				"prompt", chunk.Usage.PromptTokens,
				"completion", chunk.Usage.CompletionTokens)
		}

		f := chunk.fragment()
		if f.FinishReason != "" {
			finished = true
		}
		if f.IsEmpty() {
			return true
		}
		return send(f)
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if !flush() {
				return
			}
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimSpace(line[len("data:"):]))
		}
	}
	if !flush() {
		return
	}

	if ctx.Err() != nil {
		// The consumer sees the cancellation on ctx itself.
		return
	}
	if err := scanner.Err(); err != nil {
		fail("read stream", err)
		return
	}
	if !finished {
		fail("read stream", errTruncatedStream)
	}
}
