package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/lamb/pkg/llm"
)

var errStreamEnded = errors.New("stream ended before message_stop")

type delta struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// streamEvent is the data payload of a server sent event. Only the fields
// needed to assemble the reply are decoded.
type streamEvent struct {
	Type  string    `json:"type"`
	Index int       `json:"index"`
	Delta delta     `json:"delta"`
	Error *apiError `json:"error,omitempty"`
}

func (c *Claude) constructRequest(ctx context.Context, r llm.ChatRequest) (*http.Request, error) {
	system, msgs, err := claudifyMessages(r.Messages)
	if err != nil {
		return nil, err
	}
	reqData := claudeReq{
		Model:         c.Model,
		Messages:      msgs,
		MaxTokens:     r.MaxTokens,
		Stream:        true,
		System:        system,
		Temperature:   r.Temperature,
		TopP:          r.TopP,
		StopSequences: r.Stop,
	}
	if c.debug {
		ancli.PrintOK(fmt.Sprintf("claude request: %v\n", debug.IndentedJsonFmt(reqData)))
	}
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal claudeReq: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", c.AnthropicVersion)
	return req, nil
}

func (c *Claude) stream(req *http.Request) (string, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code: %v, body: %v", resp.Status, string(body))
	}
	return c.handleStreamResponse(resp.Body)
}

// handleStreamResponse accumulates text deltas until message_stop. Event
// lines are skipped, the data payload carries its own type.
func (c *Claude) handleStreamResponse(body io.Reader) (string, error) {
	var sb strings.Builder
	br := bufio.NewReader(body)
	for {
		line, err := br.ReadString('\n')
		if data, ok := strings.CutPrefix(strings.TrimSpace(line), "data:"); ok {
			done, handleErr := c.handleData(strings.TrimSpace(data), &sb)
			if handleErr != nil {
				return "", handleErr
			}
			if done {
				return sb.String(), nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", errStreamEnded
			}
			return "", fmt.Errorf("failed to read line: %w", err)
		}
	}
}

func (c *Claude) handleData(data string, sb *strings.Builder) (bool, error) {
	if c.debug {
		ancli.PrintOK(fmt.Sprintf("claude event: %v\n", data))
	}
	var ev streamEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		return false, fmt.Errorf("failed to unmarshal event: '%v', err: %w", data, err)
	}
	switch ev.Type {
	case "content_block_delta":
		// Thinking and signature deltas are not part of the reply
		if ev.Delta.Type == "text_delta" {
			sb.WriteString(ev.Delta.Text)
		}
	case "message_stop":
		return true, nil
	case "error":
		if ev.Error == nil {
			return false, errors.New("stream error without details")
		}
		return false, fmt.Errorf("stream error: %v: %v", ev.Error.Type, ev.Error.Message)
	}
	return false, nil
}
