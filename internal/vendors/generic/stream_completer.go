package generic

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

var dataPrefix = []byte("data: ")

// Chat streams the completion and returns the accumulated content once the
// stream stops.
func (s *StreamCompleter) Chat(ctx context.Context, r llm.ChatRequest) (string, error) {
	events, err := s.StreamCompletions(ctx, r)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for ev := range events {
		switch e := ev.(type) {
		case string:
			sb.WriteString(e)
		case error:
			return "", fmt.Errorf("failed to read stream: %w", e)
		case StopEvent:
			return sb.String(), nil
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Complete sends the prompt as a single user turn.
func (s *StreamCompleter) Complete(ctx context.Context, r llm.CompletionRequest) (string, error) {
	return s.Chat(ctx, llm.ChatRequest{
		Messages:    []llm.Turn{{Role: "user", Content: r.Prompt}},
		Stop:        r.Stop,
		MaxTokens:   r.MaxTokens,
		Temperature: r.Temperature,
		TopP:        r.TopP,
	})
}

// StreamCompletions posts the chat and returns a channel of events which is
// closed once the stream ends, fails or ctx is cancelled.
func (s *StreamCompleter) StreamCompletions(ctx context.Context, r llm.ChatRequest) (chan CompletionEvent, error) {
	if s.client == nil {
		return nil, errors.New("stream completer is not set up")
	}
	req, err := s.createRequest(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %v, body: %v", res.Status, string(body))
	}
	return s.handleStreamResponse(ctx, res), nil
}

func (s *StreamCompleter) createRequest(ctx context.Context, r llm.ChatRequest) (*http.Request, error) {
	reqData := req{
		Model:            s.Model,
		Messages:         r.Messages,
		Stream:           true,
		FrequencyPenalty: s.FrequencyPenalty,
		MaxTokens:        r.MaxTokens,
		PresencePenalty:  s.PresencePenalty,
		Temperature:      r.Temperature,
		TopP:             r.TopP,
		Stop:             r.Stop,
		N:                1,
	}
	if s.debug {
		ancli.PrintOK(fmt.Sprintf("generic streamcompleter request: %v\n", debug.IndentedJsonFmt(reqData)))
	}
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %v", s.apiKey))
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Connection", "keep-alive")
	return req, nil
}

func (s *StreamCompleter) handleStreamResponse(ctx context.Context, res *http.Response) chan CompletionEvent {
	outChan := make(chan CompletionEvent)
	send := func(ev CompletionEvent) bool {
		select {
		case outChan <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	go func() {
		br := bufio.NewReader(res.Body)
		defer func() {
			res.Body.Close()
			close(outChan)
		}()
		for {
			token, err := br.ReadBytes('\n')
			if len(bytes.TrimSpace(token)) > 0 {
				ev := s.handleStreamChunk(token)
				if _, isNoop := ev.(NoopEvent); !isNoop {
					if !send(ev) {
						return
					}
				}
				switch ev.(type) {
				case StopEvent, error:
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					send(StopEvent{})
				} else {
					send(fmt.Errorf("failed to read line: %w", err))
				}
				return
			}
		}
	}()
	return outChan
}

func (s *StreamCompleter) handleStreamChunk(token []byte) CompletionEvent {
	token = bytes.TrimSpace(token)
	if !bytes.HasPrefix(token, dataPrefix) {
		// Comments, event names and keep-alives
		return NoopEvent{}
	}
	token = bytes.TrimSpace(bytes.TrimPrefix(token, dataPrefix))
	if string(token) == "[DONE]" {
		return StopEvent{}
	}

	if s.debug {
		ancli.PrintOK(fmt.Sprintf("token: %+v\n", string(token)))
	}
	var chunk chatCompletionChunk
	err := json.Unmarshal(token, &chunk)
	if err != nil {
		return fmt.Errorf("failed to unmarshal chunk: %w, chunk: %v", err, string(token))
	}
	if len(chunk.Choices) == 0 {
		return NoopEvent{}
	}
	// Only one candidate is ever requested
	content := chunk.Choices[0].Delta.Content
	if content == "" {
		return NoopEvent{}
	}
	return content
}
