package chatstream

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/rhuss/aichat/pkg/debug"
	"github.com/rhuss/aichat/pkg/observability"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateConnecting State = iota
	StateStreaming
	StateClosed
	StateFailed
)

// String returns the lowercase state name used in logs.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the per-call stream state: accumulated text, fragment count,
// reconnect budget and the cancel func that tears the connection down.
// A Session is driven by a single goroutine and is never reused.
type Session struct {
	state         State
	text          strings.Builder
	chunks        int
	retriesLeft   int
	retryInterval time.Duration
	lastEventID   string
	sawSentinel   bool
	ended         bool

	model    string
	cancel   context.CancelFunc
	onStream func(fullText, delta string)
	onEnd    func()
}

func newSession(req *Request, cancel context.CancelFunc, retries int, interval time.Duration) *Session {
	return &Session{
		state:         StateConnecting,
		retriesLeft:   retries,
		retryInterval: interval,
		model:         req.Provider.ModelOrDefault(),
		cancel:        cancel,
		onStream:      req.OnStream,
		onEnd:         req.OnEnd,
	}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Text returns the text accumulated so far.
func (s *Session) Text() string {
	return s.text.String()
}

// Chunks returns the number of content fragments received.
func (s *Session) Chunks() int {
	return s.chunks
}

func (s *Session) transition(to State) {
	if s.state == to {
		return
	}
	debug.Log("streaming", "session state change", "from", s.state.String(), "to", to.String(), "model", s.model)
	s.state = to
}

// handleEvent applies one SSE event. It reports true when the event was
// the end-of-stream sentinel, after cancelling the session.
func (s *Session) handleEvent(ev event) bool {
	if ev.hasID {
		s.lastEventID = ev.ID
	}
	if ev.Retry > 0 {
		s.retryInterval = time.Duration(ev.Retry) * time.Millisecond
	}
	if ev.Data == "" {
		return false
	}

	if ev.Data == doneSentinel {
		s.sawSentinel = true
		s.cancel()
		return true
	}

	var chunk chatCompletionChunk
	if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
		slog.Warn("skipping malformed stream event",
			"error", err.Error(),
			"data", debug.Truncate(ev.Data, 200),
		)
		observability.MalformedEventsTotal.WithLabelValues(s.model).Inc()
		return false
	}

	if len(chunk.Choices) == 0 {
		debug.Log("streaming", "event without choices", "id", chunk.ID)
		return false
	}

	delta := chunk.Choices[0].Delta.Content
	if delta == nil || *delta == "" {
		return false
	}

	s.chunks++
	s.text.WriteString(*delta)
	observability.StreamChunksTotal.WithLabelValues(s.model).Inc()
	debug.Trace("streaming", "stream progress", "chunks", s.chunks, "text", s.text.String())

	if s.onStream != nil {
		s.onStream(s.text.String(), *delta)
	}
	return false
}

// close marks a normal end of stream and fires OnEnd once.
func (s *Session) close() {
	s.transition(StateClosed)
	if s.ended {
		return
	}
	s.ended = true
	if s.onEnd != nil {
		s.onEnd()
	}
}

// fail marks the session failed. OnEnd is not called.
func (s *Session) fail() {
	s.transition(StateFailed)
}
