// Package chat sequences chat turns against the backend and maintains the
// transcript value threaded through every call.
package chat

import (
	"context"
	"strings"

	"github.com/docfront/docfront/internal/backend"
	"github.com/docfront/docfront/internal/domain"
	"go.uber.org/zap"
)

// Recorder persists finished turns. Recording is best effort: failures are
// logged and never affect the returned transcript.
type Recorder interface {
	RecordTurn(sessionID string, turn domain.Turn, sources []domain.Source) error
}

// Session runs chat turns. It holds no conversation state of its own; the
// transcript lives with the caller and is passed in and returned whole.
type Session struct {
	client   *backend.Client
	recorder Recorder
	logger   *zap.Logger
}

// NewSession creates a chat session handler. recorder may be nil.
func NewSession(client *backend.Client, recorder Recorder, logger *zap.Logger) *Session {
	return &Session{client: client, recorder: recorder, logger: logger}
}

// SendTurn submits one user message with the full prior transcript and
// returns the transcript extended by exactly one turn. Failures become a
// synthetic assistant reply of the form "Error: <message>"; the user's
// message is never dropped.
func (s *Session) SendTurn(ctx context.Context, sessionID, message string, transcript domain.Transcript) domain.Transcript {
	answer, err := s.client.Chat(ctx, message, transcript.History())
	if err != nil {
		s.logger.Warn("chat turn failed", zap.Error(err))
		return transcript.Append(message, "Error: "+err.Error())
	}

	reply := FormatAnswer(answer.Answer, answer.Sources)
	updated := transcript.Append(message, reply)

	if s.recorder != nil {
		turn := updated[len(updated)-1]
		if err := s.recorder.RecordTurn(sessionID, turn, answer.Sources); err != nil {
			s.logger.Warn("recording chat turn failed", zap.Error(err))
		}
	}
	return updated
}

// FormatAnswer appends a Sources block to the raw answer, listing each
// distinct cited filename once in first-seen order. With no sources the raw
// answer is returned untouched.
func FormatAnswer(answer string, sources []domain.Source) string {
	if len(sources) == 0 {
		return answer
	}

	seen := make(map[string]bool, len(sources))
	var lines []string
	for _, src := range sources {
		if seen[src.Filename] {
			continue
		}
		seen[src.Filename] = true
		lines = append(lines, "- "+src.Filename)
	}
	return answer + "\n\nSources:\n" + strings.Join(lines, "\n")
}
