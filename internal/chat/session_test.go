package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docfront/docfront/internal/backend"
	"github.com/docfront/docfront/internal/domain"
	"go.uber.org/zap"
)

func TestFormatAnswerNoSources(t *testing.T) {
	got := FormatAnswer("plain answer", nil)
	if got != "plain answer" {
		t.Errorf("got %q", got)
	}
}

func TestFormatAnswerListsSources(t *testing.T) {
	got := FormatAnswer("answer", []domain.Source{
		{Filename: "a.pdf"},
		{Filename: "b.txt"},
	})
	want := "answer\n\nSources:\n- a.pdf\n- b.txt"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatAnswerDeduplicatesSources(t *testing.T) {
	got := FormatAnswer("answer", []domain.Source{
		{Filename: "a.pdf"},
		{Filename: "b.txt"},
		{Filename: "a.pdf"},
	})
	if strings.Count(got, "- a.pdf") != 1 {
		t.Errorf("duplicate source listed: %q", got)
	}
	// First-seen order is kept.
	if !strings.HasSuffix(got, "- a.pdf\n- b.txt") {
		t.Errorf("source order: %q", got)
	}
}

func TestSendTurnAppendsAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.ChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.History) != 2 {
			t.Errorf("history length: got %d, want 2", len(req.History))
		}
		json.NewEncoder(w).Encode(domain.ChatAnswer{
			Answer:  "it depends",
			Sources: []domain.Source{{Filename: "policy.pdf"}},
		})
	}))
	defer srv.Close()

	session := NewSession(backend.NewClient(srv.URL, 0), nil, zap.NewNop())
	prior := domain.Transcript{{User: "q1", Assistant: "a1"}}

	updated := session.SendTurn(context.Background(), "s1", "q2", prior)
	if len(updated) != len(prior)+1 {
		t.Fatalf("transcript length: got %d, want %d", len(updated), len(prior)+1)
	}
	last := updated[len(updated)-1]
	if last.User != "q2" {
		t.Errorf("user message: got %q", last.User)
	}
	if last.Assistant != "it depends\n\nSources:\n- policy.pdf" {
		t.Errorf("assistant reply: got %q", last.Assistant)
	}
}

func TestSendTurnFoldsFailureIntoTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	session := NewSession(backend.NewClient(srv.URL, 0), nil, zap.NewNop())
	prior := domain.Transcript{{User: "q1", Assistant: "a1"}}

	updated := session.SendTurn(context.Background(), "s1", "q2", prior)
	if len(updated) != len(prior)+1 {
		t.Fatalf("transcript length: got %d, want %d", len(updated), len(prior)+1)
	}
	last := updated[len(updated)-1]
	if last.User != "q2" {
		t.Errorf("user message lost on failure: got %q", last.User)
	}
	if !strings.HasPrefix(last.Assistant, "Error: ") {
		t.Errorf("assistant reply: got %q, want Error prefix", last.Assistant)
	}
}

type captureRecorder struct {
	sessionID string
	turn      domain.Turn
	sources   []domain.Source
	calls     int
}

func (c *captureRecorder) RecordTurn(sessionID string, turn domain.Turn, sources []domain.Source) error {
	c.sessionID = sessionID
	c.turn = turn
	c.sources = sources
	c.calls++
	return nil
}

func TestSendTurnRecordsHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.ChatAnswer{Answer: "ok"})
	}))
	defer srv.Close()

	rec := &captureRecorder{}
	session := NewSession(backend.NewClient(srv.URL, 0), rec, zap.NewNop())

	session.SendTurn(context.Background(), "session-9", "hello", nil)
	if rec.calls != 1 {
		t.Fatalf("recorder calls: got %d", rec.calls)
	}
	if rec.sessionID != "session-9" || rec.turn.User != "hello" || rec.turn.Assistant != "ok" {
		t.Errorf("recorded: %q %+v", rec.sessionID, rec.turn)
	}
}

func TestSendTurnSkipsRecorderOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	rec := &captureRecorder{}
	session := NewSession(backend.NewClient(srv.URL, 0), rec, zap.NewNop())

	session.SendTurn(context.Background(), "s", "q", nil)
	if rec.calls != 0 {
		t.Errorf("recorder called %d times for a failed turn", rec.calls)
	}
}
