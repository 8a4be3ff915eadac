package repository

import (
	"path/filepath"
	"testing"

	"github.com/docfront/docfront/internal/domain"
)

func newTestRepo(t *testing.T) *HistoryRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewHistoryRepository(db)
}

func TestRecordAndGetTranscript(t *testing.T) {
	repo := newTestRepo(t)

	turns := []domain.Turn{
		{User: "q1", Assistant: "a1"},
		{User: "q2", Assistant: "a2"},
		{User: "q3", Assistant: "a3"},
	}
	for _, turn := range turns {
		if err := repo.RecordTurn("s1", turn, nil); err != nil {
			t.Fatalf("RecordTurn: %v", err)
		}
	}

	transcript, err := repo.GetTranscript("s1")
	if err != nil {
		t.Fatalf("GetTranscript: %v", err)
	}
	if len(transcript) != len(turns) {
		t.Fatalf("turns: got %d, want %d", len(transcript), len(turns))
	}
	for i, turn := range turns {
		if transcript[i] != turn {
			t.Errorf("turn %d: got %+v, want %+v", i, transcript[i], turn)
		}
	}
}

func TestGetTranscriptUnknownSession(t *testing.T) {
	repo := newTestRepo(t)

	transcript, err := repo.GetTranscript("nope")
	if err != nil {
		t.Fatalf("GetTranscript: %v", err)
	}
	if len(transcript) != 0 {
		t.Errorf("got %d turns for unknown session", len(transcript))
	}
}

func TestRecordTurnWithSources(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.RecordTurn("s1", domain.Turn{User: "q", Assistant: "a"},
		[]domain.Source{{Filename: "doc.pdf"}})
	if err != nil {
		t.Fatalf("RecordTurn: %v", err)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	repo := newTestRepo(t)

	repo.RecordTurn("s1", domain.Turn{User: "q1", Assistant: "a1"}, nil)
	repo.RecordTurn("s2", domain.Turn{User: "q2", Assistant: "a2"}, nil)

	transcript, err := repo.GetTranscript("s1")
	if err != nil {
		t.Fatalf("GetTranscript: %v", err)
	}
	if len(transcript) != 1 || transcript[0].User != "q1" {
		t.Errorf("s1 transcript: got %+v", transcript)
	}

	ids, err := repo.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("sessions: got %v", ids)
	}
}
