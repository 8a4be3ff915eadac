package repository

import (
	"encoding/json"
	"time"

	"github.com/docfront/docfront/internal/domain"
	"github.com/google/uuid"
)

// HistoryRepository persists chat sessions and their turns
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// RecordTurn appends one finished turn to a session, creating the session row
// on first use.
func (r *HistoryRepository) RecordTurn(sessionID string, turn domain.Turn, sources []domain.Source) error {
	now := time.Now()

	_, err := r.db.Exec(`
		INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at
	`, sessionID, now, now)
	if err != nil {
		return err
	}

	sourcesJSON, _ := json.Marshal(sources)

	_, err = r.db.Exec(`
		INSERT INTO turns (id, session_id, user_text, assistant_text, sources, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), sessionID, turn.User, turn.Assistant,
		string(sourcesJSON), now)

	return err
}

// GetTranscript retrieves all turns for a session in insertion order.
func (r *HistoryRepository) GetTranscript(sessionID string) (domain.Transcript, error) {
	rows, err := r.db.Query(`
		SELECT user_text, assistant_text FROM turns
		WHERE session_id = ? ORDER BY rowid ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transcript := domain.Transcript{}
	for rows.Next() {
		var turn domain.Turn
		if err := rows.Scan(&turn.User, &turn.Assistant); err != nil {
			return nil, err
		}
		transcript = append(transcript, turn)
	}
	return transcript, rows.Err()
}

// ListSessions returns all session ids, most recently updated first.
func (r *HistoryRepository) ListSessions() ([]string, error) {
	rows, err := r.db.Query(`SELECT id FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
