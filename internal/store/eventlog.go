package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Event records one mutation this client issued against the backend: deal
// moves, creates, updates, deletes. The backend is the source of truth for
// records; this log only answers "what did I change from here, and when".
type Event struct {
	ID         string    `json:"id"`
	TS         time.Time `json:"ts"`
	Type       string    `json:"type"` // e.g. "deal.move", "contact.create"
	EntityKind string    `json:"entityKind"`
	EntityID   int       `json:"entityId"`
	Payload    any       `json:"payload,omitempty"`
}

func (s Store) eventLogPath() string {
	return filepath.Join(s.Dir, "events.sqlite")
}

func (s Store) openEventLog(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.eventLogPath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	schema := `CREATE TABLE IF NOT EXISTS events (
		event_id    TEXT PRIMARY KEY,
		ts          TEXT NOT NULL,
		type        TEXT NOT NULL,
		entity_kind TEXT NOT NULL,
		entity_id   INTEGER NOT NULL,
		payload     TEXT
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// AppendEvent is best effort from the caller's perspective: a mutation that
// reached the backend is not failed because the local log could not be
// written, so callers typically ignore the returned error.
func (s Store) AppendEvent(ctx context.Context, eventType, entityKind string, entityID int, payload any) error {
	if s.Dir == "" {
		return nil
	}
	db, err := s.openEventLog(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var payloadJSON []byte
	if payload != nil {
		payloadJSON, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO events (event_id, ts, type, entity_kind, entity_id, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		time.Now().UTC().Format(time.RFC3339Nano),
		eventType,
		entityKind,
		entityID,
		string(payloadJSON),
	)
	return err
}

// ListEvents returns the most recent events, newest first. limit <= 0 means
// all.
func (s Store) ListEvents(ctx context.Context, limit int) ([]Event, error) {
	if s.Dir == "" {
		return nil, nil
	}
	db, err := s.openEventLog(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, ts, type, entity_kind, entity_id, payload FROM events ORDER BY ts DESC, rowid DESC`
	var rows *sql.Rows
	if limit > 0 {
		rows, err = db.QueryContext(ctx, q+` LIMIT ?`, limit)
	} else {
		rows, err = db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var ts, payload string
		if err := rows.Scan(&e.ID, &ts, &e.Type, &e.EntityKind, &e.EntityID, &payload); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.TS = t
		}
		if payload != "" {
			var v any
			if err := json.Unmarshal([]byte(payload), &v); err == nil {
				e.Payload = v
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
