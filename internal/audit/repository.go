package audit

import (
	"database/sql"
	"encoding/json"
	"time"
)

// DBPair interface for dependency injection (matches db.DBPair).
type DBPair interface {
	Reader() *sql.DB
	Writer() *sql.DB
}

// Repository handles database operations for audit events.
type Repository struct {
	reader *sql.DB
	writer *sql.DB
}

// NewRepository creates a new audit Repository.
func NewRepository(dbPair DBPair) *Repository {
	return &Repository{reader: dbPair.Reader(), writer: dbPair.Writer()}
}

// Insert appends an event to the trail.
func (r *Repository) Insert(userID string, level EventLevel, eventType EventType, message string, details map[string]any) error {
	var detailsJSON any
	if details != nil {
		encoded, err := json.Marshal(details)
		if err != nil {
			return err
		}
		detailsJSON = string(encoded)
	}

	_, err := r.writer.Exec(`
		INSERT INTO audit_events (user_id, level, type, message, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, level, eventType, message, detailsJSON, time.Now().UTC().Format(time.RFC3339))
	return err
}

// List returns events newest first.
func (r *Repository) List(userID string, limit, offset int) ([]Event, int, error) {
	var total int
	if err := r.reader.QueryRow(
		"SELECT COUNT(*) FROM audit_events WHERE user_id = ?", userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.reader.Query(`
		SELECT event_id, user_id, level, type, message, details, created_at
		FROM audit_events
		WHERE user_id = ?
		ORDER BY event_id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var details sql.NullString
		var createdAt string
		if err := rows.Scan(&e.EventID, &e.UserID, &e.Level, &e.Type, &e.Message, &details, &createdAt); err != nil {
			return nil, 0, err
		}
		if details.Valid {
			_ = json.Unmarshal([]byte(details.String), &e.Details)
		}
		if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
			e.CreatedAt = parsed
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if events == nil {
		events = []Event{}
	}

	return events, total, nil
}

// Prune removes events older than the cutoff. Returns the number removed.
func (r *Repository) Prune(olderThan time.Time) (int64, error) {
	result, err := r.writer.Exec(
		"DELETE FROM audit_events WHERE created_at < ?",
		olderThan.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
