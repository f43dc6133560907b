package routine

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DBPair interface for dependency injection (matches db.DBPair).
type DBPair interface {
	Reader() *sql.DB
	Writer() *sql.DB
}

// Repository handles database operations for routines. The actions column
// carries the ordered action list as a JSON-encoded string; it is parsed and
// serialized only at this boundary.
type Repository struct {
	reader *sql.DB
	writer *sql.DB
}

// NewRepository creates a new routine Repository.
func NewRepository(dbPair DBPair) *Repository {
	return &Repository{reader: dbPair.Reader(), writer: dbPair.Writer()}
}

// Create creates a new routine.
func (r *Repository) Create(userID string, input CreateInput) (*Routine, error) {
	routineID := uuid.New().String()
	now := nowISO()

	actions := input.Actions
	if actions == nil {
		actions = []Action{}
	}
	actionsJSON, err := json.Marshal(actions)
	if err != nil {
		return nil, err
	}

	_, err = r.writer.Exec(`
		INSERT INTO routines (user_id, routine_id, name, icon, actions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, userID, routineID, input.Name, input.Icon, string(actionsJSON), now, now)
	if err != nil {
		return nil, err
	}

	return r.GetByID(userID, routineID)
}

// Insert stores a routine with a caller-chosen id. Used by seeding.
func (r *Repository) Insert(userID string, routine Routine) error {
	now := nowISO()
	actionsJSON, err := json.Marshal(routine.Actions)
	if err != nil {
		return err
	}

	_, err = r.writer.Exec(`
		INSERT INTO routines (user_id, routine_id, name, icon, actions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, userID, routine.ID, routine.Name, routine.Icon, string(actionsJSON), now, now)
	return err
}

// GetByID retrieves a routine by id. Returns nil when absent.
func (r *Repository) GetByID(userID, routineID string) (*Routine, error) {
	row := r.reader.QueryRow(`
		SELECT routine_id, name, icon, actions, created_at, updated_at
		FROM routines
		WHERE user_id = ? AND routine_id = ?
	`, userID, routineID)

	return scanRoutine(row)
}

// List retrieves routines with pagination.
func (r *Repository) List(userID string, limit, offset int) ([]Routine, int, error) {
	var total int
	if err := r.reader.QueryRow(
		"SELECT COUNT(*) FROM routines WHERE user_id = ?", userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.reader.Query(`
		SELECT routine_id, name, icon, actions, created_at, updated_at
		FROM routines
		WHERE user_id = ?
		ORDER BY created_at ASC, routine_id ASC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var routines []Routine
	for rows.Next() {
		routine, err := scanRoutine(rows)
		if err != nil {
			return nil, 0, err
		}
		routines = append(routines, *routine)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if routines == nil {
		routines = []Routine{}
	}

	return routines, total, nil
}

// Update updates a routine. Returns nil when absent.
func (r *Repository) Update(userID, routineID string, input UpdateInput) (*Routine, error) {
	existing, err := r.GetByID(userID, routineID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	name := existing.Name
	if input.Name != nil {
		name = *input.Name
	}

	icon := existing.Icon
	if input.Icon != nil {
		icon = *input.Icon
	}

	actions := existing.Actions
	if input.Actions != nil {
		actions = input.Actions
	}

	actionsJSON, err := json.Marshal(actions)
	if err != nil {
		return nil, err
	}

	_, err = r.writer.Exec(`
		UPDATE routines
		SET name = ?, icon = ?, actions = ?, updated_at = ?
		WHERE user_id = ? AND routine_id = ?
	`, name, icon, string(actionsJSON), nowISO(), userID, routineID)
	if err != nil {
		return nil, err
	}

	return r.GetByID(userID, routineID)
}

// Delete removes a routine. Reports whether a row was deleted.
func (r *Repository) Delete(userID, routineID string) (bool, error) {
	result, err := r.writer.Exec(
		"DELETE FROM routines WHERE user_id = ? AND routine_id = ?",
		userID, routineID,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Count returns the number of routines the user owns.
func (r *Repository) Count(userID string) (int, error) {
	var count int
	err := r.reader.QueryRow("SELECT COUNT(*) FROM routines WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoutine(row rowScanner) (*Routine, error) {
	var routine Routine
	var actionsJSON string
	var createdAt, updatedAt string

	if err := row.Scan(&routine.ID, &routine.Name, &routine.Icon, &actionsJSON, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(actionsJSON), &routine.Actions); err != nil {
		return nil, err
	}
	if routine.Actions == nil {
		routine.Actions = []Action{}
	}

	if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
		routine.CreatedAt = parsed
	}
	if parsed, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		routine.UpdatedAt = parsed
	}

	return &routine, nil
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
