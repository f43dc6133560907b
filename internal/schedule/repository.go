package schedule

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

// Repository handles database operations for schedules. The days column
// carries the weekday token set as a JSON-encoded array; it is parsed
// and serialized only at this boundary.
type Repository struct {
	reader *sql.DB
	writer *sql.DB
}

// NewRepository creates a new schedule Repository.
func NewRepository(dbPair DBPair) *Repository {
	return &Repository{reader: dbPair.Reader(), writer: dbPair.Writer()}
}

// Create creates a new schedule.
func (r *Repository) Create(userID string, input CreateInput) (*Schedule, error) {
	scheduleID := uuid.New().String()
	now := nowISO()

	daysJSON, err := json.Marshal(input.Days)
	if err != nil {
		return nil, err
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	_, err = r.writer.Exec(`
		INSERT INTO schedules (user_id, schedule_id, name, device_id, time, action, days, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, scheduleID, input.Name, input.DeviceID, input.Time, string(input.Action), string(daysJSON), boolToInt(enabled), now, now)
	if err != nil {
		return nil, err
	}

	return r.GetByID(userID, scheduleID)
}

// Insert stores a schedule with a caller-chosen id. Used by seeding.
func (r *Repository) Insert(userID string, s Schedule) error {
	now := nowISO()
	daysJSON, err := json.Marshal(s.Days)
	if err != nil {
		return err
	}

	_, err = r.writer.Exec(`
		INSERT INTO schedules (user_id, schedule_id, name, device_id, time, action, days, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, s.ID, s.Name, s.DeviceID, s.Time, string(s.Action), string(daysJSON), boolToInt(s.Enabled), now, now)
	return err
}

// GetByID retrieves a schedule by id. Returns nil when absent.
func (r *Repository) GetByID(userID, scheduleID string) (*Schedule, error) {
	row := r.reader.QueryRow(`
		SELECT schedule_id, name, device_id, time, action, days, enabled, created_at, updated_at
		FROM schedules
		WHERE user_id = ? AND schedule_id = ?
	`, userID, scheduleID)

	return scanSchedule(row)
}

// List retrieves schedules with pagination.
func (r *Repository) List(userID string, limit, offset int) ([]Schedule, int, error) {
	var total int
	if err := r.reader.QueryRow(
		"SELECT COUNT(*) FROM schedules WHERE user_id = ?", userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.reader.Query(`
		SELECT schedule_id, name, device_id, time, action, days, enabled, created_at, updated_at
		FROM schedules
		WHERE user_id = ?
		ORDER BY created_at ASC, schedule_id ASC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	schedules, err := collectSchedules(rows)
	if err != nil {
		return nil, 0, err
	}
	return schedules, total, nil
}

// ListEnabled retrieves every enabled schedule across all users, paired
// with its owner and last-fired marker. Used by the ticker.
func (r *Repository) ListEnabled() ([]TickerEntry, error) {
	rows, err := r.reader.Query(`
		SELECT user_id, schedule_id, name, device_id, time, action, days, enabled, created_at, updated_at,
		       COALESCE(last_fired_minute, '')
		FROM schedules
		WHERE enabled = 1
		ORDER BY user_id ASC, schedule_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TickerEntry
	for rows.Next() {
		var entry TickerEntry
		var daysJSON, createdAt, updatedAt string
		var enabled int
		err := rows.Scan(
			&entry.UserID, &entry.Schedule.ID, &entry.Schedule.Name, &entry.Schedule.DeviceID,
			&entry.Schedule.Time, &entry.Schedule.Action, &daysJSON, &enabled,
			&createdAt, &updatedAt, &entry.LastFiredMinute,
		)
		if err != nil {
			return nil, err
		}
		entry.Schedule.Enabled = enabled != 0
		if err := json.Unmarshal([]byte(daysJSON), &entry.Schedule.Days); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// TickerEntry is a schedule plus the bookkeeping the ticker needs.
type TickerEntry struct {
	UserID          string
	Schedule        Schedule
	LastFiredMinute string
}

// MarkFired records the minute a schedule last fired in, so a slow tick
// cannot fire it twice within the same minute.
func (r *Repository) MarkFired(userID, scheduleID, minuteKey string) error {
	_, err := r.writer.Exec(`
		UPDATE schedules SET last_fired_minute = ? WHERE user_id = ? AND schedule_id = ?
	`, minuteKey, userID, scheduleID)
	return err
}

// Update updates a schedule. Returns nil when absent.
func (r *Repository) Update(userID, scheduleID string, input UpdateInput) (*Schedule, error) {
	existing, err := r.GetByID(userID, scheduleID)
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

	deviceID := existing.DeviceID
	if input.DeviceID != nil {
		deviceID = *input.DeviceID
	}

	timeStr := existing.Time
	if input.Time != nil {
		timeStr = *input.Time
	}

	action := existing.Action
	if input.Action != nil {
		action = *input.Action
	}

	days := existing.Days
	if input.Days != nil {
		days = input.Days
	}

	enabled := existing.Enabled
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	daysJSON, err := json.Marshal(days)
	if err != nil {
		return nil, err
	}

	_, err = r.writer.Exec(`
		UPDATE schedules
		SET name = ?, device_id = ?, time = ?, action = ?, days = ?, enabled = ?, updated_at = ?
		WHERE user_id = ? AND schedule_id = ?
	`, name, deviceID, timeStr, string(action), string(daysJSON), boolToInt(enabled), nowISO(), userID, scheduleID)
	if err != nil {
		return nil, err
	}

	return r.GetByID(userID, scheduleID)
}

// Delete removes a schedule. Reports whether a row was deleted.
func (r *Repository) Delete(userID, scheduleID string) (bool, error) {
	result, err := r.writer.Exec(
		"DELETE FROM schedules WHERE user_id = ? AND schedule_id = ?",
		userID, scheduleID,
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

// Count returns the number of schedules the user owns.
func (r *Repository) Count(userID string) (int, error) {
	var count int
	err := r.reader.QueryRow("SELECT COUNT(*) FROM schedules WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*Schedule, error) {
	var s Schedule
	var daysJSON string
	var enabled int
	var createdAt, updatedAt string

	err := row.Scan(&s.ID, &s.Name, &s.DeviceID, &s.Time, &s.Action, &daysJSON, &enabled, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	s.Enabled = enabled != 0
	if err := json.Unmarshal([]byte(daysJSON), &s.Days); err != nil {
		return nil, err
	}
	if s.Days == nil {
		s.Days = []string{}
	}

	if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
		s.CreatedAt = parsed
	}
	if parsed, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		s.UpdatedAt = parsed
	}

	return &s, nil
}

func collectSchedules(rows *sql.Rows) ([]Schedule, error) {
	var schedules []Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if schedules == nil {
		schedules = []Schedule{}
	}
	return schedules, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
