package device

import (
	"database/sql"
)

// DBPair interface for dependency injection (matches db.DBPair).
type DBPair interface {
	Reader() *sql.DB
	Writer() *sql.DB
}

// Repository handles database operations for devices.
// Uses separate reader/writer connections for optimal SQLite concurrency.
type Repository struct {
	reader *sql.DB
	writer *sql.DB
	nowISO func() string
}

// NewRepository creates a new device Repository.
func NewRepository(dbPair DBPair, nowISO func() string) *Repository {
	return &Repository{reader: dbPair.Reader(), writer: dbPair.Writer(), nowISO: nowISO}
}

// List returns the user's devices in registry order.
func (r *Repository) List(userID string) ([]Device, error) {
	rows, err := r.reader.Query(`
		SELECT device_id, name, room, type, status, value
		FROM devices
		WHERE user_id = ?
		ORDER BY position ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		var d Device
		var value sql.NullInt64
		if err := rows.Scan(&d.ID, &d.Name, &d.Room, &d.Type, &d.Status, &value); err != nil {
			return nil, err
		}
		if value.Valid {
			v := int(value.Int64)
			d.Value = &v
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if devices == nil {
		devices = []Device{}
	}

	return devices, nil
}

// GetByID retrieves a device by id. Returns nil when absent.
func (r *Repository) GetByID(userID, deviceID string) (*Device, error) {
	row := r.reader.QueryRow(`
		SELECT device_id, name, room, type, status, value
		FROM devices
		WHERE user_id = ? AND device_id = ?
	`, userID, deviceID)

	var d Device
	var value sql.NullInt64
	if err := row.Scan(&d.ID, &d.Name, &d.Room, &d.Type, &d.Status, &value); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if value.Valid {
		v := int(value.Int64)
		d.Value = &v
	}
	return &d, nil
}

// Count returns the number of devices the user owns.
func (r *Repository) Count(userID string) (int, error) {
	var count int
	err := r.reader.QueryRow("SELECT COUNT(*) FROM devices WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

// SaveState persists the status and value of a device after a transition.
func (r *Repository) SaveState(userID string, d Device) error {
	_, err := r.writer.Exec(`
		UPDATE devices
		SET status = ?, value = ?, updated_at = ?
		WHERE user_id = ? AND device_id = ?
	`, d.Status, nullableInt(d.Value), r.nowISO(), userID, d.ID)
	return err
}

// SaveRegistry persists every device of a registry snapshot in one
// transaction. Used after routine execution and schedule fires.
func (r *Repository) SaveRegistry(userID string, reg Registry) error {
	tx, err := r.writer.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE devices
		SET status = ?, value = ?, updated_at = ?
		WHERE user_id = ? AND device_id = ?
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := r.nowISO()
	for _, d := range reg.Devices() {
		if _, err := stmt.Exec(d.Status, nullableInt(d.Value), now, userID, d.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Insert adds a device at the end of the registry order.
func (r *Repository) Insert(userID string, d Device) error {
	var maxPos sql.NullInt64
	if err := r.writer.QueryRow(
		"SELECT MAX(position) FROM devices WHERE user_id = ?", userID,
	).Scan(&maxPos); err != nil {
		return err
	}
	position := 0
	if maxPos.Valid {
		position = int(maxPos.Int64) + 1
	}

	now := r.nowISO()
	_, err := r.writer.Exec(`
		INSERT INTO devices (user_id, device_id, name, room, type, status, value, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, d.ID, d.Name, d.Room, d.Type, d.Status, nullableInt(d.Value), position, now, now)
	return err
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
