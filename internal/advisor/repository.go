package advisor

import (
	"database/sql"
	"sort"
)

// weekOrder fixes the display order of weekday samples, Monday first,
// matching the energy chart.
var weekOrder = map[string]int{
	"Mon": 0, "Tue": 1, "Wed": 2, "Thu": 3, "Fri": 4, "Sat": 5, "Sun": 6,
}

// Sample is one weekday's energy usage reading.
type Sample struct {
	Day   string  `json:"day"`
	Usage float64 `json:"usage"`
}

// DBPair interface for dependency injection (matches db.DBPair).
type DBPair interface {
	Reader() *sql.DB
	Writer() *sql.DB
}

// Repository reads and seeds energy usage samples. Samples feed the
// advisor read-only; nothing in the service mutates them after seeding.
type Repository struct {
	reader *sql.DB
	writer *sql.DB
}

// NewRepository creates a new advisor Repository.
func NewRepository(dbPair DBPair) *Repository {
	return &Repository{reader: dbPair.Reader(), writer: dbPair.Writer()}
}

// ListUsage returns the user's weekly samples ordered Monday first.
func (r *Repository) ListUsage(userID string) ([]Sample, error) {
	rows, err := r.reader.Query(
		"SELECT day, usage FROM energy_usage WHERE user_id = ?", userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := []Sample{}
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.Day, &s.Usage); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortSamples(samples)
	return samples, nil
}

// TotalUsage returns the user's summed weekly usage in kWh.
func (r *Repository) TotalUsage(userID string) (float64, error) {
	var total float64
	err := r.reader.QueryRow(
		"SELECT COALESCE(SUM(usage), 0) FROM energy_usage WHERE user_id = ?", userID,
	).Scan(&total)
	return total, err
}

// UpsertSample stores one weekday sample. Used by seeding.
func (r *Repository) UpsertSample(userID string, s Sample) error {
	_, err := r.writer.Exec(`
		INSERT INTO energy_usage (user_id, day, usage) VALUES (?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET usage = excluded.usage
	`, userID, s.Day, s.Usage)
	return err
}

// Count returns the number of samples the user has.
func (r *Repository) Count(userID string) (int, error) {
	var count int
	err := r.reader.QueryRow("SELECT COUNT(*) FROM energy_usage WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

func sortSamples(samples []Sample) {
	sort.Slice(samples, func(i, j int) bool {
		return weekOrder[samples[i].Day] < weekOrder[samples[j].Day]
	})
}
