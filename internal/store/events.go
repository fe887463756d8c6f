package store

import (
	"database/sql"
	"errors"
	"time"
)

// Event is a logged gesture event.
type Event struct {
	ID          string
	Name        string
	TimestampMs float64
	CreatedAt   time.Time
}

// EventRepository provides access to the gesture event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append inserts an event into the log.
func (r *EventRepository) Append(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(
		`INSERT INTO gesture_events (id, name, timestamp_ms, created_at)
		 VALUES (?, ?, ?, ?)`,
		e.ID, e.Name, e.TimestampMs, e.CreatedAt,
	)
	return err
}

// GetByID retrieves a single logged event.
func (r *EventRepository) GetByID(id string) (*Event, error) {
	e := &Event{}
	err := r.db.QueryRow(
		`SELECT id, name, timestamp_ms, created_at FROM gesture_events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Name, &e.TimestampMs, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Recent returns the most recent events, newest first.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(
		`SELECT id, name, timestamp_ms, created_at
		 FROM gesture_events ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Name, &e.TimestampMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// PurgeOlderThan deletes events created before the cutoff and returns how
// many were removed.
func (r *EventRepository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM gesture_events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
