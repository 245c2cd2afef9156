package queue

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kilnworks/kiln/internal/log"
)

// timeFormat is RFC3339 UTC with millisecond precision, which sorts
// lexicographically so timestamp columns can be compared as text.
const timeFormat = "2006-01-02T15:04:05.000Z"

// Entry is one queued package.
type Entry struct {
	Package       string
	FirstMarkedAt time.Time
}

// Event is one row of the trigger event history. Trigger and Version
// are empty for external marks (kiln mark, checkrebuild).
type Event struct {
	ID       int64
	Package  string
	Trigger  string
	Version  string
	BatchID  string
	MarkedAt time.Time
}

// Repository runs queue operations on an open connection.
type Repository struct {
	conn          *sql.DB
	retentionDays int
}

// Mark adds a package to the rebuild queue and records a trigger event.
// Marking an already-queued package keeps its original first_marked_at
// but still records the event. Reports whether the package was newly
// added.
func (r *Repository) Mark(pkg, trigger, triggerVersion, batchID string) (bool, error) {
	now := time.Now().UTC().Format(timeFormat)

	tx, err := r.conn.Begin()
	if err != nil {
		return false, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(
		"INSERT OR IGNORE INTO queue (package, first_marked_at) VALUES (?, ?)",
		pkg, now)
	if err != nil {
		return false, fmt.Errorf("inserting into queue: %w", err)
	}
	added, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(
		`INSERT INTO trigger_events (package, trigger_package, trigger_version, batch_id, marked_at)
		 VALUES (?, ?, ?, ?, ?)`,
		pkg, nullable(trigger), nullable(triggerVersion), nullable(batchID), now)
	if err != nil {
		return false, fmt.Errorf("recording trigger event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing mark: %w", err)
	}

	if pruned, err := r.pruneOldEvents(); err != nil {
		// Pruning is housekeeping; a failure must not fail the mark.
		log.Warn(log.CatDB, "event pruning failed", "error", err.Error())
	} else if pruned > 0 {
		log.Debug(log.CatDB, "pruned old trigger events", "count", pruned)
	}

	return added > 0, nil
}

// Unmark removes a package from the queue, reporting whether it was
// present. History is retained.
func (r *Repository) Unmark(pkg string) (bool, error) {
	res, err := r.conn.Exec("DELETE FROM queue WHERE package = ?", pkg)
	if err != nil {
		return false, fmt.Errorf("removing from queue: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

// IsMarked reports whether a package is queued.
func (r *Repository) IsMarked(pkg string) (bool, error) {
	var count int
	err := r.conn.QueryRow("SELECT COUNT(*) FROM queue WHERE package = ?", pkg).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking queue: %w", err)
	}
	return count > 0, nil
}

// List returns all queued packages in mark order.
func (r *Repository) List() ([]Entry, error) {
	rows, err := r.conn.Query("SELECT package, first_marked_at FROM queue ORDER BY first_marked_at")
	if err != nil {
		return nil, fmt.Errorf("listing queue: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		var marked string
		if err := rows.Scan(&entry.Package, &marked); err != nil {
			return nil, err
		}
		entry.FirstMarkedAt = parseTime(marked)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Query returns, sorted, the subset of the given packages that are
// queued.
func (r *Repository) Query(pkgs []string) ([]string, error) {
	if len(pkgs) == 0 {
		return []string{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(pkgs)), ",")
	args := make([]any, len(pkgs))
	for i, pkg := range pkgs {
		args[i] = pkg
	}

	rows, err := r.conn.Query(
		"SELECT package FROM queue WHERE package IN ("+placeholders+") ORDER BY package", args...)
	if err != nil {
		return nil, fmt.Errorf("querying queue: %w", err)
	}
	defer rows.Close()

	matched := []string{}
	for rows.Next() {
		var pkg string
		if err := rows.Scan(&pkg); err != nil {
			return nil, err
		}
		matched = append(matched, pkg)
	}
	return matched, rows.Err()
}

// Clear empties the queue and returns the number of removed entries.
func (r *Repository) Clear() (int64, error) {
	res, err := r.conn.Exec("DELETE FROM queue")
	if err != nil {
		return 0, fmt.Errorf("clearing queue: %w", err)
	}
	return res.RowsAffected()
}

// ClearTriggerEvents deletes the event history for one trigger.
func (r *Repository) ClearTriggerEvents(trigger string) (int64, error) {
	res, err := r.conn.Exec("DELETE FROM trigger_events WHERE trigger_package = ?", trigger)
	if err != nil {
		return 0, fmt.Errorf("clearing trigger events: %w", err)
	}
	return res.RowsAffected()
}

const eventColumns = "id, package, trigger_package, trigger_version, batch_id, marked_at"

// Events returns a package's event history, newest first.
func (r *Repository) Events(pkg string) ([]Event, error) {
	rows, err := r.conn.Query(
		"SELECT "+eventColumns+" FROM trigger_events WHERE package = ? ORDER BY marked_at DESC, id DESC",
		pkg)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// LatestEvent returns a package's most recent event, or nil when it has
// none.
func (r *Repository) LatestEvent(pkg string) (*Event, error) {
	row := r.conn.QueryRow(
		"SELECT "+eventColumns+" FROM trigger_events WHERE package = ? ORDER BY marked_at DESC, id DESC LIMIT 1",
		pkg)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest event: %w", err)
	}
	return &event, nil
}

// pruneOldEvents deletes events past the retention window.
func (r *Repository) pruneOldEvents() (int64, error) {
	if r.retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().
		AddDate(0, 0, -r.retentionDays).
		Truncate(24 * time.Hour).
		Format(timeFormat)
	res, err := r.conn.Exec("DELETE FROM trigger_events WHERE marked_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEvent(row scannable) (Event, error) {
	var event Event
	var trigger, triggerVersion, batchID sql.NullString
	var marked string
	if err := row.Scan(&event.ID, &event.Package, &trigger, &triggerVersion, &batchID, &marked); err != nil {
		return Event{}, err
	}
	event.Trigger = trigger.String
	event.Version = triggerVersion.String
	event.BatchID = batchID.String
	event.MarkedAt = parseTime(marked)
	return event, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
