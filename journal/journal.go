package journal

import (
	"database/sql"
	_ "embed"
	"strings"
	"time"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/tendermint/tendermint/libs/common"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Journal is an event sink appending every published event to a sqlite
// database.
type Journal struct {
	db *sql.DB
}

var _ supersig.EventSink = (*Journal)(nil)

// Open opens or creates the journal database at path. Use ":memory:" for
// a journal that is dropped on Close.
func Open(path string) (*Journal, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path +
			"?_pragma=journal_mode(WAL)" +
			"&_pragma=foreign_keys(ON)" +
			"&_pragma=busy_timeout(5000)" +
			"&_pragma=synchronous(NORMAL)"
	} else {
		dsn += "?_pragma=foreign_keys(ON)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", path, err)
	}
	// Every connection to :memory: is a distinct database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "initialize schema: %s", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Publish stores the events in a single transaction.
func (j *Journal) Publish(ctx supersig.Context, events []supersig.Event) (err error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "begin: %s", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, e := range events {
		res, err := tx.ExecContext(ctx, `INSERT INTO events (height, type) VALUES (?, ?)`, e.Height, e.Type)
		if err != nil {
			return errors.Wrapf(errors.ErrDatabase, "insert event: %s", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return errors.Wrapf(errors.ErrDatabase, "event id: %s", err)
		}
		for i, a := range e.Attributes {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO attributes (event_id, position, key, value) VALUES (?, ?, ?, ?)`,
				id, i, string(a.Key), a.Value)
			if err != nil {
				return errors.Wrapf(errors.ErrDatabase, "insert attribute: %s", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "commit: %s", err)
	}
	return nil
}

// Query selects journaled events. Zero value fields match everything.
type Query struct {
	Type string
	// FromHeight and ToHeight are inclusive bounds.
	FromHeight int64
	ToHeight   int64
	// Attribute restricts to events carrying an attribute with this key
	// and AttributeValue.
	Attribute      string
	AttributeValue string
	Limit          int
}

// Events returns the journaled events matching q in publication order.
func (j *Journal) Events(ctx supersig.Context, q Query) ([]supersig.Event, error) {
	var (
		where []string
		args  []interface{}
	)
	if q.Type != "" {
		where = append(where, "e.type = ?")
		args = append(args, q.Type)
	}
	if q.FromHeight > 0 {
		where = append(where, "e.height >= ?")
		args = append(args, q.FromHeight)
	}
	if q.ToHeight > 0 {
		where = append(where, "e.height <= ?")
		args = append(args, q.ToHeight)
	}
	if q.Attribute != "" {
		where = append(where, "EXISTS (SELECT 1 FROM attributes f WHERE f.event_id = e.id AND f.key = ? AND f.value = ?)")
		args = append(args, q.Attribute, []byte(q.AttributeValue))
	}
	stmt := `SELECT e.id, e.height, e.type FROM events e`
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY e.id"
	if q.Limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := j.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "query events: %s", err)
	}
	var (
		ids    []int64
		events []supersig.Event
	)
	for rows.Next() {
		var (
			id int64
			e  supersig.Event
		)
		if err := rows.Scan(&id, &e.Height, &e.Type); err != nil {
			rows.Close()
			return nil, errors.Wrapf(errors.ErrDatabase, "scan event: %s", err)
		}
		ids = append(ids, id)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "read events: %s", err)
	}
	rows.Close()

	for i, id := range ids {
		attrs, err := j.attributes(ctx, id)
		if err != nil {
			return nil, err
		}
		events[i].Attributes = attrs
	}
	return events, nil
}

func (j *Journal) attributes(ctx supersig.Context, eventID int64) ([]common.KVPair, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT key, value FROM attributes WHERE event_id = ? ORDER BY position`, eventID)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "query attributes: %s", err)
	}
	defer rows.Close()

	var attrs []common.KVPair
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "scan attribute: %s", err)
		}
		attrs = append(attrs, common.KVPair{Key: []byte(key), Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "read attributes: %s", err)
	}
	return attrs, nil
}

// LastHeight returns the highest journaled height, zero when empty.
func (j *Journal) LastHeight(ctx supersig.Context) (int64, error) {
	var h sql.NullInt64
	if err := j.db.QueryRowContext(ctx, `SELECT MAX(height) FROM events`).Scan(&h); err != nil {
		return 0, errors.Wrapf(errors.ErrDatabase, "last height: %s", err)
	}
	return h.Int64, nil
}
