// Package archive keeps a day by day history of pipeline results. Nothing in
// the pipeline reads it back.
package archive

import (
	"context"
	"database/sql"
	"destinystats/internal/assert"
	"destinystats/internal/pipeline"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Kind string

const (
	KindXur             Kind = "xur"
	KindCharacterStats  Kind = "character-stats"
	KindHistoricalStats Kind = "historical-stats"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindXur, KindCharacterStats, KindHistoricalStats:
		return k, nil
	}
	return "", fmt.Errorf("unknown archive kind %q", s)
}

// Config picks the database, Url (a libsql server) wins over File.
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (c Config) Enabled() bool {
	return c.File != "" || c.Url != ""
}

func (c Config) OpenDB() (*sql.DB, error) {
	if c.Url == "" {
		return sql.Open("sqlite", c.File)
	}

	dsn := c.Url
	if c.AuthToken != "" {
		parsed, err := url.Parse(c.Url)
		if err != nil {
			return nil, fmt.Errorf("parse archive url: %w", err)
		}
		query := parsed.Query()
		query.Set("authToken", c.AuthToken)
		parsed.RawQuery = query.Encode()
		dsn = parsed.String()
	}
	return sql.Open("libsql", dsn)
}

type Store struct {
	db *sql.DB
}

// Open opens the configured database and makes sure the schema exists.
func Open(ctx context.Context, config Config) (Store, error) {
	db, err := config.OpenDB()
	if err != nil {
		return Store{}, err
	}
	_, err = db.ExecContext(ctx, Schema)
	if err != nil {
		db.Close()
		return Store{}, fmt.Errorf("create schema: %w", err)
	}
	return NewStore(db), nil
}

func NewStore(db *sql.DB) Store {
	assert.NotNil("db", db)
	return Store{db: db}
}

func (s Store) Close() error {
	return s.db.Close()
}

type Record struct {
	Id      string
	Kind    Kind
	Account string
	Time    time.Time
	State   json.RawMessage
}

func dayOf(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// Push stores state under (kind, account), replacing a record pushed earlier
// on the same (UTC) day. Account is empty for the vendor snapshot.
func (s Store) Push(ctx context.Context, kind Kind, account string, now time.Time, state pipeline.State) (string, error) {
	serialized, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	day := dayOf(now)
	_, err = tx.ExecContext(
		ctx,
		"delete from snapshot where kind = ? and account = ? and day = ?",
		string(kind), account, day,
	)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = tx.ExecContext(
		ctx,
		"insert into snapshot (id, kind, account, day, time, state) values (?, ?, ?, ?, ?, ?)",
		id, string(kind), account, day, now.Unix(), string(serialized),
	)
	if err != nil {
		return "", err
	}

	return id, tx.Commit()
}

// Pull returns the records of (kind, account), oldest first.
func (s Store) Pull(ctx context.Context, kind Kind, account string) ([]Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"select id, time, state from snapshot where kind = ? and account = ? order by time asc",
		string(kind), account,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			id    string
			unix  int64
			state string
		)
		err := rows.Scan(&id, &unix, &state)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{
			Id:      id,
			Kind:    kind,
			Account: account,
			Time:    time.Unix(unix, 0),
			State:   json.RawMessage(state),
		})
	}
	return records, rows.Err()
}
