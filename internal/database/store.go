package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"commencement-tickets/internal/auth"
	"commencement-tickets/internal/notify"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// rebind rewrites ? placeholders for dialects that number their parameters.
func (d Dialect) rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type OpenOptions struct {
	Driver   Dialect
	Source   string
	MaxConns int
}

// Open connects to the configured database, bounds its connection pool and
// makes sure the schema exists.
func Open(ctx context.Context, opts OpenOptions) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch opts.Driver {
	case SQLite, "":
		db, err = openSQLite(opts.Source)
	case Postgres:
		db, err = sql.Open("pgx", opts.Source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	if opts.MaxConns > 0 {
		db.SetMaxOpenConns(opts.MaxConns)
		db.SetMaxIdleConns(opts.MaxConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	dialect := opts.Driver
	if dialect == "" {
		dialect = SQLite
	}
	if err := migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return db, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		path = "data.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// Pragmas go in the DSN so that every pooled connection gets them.
	dsn := "file:" + path +
		"?_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// Deps are the collaborators a Store needs for registration.
type Deps struct {
	Issuer         auth.Issuer
	Notifier       notify.Notifier
	Domain         string
	AcquireTimeout time.Duration
	// SendTimeout bounds a single notification; zero means defaultSendTimeout.
	SendTimeout time.Duration
	Logger      *slog.Logger
}

const defaultSendTimeout = time.Minute

type Store struct {
	db       *sql.DB
	dialect  Dialect
	issuer   auth.Issuer
	notifier notify.Notifier
	domain   string
	acquire  time.Duration
	logger   *slog.Logger

	sendTimeout time.Duration

	registrations singleflight.Group
}

func NewStore(db *sql.DB, dialect Dialect, deps Deps) *Store {
	if dialect == "" {
		dialect = SQLite
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sendTimeout := deps.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	return &Store{
		db:       db,
		dialect:  dialect,
		issuer:   deps.Issuer,
		notifier: deps.Notifier,
		domain:   deps.Domain,
		acquire:  deps.AcquireTimeout,
		logger:   logger.With("component", "store"),

		sendTimeout: sendTimeout,
	}
}

func (s *Store) GetDB() *sql.DB {
	return s.db
}

// withConn checks out one pooled connection for the duration of fn and always
// returns it.
func (s *Store) withConn(ctx context.Context, op string, fn func(*sql.Conn) error) error {
	acquireCtx := ctx
	if s.acquire > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, s.acquire)
		defer cancel()
	}

	conn, err := s.db.Conn(acquireCtx)
	if err != nil {
		return infraError(op, fmt.Errorf("acquiring connection: %w", err))
	}
	defer conn.Close()

	return fn(conn)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.withConn(ctx, "ping", func(conn *sql.Conn) error {
		if err := conn.PingContext(ctx); err != nil {
			return infraError("ping", err)
		}
		return nil
	})
}
