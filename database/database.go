package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"propmgmt/logging"

	_ "modernc.org/sqlite"
)

// Config holds database configuration
type Config struct {
	Path              string        `env:"DB_PATH" default:"./propmgmt.db"`
	MaxOpenConns      int           `env:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns      int           `env:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime   time.Duration `env:"DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime   time.Duration `env:"DB_CONN_MAX_IDLE_TIME" default:"15m"`
	BusyTimeoutMs     int           `env:"DB_BUSY_TIMEOUT_MS" default:"5000"`
	EnableForeignKeys bool          `env:"DB_ENABLE_FOREIGN_KEYS" default:"true"`
	EnableWAL         bool          `env:"DB_ENABLE_WAL" default:"true"`
}

// Database is the local list store's sqlite file. Reads share a pool,
// writes go through a single connection so sqlite never sees two writers.
type Database struct {
	reader *sql.DB
	writer *sql.DB
	config Config
	logger *logging.Logger
}

// PoolStats is the health view of one connection pool.
type PoolStats struct {
	MaxOpen      int    `json:"max_open_conns"`
	Open         int    `json:"open_connections"`
	InUse        int    `json:"in_use"`
	Idle         int    `json:"idle"`
	WaitCount    int64  `json:"wait_count"`
	WaitDuration string `json:"wait_duration"`
}

// Health is reported by the /health endpoint.
type Health struct {
	SchemaVersion int64            `json:"schema_version"`
	Lists         map[string]int64 `json:"lists"`
	Read          PoolStats        `json:"read_pool"`
	Write         PoolStats        `json:"write_pool"`
}

// New opens the database file, creating it when missing, and brings
// the schema up to date.
func New(config Config, logger *logging.Logger) (*Database, error) {
	if config.Path == "" {
		return nil, errors.New("database path is required")
	}
	logger = logger.WithComponent("database")

	_, statErr := os.Stat(config.Path)
	fresh := errors.Is(statErr, os.ErrNotExist)

	reader, err := sql.Open("sqlite", dataSource(config, false))
	if err != nil {
		return nil, fmt.Errorf("failed to open read pool: %w", err)
	}
	reader.SetMaxOpenConns(max(config.MaxOpenConns, 1))
	reader.SetMaxIdleConns(config.MaxIdleConns)
	reader.SetConnMaxLifetime(config.ConnMaxLifetime)
	reader.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	writer, err := sql.Open("sqlite", dataSource(config, true))
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("failed to open write connection: %w", err)
	}
	writer.SetMaxOpenConns(1)
	writer.SetMaxIdleConns(1)
	writer.SetConnMaxLifetime(0)

	d := &Database{reader: reader, writer: writer, config: config, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := d.ping(ctx); err != nil {
		d.closePools()
		return nil, err
	}
	applied, err := d.migrate(ctx, schemaFiles)
	if err != nil {
		d.closePools()
		return nil, fmt.Errorf("failed to migrate %s: %w", config.Path, err)
	}

	logger.Info("List database ready",
		"path", config.Path,
		"created", fresh,
		"migrations_applied", applied,
		"wal", config.EnableWAL,
		"read_conns", config.MaxOpenConns)
	return d, nil
}

// dataSource builds a modernc sqlite DSN. Pragmas are applied by the
// driver on every new connection, so pooled connections agree.
func dataSource(config Config, write bool) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", config.BusyTimeoutMs))
	if config.EnableWAL {
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "synchronous(NORMAL)")
	}
	if config.EnableForeignKeys {
		q.Add("_pragma", "foreign_keys(1)")
	}
	if write {
		q.Set("_txlock", "immediate")
	}
	return "file:" + config.Path + "?" + q.Encode()
}

func (d *Database) ping(ctx context.Context) error {
	if err := d.reader.PingContext(ctx); err != nil {
		return fmt.Errorf("read pool unreachable: %w", err)
	}
	if err := d.writer.PingContext(ctx); err != nil {
		return fmt.Errorf("write connection unreachable: %w", err)
	}
	if d.config.EnableWAL {
		var mode string
		if err := d.writer.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
			return fmt.Errorf("failed to read journal mode: %w", err)
		}
		if mode != "wal" {
			d.logger.Warn("WAL requested but not active", "journal_mode", mode)
		}
	}
	return nil
}

// ReadDB returns the pooled read connection
func (d *Database) ReadDB() *sql.DB {
	return d.reader
}

// WriteDB returns the serialized write connection
func (d *Database) WriteDB() *sql.DB {
	return d.writer
}

// WithTx runs fn inside a write transaction, rolling back when fn fails.
func (d *Database) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := d.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.logger.Error("Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (d *Database) SchemaVersion(ctx context.Context) (int64, error) {
	var v sql.NullInt64
	if err := d.reader.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v.Int64, nil
}

// ListCounts returns the number of stored items per list name.
func (d *Database) ListCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := d.reader.QueryContext(ctx,
		`SELECT list_name, COUNT(*) FROM list_items GROUP BY list_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to count list items: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var name string
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("failed to scan list count: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

// Health pings both pools and reports schema, list sizes and pool usage.
func (d *Database) Health(ctx context.Context) (*Health, error) {
	if err := d.ping(ctx); err != nil {
		return nil, err
	}
	version, err := d.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := d.ListCounts(ctx)
	if err != nil {
		return nil, err
	}
	return &Health{
		SchemaVersion: version,
		Lists:         counts,
		Read:          poolStats(d.reader, d.config.MaxOpenConns),
		Write:         poolStats(d.writer, 1),
	}, nil
}

func poolStats(db *sql.DB, maxOpen int) PoolStats {
	s := db.Stats()
	return PoolStats{
		MaxOpen:      maxOpen,
		Open:         s.OpenConnections,
		InUse:        s.InUse,
		Idle:         s.Idle,
		WaitCount:    s.WaitCount,
		WaitDuration: s.WaitDuration.String(),
	}
}

// Close checkpoints the WAL and closes both pools.
func (d *Database) Close() error {
	if d.config.EnableWAL {
		if _, err := d.writer.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			d.logger.Warn("WAL checkpoint failed", "error", err)
		}
	}
	if err := d.closePools(); err != nil {
		return err
	}
	d.logger.Database("List database closed", "path", d.config.Path)
	return nil
}

func (d *Database) closePools() error {
	return errors.Join(d.reader.Close(), d.writer.Close())
}
