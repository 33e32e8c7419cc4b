package repository

import (
	"context"
	"fmt"
	"strings"

	"game_dashboard/pkg/logger"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Repository struct {
	db     sqlx.ExtContext
	conn   *sqlx.DB
	sb     squirrel.StatementBuilderType
	driver string
}

func (r *Repository) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

// Transaction runs t against a transaction-scoped copy of the repository.
// Calls made from inside an open transaction reuse it.
func (r *Repository) Transaction(ctx context.Context, t func(tx *Repository) error) error {
	if r.conn == nil {
		return t(r)
	}

	tx, err := r.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	scoped := &Repository{db: tx, sb: r.sb, driver: r.driver}

	err = t(scoped)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return errors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}
	return tx.Commit()
}

type Config struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

func New(cfg Config) (*Repository, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return Open(DriverPostgres, cfg.GetDatabaseURL())
	case DriverSQLite, "":
		path := cfg.Path
		if path == "" {
			path = "data.db"
		}
		return Open(DriverSQLite, SQLiteDSN(path))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open connects with one of the supported drivers and an already built DSN.
func Open(driver, dsn string) (*Repository, error) {
	sqlDriver := "sqlite"
	var placeholder squirrel.PlaceholderFormat = squirrel.Question
	if driver == DriverPostgres {
		sqlDriver = "pgx"
		placeholder = squirrel.Dollar
	}

	db, err := sqlx.Connect(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Logger().Info("Connected to database successfully", zap.String("driver", driver))

	return &Repository{
		db:     db,
		conn:   db,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(placeholder),
		driver: driver,
	}, nil
}

func SQLiteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrAlreadyExists
	}
	return err
}

func (r *Repository) insertReturningID(ctx context.Context, b squirrel.InsertBuilder) (int64, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

func (r *Repository) exec(ctx context.Context, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
