package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig holds database connection parameters.
// MaxConns bounds the pool; callers beyond it wait until a connection is
// released or their context ends.
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	BootstrapSchema bool
}

// Validate checks the required connection fields
func (c DBConfig) Validate() error {
	if c.Host == "" || c.Port == "" || c.User == "" || c.Name == "" {
		return errors.New("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.MaxConns)
	}
	if c.MinConns < 0 || c.MinConns > c.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS, got %d", c.MinConns)
	}
	return nil
}

// DSN renders the libpq style connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// PoolConfig parses the DSN and applies the pool bounds
func (c DBConfig) PoolConfig() (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(c.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}
	poolCfg.MaxConns = c.MaxConns
	poolCfg.MinConns = c.MinConns
	return poolCfg, nil
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, cfg DBConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := cfg.PoolConfig()
	if err != nil {
		return nil, err
	}

	var pool *pgxpool.Pool

	// Retry connecting to the database a few times
	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				logger.Info("connected to PostgreSQL", "host", cfg.Host, "db", cfg.Name, "max_conns", cfg.MaxConns)
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn("failed to connect to database",
			"attempt", i+1, "max_attempts", maxRetries, "retry_in", retryInterval, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// Schema is the DDL of the forum tables
const Schema = `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(64) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password TEXT NOT NULL,
		firstname VARCHAR(100) NOT NULL,
		lastname VARCHAR(100) NOT NULL,
		phone_number VARCHAR(32),
		address TEXT,
		gender VARCHAR(32),
		profile_picture BYTEA,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS questions (
		question_id UUID PRIMARY KEY,
		user_username VARCHAR(64) NOT NULL REFERENCES users(username) ON UPDATE CASCADE,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS answers (
		answer_id UUID PRIMARY KEY,
		question_id UUID NOT NULL REFERENCES questions(question_id) ON DELETE CASCADE,
		user_username VARCHAR(64) NOT NULL REFERENCES users(username) ON UPDATE CASCADE,
		answer TEXT NOT NULL,
		attachment_url TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS answer_likes (
		user_username VARCHAR(64) NOT NULL REFERENCES users(username) ON UPDATE CASCADE,
		answer_id UUID NOT NULL REFERENCES answers(answer_id) ON DELETE CASCADE,
		liked BOOLEAN NOT NULL DEFAULT FALSE,
		disliked BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (user_username, answer_id)
	);

	CREATE INDEX IF NOT EXISTS idx_questions_user ON questions(user_username);
	CREATE INDEX IF NOT EXISTS idx_answers_question_id ON answers(question_id);
	CREATE INDEX IF NOT EXISTS idx_answers_user ON answers(user_username);
	CREATE INDEX IF NOT EXISTS idx_answer_likes_answer_id ON answer_likes(answer_id);
`

// EnsureSchema creates the forum tables if they don't exist.
// It is only run when DB_BOOTSTRAP_SCHEMA is set; normally the schema is provisioned externally.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("unable to create schema: %w", err)
	}
	return nil
}
