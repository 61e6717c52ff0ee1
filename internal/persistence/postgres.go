package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Postgres driver
)

// PostgresDB implements the Database interface for PostgreSQL.
type PostgresDB struct {
	db          *sql.DB
	articles    ArticleRepository
	editions    EditionRepository
	subscribers SubscriberRepository
}

// NewPostgresDB creates a new PostgreSQL database connection.
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pgDB := &PostgresDB{db: db}
	pgDB.articles = &postgresArticleRepo{db: db}
	pgDB.editions = &postgresEditionRepo{db: db}
	pgDB.subscribers = &postgresSubscriberRepo{db: db}

	return pgDB, nil
}

func (p *PostgresDB) Articles() ArticleRepository       { return p.articles }
func (p *PostgresDB) Editions() EditionRepository       { return p.editions }
func (p *PostgresDB) Subscribers() SubscriberRepository { return p.subscribers }

func (p *PostgresDB) Close() error {
	return p.db.Close()
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// nullString converts a *string to its sql.NullString equivalent.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// ptrOf converts a scanned nullable column back to a *string.
func ptrOf(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
