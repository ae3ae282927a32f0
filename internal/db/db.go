package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"pdfqa/internal/config"
	"pdfqa/internal/models"
)

var ErrNoDSN = errors.New("database dsn is empty")

type Answer struct {
	bun.BaseModel `bun:"table:answers,alias:a"`
	ID            int64     `bun:"id,pk,autoincrement"`
	SessionID     string    `bun:"session_id,notnull"`
	DocumentID    string    `bun:"document_id"`
	Question      string    `bun:"question,notnull"`
	Answer        string    `bun:"answer,notnull"`
	Sources       []string  `bun:"sources,array"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// ConnectDB opens Postgres with pgdriver, or lib/pq when the driver is "pq".
func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, ErrNoDSN
	}
	switch cfg.Driver {
	case "pq", "postgres":
		return sql.Open("postgres", cfg.DSN)
	case "", "pgdriver":
		opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DSN)}
		if cfg.Password != "" {
			opts = append(opts, pgdriver.WithPassword(cfg.Password))
		}
		return sql.OpenDB(pgdriver.NewConnector(opts...)), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func InitDB(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Answer)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create answers table: %w", err)
	}
	_, err := db.NewCreateIndex().
		Model((*Answer)(nil)).
		Index("answers_session_id_idx").
		Column("session_id").
		IfNotExists().
		Exec(ctx)
	return err
}

// drop table answers
func DropAnswers(ctx context.Context, db *bun.DB) error {
	_, err := db.NewDropTable().Model((*Answer)(nil)).IfExists().Exec(ctx)
	return err
}

// Store keeps answer history in Postgres.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SaveAnswer(ctx context.Context, rec *models.AnswerRecord) error {
	row := &Answer{
		SessionID:  rec.SessionID,
		DocumentID: rec.DocumentID,
		Question:   rec.Question,
		Answer:     rec.Answer,
		Sources:    rec.Sources,
		CreatedAt:  rec.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NewInsert().Model(row).Exec(ctx)
	return err
}

func (s *Store) ListAnswers(ctx context.Context, sessionID string) ([]models.AnswerRecord, error) {
	var rows []Answer
	err := s.db.NewSelect().
		Model(&rows).
		Where("session_id = ?", sessionID).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.AnswerRecord, len(rows))
	for i, r := range rows {
		out[i] = models.AnswerRecord{
			SessionID:  r.SessionID,
			DocumentID: r.DocumentID,
			Question:   r.Question,
			Answer:     r.Answer,
			Sources:    r.Sources,
			CreatedAt:  r.CreatedAt,
		}
	}
	return out, nil
}

// Reset drops every stored answer and recreates the empty table.
func (s *Store) Reset(ctx context.Context) error {
	if err := DropAnswers(ctx, s.db); err != nil {
		return fmt.Errorf("failed to drop answers table: %w", err)
	}
	return InitDB(ctx, s.db)
}

func (s *Store) Close() error {
	return s.db.Close()
}
