package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"beauty/advisor/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const createRoutinesTable = `
	CREATE TABLE IF NOT EXISTS routines (
		id         uuid PRIMARY KEY,
		visitor_id text NOT NULL,
		products   jsonb NOT NULL,
		content    text NOT NULL,
		created_at timestamptz NOT NULL
	)`

type RoutineRepository interface {
	SaveRoutine(ctx context.Context, routine *domain.Routine) error
}

type routineRepository struct {
	db *pgxpool.Pool
}

func NewRoutineRepository(db *pgxpool.Pool) RoutineRepository {
	return &routineRepository{
		db: db,
	}
}

// Migrate creates the routines table when it is missing
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, createRoutinesTable); err != nil {
		return fmt.Errorf("failed to create routines table: %w", err)
	}
	return nil
}

func (r *routineRepository) SaveRoutine(ctx context.Context, routine *domain.Routine) error {
	products, err := encodeProducts(routine.Products)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO routines (id, visitor_id, products, content, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id)
	DO UPDATE SET products = $3, content = $4`
	_, err = r.db.Exec(ctx, query, routine.ID, routine.VisitorID, products, routine.Content, routine.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save routine: %w", err)
	}

	return nil
}

func encodeProducts(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("failed to encode routine products: %w", err)
	}
	return string(raw), nil
}

// NoopRoutineRepository discards routines when the archive is disabled
type NoopRoutineRepository struct{}

func (NoopRoutineRepository) SaveRoutine(_ context.Context, routine *domain.Routine) error {
	log.Debugf("Routine archive disabled, dropping routine %s", routine.ID)
	return nil
}
