package store

import (
	"context"
	"fmt"
	"time"

	"aimploy/internal/utils"
	"aimploy/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Unqualified; the pool's search_path selects the schema.
const candidateTableName = "candidates"

var candidateColumns = utils.Columns(types.Candidate{})

type CandidateRepository struct {
	pool *pgxpool.Pool
}

func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// CreateCandidate assigns an id and creation time when they are unset and
// inserts the row.
func (r *CandidateRepository) CreateCandidate(ctx context.Context, candidate *types.Candidate) error {
	if err := prepareCandidate(candidate, time.Now()); err != nil {
		return err
	}

	query, args, err := insertCandidateQuery(candidate).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}

	return nil
}

// SeedCandidate inserts a candidate unless one with the same id exists. It
// returns whether a row was written.
func (r *CandidateRepository) SeedCandidate(ctx context.Context, candidate *types.Candidate) (bool, error) {
	if err := prepareCandidate(candidate, time.Now()); err != nil {
		return false, err
	}

	query, args, err := insertCandidateQuery(candidate).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate seed query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to seed candidate: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Candidates returns every candidate, newest first.
func (r *CandidateRepository) Candidates(ctx context.Context) ([]*types.Candidate, error) {
	query, args, err := candidatesQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate candidates query: %w", err)
	}

	var candidates []*types.Candidate
	err = pgxscan.Select(ctx, r.pool, &candidates, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	return candidates, nil
}

func (r *CandidateRepository) Candidate(ctx context.Context, id string) (*types.Candidate, error) {
	query, args, err := candidateByIDQuery(id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate candidate query: %w", err)
	}

	var candidate types.Candidate
	err = pgxscan.Get(ctx, r.pool, &candidate, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to fetch candidate: %w", err)
	}

	return &candidate, nil
}

func prepareCandidate(candidate *types.Candidate, now time.Time) error {
	if candidate.ID == "" {
		id, err := utils.NewID()
		if err != nil {
			return fmt.Errorf("generate id: %w", err)
		}
		candidate.ID = id
	}

	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = now.UTC()
	}

	return nil
}

func insertCandidateQuery(candidate *types.Candidate) sq.InsertBuilder {
	return psql().
		Insert(candidateTableName).
		SetMap(utils.ColumnMap(candidate))
}

func candidatesQuery() sq.SelectBuilder {
	return psql().
		Select(candidateColumns...).
		From(candidateTableName).
		OrderBy("created_at DESC", "id DESC")
}

func candidateByIDQuery(id string) sq.SelectBuilder {
	return psql().
		Select(candidateColumns...).
		From(candidateTableName).
		Where(sq.Eq{"id": id}).
		Limit(1)
}
