package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dagnet/noded/internal/core/domain"
)

// DagRepo reads the dag_messages index maintained by the consensus
// engine. Rows always reflect the node's current view; the tip set only
// gates whether a view exists at all.
type DagRepo struct {
	db *DB
}

// NewDagRepo creates a DAG read adapter on top of the connection pool.
func NewDagRepo(db *DB) *DagRepo {
	return &DagRepo{db: db}
}

// Genesis returns the hash of the rank-zero message, nil if the chain
// has not been initialized.
func (r *DagRepo) Genesis(ctx context.Context) (domain.Hash, error) {
	var hash []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT message_hash
		FROM dag_messages
		WHERE j_rank = 0
		ORDER BY timestamp
		LIMIT 1`,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query genesis: %w", err)
	}
	return domain.Hash(hash), nil
}

// Tips returns the current global tip set.
func (r *DagRepo) Tips(ctx context.Context) (domain.TipSet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT message_hash
		FROM dag_messages
		WHERE is_tip`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tips: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var tips domain.TipSet
	for rows.Next() {
		var hash []byte
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("failed to scan tip: %w", err)
		}
		tips = append(tips, domain.Hash(hash))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tips: %w", err)
	}
	return tips, nil
}

// LatestMessages returns the latest known message per validator.
func (r *DagRepo) LatestMessages(
	ctx context.Context,
	tips domain.TipSet,
) (map[domain.ValidatorID]domain.Message, error) {
	if len(tips) == 0 {
		return map[domain.ValidatorID]domain.Message{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ON (validator_id)
			validator_id, message_hash, timestamp, j_rank
		FROM dag_messages
		ORDER BY validator_id, j_rank DESC, timestamp DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest messages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	latest := make(map[domain.ValidatorID]domain.Message)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		latest[msg.Validator] = msg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate latest messages: %w", err)
	}
	return latest, nil
}

// LatestMessage returns the latest known message authored by the given
// validator, nil when none exists.
func (r *DagRepo) LatestMessage(
	ctx context.Context,
	tips domain.TipSet,
	validator domain.ValidatorID,
) (*domain.Message, error) {
	if len(tips) == 0 {
		return nil, nil
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT validator_id, message_hash, timestamp, j_rank
		FROM dag_messages
		WHERE validator_id = $1
		ORDER BY j_rank DESC, timestamp DESC
		LIMIT 1`,
		string(validator),
	)

	var (
		vid  string
		hash []byte
		ts   int64
		rank int64
	)
	err := row.Scan(&vid, &hash, &ts, &rank)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest message for %s: %w", validator, err)
	}

	return &domain.Message{
		Validator: domain.ValidatorID(vid),
		Hash:      domain.Hash(hash),
		Timestamp: ts,
		JRank:     rank,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (domain.Message, error) {
	var (
		vid  string
		hash []byte
		ts   int64
		rank int64
	)
	if err := row.Scan(&vid, &hash, &ts, &rank); err != nil {
		return domain.Message{}, fmt.Errorf("failed to scan message: %w", err)
	}
	return domain.Message{
		Validator: domain.ValidatorID(vid),
		Hash:      domain.Hash(hash),
		Timestamp: ts,
		JRank:     rank,
	}, nil
}
