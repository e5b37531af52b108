package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	conn database.Connection
}

// NewPostgresRepository creates a new PostgreSQL outbox repository.
func NewPostgresRepository(conn database.Connection) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// Save stores a new outbox message. When a transaction is in flight on the
// context the insert joins it, so the message commits atomically with the
// aggregate change that produced it.
func (r *PostgresRepository) Save(ctx context.Context, msg *Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	query := `
		INSERT INTO outbox (event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := exec.QueryRow(ctx, query,
		msg.EventID,
		msg.AggregateType,
		msg.AggregateID,
		msg.EventType,
		msg.RoutingKey,
		msg.Payload,
		msg.Metadata,
		msg.CreatedAt,
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("saving outbox message: %w", err)
	}

	return nil
}

// SaveBatch stores multiple outbox messages.
func (r *PostgresRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}

	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// GetUnpublished retrieves unpublished messages ordered by creation time.
func (r *PostgresRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	query := `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
		       payload, metadata, created_at, published_at, next_retry_at, retry_count,
		       last_error, dead_lettered_at, dead_letter_reason
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
		ORDER BY created_at, id
		LIMIT $1`

	rows, err := exec.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying unpublished messages: %w", err)
	}
	defer rows.Close()

	return scanPostgresMessages(rows)
}

// MarkPublished marks a message as successfully published.
func (r *PostgresRepository) MarkPublished(ctx context.Context, id int64) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	_, err := exec.Exec(ctx, `UPDATE outbox SET published_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("marking message published: %w", err)
	}
	return nil
}

// MarkFailed records a publish failure with error message.
func (r *PostgresRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	query := `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = $2, next_retry_at = $3
		WHERE id = $1`

	_, err := exec.Exec(ctx, query, id, errMsg, nextRetryAt)
	if err != nil {
		return fmt.Errorf("marking message failed: %w", err)
	}
	return nil
}

// MarkDead marks a message as dead-lettered so the processor stops retrying it.
func (r *PostgresRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	query := `
		UPDATE outbox
		SET dead_lettered_at = NOW(), dead_letter_reason = $2
		WHERE id = $1`

	_, err := exec.Exec(ctx, query, id, reason)
	if err != nil {
		return fmt.Errorf("marking message dead-lettered: %w", err)
	}
	return nil
}

// GetFailed retrieves failed messages eligible for retry.
func (r *PostgresRepository) GetFailed(ctx context.Context, maxRetries, limit int) ([]*Message, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	query := `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
		       payload, metadata, created_at, published_at, next_retry_at, retry_count,
		       last_error, dead_lettered_at, dead_letter_reason
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND retry_count > 0
		  AND retry_count < $1
		ORDER BY created_at, id
		LIMIT $2`

	rows, err := exec.Query(ctx, query, maxRetries, limit)
	if err != nil {
		return nil, fmt.Errorf("querying failed messages: %w", err)
	}
	defer rows.Close()

	return scanPostgresMessages(rows)
}

// DeleteOld removes successfully published messages older than the retention period.
func (r *PostgresRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	query := `
		DELETE FROM outbox
		WHERE published_at IS NOT NULL
		  AND published_at < NOW() - ($1 || ' days')::interval`

	result, err := exec.Exec(ctx, query, olderThanDays)
	if err != nil {
		return 0, fmt.Errorf("deleting old messages: %w", err)
	}

	return result.RowsAffected()
}

func scanPostgresMessages(rows database.Rows) ([]*Message, error) {
	var messages []*Message
	for rows.Next() {
		msg := &Message{}
		err := rows.Scan(
			&msg.ID,
			&msg.EventID,
			&msg.AggregateType,
			&msg.AggregateID,
			&msg.EventType,
			&msg.RoutingKey,
			&msg.Payload,
			&msg.Metadata,
			&msg.CreatedAt,
			&msg.PublishedAt,
			&msg.NextRetryAt,
			&msg.RetryCount,
			&msg.LastError,
			&msg.DeadLetteredAt,
			&msg.DeadLetterReason,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning outbox message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
