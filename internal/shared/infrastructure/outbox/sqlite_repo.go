package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const sqliteTimeFormat = time.RFC3339Nano

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	conn database.Connection
}

// NewSQLiteRepository creates a new SQLite outbox repository.
func NewSQLiteRepository(conn database.Connection) *SQLiteRepository {
	return &SQLiteRepository{conn: conn}
}

// Save stores a new outbox message, joining the in-flight transaction when
// one is present on the context.
func (r *SQLiteRepository) Save(ctx context.Context, msg *Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	query := `
		INSERT INTO outbox (event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := exec.QueryRow(ctx, query,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		nullableJSON(msg.Metadata),
		msg.CreatedAt.UTC().Format(sqliteTimeFormat),
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("saving outbox message: %w", err)
	}

	return nil
}

// SaveBatch stores multiple outbox messages.
func (r *SQLiteRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
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
func (r *SQLiteRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	query := `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
		       payload, metadata, created_at, published_at, next_retry_at, retry_count,
		       last_error, dead_lettered_at, dead_letter_reason
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`

	now := time.Now().UTC().Format(sqliteTimeFormat)
	rows, err := exec.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("querying unpublished messages: %w", err)
	}
	defer rows.Close()

	return scanSQLiteMessages(rows)
}

// MarkPublished marks a message as successfully published.
func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	now := time.Now().UTC().Format(sqliteTimeFormat)
	_, err := exec.Exec(ctx, `UPDATE outbox SET published_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("marking message published: %w", err)
	}
	return nil
}

// MarkFailed records a publish failure with error message.
func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	query := `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?`

	_, err := exec.Exec(ctx, query, errMsg, nextRetryAt.UTC().Format(sqliteTimeFormat), id)
	if err != nil {
		return fmt.Errorf("marking message failed: %w", err)
	}
	return nil
}

// MarkDead marks a message as dead-lettered so the processor stops retrying it.
func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	query := `
		UPDATE outbox
		SET dead_lettered_at = ?, dead_letter_reason = ?
		WHERE id = ?`

	now := time.Now().UTC().Format(sqliteTimeFormat)
	_, err := exec.Exec(ctx, query, now, reason, id)
	if err != nil {
		return fmt.Errorf("marking message dead-lettered: %w", err)
	}
	return nil
}

// GetFailed retrieves failed messages eligible for retry.
func (r *SQLiteRepository) GetFailed(ctx context.Context, maxRetries, limit int) ([]*Message, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	query := `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
		       payload, metadata, created_at, published_at, next_retry_at, retry_count,
		       last_error, dead_lettered_at, dead_letter_reason
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND retry_count > 0
		  AND retry_count < ?
		ORDER BY created_at, id
		LIMIT ?`

	rows, err := exec.Query(ctx, query, maxRetries, limit)
	if err != nil {
		return nil, fmt.Errorf("querying failed messages: %w", err)
	}
	defer rows.Close()

	return scanSQLiteMessages(rows)
}

// DeleteOld removes successfully published messages older than the retention period.
func (r *SQLiteRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(sqliteTimeFormat)
	result, err := exec.Exec(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting old messages: %w", err)
	}

	return result.RowsAffected()
}

func scanSQLiteMessages(rows database.Rows) ([]*Message, error) {
	var messages []*Message
	for rows.Next() {
		var (
			msg              = &Message{}
			eventID          string
			aggregateID      string
			payload          string
			metadata         sql.NullString
			createdAt        string
			publishedAt      sql.NullString
			nextRetryAt      sql.NullString
			lastError        sql.NullString
			deadLetteredAt   sql.NullString
			deadLetterReason sql.NullString
		)

		err := rows.Scan(
			&msg.ID,
			&eventID,
			&msg.AggregateType,
			&aggregateID,
			&msg.EventType,
			&msg.RoutingKey,
			&payload,
			&metadata,
			&createdAt,
			&publishedAt,
			&nextRetryAt,
			&msg.RetryCount,
			&lastError,
			&deadLetteredAt,
			&deadLetterReason,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning outbox message: %w", err)
		}

		if msg.EventID, err = uuid.Parse(eventID); err != nil {
			return nil, fmt.Errorf("parsing event id: %w", err)
		}
		if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
			return nil, fmt.Errorf("parsing aggregate id: %w", err)
		}
		if msg.CreatedAt, err = time.Parse(sqliteTimeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		msg.Payload = json.RawMessage(payload)
		if metadata.Valid {
			msg.Metadata = json.RawMessage(metadata.String)
		}
		if msg.PublishedAt, err = parseNullableTime(publishedAt); err != nil {
			return nil, err
		}
		if msg.NextRetryAt, err = parseNullableTime(nextRetryAt); err != nil {
			return nil, err
		}
		if msg.DeadLetteredAt, err = parseNullableTime(deadLetteredAt); err != nil {
			return nil, err
		}
		if lastError.Valid {
			msg.LastError = &lastError.String
		}
		if deadLetterReason.Valid {
			msg.DeadLetterReason = &deadLetterReason.String
		}

		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func parseNullableTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	t, err := time.Parse(sqliteTimeFormat, value.String)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp: %w", err)
	}
	return &t, nil
}
