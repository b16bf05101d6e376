package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/eventor-ai/balloond/internal/domain"
)

// ─── Balance Reads ──────────────────────────────────────────────────────────

// Balance returns the actor's current balance.
// A missing row is domain.ErrActorNotFound; callers decide how to render it.
func (db *DB) Balance(ctx context.Context, actorID string) (int64, error) {
	var balance int64
	err := db.db.QueryRowContext(ctx, `
		SELECT balance FROM user_balloons WHERE actor_id = ?
	`, actorID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, domain.ErrActorNotFound
	}
	return balance, err
}

// ─── Balance Mutations ──────────────────────────────────────────────────────
// Spend and Earn run the balance mutation and the ledger append in ONE
// database transaction. The spend guard lives in the UPDATE itself
// (balance >= amount), so two racing spends can never both succeed on the
// same balloons.

// Spend atomically debits amount if the balance covers it and appends the
// signed ledger row. Returns the balance after the debit.
func (db *DB) Spend(ctx context.Context, actorID string, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE user_balloons
		SET balance = balance - ?, updated_at = datetime('now')
		WHERE actor_id = ? AND balance >= ?
	`, amount, actorID, amount)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		// Refused: either no row (treated as zero) or not enough balloons.
		var current int64
		err := tx.QueryRowContext(ctx, `
			SELECT balance FROM user_balloons WHERE actor_id = ?
		`, actorID).Scan(&current)
		if err != nil && err != sql.ErrNoRows {
			return 0, err
		}
		return current, &domain.InsufficientBalloonsError{Balance: current, Required: amount}
	}

	if err := insertTransaction(ctx, tx, actorID, -amount, domain.TxSpend, description); err != nil {
		return 0, err
	}

	var balance int64
	if err := tx.QueryRowContext(ctx, `
		SELECT balance FROM user_balloons WHERE actor_id = ?
	`, actorID).Scan(&balance); err != nil {
		return 0, err
	}

	return balance, tx.Commit()
}

// Earn credits amount, inserting a row seeded at amount when the actor has
// none yet, and appends the signed ledger row. Returns the new balance.
func (db *DB) Earn(ctx context.Context, actorID string, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_balloons (actor_id, balance)
		VALUES (?, ?)
		ON CONFLICT(actor_id) DO UPDATE SET
			balance    = balance + excluded.balance,
			updated_at = datetime('now')
	`, actorID, amount); err != nil {
		return 0, err
	}

	if err := insertTransaction(ctx, tx, actorID, amount, domain.TxEarn, description); err != nil {
		return 0, err
	}

	var balance int64
	if err := tx.QueryRowContext(ctx, `
		SELECT balance FROM user_balloons WHERE actor_id = ?
	`, actorID).Scan(&balance); err != nil {
		return 0, err
	}

	return balance, tx.Commit()
}

func insertTransaction(ctx context.Context, tx *sql.Tx, actorID string, amount int64, kind domain.TxKind, description string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO balloon_transactions (id, actor_id, amount, transaction_type, description)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), actorID, amount, string(kind), description)
	return err
}

// ─── Transaction Trail ──────────────────────────────────────────────────────

// Transactions returns the actor's most recent ledger rows, newest first.
func (db *DB) Transactions(ctx context.Context, actorID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, actor_id, amount, transaction_type, description, created_at
		FROM balloon_transactions
		WHERE actor_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, actorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var kind, createdStr string
		if err := rows.Scan(&t.ID, &t.ActorID, &t.Amount, &kind, &t.Description, &createdStr); err != nil {
			return nil, err
		}
		t.Kind = domain.TxKind(kind)
		t.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdStr)
		result = append(result, t)
	}
	return result, rows.Err()
}

// ─── Drift Audit ────────────────────────────────────────────────────────────

// Drift is one actor whose stored balance disagrees with the sum of their
// ledger rows.
type Drift struct {
	ActorID string
	Balance int64
	TxSum   int64
}

// AuditDrift compares every account balance against its transaction sum.
// With transactional mutations this should always come back empty; a
// non-empty result means somebody wrote around the ledger.
func (db *DB) AuditDrift(ctx context.Context) ([]Drift, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT b.actor_id, b.balance, COALESCE(SUM(t.amount), 0)
		FROM user_balloons b
		LEFT JOIN balloon_transactions t ON t.actor_id = b.actor_id
		GROUP BY b.actor_id, b.balance
		HAVING b.balance != COALESCE(SUM(t.amount), 0)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []Drift
	for rows.Next() {
		var d Drift
		if err := rows.Scan(&d.ActorID, &d.Balance, &d.TxSum); err != nil {
			return nil, err
		}
		drifts = append(drifts, d)
	}
	return drifts, rows.Err()
}
