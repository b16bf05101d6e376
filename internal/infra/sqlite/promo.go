package sqlite

import "context"

// ─── Promotion Grant Records ────────────────────────────────────────────────
// Promotions (signup bonus, daily bonus) must be idempotent. The grant record
// is the guard: INSERT OR IGNORE, and only a fresh insert earns balloons.

// RecordPromoGrant records that actor received the named promotion for the
// given period ("" for one-shot promos, a date string for daily ones).
// Returns true when the grant is new, false when it was already recorded.
func (db *DB) RecordPromoGrant(ctx context.Context, actorID, promo, period string) (bool, error) {
	res, err := db.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO promo_grants (actor_id, promo, period)
		VALUES (?, ?, ?)
	`, actorID, promo, period)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// PromoGranted reports whether the actor already received the promotion.
func (db *DB) PromoGranted(ctx context.Context, actorID, promo, period string) (bool, error) {
	var count int
	err := db.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM promo_grants
		WHERE actor_id = ? AND promo = ? AND period = ?
	`, actorID, promo, period).Scan(&count)
	return count > 0, err
}
