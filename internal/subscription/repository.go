package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFoundOrNotOwned = errors.New("subscription not found or not owned by user")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSubscription(
	ctx context.Context,
	userID int,
	gymID *int,
	stype SubscriptionType,
	priceCents int64,
	maxMembers int,
	visitsLimit *int,
) (*Subscription, error) {
	now := time.Now()
	validUntil := now.AddDate(0, 1, 0)

	sub := &Subscription{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (user_id, gym_id, type, status, max_members, visits_limit, visits_used, period, price_cents, currency, valid_from, valid_until)
		VALUES ($1, $2, $3, 'active', $4, $5, 0, 'monthly', $6, 'KZT', $7, $8)
		RETURNING id, user_id, gym_id, type, status, max_members, visits_limit, visits_used, period, price_cents, currency, valid_from, valid_until, created_at, updated_at
	`, userID, gymID, stype, maxMembers, visitsLimit, priceCents, now, validUntil).StructScan(sub)

	return sub, err
}

func (r *repository) GetActiveForUserAndGym(ctx context.Context, userID, gymID int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT *
		FROM subscriptions
		WHERE user_id = $1
		  AND status = 'active'
		  AND valid_from <= NOW()
		  AND valid_until >= NOW()
		  AND (gym_id IS NULL OR gym_id = $2)
		ORDER BY
		  gym_id NULLS LAST,
		  price_cents DESC
		LIMIT 1
	`, userID, gymID)

	return sub, err
}

func (r *repository) ListActiveByUser(ctx context.Context, userID int) ([]*Subscription, error) {
	subs := []*Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT *
		FROM subscriptions
		WHERE user_id = $1
		  AND status = 'active'
		  AND valid_from <= NOW()
		  AND valid_until >= NOW()
		ORDER BY created_at DESC
	`, userID)
	return subs, err
}

func (r *repository) IncrementVisits(ctx context.Context, subID int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET visits_used = visits_used + 1,
		    updated_at = NOW()
		WHERE id = $1
	`, subID)
	return err
}

func (r *repository) CancelSubscription(ctx context.Context, subID, userID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = 'cancelled',
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'active'
	`, subID, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFoundOrNotOwned
	}

	return nil
}
