package subscription

import "context"

type Repository interface {
	CreateSubscription(ctx context.Context, userID int, gymID *int, stype SubscriptionType, priceCents int64, maxMembers int, visitsLimit *int) (*Subscription, error)
	GetActiveForUserAndGym(ctx context.Context, userID, gymID int) (*Subscription, error)
	ListActiveByUser(ctx context.Context, userID int) ([]*Subscription, error)
	IncrementVisits(ctx context.Context, subID int) error
	CancelSubscription(ctx context.Context, subID, userID int) error
}
