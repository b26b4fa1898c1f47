package subscription

import "time"

type SubscriptionType string
type SubscriptionStatus string

const (
	TypeIndividual SubscriptionType = "individual"
	TypeFamily     SubscriptionType = "family"
	TypeUnlimited  SubscriptionType = "unlimited"

	StatusActive    SubscriptionStatus = "active"
	StatusExpired   SubscriptionStatus = "expired"
	StatusCancelled SubscriptionStatus = "cancelled"
)

type Subscription struct {
	ID          int                `db:"id" json:"id"`
	UserID      int                `db:"user_id" json:"user_id"`
	GymID       *int               `db:"gym_id" json:"gym_id,omitempty"`
	Type        SubscriptionType   `db:"type" json:"type"`
	Status      SubscriptionStatus `db:"status" json:"status"`
	MaxMembers  int                `db:"max_members" json:"max_members"`
	VisitsLimit *int               `db:"visits_limit" json:"visits_limit,omitempty"`
	VisitsUsed  int                `db:"visits_used" json:"visits_used"`
	Period      string             `db:"period" json:"period"`
	PriceCents  int64              `db:"price_cents" json:"price_cents"`
	Currency    string             `db:"currency" json:"currency"`
	ValidFrom   time.Time          `db:"valid_from" json:"valid_from"`
	ValidUntil  time.Time          `db:"valid_until" json:"valid_until"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
}

// HasVisitsLeft reports whether the subscription still covers a visit.
func (s *Subscription) HasVisitsLeft() bool {
	if s.VisitsLimit == nil {
		return true
	}
	return s.VisitsUsed < *s.VisitsLimit
}

type Plan struct {
	Type        SubscriptionType `json:"type"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	PriceCents  int64            `json:"price_cents"`
	MaxMembers  int              `json:"max_members"`
	VisitsLimit *int             `json:"visits_limit,omitempty"`
	GymRequired bool             `json:"gym_required"`
}

type CreateSubscriptionRequest struct {
	Type  string `json:"type" binding:"required"`
	GymID *int   `json:"gym_id,omitempty"`
}
