package models

import "time"

type SubscriptionTier string

const (
	TierBasic   SubscriptionTier = "basic"
	TierPremium SubscriptionTier = "premium"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionPaused    SubscriptionStatus = "paused"
)

// MonthlyQuota is the reservation allowance derived from the tier.
func (t SubscriptionTier) MonthlyQuota() int {
	if t == TierPremium {
		return 20
	}
	return 5
}

type User struct {
	UserID                string             `gorm:"primaryKey" json:"user_id"`
	FullName              string             `gorm:"not null" json:"full_name"`
	Email                 string             `gorm:"uniqueIndex;not null" json:"email"`
	City                  string             `json:"city"`
	IsBlocked             bool               `json:"is_blocked"`
	CreatedAt             time.Time          `json:"created_at"`
	SubscriptionTier      SubscriptionTier   `gorm:"type:varchar(20)" json:"subscription_tier"`
	SubscriptionStatus    SubscriptionStatus `gorm:"type:varchar(20)" json:"subscription_status"`
	MonthlyQuota          int                `json:"monthly_quota"`
	SubscriptionStartedAt time.Time          `json:"subscription_started_at"`
	SubscriptionEndedAt   *time.Time         `json:"subscription_ended_at,omitempty"`
}

func (u User) RecordID() string { return u.UserID }
