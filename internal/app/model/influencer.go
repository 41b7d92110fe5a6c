package model

import (
	"math"
	"strings"
	"time"
)

// Influencer is a marketing profile promoted across one or more social platforms
type Influencer struct {
	ID             uint              `gorm:"primarykey" json:"id"`
	Name           string            `gorm:"type:varchar(100);not null" json:"name"`       // public display name
	FullName       string            `gorm:"type:varchar(150);not null" json:"full_name"`  // legal name
	Email          string            `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	Phone          string            `gorm:"type:varchar(20)" json:"phone"`
	Bio            string            `gorm:"type:text" json:"bio"`
	ProfileImage   string            `gorm:"type:varchar(500)" json:"profile_image"`
	CategoryID     *uint             `gorm:"index" json:"category_id"`
	Category       *Category         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	NicheKeywords  string            `gorm:"type:text" json:"niche_keywords"` // comma separated
	EngagementRate *float64          `gorm:"type:decimal(5,2)" json:"engagement_rate"`
	Location       string            `gorm:"type:varchar(100)" json:"location"`
	StatusID       *uint             `gorm:"index" json:"status_id"`
	Status         *InfluencerStatus `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"status,omitempty"`
	CreatedAt      time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	SocialAccounts []SocialMediaAccount `gorm:"foreignKey:InfluencerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"social_accounts,omitempty"`
}

func (Influencer) TableName() string {
	return "influencers"
}

// Keywords splits NicheKeywords into trimmed, non-empty tags
func (i *Influencer) Keywords() []string {
	if i.NicheKeywords == "" {
		return []string{}
	}
	parts := strings.Split(i.NicheKeywords, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}

// Metrics computes the aggregates from the loaded SocialAccounts
func (i *Influencer) Metrics() InfluencerMetrics {
	return ComputeMetrics(i.SocialAccounts)
}

// InfluencerMetrics holds values derived from an influencer's social accounts.
// AvgEngagement is nil when the influencer has no account.
type InfluencerMetrics struct {
	TotalFollowers int64    `json:"total_followers"`
	AvgEngagement  *float64 `json:"avg_engagement"`
	PlatformCount  int64    `json:"platform_count"`
}

// ComputeMetrics sums followers and averages engagement over all accounts.
// A missing engagement rate counts as 0 but still counts in the denominator.
func ComputeMetrics(accounts []SocialMediaAccount) InfluencerMetrics {
	metrics := InfluencerMetrics{PlatformCount: int64(len(accounts))}
	if len(accounts) == 0 {
		return metrics
	}

	var engagementSum float64
	for _, acc := range accounts {
		metrics.TotalFollowers += acc.FollowersCount
		if acc.EngagementRate != nil {
			engagementSum += *acc.EngagementRate
		}
	}
	avg := RoundRate(engagementSum / float64(len(accounts)))
	metrics.AvgEngagement = &avg
	return metrics
}

// RoundRate rounds a percentage to the two decimals stored by the schema
func RoundRate(v float64) float64 {
	return math.Round(v*100) / 100
}
