package model

import "time"

// SocialMediaAccount is one platform profile of an influencer.
// (InfluencerID, PlatformID) is unique: at most one account per platform.
type SocialMediaAccount struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	InfluencerID   uint      `gorm:"not null;uniqueIndex:idx_social_accounts_influencer_platform" json:"influencer_id"`
	PlatformID     uint      `gorm:"not null;uniqueIndex:idx_social_accounts_influencer_platform;index" json:"platform_id"`
	Platform       *Platform `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"platform,omitempty"`
	Username       string    `gorm:"type:varchar(100);not null" json:"username"`
	FollowersCount int64     `gorm:"not null" json:"followers_count"`
	FollowingCount int64     `gorm:"not null;default:0" json:"following_count"`
	PostsCount     int64     `gorm:"not null" json:"posts_count"`
	EngagementRate *float64  `gorm:"type:decimal(5,2)" json:"engagement_rate"`
	IsVerified     bool      `gorm:"not null;default:false;index" json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (SocialMediaAccount) TableName() string {
	return "social_media_accounts"
}
