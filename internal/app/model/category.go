package model

import (
	"time"

	"gorm.io/gorm"
)

const DefaultCategoryColor = "#007bff"

// Category groups influencers by theme (fashion, tech, travel...)
type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"type:varchar(50)" json:"icon"`
	Color       string    `gorm:"type:varchar(7);default:'#007bff'" json:"color"` // hex, e.g. "#e83e8c"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Filled by admin listings only
	InfluencerCount int64 `gorm:"-" json:"influencer_count,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Color == "" {
		c.Color = DefaultCategoryColor
	}
	return nil
}
