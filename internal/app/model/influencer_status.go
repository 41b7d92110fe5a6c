package model

import "gorm.io/gorm"

type StatusCode string

const (
	StatusActive   StatusCode = "ACTIVE"
	StatusInactive StatusCode = "INACTIVE"
	StatusPending  StatusCode = "PENDING"
	StatusVerified StatusCode = "VERIFIED"
	StatusRejected StatusCode = "REJECTED"
)

const DefaultStatusColor = "#28a745"

var statusLabels = map[StatusCode]string{
	StatusActive:   "Active",
	StatusInactive: "Inactive",
	StatusPending:  "Pending",
	StatusVerified: "Verified",
	StatusRejected: "Rejected",
}

func (c StatusCode) IsValid() bool {
	_, ok := statusLabels[c]
	return ok
}

func (c StatusCode) Label() string {
	if label, ok := statusLabels[c]; ok {
		return label
	}
	return string(c)
}

// InfluencerStatus tracks where an influencer is in the review process
type InfluencerStatus struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Code        StatusCode `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Description string     `gorm:"type:text" json:"description"`
	Color       string     `gorm:"type:varchar(7);default:'#28a745'" json:"color"`

	Label string `gorm:"-" json:"label"`
}

func (InfluencerStatus) TableName() string {
	return "influencer_statuses"
}

func (s *InfluencerStatus) BeforeCreate(tx *gorm.DB) error {
	if s.Color == "" {
		s.Color = DefaultStatusColor
	}
	return nil
}

func (s *InfluencerStatus) AfterFind(tx *gorm.DB) error {
	s.Label = s.Code.Label()
	return nil
}
