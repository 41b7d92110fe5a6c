package model

import "gorm.io/gorm"

// PlatformCode identifies a social network
type PlatformCode string

const (
	PlatformInstagram PlatformCode = "INSTAGRAM"
	PlatformTikTok    PlatformCode = "TIKTOK"
	PlatformYouTube   PlatformCode = "YOUTUBE"
	PlatformTwitter   PlatformCode = "TWITTER"
	PlatformFacebook  PlatformCode = "FACEBOOK"
	PlatformLinkedIn  PlatformCode = "LINKEDIN"
)

var platformLabels = map[PlatformCode]string{
	PlatformInstagram: "Instagram",
	PlatformTikTok:    "TikTok",
	PlatformYouTube:   "YouTube",
	PlatformTwitter:   "Twitter",
	PlatformFacebook:  "Facebook",
	PlatformLinkedIn:  "LinkedIn",
}

// PlatformCodes returns the supported platforms in display order
func PlatformCodes() []PlatformCode {
	return []PlatformCode{
		PlatformInstagram,
		PlatformTikTok,
		PlatformYouTube,
		PlatformTwitter,
		PlatformFacebook,
		PlatformLinkedIn,
	}
}

// IsValid reports whether the code is one of the supported platforms
func (c PlatformCode) IsValid() bool {
	_, ok := platformLabels[c]
	return ok
}

// Label returns the human readable platform name
func (c PlatformCode) Label() string {
	if label, ok := platformLabels[c]; ok {
		return label
	}
	return string(c)
}

// Platform is immutable reference data created by the setup routine
type Platform struct {
	ID   uint         `gorm:"primarykey" json:"id"`
	Code PlatformCode `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Icon string       `gorm:"type:varchar(50)" json:"icon"` // CSS icon class, e.g. "fab fa-instagram"

	Label string `gorm:"-" json:"label"`
}

func (Platform) TableName() string {
	return "platforms"
}

func (p *Platform) AfterFind(tx *gorm.DB) error {
	p.Label = p.Code.Label()
	return nil
}
