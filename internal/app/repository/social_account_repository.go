package repository

import (
	"github.com/influencehub/influencehub-backend/internal/app/model"
	"github.com/influencehub/influencehub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialAccountFilter drives the admin account listing
type SocialAccountFilter struct {
	PlatformID *uint
	Verified   *bool
	Search     string // username, influencer name or influencer email
	Limit      int
	Offset     int
}

// SocialAccountRow is an account with the owning influencer's identity
type SocialAccountRow struct {
	model.SocialMediaAccount
	InfluencerName  string `json:"influencer_name"`
	InfluencerEmail string `json:"influencer_email"`
}

type SocialAccountRepository interface {
	WithTx(tx *gorm.DB) SocialAccountRepository

	CreateBatch(accounts []model.SocialMediaAccount) error
	Update(account *model.SocialMediaAccount) error
	DeleteByIDs(influencerID uint, ids []uint) (int64, error)
	FindWithFilter(filter SocialAccountFilter) ([]SocialAccountRow, error)
	CountWithFilter(filter SocialAccountFilter) (int64, error)
}

type socialAccountRepository struct {
	db *gorm.DB
}

func NewSocialAccountRepository(db *gorm.DB) SocialAccountRepository {
	return &socialAccountRepository{db: db}
}

func (r *socialAccountRepository) WithTx(tx *gorm.DB) SocialAccountRepository {
	return &socialAccountRepository{db: tx}
}

func (r *socialAccountRepository) CreateBatch(accounts []model.SocialMediaAccount) error {
	if len(accounts) == 0 {
		return nil
	}

	logger.Debug("Creating social accounts in database", map[string]interface{}{
		"count":         len(accounts),
		"influencer_id": accounts[0].InfluencerID,
	})

	if err := r.db.Omit(clause.Associations).Create(&accounts).Error; err != nil {
		logger.Error("Failed to create social accounts in database", err, map[string]interface{}{
			"count": len(accounts),
		})
		return err
	}
	return nil
}

func (r *socialAccountRepository) Update(account *model.SocialMediaAccount) error {
	logger.Debug("Updating social account in database", map[string]interface{}{
		"account_id": account.ID,
	})

	if err := r.db.Omit(clause.Associations).Save(account).Error; err != nil {
		logger.Error("Failed to update social account in database", err, map[string]interface{}{
			"account_id": account.ID,
		})
		return err
	}
	return nil
}

// DeleteByIDs deletes only accounts owned by influencerID
func (r *socialAccountRepository) DeleteByIDs(influencerID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.
		Where("influencer_id = ? AND id IN ?", influencerID, ids).
		Delete(&model.SocialMediaAccount{})
	if result.Error != nil {
		logger.Error("Failed to delete social accounts", result.Error, map[string]interface{}{
			"influencer_id": influencerID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindWithFilter lists accounts, most followed first
func (r *socialAccountRepository) FindWithFilter(filter SocialAccountFilter) ([]SocialAccountRow, error) {
	query := r.applyFilter(r.db.Model(&model.SocialMediaAccount{}), filter).
		Preload("Platform").
		Order("social_media_accounts.followers_count DESC").
		Order("social_media_accounts.id ASC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var accounts []model.SocialMediaAccount
	if err := query.Find(&accounts).Error; err != nil {
		logger.Error("Failed to find social accounts with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	// one lookup for the owners of the whole page
	ownerIDs := make([]uint, 0, len(accounts))
	seen := make(map[uint]bool, len(accounts))
	for _, acc := range accounts {
		if !seen[acc.InfluencerID] {
			seen[acc.InfluencerID] = true
			ownerIDs = append(ownerIDs, acc.InfluencerID)
		}
	}

	var owners []model.Influencer
	if len(ownerIDs) > 0 {
		if err := r.db.Select("id", "name", "email").Where("id IN ?", ownerIDs).Find(&owners).Error; err != nil {
			logger.Error("Failed to load account owners", err)
			return nil, err
		}
	}
	byID := make(map[uint]model.Influencer, len(owners))
	for _, owner := range owners {
		byID[owner.ID] = owner
	}

	rows := make([]SocialAccountRow, len(accounts))
	for i, acc := range accounts {
		owner := byID[acc.InfluencerID]
		rows[i] = SocialAccountRow{
			SocialMediaAccount: acc,
			InfluencerName:     owner.Name,
			InfluencerEmail:    owner.Email,
		}
	}
	return rows, nil
}

func (r *socialAccountRepository) CountWithFilter(filter SocialAccountFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.Model(&model.SocialMediaAccount{}), filter).Count(&count).Error; err != nil {
		logger.Error("Failed to count social accounts with filter", err)
		return 0, err
	}
	return count, nil
}

func (r *socialAccountRepository) applyFilter(query *gorm.DB, filter SocialAccountFilter) *gorm.DB {
	if filter.PlatformID != nil {
		query = query.Where("social_media_accounts.platform_id = ?", *filter.PlatformID)
	}

	if filter.Verified != nil {
		query = query.Where("social_media_accounts.is_verified = ?", *filter.Verified)
	}

	if search := filter.Search; search != "" {
		pattern := likePattern(search)
		query = query.Where(
			`(LOWER(social_media_accounts.username) LIKE ? ESCAPE '\' OR EXISTS (SELECT 1 FROM influencers i WHERE i.id = social_media_accounts.influencer_id AND (LOWER(i.name) LIKE ? ESCAPE '\' OR LOWER(i.email) LIKE ? ESCAPE '\')))`,
			pattern, pattern, pattern,
		)
	}

	return query
}
