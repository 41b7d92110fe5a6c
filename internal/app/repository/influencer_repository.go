package repository

import (
	"strings"

	"github.com/influencehub/influencehub-backend/internal/app/model"
	"github.com/influencehub/influencehub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InfluencerFilter combines listing criteria. Every set criterion must match.
type InfluencerFilter struct {
	CategoryID   *uint
	PlatformID   *uint              // any account on this platform
	PlatformCode model.PlatformCode // same as PlatformID, by code
	StatusID     *uint
	Verified     *bool // any account with this verification flag
	Search       string
	SearchEmail  bool // also match Search against email
	Limit        int
	Offset       int
}

type InfluencerRepository interface {
	WithTx(tx *gorm.DB) InfluencerRepository

	Create(influencer *model.Influencer) error
	Update(influencer *model.Influencer) error
	Delete(id uint) error
	FindByID(id uint) (*model.Influencer, error)
	FindByIDs(ids []uint) ([]model.Influencer, error)
	FindWithFilter(filter InfluencerFilter) ([]model.Influencer, error)
	CountWithFilter(filter InfluencerFilter) (int64, error)
	FindMetrics(ids []uint) (map[uint]model.InfluencerMetrics, error)
	EmailExists(email string, excludeID uint) (bool, error)
	UpdateStatus(ids []uint, statusID uint) (int64, error)
}

type influencerRepository struct {
	db *gorm.DB
}

func NewInfluencerRepository(db *gorm.DB) InfluencerRepository {
	return &influencerRepository{db: db}
}

func (r *influencerRepository) WithTx(tx *gorm.DB) InfluencerRepository {
	return &influencerRepository{db: tx}
}

// Create inserts the influencer row only; accounts are written separately
func (r *influencerRepository) Create(influencer *model.Influencer) error {
	logger.Debug("Creating influencer in database", map[string]interface{}{
		"email": influencer.Email,
	})

	if err := r.db.Omit(clause.Associations).Create(influencer).Error; err != nil {
		logger.Error("Failed to create influencer in database", err, map[string]interface{}{
			"email": influencer.Email,
		})
		return err
	}

	logger.Debug("Influencer created in database", map[string]interface{}{
		"influencer_id": influencer.ID,
	})
	return nil
}

func (r *influencerRepository) Update(influencer *model.Influencer) error {
	logger.Debug("Updating influencer in database", map[string]interface{}{
		"influencer_id": influencer.ID,
	})

	if err := r.db.Omit(clause.Associations).Save(influencer).Error; err != nil {
		logger.Error("Failed to update influencer in database", err, map[string]interface{}{
			"influencer_id": influencer.ID,
		})
		return err
	}
	return nil
}

// Delete removes the influencer and all of its accounts
func (r *influencerRepository) Delete(id uint) error {
	logger.Debug("Deleting influencer from database", map[string]interface{}{
		"influencer_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("influencer_id = ?", id).
			Delete(&model.SocialMediaAccount{}).Error; err != nil {
			logger.Error("Failed to delete accounts of influencer", err, map[string]interface{}{
				"influencer_id": id,
			})
			return err
		}
		return deleteByID(tx, &model.Influencer{}, id)
	})
}

// FindByID loads the influencer with category, status and accounts
func (r *influencerRepository) FindByID(id uint) (*model.Influencer, error) {
	var influencer model.Influencer
	err := r.db.
		Preload("Category").
		Preload("Status").
		Preload("SocialAccounts", func(db *gorm.DB) *gorm.DB {
			return db.Order("social_media_accounts.id ASC")
		}).
		Preload("SocialAccounts.Platform").
		First(&influencer, id).Error
	if err != nil {
		return nil, err
	}
	return &influencer, nil
}

// FindByIDs loads influencers with their accounts, ordered by id
func (r *influencerRepository) FindByIDs(ids []uint) ([]model.Influencer, error) {
	var influencers []model.Influencer
	if len(ids) == 0 {
		return influencers, nil
	}

	err := r.db.
		Preload("Category").
		Preload("Status").
		Preload("SocialAccounts.Platform").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&influencers).Error
	if err != nil {
		logger.Error("Failed to load influencers by ids", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	return influencers, nil
}

// FindWithFilter returns one page of influencers, newest first
func (r *influencerRepository) FindWithFilter(filter InfluencerFilter) ([]model.Influencer, error) {
	logger.Debug("Finding influencers with filter", filterFields(filter))

	query := r.applyFilter(r.db.Model(&model.Influencer{}), filter).
		Preload("Category").
		Preload("Status").
		Order("influencers.created_at DESC").
		Order("influencers.id DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var influencers []model.Influencer
	if err := query.Find(&influencers).Error; err != nil {
		logger.Error("Failed to find influencers with filter", err, filterFields(filter))
		return nil, err
	}

	logger.Debug("Influencers found with filter", map[string]interface{}{
		"count": len(influencers),
	})
	return influencers, nil
}

func (r *influencerRepository) CountWithFilter(filter InfluencerFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.Model(&model.Influencer{}), filter).Count(&count).Error; err != nil {
		logger.Error("Failed to count influencers with filter", err, filterFields(filter))
		return 0, err
	}
	return count, nil
}

// applyFilter adds the WHERE clauses. Account based criteria use EXISTS
// subqueries so an influencer never appears twice.
func (r *influencerRepository) applyFilter(query *gorm.DB, filter InfluencerFilter) *gorm.DB {
	if filter.CategoryID != nil {
		query = query.Where("influencers.category_id = ?", *filter.CategoryID)
	}

	if filter.StatusID != nil {
		query = query.Where("influencers.status_id = ?", *filter.StatusID)
	}

	if filter.PlatformID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM social_media_accounts sa WHERE sa.influencer_id = influencers.id AND sa.platform_id = ?)",
			*filter.PlatformID,
		)
	}

	if filter.PlatformCode != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM social_media_accounts sa JOIN platforms p ON p.id = sa.platform_id WHERE sa.influencer_id = influencers.id AND p.code = ?)",
			filter.PlatformCode,
		)
	}

	if filter.Verified != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM social_media_accounts sa WHERE sa.influencer_id = influencers.id AND sa.is_verified = ?)",
			*filter.Verified,
		)
	}

	if search := filter.Search; search != "" {
		pattern := likePattern(search)
		if filter.SearchEmail {
			query = query.Where(
				`(LOWER(influencers.name) LIKE ? ESCAPE '\' OR LOWER(influencers.full_name) LIKE ? ESCAPE '\' OR LOWER(influencers.niche_keywords) LIKE ? ESCAPE '\' OR LOWER(influencers.email) LIKE ? ESCAPE '\')`,
				pattern, pattern, pattern, pattern,
			)
		} else {
			query = query.Where(
				`(LOWER(influencers.name) LIKE ? ESCAPE '\' OR LOWER(influencers.full_name) LIKE ? ESCAPE '\' OR LOWER(influencers.niche_keywords) LIKE ? ESCAPE '\')`,
				pattern, pattern, pattern,
			)
		}
	}

	return query
}

// FindMetrics aggregates accounts for all ids in one grouped query.
// Influencers without accounts are absent from the map.
func (r *influencerRepository) FindMetrics(ids []uint) (map[uint]model.InfluencerMetrics, error) {
	metrics := make(map[uint]model.InfluencerMetrics, len(ids))
	if len(ids) == 0 {
		return metrics, nil
	}

	type metricsRow struct {
		InfluencerID   uint
		TotalFollowers int64
		EngagementSum  float64
		AccountCount   int64
	}

	var rows []metricsRow
	err := r.db.Model(&model.SocialMediaAccount{}).
		Select("influencer_id, " +
			"COALESCE(SUM(followers_count), 0) AS total_followers, " +
			"COALESCE(SUM(COALESCE(engagement_rate, 0)), 0) AS engagement_sum, " +
			"COUNT(*) AS account_count").
		Where("influencer_id IN ?", ids).
		Group("influencer_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate influencer metrics", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}

	for _, row := range rows {
		m := model.InfluencerMetrics{
			TotalFollowers: row.TotalFollowers,
			PlatformCount:  row.AccountCount,
		}
		if row.AccountCount > 0 {
			avg := model.RoundRate(row.EngagementSum / float64(row.AccountCount))
			m.AvgEngagement = &avg
		}
		metrics[row.InfluencerID] = m
	}
	return metrics, nil
}

// EmailExists checks the unique email, ignoring excludeID (0 = none)
func (r *influencerRepository) EmailExists(email string, excludeID uint) (bool, error) {
	query := r.db.Model(&model.Influencer{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check influencer email", err)
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus sets the status of every listed influencer and returns the rows changed
func (r *influencerRepository) UpdateStatus(ids []uint, statusID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.Model(&model.Influencer{}).
		Where("id IN ?", ids).
		Update("status_id", statusID)
	if result.Error != nil {
		logger.Error("Failed to update influencer status", result.Error, map[string]interface{}{
			"status_id": statusID,
			"count":     len(ids),
		})
		return 0, result.Error
	}

	logger.Info("Influencer status updated", map[string]interface{}{
		"status_id": statusID,
		"updated":   result.RowsAffected,
	})
	return result.RowsAffected, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a lowercase contains-pattern with LIKE wildcards escaped
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}

func filterFields(filter InfluencerFilter) map[string]interface{} {
	fields := map[string]interface{}{
		"search": filter.Search,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	}
	if filter.CategoryID != nil {
		fields["category_id"] = *filter.CategoryID
	}
	if filter.PlatformID != nil {
		fields["platform_id"] = *filter.PlatformID
	}
	if filter.PlatformCode != "" {
		fields["platform_code"] = filter.PlatformCode
	}
	if filter.StatusID != nil {
		fields["status_id"] = *filter.StatusID
	}
	if filter.Verified != nil {
		fields["verified"] = *filter.Verified
	}
	return fields
}
