package repository

import (
	"github.com/influencehub/influencehub-backend/internal/app/model"
	"github.com/influencehub/influencehub-backend/pkg/logger"
	"gorm.io/gorm"
)

// ReferenceRepository stores the lookup tables used to classify influencers
type ReferenceRepository interface {
	WithTx(tx *gorm.DB) ReferenceRepository

	UpsertPlatform(platform *model.Platform) (bool, error)
	UpsertCategory(category *model.Category) (bool, error)
	UpsertStatus(status *model.InfluencerStatus) (bool, error)

	ListPlatforms() ([]model.Platform, error)
	ListCategories() ([]model.Category, error)
	ListCategoriesWithCounts() ([]model.Category, error)
	ListStatuses() ([]model.InfluencerStatus, error)

	FindPlatformByID(id uint) (*model.Platform, error)
	FindPlatformByCode(code model.PlatformCode) (*model.Platform, error)
	FindCategoryByID(id uint) (*model.Category, error)
	FindStatusByID(id uint) (*model.InfluencerStatus, error)
	FindStatusByCode(code model.StatusCode) (*model.InfluencerStatus, error)

	CreateCategory(category *model.Category) error
	UpdateCategory(category *model.Category) error
	DeleteCategory(id uint) error
	DeleteStatus(id uint) error
	DeletePlatform(id uint) error
}

type referenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) WithTx(tx *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: tx}
}

// UpsertPlatform is get-or-create by code: an existing row is loaded into
// platform and left untouched. Reports whether a row was inserted.
func (r *referenceRepository) UpsertPlatform(platform *model.Platform) (bool, error) {
	result := r.db.
		Where(model.Platform{Code: platform.Code}).
		Attrs(model.Platform{Icon: platform.Icon}).
		FirstOrCreate(platform)
	if result.Error != nil {
		logger.Error("Failed to upsert platform", result.Error, map[string]interface{}{
			"code": platform.Code,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *referenceRepository) UpsertCategory(category *model.Category) (bool, error) {
	result := r.db.
		Where(model.Category{Name: category.Name}).
		Attrs(model.Category{
			Description: category.Description,
			Icon:        category.Icon,
			Color:       category.Color,
		}).
		FirstOrCreate(category)
	if result.Error != nil {
		logger.Error("Failed to upsert category", result.Error, map[string]interface{}{
			"name": category.Name,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *referenceRepository) UpsertStatus(status *model.InfluencerStatus) (bool, error) {
	result := r.db.
		Where(model.InfluencerStatus{Code: status.Code}).
		Attrs(model.InfluencerStatus{
			Description: status.Description,
			Color:       status.Color,
		}).
		FirstOrCreate(status)
	if result.Error != nil {
		logger.Error("Failed to upsert influencer status", result.Error, map[string]interface{}{
			"code": status.Code,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *referenceRepository) ListPlatforms() ([]model.Platform, error) {
	var platforms []model.Platform
	if err := r.db.Order("id ASC").Find(&platforms).Error; err != nil {
		logger.Error("Failed to list platforms", err)
		return nil, err
	}
	return platforms, nil
}

func (r *referenceRepository) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

// ListCategoriesWithCounts annotates each category with its number of influencers
func (r *referenceRepository) ListCategoriesWithCounts() ([]model.Category, error) {
	categories, err := r.ListCategories()
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return categories, nil
	}

	type countRow struct {
		CategoryID uint
		Count      int64
	}

	var rows []countRow
	if err := r.db.Model(&model.Influencer{}).
		Select("category_id, COUNT(*) AS count").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to count influencers per category", err)
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	for i := range categories {
		categories[i].InfluencerCount = counts[categories[i].ID]
	}
	return categories, nil
}

func (r *referenceRepository) ListStatuses() ([]model.InfluencerStatus, error) {
	var statuses []model.InfluencerStatus
	if err := r.db.Order("id ASC").Find(&statuses).Error; err != nil {
		logger.Error("Failed to list influencer statuses", err)
		return nil, err
	}
	return statuses, nil
}

func (r *referenceRepository) FindPlatformByID(id uint) (*model.Platform, error) {
	var platform model.Platform
	if err := r.db.First(&platform, id).Error; err != nil {
		return nil, err
	}
	return &platform, nil
}

func (r *referenceRepository) FindPlatformByCode(code model.PlatformCode) (*model.Platform, error) {
	var platform model.Platform
	if err := r.db.Where("code = ?", code).First(&platform).Error; err != nil {
		return nil, err
	}
	return &platform, nil
}

func (r *referenceRepository) FindCategoryByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *referenceRepository) FindStatusByID(id uint) (*model.InfluencerStatus, error) {
	var status model.InfluencerStatus
	if err := r.db.First(&status, id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *referenceRepository) FindStatusByCode(code model.StatusCode) (*model.InfluencerStatus, error) {
	var status model.InfluencerStatus
	if err := r.db.Where("code = ?", code).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *referenceRepository) CreateCategory(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name": category.Name,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *referenceRepository) UpdateCategory(category *model.Category) error {
	logger.Debug("Updating category in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})

	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

// DeleteCategory unlinks influencers from the category, then removes it.
// Influencers themselves are never deleted.
func (r *referenceRepository) DeleteCategory(id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Influencer{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			logger.Error("Failed to unlink influencers from category", err, map[string]interface{}{
				"category_id": id,
			})
			return err
		}
		return deleteByID(tx, &model.Category{}, id)
	})
}

// DeleteStatus unlinks influencers from the status, then removes it
func (r *referenceRepository) DeleteStatus(id uint) error {
	logger.Debug("Deleting influencer status from database", map[string]interface{}{
		"status_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Influencer{}).
			Where("status_id = ?", id).
			Update("status_id", nil).Error; err != nil {
			logger.Error("Failed to unlink influencers from status", err, map[string]interface{}{
				"status_id": id,
			})
			return err
		}
		return deleteByID(tx, &model.InfluencerStatus{}, id)
	})
}

// DeletePlatform removes the platform together with every account on it
func (r *referenceRepository) DeletePlatform(id uint) error {
	logger.Debug("Deleting platform from database", map[string]interface{}{
		"platform_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("platform_id = ?", id).
			Delete(&model.SocialMediaAccount{}).Error; err != nil {
			logger.Error("Failed to delete accounts of platform", err, map[string]interface{}{
				"platform_id": id,
			})
			return err
		}
		return deleteByID(tx, &model.Platform{}, id)
	})
}

// deleteByID returns gorm.ErrRecordNotFound when no row matched
func deleteByID(tx *gorm.DB, value interface{}, id uint) error {
	result := tx.Delete(value, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
