package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/influencehub/influencehub-backend/internal/app/model"
	"github.com/influencehub/influencehub-backend/internal/app/repository"
	apperrors "github.com/influencehub/influencehub-backend/internal/errors"
	"github.com/influencehub/influencehub-backend/pkg/logger"
	"github.com/influencehub/influencehub-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrStatusNotFound   = errors.New("influencer status not found")
	ErrPlatformNotFound = errors.New("platform not found")
)

const (
	cacheKeyPlatforms  = "reference:platforms"
	cacheKeyCategories = "reference:categories"
	cacheKeyStatuses   = "reference:statuses"

	cacheTimeout = 500 * time.Millisecond
)

var platformIcons = map[model.PlatformCode]string{
	model.PlatformInstagram: "fab fa-instagram",
	model.PlatformTikTok:    "fab fa-tiktok",
	model.PlatformYouTube:   "fab fa-youtube",
	model.PlatformTwitter:   "fab fa-twitter",
	model.PlatformFacebook:  "fab fa-facebook",
	model.PlatformLinkedIn:  "fab fa-linkedin",
}

var defaultStatuses = []model.InfluencerStatus{
	{Code: model.StatusActive, Description: "Influenceur actif", Color: "#28a745"},
	{Code: model.StatusPending, Description: "En attente de validation", Color: "#ffc107"},
	{Code: model.StatusVerified, Description: "Profil vérifié", Color: "#007bff"},
	{Code: model.StatusInactive, Description: "Influenceur inactif", Color: "#6c757d"},
	{Code: model.StatusRejected, Description: "Profil refusé", Color: "#dc3545"},
}

var defaultCategories = []model.Category{
	{Name: "Mode & Beauté", Description: "Mode, beauté, cosmétiques", Color: "#e83e8c"},
	{Name: "Technologie", Description: "Tech, gadgets, innovations", Color: "#6f42c1"},
	{Name: "Fitness & Sport", Description: "Sport, fitness, bien-être", Color: "#20c997"},
	{Name: "Voyage", Description: "Voyage, aventure, découverte", Color: "#fd7e14"},
	{Name: "Cuisine", Description: "Cuisine, gastronomie, recettes", Color: "#dc3545"},
	{Name: "Gaming", Description: "Jeux vidéo, esport", Color: "#6610f2"},
	{Name: "Lifestyle", Description: "Style de vie, quotidien", Color: "#17a2b8"},
}

// SetupReport counts the rows inserted by SetupReferenceData
type SetupReport struct {
	Platforms  int `json:"platforms"`
	Statuses   int `json:"statuses"`
	Categories int `json:"categories"`
}

// CategoryInput is the staff form for a category
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon" validate:"max=50"`
	Color       string `json:"color" validate:"omitempty,len=7,hexcolor"`
}

type ReferenceService interface {
	SetupReferenceData() (*SetupReport, error)

	ListPlatforms() ([]model.Platform, error)
	ListCategories() ([]model.Category, error)
	ListStatuses() ([]model.InfluencerStatus, error)
	ListCategoriesWithCounts() ([]model.Category, error)

	CreateCategory(input CategoryInput) (*model.Category, error)
	UpdateCategory(id uint, input CategoryInput) (*model.Category, error)
	DeleteCategory(id uint) error
	DeleteStatus(id uint) error
	DeletePlatform(id uint) error
}

type referenceService struct {
	refRepo repository.ReferenceRepository
	cache   *redis.Cache
}

// NewReferenceService builds the service; cache may be nil when Redis is off
func NewReferenceService(refRepo repository.ReferenceRepository, cache *redis.Cache) ReferenceService {
	return &referenceService{
		refRepo: refRepo,
		cache:   cache,
	}
}

// SetupReferenceData creates the platforms, statuses and default categories.
// Existing rows are left untouched so it is safe to run on every start.
func (s *referenceService) SetupReferenceData() (*SetupReport, error) {
	logger.Info("Setting up reference data")

	report := &SetupReport{}

	for _, code := range model.PlatformCodes() {
		platform := model.Platform{Code: code, Icon: platformIcons[code]}
		created, err := s.refRepo.UpsertPlatform(&platform)
		if err != nil {
			return nil, fmt.Errorf("setup platform %s: %w", platform.Code, err)
		}
		if created {
			report.Platforms++
		}
	}

	for _, st := range defaultStatuses {
		status := st
		created, err := s.refRepo.UpsertStatus(&status)
		if err != nil {
			return nil, fmt.Errorf("setup status %s: %w", status.Code, err)
		}
		if created {
			report.Statuses++
		}
	}

	for _, c := range defaultCategories {
		category := c
		created, err := s.refRepo.UpsertCategory(&category)
		if err != nil {
			return nil, fmt.Errorf("setup category %s: %w", category.Name, err)
		}
		if created {
			report.Categories++
		}
	}

	s.invalidate(cacheKeyPlatforms, cacheKeyStatuses, cacheKeyCategories)

	logger.Info("Reference data ready", map[string]interface{}{
		"platforms_created":  report.Platforms,
		"statuses_created":   report.Statuses,
		"categories_created": report.Categories,
	})
	return report, nil
}

func (s *referenceService) ListPlatforms() ([]model.Platform, error) {
	var platforms []model.Platform
	err := s.cached(cacheKeyPlatforms, &platforms, func() (interface{}, error) {
		found, err := s.refRepo.ListPlatforms()
		platforms = found
		return found, err
	})
	return platforms, err
}

func (s *referenceService) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	err := s.cached(cacheKeyCategories, &categories, func() (interface{}, error) {
		found, err := s.refRepo.ListCategories()
		categories = found
		return found, err
	})
	return categories, err
}

func (s *referenceService) ListStatuses() ([]model.InfluencerStatus, error) {
	var statuses []model.InfluencerStatus
	err := s.cached(cacheKeyStatuses, &statuses, func() (interface{}, error) {
		found, err := s.refRepo.ListStatuses()
		statuses = found
		return found, err
	})
	return statuses, err
}

// ListCategoriesWithCounts is never cached, counts move with every registration
func (s *referenceService) ListCategoriesWithCounts() ([]model.Category, error) {
	return s.refRepo.ListCategoriesWithCounts()
}

func (s *referenceService) CreateCategory(input CategoryInput) (*model.Category, error) {
	verr := newValidationError()
	validateStruct(verr, "", &input)
	if verr.hasErrors() {
		return nil, verr
	}

	category := &model.Category{
		Name:        input.Name,
		Description: input.Description,
		Icon:        input.Icon,
		Color:       input.Color,
	}
	if err := s.refRepo.CreateCategory(category); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, fieldError("name", "Category with this name already exists.")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.invalidate(cacheKeyCategories)
	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

func (s *referenceService) UpdateCategory(id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.refRepo.FindCategoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	verr := newValidationError()
	validateStruct(verr, "", &input)
	if verr.hasErrors() {
		return nil, verr
	}

	category.Name = input.Name
	category.Description = input.Description
	category.Icon = input.Icon
	if input.Color != "" {
		category.Color = input.Color
	}

	if err := s.refRepo.UpdateCategory(category); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, fieldError("name", "Category with this name already exists.")
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.invalidate(cacheKeyCategories)
	return category, nil
}

func (s *referenceService) DeleteCategory(id uint) error {
	if err := s.refRepo.DeleteCategory(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}

	s.invalidate(cacheKeyCategories)
	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})
	return nil
}

func (s *referenceService) DeleteStatus(id uint) error {
	if err := s.refRepo.DeleteStatus(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStatusNotFound
		}
		return fmt.Errorf("delete status: %w", err)
	}

	s.invalidate(cacheKeyStatuses)
	logger.Info("Influencer status deleted", map[string]interface{}{
		"status_id": id,
	})
	return nil
}

func (s *referenceService) DeletePlatform(id uint) error {
	if err := s.refRepo.DeletePlatform(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlatformNotFound
		}
		return fmt.Errorf("delete platform: %w", err)
	}

	s.invalidate(cacheKeyPlatforms)
	logger.Warn("Platform deleted with all of its accounts", map[string]interface{}{
		"platform_id": id,
	})
	return nil
}

// cached reads key into dest, or calls load and stores its result.
// Cache failures never fail the request.
func (s *referenceService) cached(key string, dest interface{}, load func() (interface{}, error)) error {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if hit, _ := s.cache.GetJSON(ctx, key, dest); hit {
		return nil
	}

	value, err := load()
	if err != nil {
		return err
	}

	_ = s.cache.SetJSON(ctx, key, value)
	return nil
}

func (s *referenceService) invalidate(keys ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	_ = s.cache.Delete(ctx, keys...)
}
