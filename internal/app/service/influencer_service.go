package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/influencehub/influencehub-backend/internal/app/model"
	"github.com/influencehub/influencehub-backend/internal/app/repository"
	apperrors "github.com/influencehub/influencehub-backend/internal/errors"
	"github.com/influencehub/influencehub-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInfluencerNotFound = errors.New("influencer not found")

// PageSize is the fixed number of influencers per public listing page
const PageSize = 12

// ListFilter holds the public listing criteria
type ListFilter struct {
	CategoryID *uint
	Platform   string // platform id or code
	Search     string
	Page       int // 1-based
}

// InfluencerListItem is one listing row: the influencer plus its aggregates
type InfluencerListItem struct {
	Influencer model.Influencer `json:"influencer"`
	model.InfluencerMetrics
}

type InfluencerPage struct {
	Items    []InfluencerListItem `json:"items"`
	HasMore  bool                 `json:"has_more"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

type InfluencerDetail struct {
	Influencer *model.Influencer        `json:"influencer"`
	Metrics    model.InfluencerMetrics `json:"metrics"`
	Keywords   []string                `json:"keywords"`
}

// InfluencerInput holds the influencer's own form fields
type InfluencerInput struct {
	Name           string   `json:"name" validate:"required,max=100"`
	FullName       string   `json:"full_name" validate:"required,max=150"`
	Email          string   `json:"email" validate:"required,email,max=254"`
	Phone          string   `json:"phone" validate:"max=20"`
	Bio            string   `json:"bio"`
	ProfileImage   string   `json:"profile_image" validate:"omitempty,url,max=500"`
	CategoryID     *uint    `json:"category_id"`
	NicheKeywords  string   `json:"niche_keywords"`
	EngagementRate *float64 `json:"engagement_rate" validate:"omitempty,min=0,max=100"`
	Location       string   `json:"location" validate:"max=100"`
	StatusID       *uint    `json:"status_id"`
}

// SocialAccountInput is one account row of a registration or edit form.
// ID is only meaningful on edit, where it selects the account to modify.
type SocialAccountInput struct {
	ID             *uint    `json:"id,omitempty"`
	PlatformID     *uint    `json:"platform_id" validate:"required"`
	Username       string   `json:"username" validate:"required,max=100"`
	FollowersCount *int64   `json:"followers_count" validate:"required,min=0"`
	FollowingCount *int64   `json:"following_count" validate:"omitempty,min=0"`
	PostsCount     *int64   `json:"posts_count" validate:"required,min=0"`
	EngagementRate *float64 `json:"engagement_rate" validate:"omitempty,min=0,max=100"`
	IsVerified     bool     `json:"is_verified"`
}

type RegistrationInput struct {
	InfluencerInput
	SocialAccounts []SocialAccountInput `json:"social_accounts"`
}

// InfluencerPatch changes only the fields that are set. A zero CategoryID or
// StatusID clears the reference.
type InfluencerPatch struct {
	Name                *string  `json:"name"`
	FullName            *string  `json:"full_name"`
	Email               *string  `json:"email"`
	Phone               *string  `json:"phone"`
	Bio                 *string  `json:"bio"`
	ProfileImage        *string  `json:"profile_image"`
	CategoryID          *uint    `json:"category_id"`
	NicheKeywords       *string  `json:"niche_keywords"`
	EngagementRate      *float64 `json:"engagement_rate"`
	ClearEngagementRate bool     `json:"clear_engagement_rate"`
	Location            *string  `json:"location"`
	StatusID            *uint    `json:"status_id"`
}

// AccountsDiff lists the account changes of one edit. Upserts with an id
// modify that account, the others create one.
type AccountsDiff struct {
	Upserts   []SocialAccountInput `json:"upserts"`
	DeleteIDs []uint               `json:"delete_ids"`
}

type UpdateInput struct {
	InfluencerPatch
	SocialAccounts AccountsDiff `json:"social_accounts"`
}

type InfluencerService interface {
	ListInfluencers(filter ListFilter) (*InfluencerPage, error)
	GetInfluencer(id uint) (*InfluencerDetail, error)
	RegisterInfluencer(input RegistrationInput) (*model.Influencer, error)
	UpdateInfluencer(id uint, input UpdateInput) (*model.Influencer, error)
}

type influencerService struct {
	influencerRepo repository.InfluencerRepository
	accountRepo    repository.SocialAccountRepository
	refRepo        repository.ReferenceRepository
	db             *gorm.DB
}

func NewInfluencerService(
	influencerRepo repository.InfluencerRepository,
	accountRepo repository.SocialAccountRepository,
	refRepo repository.ReferenceRepository,
	db *gorm.DB,
) InfluencerService {
	return &influencerService{
		influencerRepo: influencerRepo,
		accountRepo:    accountRepo,
		refRepo:        refRepo,
		db:             db,
	}
}

func (s *influencerService) ListInfluencers(filter ListFilter) (*InfluencerPage, error) {
	logger.Debug("Listing influencers", map[string]interface{}{
		"search":   filter.Search,
		"platform": filter.Platform,
		"page":     filter.Page,
	})

	repoFilter := repository.InfluencerFilter{
		CategoryID: filter.CategoryID,
		Search:     filter.Search,
	}
	applyPlatformFilter(&repoFilter, filter.Platform)

	return buildInfluencerPage(s.influencerRepo, repoFilter, filter.Page, PageSize)
}

// applyPlatformFilter accepts a numeric platform id or a platform code
func applyPlatformFilter(filter *repository.InfluencerFilter, platform string) {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return
	}
	if id, err := strconv.ParseUint(platform, 10, 64); err == nil {
		platformID := uint(id)
		filter.PlatformID = &platformID
		return
	}
	filter.PlatformCode = model.PlatformCode(strings.ToUpper(platform))
}

// buildInfluencerPage loads one page and its aggregates with a fixed number
// of queries. Pages below 1 read as 1; pages past the end are empty.
func buildInfluencerPage(repo repository.InfluencerRepository, filter repository.InfluencerFilter, page, size int) (*InfluencerPage, error) {
	if page < 1 {
		page = 1
	}
	total, err := repo.CountWithFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("count influencers: %w", err)
	}

	result := &InfluencerPage{
		Items:    []InfluencerListItem{},
		Total:    total,
		Page:     page,
		PageSize: size,
	}
	offset, hasMore, ok := pageWindow(page, size, total)
	if !ok {
		return result, nil
	}
	filter.Limit = size
	filter.Offset = offset

	influencers, err := repo.FindWithFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("find influencers: %w", err)
	}

	ids := make([]uint, len(influencers))
	for i, inf := range influencers {
		ids[i] = inf.ID
	}
	metrics, err := repo.FindMetrics(ids)
	if err != nil {
		return nil, fmt.Errorf("aggregate influencer metrics: %w", err)
	}

	for _, inf := range influencers {
		// absent from the map means no account: zero followers, no average
		result.Items = append(result.Items, InfluencerListItem{
			Influencer:        inf,
			InfluencerMetrics: metrics[inf.ID],
		})
	}
	result.HasMore = hasMore
	return result, nil
}

// pageWindow locates page within total rows. ok is false when the page
// holds no rows; the page is compared before any multiplication.
func pageWindow(page, size int, total int64) (offset int, hasMore, ok bool) {
	pages := (total + int64(size) - 1) / int64(size)
	if page < 1 || int64(page) > pages {
		return 0, false, false
	}
	return (page - 1) * size, int64(page) < pages, true
}

func (s *influencerService) GetInfluencer(id uint) (*InfluencerDetail, error) {
	influencer, err := s.influencerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInfluencerNotFound
		}
		logger.Error("Failed to load influencer", err, map[string]interface{}{
			"influencer_id": id,
		})
		return nil, err
	}

	return &InfluencerDetail{
		Influencer: influencer,
		Metrics:    influencer.Metrics(),
		Keywords:   influencer.Keywords(),
	}, nil
}

// RegisterInfluencer validates the influencer and every account first, then
// writes them in one transaction. Nothing is stored when any field fails.
func (s *influencerService) RegisterInfluencer(input RegistrationInput) (*model.Influencer, error) {
	normalizeInfluencerInput(&input.InfluencerInput)
	for i := range input.SocialAccounts {
		normalizeAccountInput(&input.SocialAccounts[i])
	}

	logger.Info("Registering influencer", map[string]interface{}{
		"email":    input.Email,
		"accounts": len(input.SocialAccounts),
	})

	// phase 1: validate everything
	verr := newValidationError()
	if err := s.validateInfluencer(verr, &input.InfluencerInput, 0); err != nil {
		return nil, err
	}

	platforms, err := s.platformsByID()
	if err != nil {
		return nil, err
	}
	usedPlatforms := map[uint]bool{}
	for i := range input.SocialAccounts {
		entry := &input.SocialAccounts[i]
		prefix := fmt.Sprintf("social_accounts[%d].", i)
		if entry.ID != nil {
			verr.add(prefix+"id", "Accounts cannot be referenced on registration.")
		}
		validateAccountEntry(verr, prefix, entry, platforms, usedPlatforms)
	}

	if verr.hasErrors() {
		logger.Warn("Influencer registration rejected", map[string]interface{}{
			"email":  input.Email,
			"fields": len(verr.Fields),
		})
		return nil, verr
	}

	influencer := &model.Influencer{}
	input.InfluencerInput.applyTo(influencer)
	if influencer.StatusID == nil {
		if pending, err := s.refRepo.FindStatusByCode(model.StatusPending); err == nil {
			influencer.StatusID = &pending.ID
		}
	}

	accounts := make([]model.SocialMediaAccount, len(input.SocialAccounts))
	for i := range input.SocialAccounts {
		input.SocialAccounts[i].applyTo(&accounts[i])
	}

	// phase 2: commit all or nothing
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.influencerRepo.WithTx(tx).Create(influencer); err != nil {
			return err
		}
		for i := range accounts {
			accounts[i].InfluencerID = influencer.ID
		}
		return s.accountRepo.WithTx(tx).CreateBatch(accounts)
	})
	if err != nil {
		if verr := s.constraintError(err, input.Email, 0, "social_accounts"); verr != nil {
			return nil, verr
		}
		logger.Error("Failed to register influencer", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, fmt.Errorf("register influencer: %w", err)
	}

	logger.Info("Influencer registered", map[string]interface{}{
		"influencer_id": influencer.ID,
		"accounts":      len(accounts),
	})

	return s.reload(influencer.ID)
}

// UpdateInfluencer merges the patch, validates the resulting record and the
// final account set, then applies every change in one transaction.
func (s *influencerService) UpdateInfluencer(id uint, input UpdateInput) (*model.Influencer, error) {
	existing, err := s.influencerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInfluencerNotFound
		}
		return nil, err
	}

	logger.Info("Updating influencer", map[string]interface{}{
		"influencer_id": id,
		"upserts":       len(input.SocialAccounts.Upserts),
		"deletes":       len(input.SocialAccounts.DeleteIDs),
	})

	merged := inputFromModel(existing)
	input.InfluencerPatch.applyTo(&merged)
	normalizeInfluencerInput(&merged)

	verr := newValidationError()
	if err := s.validateInfluencer(verr, &merged, id); err != nil {
		return nil, err
	}

	owned := make(map[uint]model.SocialMediaAccount, len(existing.SocialAccounts))
	for _, acc := range existing.SocialAccounts {
		owned[acc.ID] = acc
	}

	deleting := map[uint]bool{}
	for i, accountID := range input.SocialAccounts.DeleteIDs {
		if _, ok := owned[accountID]; !ok {
			verr.add(fmt.Sprintf("social_accounts.delete_ids[%d]", i), "Unknown account for this influencer.")
			continue
		}
		deleting[accountID] = true
	}

	modifying := map[uint]bool{}
	for i, entry := range input.SocialAccounts.Upserts {
		if entry.ID == nil {
			continue
		}
		field := fmt.Sprintf("social_accounts.upserts[%d].id", i)
		switch {
		case owned[*entry.ID].ID == 0:
			verr.add(field, "Unknown account for this influencer.")
		case deleting[*entry.ID]:
			verr.add(field, "This account is also marked for removal.")
		case modifying[*entry.ID]:
			verr.add(field, "This account is modified twice.")
		default:
			modifying[*entry.ID] = true
		}
	}

	platforms, err := s.platformsByID()
	if err != nil {
		return nil, err
	}

	// accounts left untouched keep their platform in the final set
	usedPlatforms := map[uint]bool{}
	for _, acc := range existing.SocialAccounts {
		if !deleting[acc.ID] && !modifying[acc.ID] {
			usedPlatforms[acc.PlatformID] = true
		}
	}
	for i := range input.SocialAccounts.Upserts {
		entry := &input.SocialAccounts.Upserts[i]
		normalizeAccountInput(entry)
		validateAccountEntry(verr, fmt.Sprintf("social_accounts.upserts[%d].", i), entry, platforms, usedPlatforms)
	}

	if verr.hasErrors() {
		logger.Warn("Influencer update rejected", map[string]interface{}{
			"influencer_id": id,
			"fields":        len(verr.Fields),
		})
		return nil, verr
	}

	influencer := *existing
	influencer.Category = nil
	influencer.Status = nil
	influencer.SocialAccounts = nil
	merged.applyTo(&influencer)

	var toUpdate, toCreate []model.SocialMediaAccount
	for _, entry := range input.SocialAccounts.Upserts {
		if entry.ID != nil {
			acc := owned[*entry.ID]
			acc.Platform = nil
			entry.applyTo(&acc)
			toUpdate = append(toUpdate, acc)
			continue
		}
		acc := model.SocialMediaAccount{InfluencerID: id}
		entry.applyTo(&acc)
		toCreate = append(toCreate, acc)
	}
	deleteIDs := make([]uint, 0, len(deleting))
	for accountID := range deleting {
		deleteIDs = append(deleteIDs, accountID)
	}

	// deletions run first so a replaced platform is free for the new row
	err = s.db.Transaction(func(tx *gorm.DB) error {
		accountRepo := s.accountRepo.WithTx(tx)
		if _, err := accountRepo.DeleteByIDs(id, deleteIDs); err != nil {
			return err
		}
		for i := range toUpdate {
			if err := accountRepo.Update(&toUpdate[i]); err != nil {
				return err
			}
		}
		if err := accountRepo.CreateBatch(toCreate); err != nil {
			return err
		}
		return s.influencerRepo.WithTx(tx).Update(&influencer)
	})
	if err != nil {
		if verr := s.constraintError(err, merged.Email, id, "social_accounts.upserts"); verr != nil {
			return nil, verr
		}
		logger.Error("Failed to update influencer", err, map[string]interface{}{
			"influencer_id": id,
		})
		return nil, fmt.Errorf("update influencer: %w", err)
	}

	logger.Info("Influencer updated", map[string]interface{}{
		"influencer_id": id,
		"updated":       len(toUpdate),
		"created":       len(toCreate),
		"deleted":       len(deleteIDs),
	})

	return s.reload(id)
}

// validateInfluencer checks the struct rules plus the rules needing storage
func (s *influencerService) validateInfluencer(verr *ValidationError, input *InfluencerInput, excludeID uint) error {
	validateStruct(verr, "", input)

	if _, bad := verr.Fields["email"]; !bad {
		taken, err := s.influencerRepo.EmailExists(input.Email, excludeID)
		if err != nil {
			return fmt.Errorf("check influencer email: %w", err)
		}
		if taken {
			verr.add("email", "Influencer with this email already exists.")
		}
	}

	if input.CategoryID != nil {
		if _, err := s.refRepo.FindCategoryByID(*input.CategoryID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("check category: %w", err)
			}
			verr.add("category_id", "Select a valid choice.")
		}
	}

	if input.StatusID != nil {
		if _, err := s.refRepo.FindStatusByID(*input.StatusID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("check status: %w", err)
			}
			verr.add("status_id", "Select a valid choice.")
		}
	}
	return nil
}

// validateAccountEntry checks one account row. usedPlatforms collects the
// platforms seen so far; a repeated platform is reported on the later row.
func validateAccountEntry(verr *ValidationError, prefix string, entry *SocialAccountInput, platforms map[uint]model.Platform, usedPlatforms map[uint]bool) {
	validateStruct(verr, prefix, entry)

	if entry.PlatformID == nil {
		return
	}
	platform, ok := platforms[*entry.PlatformID]
	if !ok {
		verr.add(prefix+"platform_id", "Select a valid choice.")
		return
	}
	if usedPlatforms[platform.ID] {
		verr.add(prefix+"platform_id", fmt.Sprintf("This influencer already has an account on %s.", platform.Code.Label()))
		return
	}
	usedPlatforms[platform.ID] = true
}

// constraintError turns a unique violation raised at commit into field
// errors. Only email and (influencer, platform) are unique.
func (s *influencerService) constraintError(err error, email string, excludeID uint, accountsField string) *ValidationError {
	if !apperrors.IsDuplicateKey(err) {
		return nil
	}

	logger.Warn("Unique constraint hit at commit", map[string]interface{}{
		"email": email,
	})

	if taken, checkErr := s.influencerRepo.EmailExists(email, excludeID); checkErr == nil && taken {
		return fieldError("email", "Influencer with this email already exists.")
	}
	return fieldError(accountsField, "An account already exists for one of these platforms.")
}

func (s *influencerService) platformsByID() (map[uint]model.Platform, error) {
	platforms, err := s.refRepo.ListPlatforms()
	if err != nil {
		return nil, fmt.Errorf("load platforms: %w", err)
	}
	byID := make(map[uint]model.Platform, len(platforms))
	for _, p := range platforms {
		byID[p.ID] = p
	}
	return byID, nil
}

func (s *influencerService) reload(id uint) (*model.Influencer, error) {
	influencer, err := s.influencerRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("reload influencer: %w", err)
	}
	return influencer, nil
}

func normalizeInfluencerInput(input *InfluencerInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.ProfileImage = strings.TrimSpace(input.ProfileImage)
	input.NicheKeywords = strings.TrimSpace(input.NicheKeywords)
	input.Location = strings.TrimSpace(input.Location)
}

func normalizeAccountInput(input *SocialAccountInput) {
	input.Username = strings.TrimSpace(input.Username)
}

func (in InfluencerInput) applyTo(inf *model.Influencer) {
	inf.Name = in.Name
	inf.FullName = in.FullName
	inf.Email = in.Email
	inf.Phone = in.Phone
	inf.Bio = in.Bio
	inf.ProfileImage = in.ProfileImage
	inf.CategoryID = in.CategoryID
	inf.NicheKeywords = in.NicheKeywords
	inf.EngagementRate = in.EngagementRate
	inf.Location = in.Location
	inf.StatusID = in.StatusID
}

func inputFromModel(inf *model.Influencer) InfluencerInput {
	return InfluencerInput{
		Name:           inf.Name,
		FullName:       inf.FullName,
		Email:          inf.Email,
		Phone:          inf.Phone,
		Bio:            inf.Bio,
		ProfileImage:   inf.ProfileImage,
		CategoryID:     inf.CategoryID,
		NicheKeywords:  inf.NicheKeywords,
		EngagementRate: inf.EngagementRate,
		Location:       inf.Location,
		StatusID:       inf.StatusID,
	}
}

func (p InfluencerPatch) applyTo(in *InfluencerInput) {
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.FullName != nil {
		in.FullName = *p.FullName
	}
	if p.Email != nil {
		in.Email = *p.Email
	}
	if p.Phone != nil {
		in.Phone = *p.Phone
	}
	if p.Bio != nil {
		in.Bio = *p.Bio
	}
	if p.ProfileImage != nil {
		in.ProfileImage = *p.ProfileImage
	}
	if p.CategoryID != nil {
		in.CategoryID = clearableID(*p.CategoryID)
	}
	if p.NicheKeywords != nil {
		in.NicheKeywords = *p.NicheKeywords
	}
	if p.ClearEngagementRate {
		in.EngagementRate = nil
	} else if p.EngagementRate != nil {
		in.EngagementRate = p.EngagementRate
	}
	if p.Location != nil {
		in.Location = *p.Location
	}
	if p.StatusID != nil {
		in.StatusID = clearableID(*p.StatusID)
	}
}

func clearableID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

// applyTo copies a validated entry onto an account
func (in SocialAccountInput) applyTo(acc *model.SocialMediaAccount) {
	acc.PlatformID = *in.PlatformID
	acc.Username = in.Username
	acc.FollowersCount = *in.FollowersCount
	acc.FollowingCount = 0
	if in.FollowingCount != nil {
		acc.FollowingCount = *in.FollowingCount
	}
	acc.PostsCount = *in.PostsCount
	acc.EngagementRate = in.EngagementRate
	acc.IsVerified = in.IsVerified
}
