package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/influencehub/influencehub-backend/internal/app/model"
	"github.com/influencehub/influencehub-backend/internal/app/repository"
	"github.com/influencehub/influencehub-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	AdminPageSize  = 50
	maxExportRows  = 10000
	exportFilename = "influencers.xlsx"
)

// AdminFilter extends the public filter with staff-only criteria
type AdminFilter struct {
	CategoryID *uint
	Platform   string
	StatusID   *uint
	Verified   *bool
	Search     string // also matches email
	Page       int
}

type BulkStatusInput struct {
	IDs    []uint           `json:"ids" validate:"required,min=1"`
	Status model.StatusCode `json:"status" validate:"required"`
}

type AccountFilter struct {
	PlatformID *uint
	Verified   *bool
	Search     string
	Page       int
}

type SocialAccountPage struct {
	Items    []repository.SocialAccountRow `json:"items"`
	HasMore  bool                          `json:"has_more"`
	Total    int64                         `json:"total"`
	Page     int                           `json:"page"`
	PageSize int                           `json:"page_size"`
}

// Export is a generated workbook ready to be sent
type Export struct {
	Filename string
	Content  []byte
	Rows     int
}

type AdminService interface {
	ListInfluencers(filter AdminFilter) (*InfluencerPage, error)
	BulkSetStatus(input BulkStatusInput) (int64, error)
	DeleteInfluencer(id uint) error
	ExportInfluencers(filter AdminFilter) (*Export, error)
	ListSocialAccounts(filter AccountFilter) (*SocialAccountPage, error)
}

type adminService struct {
	influencerRepo repository.InfluencerRepository
	accountRepo    repository.SocialAccountRepository
	refRepo        repository.ReferenceRepository
}

func NewAdminService(
	influencerRepo repository.InfluencerRepository,
	accountRepo repository.SocialAccountRepository,
	refRepo repository.ReferenceRepository,
) AdminService {
	return &adminService{
		influencerRepo: influencerRepo,
		accountRepo:    accountRepo,
		refRepo:        refRepo,
	}
}

func (s *adminService) repoFilter(filter AdminFilter) repository.InfluencerFilter {
	repoFilter := repository.InfluencerFilter{
		CategoryID:  filter.CategoryID,
		StatusID:    filter.StatusID,
		Verified:    filter.Verified,
		Search:      filter.Search,
		SearchEmail: true,
	}
	applyPlatformFilter(&repoFilter, filter.Platform)
	return repoFilter
}

func (s *adminService) ListInfluencers(filter AdminFilter) (*InfluencerPage, error) {
	return buildInfluencerPage(s.influencerRepo, s.repoFilter(filter), filter.Page, AdminPageSize)
}

// BulkSetStatus moves every listed influencer to the status with the given code
func (s *adminService) BulkSetStatus(input BulkStatusInput) (int64, error) {
	verr := newValidationError()
	validateStruct(verr, "", &input)
	if verr.hasErrors() {
		return 0, verr
	}

	status, err := s.refRepo.FindStatusByCode(input.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fieldError("status", "Select a valid choice.")
		}
		return 0, fmt.Errorf("find status: %w", err)
	}

	updated, err := s.influencerRepo.UpdateStatus(input.IDs, status.ID)
	if err != nil {
		return 0, fmt.Errorf("bulk update status: %w", err)
	}

	logger.Info("Bulk status change applied", map[string]interface{}{
		"status":    status.Code,
		"requested": len(input.IDs),
		"updated":   updated,
	})
	return updated, nil
}

func (s *adminService) DeleteInfluencer(id uint) error {
	if err := s.influencerRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInfluencerNotFound
		}
		return fmt.Errorf("delete influencer: %w", err)
	}

	logger.Warn("Influencer deleted", map[string]interface{}{
		"influencer_id": id,
	})
	return nil
}

// ExportInfluencers writes the filtered influencers to a workbook with an
// "influencers" sheet and an "accounts" sheet.
func (s *adminService) ExportInfluencers(filter AdminFilter) (*Export, error) {
	repoFilter := s.repoFilter(filter)
	repoFilter.Limit = maxExportRows

	listed, err := s.influencerRepo.FindWithFilter(repoFilter)
	if err != nil {
		return nil, fmt.Errorf("find influencers for export: %w", err)
	}

	ids := make([]uint, len(listed))
	for i, inf := range listed {
		ids[i] = inf.ID
	}
	loaded, err := s.influencerRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("load influencers for export: %w", err)
	}
	byID := make(map[uint]model.Influencer, len(loaded))
	for _, inf := range loaded {
		byID[inf.ID] = inf
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	const influencerSheet = "influencers"
	const accountSheet = "accounts"
	if err := xl.SetSheetName(xl.GetSheetName(0), influencerSheet); err != nil {
		return nil, fmt.Errorf("prepare export: %w", err)
	}
	if _, err := xl.NewSheet(accountSheet); err != nil {
		return nil, fmt.Errorf("prepare export: %w", err)
	}

	influencerHeader := []string{"id", "name", "full_name", "email", "phone", "category", "status", "location", "total_followers", "avg_engagement", "platform_count", "created_at"}
	if err := xl.SetSheetRow(influencerSheet, "A1", &influencerHeader); err != nil {
		return nil, fmt.Errorf("write export header: %w", err)
	}
	accountHeader := []string{"influencer_id", "influencer_email", "platform", "username", "followers_count", "following_count", "posts_count", "engagement_rate", "is_verified"}
	if err := xl.SetSheetRow(accountSheet, "A1", &accountHeader); err != nil {
		return nil, fmt.Errorf("write export header: %w", err)
	}

	accountRow := 2
	for i, listedInf := range listed {
		inf, ok := byID[listedInf.ID]
		if !ok {
			continue
		}
		metrics := inf.Metrics()

		category := ""
		if inf.Category != nil {
			category = inf.Category.Name
		}
		status := ""
		if inf.Status != nil {
			status = string(inf.Status.Code)
		}

		record := []interface{}{
			inf.ID,
			inf.Name,
			inf.FullName,
			inf.Email,
			inf.Phone,
			category,
			status,
			inf.Location,
			metrics.TotalFollowers,
			formatRate(metrics.AvgEngagement),
			metrics.PlatformCount,
			inf.CreatedAt.UTC().Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xl.SetSheetRow(influencerSheet, cell, &record); err != nil {
			return nil, fmt.Errorf("write export row: %w", err)
		}

		for _, acc := range inf.SocialAccounts {
			platform := ""
			if acc.Platform != nil {
				platform = string(acc.Platform.Code)
			}
			accRecord := []interface{}{
				inf.ID,
				inf.Email,
				platform,
				acc.Username,
				acc.FollowersCount,
				acc.FollowingCount,
				acc.PostsCount,
				formatRate(acc.EngagementRate),
				acc.IsVerified,
			}
			cell, _ := excelize.CoordinatesToCellName(1, accountRow)
			if err := xl.SetSheetRow(accountSheet, cell, &accRecord); err != nil {
				return nil, fmt.Errorf("write export row: %w", err)
			}
			accountRow++
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write export workbook: %w", err)
	}

	logger.Info("Influencer export generated", map[string]interface{}{
		"rows":     len(listed),
		"accounts": accountRow - 2,
	})
	return &Export{
		Filename: exportFilename,
		Content:  buf.Bytes(),
		Rows:     len(listed),
	}, nil
}

func formatRate(rate *float64) string {
	if rate == nil {
		return ""
	}
	return strconv.FormatFloat(*rate, 'f', 2, 64)
}

func (s *adminService) ListSocialAccounts(filter AccountFilter) (*SocialAccountPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	repoFilter := repository.SocialAccountFilter{
		PlatformID: filter.PlatformID,
		Verified:   filter.Verified,
		Search:     filter.Search,
	}

	total, err := s.accountRepo.CountWithFilter(repoFilter)
	if err != nil {
		return nil, fmt.Errorf("count social accounts: %w", err)
	}

	result := &SocialAccountPage{
		Items:    []repository.SocialAccountRow{},
		Total:    total,
		Page:     page,
		PageSize: AdminPageSize,
	}
	offset, hasMore, ok := pageWindow(page, AdminPageSize, total)
	if !ok {
		return result, nil
	}
	repoFilter.Limit = AdminPageSize
	repoFilter.Offset = offset

	rows, err := s.accountRepo.FindWithFilter(repoFilter)
	if err != nil {
		return nil, fmt.Errorf("find social accounts: %w", err)
	}
	result.Items = rows
	result.HasMore = hasMore
	return result, nil
}
