package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/influencehub/influencehub-backend/internal/app/service"
	"github.com/influencehub/influencehub-backend/internal/middleware"
)

type InfluencerController struct {
	influencerService service.InfluencerService
}

func NewInfluencerController(influencerService service.InfluencerService) *InfluencerController {
	return &InfluencerController{
		influencerService: influencerService,
	}
}

// ListInfluencers returns one page of the public directory
// GET /api/v1/influencers?category=&platform=&search=&page=
func (ctrl *InfluencerController) ListInfluencers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := newQueryParser(c)
	filter := service.ListFilter{
		CategoryID: query.optionalUint("category"),
		Platform:   c.Query("platform"),
		Search:     c.Query("search"),
		Page:       query.page(),
	}
	if query.respondIfInvalid() {
		return
	}

	page, err := ctrl.influencerService.ListInfluencers(filter)
	if err != nil {
		respondServiceError(c, err, "list influencers")
		return
	}

	log.Info("Influencers listed", map[string]interface{}{
		"count": len(page.Items),
		"total": page.Total,
		"page":  page.Page,
	})

	c.JSON(http.StatusOK, page)
}

// GetInfluencer returns a profile with its accounts and aggregates
// GET /api/v1/influencers/:id
func (ctrl *InfluencerController) GetInfluencer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := ctrl.influencerService.GetInfluencer(id)
	if err != nil {
		respondServiceError(c, err, "get influencer")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// RegisterInfluencer creates an influencer and its accounts in one step
// POST /api/v1/influencers
func (ctrl *InfluencerController) RegisterInfluencer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.RegistrationInput
	if !bindJSON(c, &req) {
		return
	}

	influencer, err := ctrl.influencerService.RegisterInfluencer(req)
	if err != nil {
		respondServiceError(c, err, "register influencer")
		return
	}

	log.Info("Influencer registered", map[string]interface{}{
		"influencer_id": influencer.ID,
		"accounts":      len(influencer.SocialAccounts),
	})

	c.JSON(http.StatusCreated, gin.H{
		"id":         influencer.ID,
		"influencer": influencer,
	})
}

// UpdateInfluencer applies an edit to a profile and its accounts atomically
// PUT /api/v1/influencers/:id
func (ctrl *InfluencerController) UpdateInfluencer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateInput
	if !bindJSON(c, &req) {
		return
	}

	influencer, err := ctrl.influencerService.UpdateInfluencer(id, req)
	if err != nil {
		respondServiceError(c, err, "update influencer")
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Info("Influencer updated", map[string]interface{}{
		"influencer_id": influencer.ID,
		"user_id":       userID,
		"upserts":       len(req.SocialAccounts.Upserts),
		"deletes":       len(req.SocialAccounts.DeleteIDs),
	})

	c.JSON(http.StatusOK, gin.H{
		"influencer": influencer,
	})
}
