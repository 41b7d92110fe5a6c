package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/influencehub/influencehub-backend/internal/app/service"
	"github.com/influencehub/influencehub-backend/internal/middleware"
)

type ReferenceController struct {
	referenceService service.ReferenceService
}

func NewReferenceController(referenceService service.ReferenceService) *ReferenceController {
	return &ReferenceController{
		referenceService: referenceService,
	}
}

// ListPlatforms GET /api/v1/platforms
func (ctrl *ReferenceController) ListPlatforms(c *gin.Context) {
	platforms, err := ctrl.referenceService.ListPlatforms()
	if err != nil {
		respondServiceError(c, err, "list platforms")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"platforms": platforms,
		"count":     len(platforms),
	})
}

// ListCategories GET /api/v1/categories
func (ctrl *ReferenceController) ListCategories(c *gin.Context) {
	categories, err := ctrl.referenceService.ListCategories()
	if err != nil {
		respondServiceError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// ListStatuses GET /api/v1/statuses
func (ctrl *ReferenceController) ListStatuses(c *gin.Context) {
	statuses, err := ctrl.referenceService.ListStatuses()
	if err != nil {
		respondServiceError(c, err, "list statuses")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"statuses": statuses,
		"count":    len(statuses),
	})
}

// ListCategoriesWithCounts returns categories with their influencer counts
// GET /api/v1/admin/categories
func (ctrl *ReferenceController) ListCategoriesWithCounts(c *gin.Context) {
	categories, err := ctrl.referenceService.ListCategoriesWithCounts()
	if err != nil {
		respondServiceError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory POST /api/v1/admin/categories
func (ctrl *ReferenceController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CategoryInput
	if !bindJSON(c, &req) {
		return
	}

	category, err := ctrl.referenceService.CreateCategory(req)
	if err != nil {
		respondServiceError(c, err, "create category")
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"category": category,
	})
}

// UpdateCategory PUT /api/v1/admin/categories/:id
func (ctrl *ReferenceController) UpdateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.CategoryInput
	if !bindJSON(c, &req) {
		return
	}

	category, err := ctrl.referenceService.UpdateCategory(id, req)
	if err != nil {
		respondServiceError(c, err, "update category")
		return
	}

	log.Info("Category updated", map[string]interface{}{
		"category_id": category.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// DeleteCategory clears the category of its influencers and removes it
// DELETE /api/v1/admin/categories/:id
func (ctrl *ReferenceController) DeleteCategory(c *gin.Context) {
	ctrl.deleteReference(c, "category", ctrl.referenceService.DeleteCategory)
}

// DeleteStatus DELETE /api/v1/admin/statuses/:id
func (ctrl *ReferenceController) DeleteStatus(c *gin.Context) {
	ctrl.deleteReference(c, "status", ctrl.referenceService.DeleteStatus)
}

// DeletePlatform removes the platform together with every account on it
// DELETE /api/v1/admin/platforms/:id
func (ctrl *ReferenceController) DeletePlatform(c *gin.Context) {
	ctrl.deleteReference(c, "platform", ctrl.referenceService.DeletePlatform)
}

func (ctrl *ReferenceController) deleteReference(c *gin.Context, kind string, remove func(uint) error) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := remove(id); err != nil {
		respondServiceError(c, err, "delete "+kind)
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Warn("Reference data deleted", map[string]interface{}{
		"kind":    kind,
		"id":      id,
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": kind + " deleted",
	})
}
