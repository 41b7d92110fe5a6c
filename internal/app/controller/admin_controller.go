package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/influencehub/influencehub-backend/internal/app/service"
	"github.com/influencehub/influencehub-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

// adminFilter reads the staff listing criteria shared by the list and export endpoints
func adminFilter(query *queryParser, c *gin.Context) service.AdminFilter {
	return service.AdminFilter{
		CategoryID: query.optionalUint("category"),
		Platform:   c.Query("platform"),
		StatusID:   query.optionalUint("status"),
		Verified:   query.optionalBool("verified"),
		Search:     c.Query("search"),
		Page:       query.page(),
	}
}

// ListInfluencers GET /api/v1/admin/influencers
func (ctrl *AdminController) ListInfluencers(c *gin.Context) {
	query := newQueryParser(c)
	filter := adminFilter(query, c)
	if query.respondIfInvalid() {
		return
	}

	page, err := ctrl.adminService.ListInfluencers(filter)
	if err != nil {
		respondServiceError(c, err, "list influencers")
		return
	}

	c.JSON(http.StatusOK, page)
}

// ExportInfluencers streams the filtered influencers as an xlsx workbook
// GET /api/v1/admin/influencers/export
func (ctrl *AdminController) ExportInfluencers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := newQueryParser(c)
	filter := adminFilter(query, c)
	if query.respondIfInvalid() {
		return
	}

	export, err := ctrl.adminService.ExportInfluencers(filter)
	if err != nil {
		respondServiceError(c, err, "export influencers")
		return
	}

	log.Info("Influencers exported", map[string]interface{}{
		"rows":  export.Rows,
		"bytes": len(export.Content),
	})

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	c.Header("X-Export-Rows", strconv.Itoa(export.Rows))
	c.Data(http.StatusOK, xlsxContentType, export.Content)
}

// BulkSetStatus POST /api/v1/admin/influencers/bulk-status
func (ctrl *AdminController) BulkSetStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.BulkStatusInput
	if !bindJSON(c, &req) {
		return
	}

	updated, err := ctrl.adminService.BulkSetStatus(req)
	if err != nil {
		respondServiceError(c, err, "update status")
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Info("Bulk status applied", map[string]interface{}{
		"status":  req.Status,
		"updated": updated,
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"updated": updated,
		"message": fmt.Sprintf("%d influencer(s) updated", updated),
	})
}

// DeleteInfluencer removes an influencer and all its accounts
// DELETE /api/v1/admin/influencers/:id
func (ctrl *AdminController) DeleteInfluencer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.adminService.DeleteInfluencer(id); err != nil {
		respondServiceError(c, err, "delete influencer")
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Warn("Influencer deleted", map[string]interface{}{
		"influencer_id": id,
		"user_id":       userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "influencer deleted",
	})
}

// ListSocialAccounts GET /api/v1/admin/social-accounts?platform=&verified=&search=&page=
func (ctrl *AdminController) ListSocialAccounts(c *gin.Context) {
	query := newQueryParser(c)
	filter := service.AccountFilter{
		PlatformID: query.optionalUint("platform"),
		Verified:   query.optionalBool("verified"),
		Search:     c.Query("search"),
		Page:       query.page(),
	}
	if query.respondIfInvalid() {
		return
	}

	page, err := ctrl.adminService.ListSocialAccounts(filter)
	if err != nil {
		respondServiceError(c, err, "list social accounts")
		return
	}

	c.JSON(http.StatusOK, page)
}
