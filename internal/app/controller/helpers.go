package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/influencehub/influencehub-backend/internal/app/service"
	apperrors "github.com/influencehub/influencehub-backend/internal/errors"
	"github.com/influencehub/influencehub-backend/internal/middleware"
)

const invalidChoice = "Select a valid choice."

// respondServiceError writes the response for an error returned by a service.
// context names the operation for logs and fallback messages.
func respondServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	if verr, ok := service.AsValidationError(err); ok {
		log.Warn("Validation failed", map[string]interface{}{
			"context": context,
			"fields":  verr.Fields,
		})
		apperrors.RespondWithValidationError(c, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrInfluencerNotFound):
		apperrors.NotFound(c, apperrors.InfluencerNotFound, "Influencer not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
	case errors.Is(err, service.ErrStatusNotFound):
		apperrors.NotFound(c, apperrors.StatusNotFound, "Status not found")
	case errors.Is(err, service.ErrPlatformNotFound):
		apperrors.NotFound(c, apperrors.PlatformNotFound, "Platform not found")
	default:
		log.Error("Request failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// parseIDParam reads a positive numeric path parameter, answering 400 when it is malformed
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the body, answering 400 when it is not valid JSON for req
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid request data")
		return false
	}
	return true
}

// queryParser collects field errors while reading optional query parameters
type queryParser struct {
	c      *gin.Context
	fields map[string]string
}

func newQueryParser(c *gin.Context) *queryParser {
	return &queryParser{c: c, fields: map[string]string{}}
}

func (p *queryParser) optionalUint(name string) *uint {
	raw := strings.TrimSpace(p.c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		p.fields[name] = invalidChoice
		return nil
	}
	id := uint(v)
	return &id
}

func (p *queryParser) optionalBool(name string) *bool {
	raw := strings.TrimSpace(p.c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fields[name] = invalidChoice
		return nil
	}
	return &v
}

// page reads a 1-based page number; anything unreadable means the first page
func (p *queryParser) page() int {
	page, err := strconv.Atoi(p.c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// respondIfInvalid answers 400 with the collected field errors, if any
func (p *queryParser) respondIfInvalid() bool {
	if len(p.fields) == 0 {
		return false
	}
	middleware.GetLoggerFromContext(p.c).Warn("Invalid query parameters", map[string]interface{}{
		"fields": p.fields,
	})
	apperrors.RespondWithValidationError(p.c, p.fields)
	return true
}
