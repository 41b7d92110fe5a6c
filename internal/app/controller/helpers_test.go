package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/influencehub/influencehub-backend/internal/app/model"
	"github.com/influencehub/influencehub-backend/internal/app/repository"
	"github.com/influencehub/influencehub-backend/internal/app/service"
	"github.com/influencehub/influencehub-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type controllerFixture struct {
	db         *gorm.DB
	router     *gin.Engine
	references service.ReferenceService
	platforms  map[model.PlatformCode]uint
}

// setupControllerTest wires real services on a SQLite database and registers
// every handler without authentication.
func setupControllerTest(t *testing.T) controllerFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	refRepo := repository.NewReferenceRepository(testDB)
	influencerRepo := repository.NewInfluencerRepository(testDB)
	accountRepo := repository.NewSocialAccountRepository(testDB)

	references := service.NewReferenceService(refRepo, nil)
	_, err = references.SetupReferenceData()
	require.NoError(t, err)

	platforms, err := refRepo.ListPlatforms()
	require.NoError(t, err)
	byCode := make(map[model.PlatformCode]uint, len(platforms))
	for _, p := range platforms {
		byCode[p.Code] = p.ID
	}

	influencerCtrl := NewInfluencerController(service.NewInfluencerService(influencerRepo, accountRepo, refRepo, testDB))
	referenceCtrl := NewReferenceController(references)
	adminCtrl := NewAdminController(service.NewAdminService(influencerRepo, accountRepo, refRepo))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/influencers", influencerCtrl.ListInfluencers)
	router.GET("/influencers/:id", influencerCtrl.GetInfluencer)
	router.POST("/influencers", influencerCtrl.RegisterInfluencer)
	router.PUT("/influencers/:id", influencerCtrl.UpdateInfluencer)
	router.GET("/platforms", referenceCtrl.ListPlatforms)
	router.GET("/categories", referenceCtrl.ListCategories)
	router.GET("/statuses", referenceCtrl.ListStatuses)
	router.GET("/admin/categories", referenceCtrl.ListCategoriesWithCounts)
	router.POST("/admin/categories", referenceCtrl.CreateCategory)
	router.PUT("/admin/categories/:id", referenceCtrl.UpdateCategory)
	router.DELETE("/admin/categories/:id", referenceCtrl.DeleteCategory)
	router.DELETE("/admin/statuses/:id", referenceCtrl.DeleteStatus)
	router.DELETE("/admin/platforms/:id", referenceCtrl.DeletePlatform)
	router.GET("/admin/influencers", adminCtrl.ListInfluencers)
	router.GET("/admin/influencers/export", adminCtrl.ExportInfluencers)
	router.POST("/admin/influencers/bulk-status", adminCtrl.BulkSetStatus)
	router.DELETE("/admin/influencers/:id", adminCtrl.DeleteInfluencer)
	router.GET("/admin/social-accounts", adminCtrl.ListSocialAccounts)

	return controllerFixture{
		db:         testDB,
		router:     router,
		references: references,
		platforms:  byCode,
	}
}

func (fx controllerFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func accountPayload(platformID uint, username string, followers int64, rate float64) map[string]interface{} {
	return map[string]interface{}{
		"platform_id":     platformID,
		"username":        username,
		"followers_count": followers,
		"posts_count":     12,
		"engagement_rate": rate,
	}
}

func registrationPayload(email string, accounts ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"name":            "Marie Dubois",
		"full_name":       "Marie Dubois",
		"email":           email,
		"niche_keywords":  "mode, beauté",
		"location":        "Paris, France",
		"social_accounts": accounts,
	}
}

// register creates an influencer through the API and returns its id
func (fx controllerFixture) register(t *testing.T, payload map[string]interface{}) uint {
	w := fx.do(t, http.MethodPost, "/influencers", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decode(t, w)["id"].(float64))
}
