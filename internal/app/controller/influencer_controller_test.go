package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/influencehub/influencehub-backend/internal/app/model"
	apperrors "github.com/influencehub/influencehub-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfluencerController_RegisterAndGet(t *testing.T) {
	fx := setupControllerTest(t)

	w := fx.do(t, http.MethodPost, "/influencers", registrationPayload("marie@example.com",
		accountPayload(fx.platforms[model.PlatformInstagram], "marie_style", 150000, 4.2),
		accountPayload(fx.platforms[model.PlatformTikTok], "marie_beauty", 80000, 6.1),
	))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode(t, w)
	id := uint(created["id"].(float64))
	influencer := created["influencer"].(map[string]interface{})
	assert.Equal(t, "marie@example.com", influencer["email"])
	assert.Len(t, influencer["social_accounts"], 2)

	w = fx.do(t, http.MethodGet, fmt.Sprintf("/influencers/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	detail := decode(t, w)
	metrics := detail["metrics"].(map[string]interface{})
	assert.Equal(t, float64(230000), metrics["total_followers"])
	assert.Equal(t, float64(2), metrics["platform_count"])
	assert.InDelta(t, 5.15, metrics["avg_engagement"], 0.0001)
	assert.Equal(t, []interface{}{"mode", "beauté"}, detail["keywords"])
}

func TestInfluencerController_RegisterValidation(t *testing.T) {
	fx := setupControllerTest(t)
	instagram := fx.platforms[model.PlatformInstagram]

	payload := registrationPayload("not-an-email",
		accountPayload(instagram, "first", 100, 1),
		accountPayload(instagram, "second", 100, 1),
	)
	w := fx.do(t, http.MethodPost, "/influencers", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, apperrors.ValidationInvalidInput, body["error"])
	fields := body["fields"].(map[string]interface{})
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "social_accounts[1].platform_id")

	var count int64
	require.NoError(t, fx.db.Model(&model.Influencer{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestInfluencerController_RegisterMalformedBody(t *testing.T) {
	fx := setupControllerTest(t)

	w := fx.do(t, http.MethodPost, "/influencers", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidFormat, decode(t, w)["error"])
}

func TestInfluencerController_GetNotFound(t *testing.T) {
	fx := setupControllerTest(t)

	w := fx.do(t, http.MethodGet, "/influencers/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.InfluencerNotFound, decode(t, w)["error"])

	w = fx.do(t, http.MethodGet, "/influencers/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidID, decode(t, w)["error"])
}

func TestInfluencerController_List(t *testing.T) {
	fx := setupControllerTest(t)
	instagram := fx.platforms[model.PlatformInstagram]
	youtube := fx.platforms[model.PlatformYouTube]

	fx.register(t, registrationPayload("marie@example.com", accountPayload(instagram, "marie", 1000, 2)))
	tech := registrationPayload("alex@example.com", accountPayload(youtube, "techguru", 5000, 3))
	tech["name"] = "TechGuru Alex"
	fx.register(t, tech)

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{name: "all", query: "", wantCount: 2},
		{name: "platform code", query: "?platform=youtube", wantCount: 1},
		{name: "platform id", query: fmt.Sprintf("?platform=%d", instagram), wantCount: 1},
		{name: "search", query: "?search=techguru", wantCount: 1},
		{name: "page past the end", query: "?page=9", wantCount: 0},
		{name: "unreadable page", query: "?page=abc", wantCount: 2},
		{name: "page with an overflowing offset", query: "?page=768614336404564652", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := fx.do(t, http.MethodGet, "/influencers"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			body := decode(t, w)
			assert.Len(t, body["items"], tt.wantCount)
			assert.Equal(t, false, body["has_more"])
			assert.Equal(t, float64(12), body["page_size"])
		})
	}
}

func TestInfluencerController_ListInvalidCategory(t *testing.T) {
	fx := setupControllerTest(t)

	w := fx.do(t, http.MethodGet, "/influencers?category=fashion", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	fields := decode(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields, "category")
}

func TestInfluencerController_Update(t *testing.T) {
	fx := setupControllerTest(t)
	instagram := fx.platforms[model.PlatformInstagram]
	tiktok := fx.platforms[model.PlatformTikTok]

	id := fx.register(t, registrationPayload("marie@example.com", accountPayload(instagram, "marie", 1000, 2)))

	var existing model.SocialMediaAccount
	require.NoError(t, fx.db.Where("influencer_id = ?", id).First(&existing).Error)

	w := fx.do(t, http.MethodPut, fmt.Sprintf("/influencers/%d", id), map[string]interface{}{
		"location": "Lyon, France",
		"social_accounts": map[string]interface{}{
			"upserts":    []interface{}{accountPayload(tiktok, "marie_tt", 3000, 4)},
			"delete_ids": []uint{existing.ID},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	influencer := decode(t, w)["influencer"].(map[string]interface{})
	assert.Equal(t, "Lyon, France", influencer["location"])
	accounts := influencer["social_accounts"].([]interface{})
	require.Len(t, accounts, 1)
	assert.Equal(t, "marie_tt", accounts[0].(map[string]interface{})["username"])
}

func TestInfluencerController_UpdateRejectsForeignAccount(t *testing.T) {
	fx := setupControllerTest(t)
	instagram := fx.platforms[model.PlatformInstagram]

	owner := fx.register(t, registrationPayload("owner@example.com", accountPayload(instagram, "owner", 10, 1)))
	other := fx.register(t, registrationPayload("other@example.com"))

	var foreign model.SocialMediaAccount
	require.NoError(t, fx.db.Where("influencer_id = ?", owner).First(&foreign).Error)

	w := fx.do(t, http.MethodPut, fmt.Sprintf("/influencers/%d", other), map[string]interface{}{
		"social_accounts": map[string]interface{}{
			"delete_ids": []uint{foreign.ID},
		},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "social_accounts.delete_ids[0]")

	w = fx.do(t, http.MethodPut, "/influencers/999", map[string]interface{}{"location": "Nice"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
