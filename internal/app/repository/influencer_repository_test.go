package repository

import (
	"testing"
	"time"

	"github.com/influencehub/influencehub-backend/internal/app/model"
	"github.com/influencehub/influencehub-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type influencerFixture struct {
	instagram *model.Platform
	tiktok    *model.Platform
	youtube   *model.Platform
	fashion   *model.Category
	tech      *model.Category
	active    *model.InfluencerStatus
}

func setupInfluencerTest(t *testing.T) (*gorm.DB, InfluencerRepository, influencerFixture) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	ref := NewReferenceRepository(testDB)
	fx := influencerFixture{
		instagram: &model.Platform{Code: model.PlatformInstagram},
		tiktok:    &model.Platform{Code: model.PlatformTikTok},
		youtube:   &model.Platform{Code: model.PlatformYouTube},
		fashion:   &model.Category{Name: "Mode & Beauté"},
		tech:      &model.Category{Name: "Technologie"},
		active:    &model.InfluencerStatus{Code: model.StatusActive},
	}
	for _, p := range []*model.Platform{fx.instagram, fx.tiktok, fx.youtube} {
		_, err := ref.UpsertPlatform(p)
		require.NoError(t, err)
	}
	require.NoError(t, ref.CreateCategory(fx.fashion))
	require.NoError(t, ref.CreateCategory(fx.tech))
	_, err = ref.UpsertStatus(fx.active)
	require.NoError(t, err)

	return testDB, NewInfluencerRepository(testDB), fx
}

func createInfluencer(t *testing.T, testDB *gorm.DB, inf *model.Influencer, accounts ...model.SocialMediaAccount) *model.Influencer {
	require.NoError(t, NewInfluencerRepository(testDB).Create(inf))
	for i := range accounts {
		accounts[i].InfluencerID = inf.ID
	}
	require.NoError(t, NewSocialAccountRepository(testDB).CreateBatch(accounts))
	return inf
}

func ratePtr(v float64) *float64 {
	return &v
}

func TestInfluencerRepository_CreateAndFindByID(t *testing.T) {
	testDB, repo, fx := setupInfluencerTest(t)
	defer db.CleanupTestDB(testDB)

	inf := createInfluencer(t, testDB, &model.Influencer{
		Name:       "Léa Style",
		FullName:   "Léa Martin",
		Email:      "lea@example.com",
		CategoryID: &fx.fashion.ID,
		StatusID:   &fx.active.ID,
	},
		model.SocialMediaAccount{PlatformID: fx.instagram.ID, Username: "lea.style", FollowersCount: 150000, PostsCount: 320, EngagementRate: ratePtr(4.2)},
		model.SocialMediaAccount{PlatformID: fx.tiktok.ID, Username: "leastyle", FollowersCount: 80000, PostsCount: 95, EngagementRate: ratePtr(6.1)},
	)
	assert.NotZero(t, inf.ID)

	found, err := repo.FindByID(inf.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Category)
	assert.Equal(t, "Mode & Beauté", found.Category.Name)
	require.NotNil(t, found.Status)
	assert.Equal(t, "Active", found.Status.Label)
	require.Len(t, found.SocialAccounts, 2)
	require.NotNil(t, found.SocialAccounts[0].Platform)
	assert.Equal(t, model.PlatformInstagram, found.SocialAccounts[0].Platform.Code)

	metrics := found.Metrics()
	assert.Equal(t, int64(230000), metrics.TotalFollowers)
	assert.Equal(t, int64(2), metrics.PlatformCount)
	require.NotNil(t, metrics.AvgEngagement)
	assert.InDelta(t, 5.15, *metrics.AvgEngagement, 0.0001)

	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInfluencerRepository_DuplicateEmailRejected(t *testing.T) {
	testDB, repo, _ := setupInfluencerTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.Influencer{Name: "A", FullName: "A A", Email: "same@example.com"}))
	err := repo.Create(&model.Influencer{Name: "B", FullName: "B B", Email: "same@example.com"})
	assert.Error(t, err)
}

func TestInfluencerRepository_FindWithFilter(t *testing.T) {
	testDB, repo, fx := setupInfluencerTest(t)
	defer db.CleanupTestDB(testDB)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	lea := createInfluencer(t, testDB, &model.Influencer{
		Name: "Léa Style", FullName: "Lea Martin", Email: "lea@example.com",
		CategoryID: &fx.fashion.ID, NicheKeywords: "mode, beauté", CreatedAt: base,
	},
		model.SocialMediaAccount{PlatformID: fx.instagram.ID, Username: "lea", FollowersCount: 150000, PostsCount: 1},
		model.SocialMediaAccount{PlatformID: fx.tiktok.ID, Username: "lea", FollowersCount: 80000, PostsCount: 1, IsVerified: true},
	)
	tom := createInfluencer(t, testDB, &model.Influencer{
		Name: "TechTom", FullName: "Tom Durand", Email: "tom@example.com",
		CategoryID: &fx.tech.ID, NicheKeywords: "gadgets, 100%_tech", StatusID: &fx.active.ID,
		CreatedAt: base.Add(time.Hour),
	},
		model.SocialMediaAccount{PlatformID: fx.youtube.ID, Username: "techtom", FollowersCount: 500000, PostsCount: 1},
		model.SocialMediaAccount{PlatformID: fx.instagram.ID, Username: "techtom", FollowersCount: 20000, PostsCount: 1},
	)
	nina := createInfluencer(t, testDB, &model.Influencer{
		Name: "Nina", FullName: "Nina Fashion", Email: "nina@brand.io", CreatedAt: base.Add(2 * time.Hour),
	})

	verified := true
	tests := []struct {
		name    string
		filter  InfluencerFilter
		wantIDs []uint
	}{
		{name: "No filter newest first", filter: InfluencerFilter{}, wantIDs: []uint{nina.ID, tom.ID, lea.ID}},
		{name: "By category", filter: InfluencerFilter{CategoryID: &fx.fashion.ID}, wantIDs: []uint{lea.ID}},
		{name: "By platform id", filter: InfluencerFilter{PlatformID: &fx.instagram.ID}, wantIDs: []uint{tom.ID, lea.ID}},
		{name: "By platform code", filter: InfluencerFilter{PlatformCode: model.PlatformYouTube}, wantIDs: []uint{tom.ID}},
		{name: "Search name case insensitive", filter: InfluencerFilter{Search: "TECHTOM"}, wantIDs: []uint{tom.ID}},
		{name: "Search full name", filter: InfluencerFilter{Search: "fashion"}, wantIDs: []uint{nina.ID}},
		{name: "Search keywords", filter: InfluencerFilter{Search: "gadgets"}, wantIDs: []uint{tom.ID}},
		{name: "Search wildcard is literal", filter: InfluencerFilter{Search: "%_"}, wantIDs: []uint{tom.ID}},
		{name: "Whitespace search is not dropped", filter: InfluencerFilter{Search: "  "}, wantIDs: []uint{}},
		{name: "Email ignored by default", filter: InfluencerFilter{Search: "brand.io"}, wantIDs: []uint{}},
		{name: "Email searched when asked", filter: InfluencerFilter{Search: "brand.io", SearchEmail: true}, wantIDs: []uint{nina.ID}},
		{name: "By status", filter: InfluencerFilter{StatusID: &fx.active.ID}, wantIDs: []uint{tom.ID}},
		{name: "Verified account", filter: InfluencerFilter{Verified: &verified}, wantIDs: []uint{lea.ID}},
		{name: "Conjunctive", filter: InfluencerFilter{PlatformID: &fx.instagram.ID, CategoryID: &fx.tech.ID}, wantIDs: []uint{tom.ID}},
		{name: "Conjunctive no match", filter: InfluencerFilter{PlatformID: &fx.youtube.ID, Search: "lea"}, wantIDs: []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindWithFilter(tt.filter)
			require.NoError(t, err)

			ids := make([]uint, 0, len(found))
			for _, inf := range found {
				ids = append(ids, inf.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)

			count, err := repo.CountWithFilter(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.wantIDs)), count)
		})
	}
}

func TestInfluencerRepository_FindWithFilterPaging(t *testing.T) {
	testDB, repo, _ := setupInfluencerTest(t)
	defer db.CleanupTestDB(testDB)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		createInfluencer(t, testDB, &model.Influencer{
			Name:      "Creator",
			FullName:  "Creator Number",
			Email:     string(rune('a'+i)) + "@example.com",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	page, err := repo.FindWithFilter(InfluencerFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, "a@example.com", page[0].Email)

	page, err = repo.FindWithFilter(InfluencerFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestInfluencerRepository_FindMetrics(t *testing.T) {
	testDB, repo, fx := setupInfluencerTest(t)
	defer db.CleanupTestDB(testDB)

	lea := createInfluencer(t, testDB, &model.Influencer{Name: "Lea", FullName: "Lea M", Email: "lea@example.com"},
		model.SocialMediaAccount{PlatformID: fx.instagram.ID, Username: "lea", FollowersCount: 150000, PostsCount: 1, EngagementRate: ratePtr(4.2)},
		model.SocialMediaAccount{PlatformID: fx.tiktok.ID, Username: "lea", FollowersCount: 80000, PostsCount: 1, EngagementRate: ratePtr(6.1)},
	)
	partial := createInfluencer(t, testDB, &model.Influencer{Name: "Sam", FullName: "Sam P", Email: "sam@example.com"},
		model.SocialMediaAccount{PlatformID: fx.instagram.ID, Username: "sam", FollowersCount: 1000, PostsCount: 1, EngagementRate: ratePtr(5)},
		model.SocialMediaAccount{PlatformID: fx.youtube.ID, Username: "sam", FollowersCount: 500, PostsCount: 1},
	)
	empty := createInfluencer(t, testDB, &model.Influencer{Name: "New", FullName: "New Comer", Email: "new@example.com"})

	metrics, err := repo.FindMetrics([]uint{lea.ID, partial.ID, empty.ID})
	require.NoError(t, err)

	m := metrics[lea.ID]
	assert.Equal(t, int64(230000), m.TotalFollowers)
	assert.Equal(t, int64(2), m.PlatformCount)
	require.NotNil(t, m.AvgEngagement)
	assert.InDelta(t, 5.15, *m.AvgEngagement, 0.0001)

	m = metrics[partial.ID]
	assert.Equal(t, int64(1500), m.TotalFollowers)
	require.NotNil(t, m.AvgEngagement)
	assert.InDelta(t, 2.5, *m.AvgEngagement, 0.0001)

	_, ok := metrics[empty.ID]
	assert.False(t, ok)

	none, err := repo.FindMetrics(nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInfluencerRepository_EmailExists(t *testing.T) {
	testDB, repo, _ := setupInfluencerTest(t)
	defer db.CleanupTestDB(testDB)

	inf := createInfluencer(t, testDB, &model.Influencer{Name: "Lea", FullName: "Lea M", Email: "lea@example.com"})

	tests := []struct {
		name      string
		email     string
		excludeID uint
		want      bool
	}{
		{name: "Taken", email: "lea@example.com", want: true},
		{name: "Taken different case", email: "LEA@example.com", want: true},
		{name: "Own email on edit", email: "lea@example.com", excludeID: inf.ID, want: false},
		{name: "Free", email: "other@example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := repo.EmailExists(tt.email, tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestInfluencerRepository_UpdateStatus(t *testing.T) {
	testDB, repo, fx := setupInfluencerTest(t)
	defer db.CleanupTestDB(testDB)

	a := createInfluencer(t, testDB, &model.Influencer{Name: "A", FullName: "A A", Email: "a@example.com"})
	b := createInfluencer(t, testDB, &model.Influencer{Name: "B", FullName: "B B", Email: "b@example.com"})
	createInfluencer(t, testDB, &model.Influencer{Name: "C", FullName: "C C", Email: "c@example.com"})

	updated, err := repo.UpdateStatus([]uint{a.ID, b.ID, 9999}, fx.active.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	count, err := repo.CountWithFilter(InfluencerFilter{StatusID: &fx.active.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestInfluencerRepository_DeleteRemovesAccounts(t *testing.T) {
	testDB, repo, fx := setupInfluencerTest(t)
	defer db.CleanupTestDB(testDB)

	inf := createInfluencer(t, testDB, &model.Influencer{Name: "A", FullName: "A A", Email: "a@example.com"},
		model.SocialMediaAccount{PlatformID: fx.instagram.ID, Username: "a", FollowersCount: 1, PostsCount: 1},
	)

	require.NoError(t, repo.Delete(inf.ID))

	var count int64
	require.NoError(t, testDB.Model(&model.SocialMediaAccount{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.Delete(inf.ID), gorm.ErrRecordNotFound)
}
