package repository

import (
	"testing"

	"github.com/influencehub/influencehub-backend/internal/app/model"
	"github.com/influencehub/influencehub-backend/internal/db"
	apperrors "github.com/influencehub/influencehub-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSocialAccountRepository_UniquePerPlatform(t *testing.T) {
	testDB, _, fx := setupInfluencerTest(t)
	defer db.CleanupTestDB(testDB)

	repo := NewSocialAccountRepository(testDB)
	inf := createInfluencer(t, testDB, &model.Influencer{Name: "A", FullName: "A A", Email: "a@example.com"},
		model.SocialMediaAccount{PlatformID: fx.instagram.ID, Username: "first", FollowersCount: 1, PostsCount: 1},
	)

	err := repo.CreateBatch([]model.SocialMediaAccount{
		{InfluencerID: inf.ID, PlatformID: fx.instagram.ID, Username: "second", FollowersCount: 1, PostsCount: 1},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateKey(err))
}

func accountsOf(testDB *gorm.DB, influencerID uint) ([]model.SocialMediaAccount, error) {
	var accounts []model.SocialMediaAccount
	err := testDB.Where("influencer_id = ?", influencerID).Order("id ASC").Find(&accounts).Error
	return accounts, err
}

func TestSocialAccountRepository_UpdateAndDelete(t *testing.T) {
	testDB, _, fx := setupInfluencerTest(t)
	defer db.CleanupTestDB(testDB)

	repo := NewSocialAccountRepository(testDB)
	owner := createInfluencer(t, testDB, &model.Influencer{Name: "A", FullName: "A A", Email: "a@example.com"},
		model.SocialMediaAccount{PlatformID: fx.instagram.ID, Username: "a.insta", FollowersCount: 10, PostsCount: 1},
		model.SocialMediaAccount{PlatformID: fx.tiktok.ID, Username: "a.tok", FollowersCount: 20, PostsCount: 1},
	)
	other := createInfluencer(t, testDB, &model.Influencer{Name: "B", FullName: "B B", Email: "b@example.com"},
		model.SocialMediaAccount{PlatformID: fx.instagram.ID, Username: "b.insta", FollowersCount: 30, PostsCount: 1},
	)

	accounts, err := accountsOf(testDB, owner.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	accounts[0].FollowersCount = 99
	require.NoError(t, repo.Update(&accounts[0]))

	otherAccounts, err := accountsOf(testDB, other.ID)
	require.NoError(t, err)
	require.Len(t, otherAccounts, 1)

	// ids of another influencer are ignored
	deleted, err := repo.DeleteByIDs(owner.ID, []uint{accounts[1].ID, otherAccounts[0].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	accounts, err = accountsOf(testDB, owner.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(99), accounts[0].FollowersCount)

	otherAccounts, err = accountsOf(testDB, other.ID)
	require.NoError(t, err)
	assert.Len(t, otherAccounts, 1)
}

func TestSocialAccountRepository_FindWithFilter(t *testing.T) {
	testDB, _, fx := setupInfluencerTest(t)
	defer db.CleanupTestDB(testDB)

	repo := NewSocialAccountRepository(testDB)
	createInfluencer(t, testDB, &model.Influencer{Name: "Lea Style", FullName: "Lea M", Email: "lea@example.com"},
		model.SocialMediaAccount{PlatformID: fx.instagram.ID, Username: "lea.style", FollowersCount: 150000, PostsCount: 1, IsVerified: true},
		model.SocialMediaAccount{PlatformID: fx.tiktok.ID, Username: "leastyle", FollowersCount: 80000, PostsCount: 1},
	)
	createInfluencer(t, testDB, &model.Influencer{Name: "Tom", FullName: "Tom D", Email: "tom@gadgets.io"},
		model.SocialMediaAccount{PlatformID: fx.youtube.ID, Username: "techtom", FollowersCount: 500000, PostsCount: 1},
	)

	verified := true
	tests := []struct {
		name          string
		filter        SocialAccountFilter
		wantUsernames []string
	}{
		{name: "All by followers", filter: SocialAccountFilter{}, wantUsernames: []string{"techtom", "lea.style", "leastyle"}},
		{name: "By platform", filter: SocialAccountFilter{PlatformID: &fx.tiktok.ID}, wantUsernames: []string{"leastyle"}},
		{name: "Verified only", filter: SocialAccountFilter{Verified: &verified}, wantUsernames: []string{"lea.style"}},
		{name: "Search username", filter: SocialAccountFilter{Search: "TECH"}, wantUsernames: []string{"techtom"}},
		{name: "Search owner email", filter: SocialAccountFilter{Search: "gadgets.io"}, wantUsernames: []string{"techtom"}},
		{name: "Search owner name", filter: SocialAccountFilter{Search: "lea style"}, wantUsernames: []string{"lea.style", "leastyle"}},
		{name: "Limited", filter: SocialAccountFilter{Limit: 1, Offset: 1}, wantUsernames: []string{"lea.style"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := repo.FindWithFilter(tt.filter)
			require.NoError(t, err)

			usernames := make([]string, 0, len(rows))
			for _, row := range rows {
				usernames = append(usernames, row.Username)
				assert.NotEmpty(t, row.InfluencerEmail)
				require.NotNil(t, row.Platform)
			}
			assert.Equal(t, tt.wantUsernames, usernames)
		})
	}

	count, err := repo.CountWithFilter(SocialAccountFilter{Search: "lea"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
