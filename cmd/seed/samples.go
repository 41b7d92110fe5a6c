package main

import (
	"github.com/influencehub/influencehub-backend/internal/app/model"
	"github.com/influencehub/influencehub-backend/internal/app/service"
)

type sampleAccount struct {
	platform   model.PlatformCode
	username   string
	followers  int64
	following  int64
	posts      int64
	engagement float64
	verified   bool
}

type sampleInfluencer struct {
	influencer service.InfluencerInput
	category   string
	engagement float64
	accounts   []sampleAccount
}

var sampleInfluencers = []sampleInfluencer{
	{
		influencer: service.InfluencerInput{
			Name:          "Marie Dubois",
			FullName:      "Marie Dubois",
			Email:         "marie.dubois@example.com",
			Phone:         "+33123456789",
			Bio:           "Passionnée de mode et de beauté, je partage mes conseils styling et mes découvertes cosmétiques avec ma communauté.",
			NicheKeywords: "mode, beauté, styling, cosmétiques",
			Location:      "Paris, France",
		},
		category:   "Mode & Beauté",
		engagement: 5.1,
		accounts: []sampleAccount{
			{platform: model.PlatformInstagram, username: "marie_style", followers: 150000, following: 850, posts: 620, engagement: 4.2, verified: true},
			{platform: model.PlatformTikTok, username: "marie_beauty", followers: 80000, following: 1200, posts: 310, engagement: 6.1},
		},
	},
	{
		influencer: service.InfluencerInput{
			Name:          "TechGuru Alex",
			FullName:      "Alexandre Martin",
			Email:         "alex.martin@example.com",
			Bio:           "Expert en nouvelles technologies, tests de gadgets et conseils tech pour le grand public.",
			NicheKeywords: "technologie, gadgets, smartphones, IA",
			Location:      "Lyon, France",
		},
		category:   "Technologie",
		engagement: 3.4,
		accounts: []sampleAccount{
			{platform: model.PlatformYouTube, username: "TechGuruAlex", followers: 250000, following: 540, posts: 430, engagement: 3.8, verified: true},
			{platform: model.PlatformTwitter, username: "alextech", followers: 45000, following: 1900, posts: 980, engagement: 2.9},
		},
	},
	{
		influencer: service.InfluencerInput{
			Name:          "Fitness Sarah",
			FullName:      "Sarah Johnson",
			Email:         "sarah.johnson@example.com",
			Bio:           "Coach sportif certifiée, je vous accompagne dans votre transformation physique et mentale.",
			NicheKeywords: "fitness, musculation, nutrition, wellness",
			Location:      "Nice, France",
		},
		category:   "Fitness & Sport",
		engagement: 4.7,
		accounts: []sampleAccount{
			{platform: model.PlatformInstagram, username: "fitness_sarah", followers: 95000, following: 700, posts: 540, engagement: 5.2},
			{platform: model.PlatformYouTube, username: "SarahFitness", followers: 120000, following: 150, posts: 210, engagement: 4.1, verified: true},
		},
	},
}

// registration resolves the sample's category and platforms against the
// stored reference data. The samples start ACTIVE.
func (s sampleInfluencer) registration(platformIDs map[model.PlatformCode]uint, categoryIDs map[string]uint, activeStatusID uint) service.RegistrationInput {
	input := service.RegistrationInput{InfluencerInput: s.influencer}

	if id, ok := categoryIDs[s.category]; ok {
		input.CategoryID = &id
	}
	if activeStatusID != 0 {
		input.StatusID = &activeStatusID
	}
	engagement := s.engagement
	input.EngagementRate = &engagement

	for _, acc := range s.accounts {
		platformID, ok := platformIDs[acc.platform]
		if !ok {
			continue
		}
		input.SocialAccounts = append(input.SocialAccounts, service.SocialAccountInput{
			PlatformID:     &platformID,
			Username:       acc.username,
			FollowersCount: &acc.followers,
			FollowingCount: &acc.following,
			PostsCount:     &acc.posts,
			EngagementRate: &acc.engagement,
			IsVerified:     acc.verified,
		})
	}
	return input
}
