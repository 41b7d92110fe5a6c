package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/influencehub/influencehub-backend/internal/app/model"
	"github.com/influencehub/influencehub-backend/internal/app/service"
	"github.com/xuri/excelize/v2"
)

// importRow is one spreadsheet line turned into a registration
type importRow struct {
	Line  int // 1-based, as shown by spreadsheet software
	Input service.RegistrationInput
}

// rowProblem is a line that could not be turned into a registration
type rowProblem struct {
	Line   int
	Reason string
}

// sheetColumns maps lowercase header names to column indexes
type sheetColumns map[string]int

func (cols sheetColumns) get(row []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// readInfluencersFromXLSX reads the first sheet. The header row names the
// columns: name, full_name, email, phone, bio, category, niche_keywords,
// location, engagement_rate, profile_image, and for each platform code
// <code>_username, <code>_followers, <code>_following, <code>_posts,
// <code>_engagement, <code>_verified (e.g. instagram_followers).
func readInfluencersFromXLSX(filePath string, platforms []model.Platform, categories []model.Category) ([]importRow, []rowProblem, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	cols := sheetColumns{}
	for i, header := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{"name", "full_name", "email"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", required)
		}
	}

	categoryIDs := make(map[string]uint, len(categories))
	for _, c := range categories {
		categoryIDs[strings.ToLower(c.Name)] = c.ID
	}

	var imported []importRow
	var problems []rowProblem
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}

		input, err := parseInfluencerRow(cols, row, platforms, categoryIDs)
		if err != nil {
			problems = append(problems, rowProblem{Line: line, Reason: err.Error()})
			continue
		}
		imported = append(imported, importRow{Line: line, Input: input})
	}
	return imported, problems, nil
}

func parseInfluencerRow(cols sheetColumns, row []string, platforms []model.Platform, categoryIDs map[string]uint) (service.RegistrationInput, error) {
	input := service.RegistrationInput{
		InfluencerInput: service.InfluencerInput{
			Name:          cols.get(row, "name"),
			FullName:      cols.get(row, "full_name"),
			Email:         cols.get(row, "email"),
			Phone:         cols.get(row, "phone"),
			Bio:           cols.get(row, "bio"),
			NicheKeywords: cols.get(row, "niche_keywords"),
			Location:      cols.get(row, "location"),
			ProfileImage:  cols.get(row, "profile_image"),
		},
	}

	if name := cols.get(row, "category"); name != "" {
		id, ok := categoryIDs[strings.ToLower(name)]
		if !ok {
			return input, fmt.Errorf("unknown category %q", name)
		}
		input.CategoryID = &id
	}

	rate, err := parseFloatCell(cols.get(row, "engagement_rate"))
	if err != nil {
		return input, fmt.Errorf("engagement_rate: %w", err)
	}
	input.EngagementRate = rate

	for _, p := range platforms {
		prefix := strings.ToLower(string(p.Code)) + "_"
		username := cols.get(row, prefix+"username")
		if username == "" {
			continue
		}

		platformID := p.ID
		account := service.SocialAccountInput{
			PlatformID: &platformID,
			Username:   username,
		}
		if account.FollowersCount, err = parseIntCell(cols.get(row, prefix+"followers")); err != nil {
			return input, fmt.Errorf("%sfollowers: %w", prefix, err)
		}
		if account.FollowingCount, err = parseIntCell(cols.get(row, prefix+"following")); err != nil {
			return input, fmt.Errorf("%sfollowing: %w", prefix, err)
		}
		if account.PostsCount, err = parseIntCell(cols.get(row, prefix+"posts")); err != nil {
			return input, fmt.Errorf("%sposts: %w", prefix, err)
		}
		if account.EngagementRate, err = parseFloatCell(cols.get(row, prefix+"engagement")); err != nil {
			return input, fmt.Errorf("%sengagement: %w", prefix, err)
		}
		if verified := cols.get(row, prefix+"verified"); verified != "" {
			account.IsVerified, _ = strconv.ParseBool(strings.ToLower(verified))
		}
		input.SocialAccounts = append(input.SocialAccounts, account)
	}
	return input, nil
}

// parseIntCell reads counts such as "150000" or "150 000"; empty means absent
func parseIntCell(raw string) (*int64, error) {
	raw = strings.NewReplacer(" ", "", "\u00a0", "", ",", "").Replace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a whole number", raw)
	}
	return &v, nil
}

// parseFloatCell accepts both "4.2" and "4,2"; empty means absent
func parseFloatCell(raw string) (*float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	raw = strings.TrimSuffix(raw, "%")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	return &v, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
