package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/influencehub/influencehub-backend/config"
	"github.com/influencehub/influencehub-backend/internal/app/model"
	"github.com/influencehub/influencehub-backend/internal/app/repository"
	"github.com/influencehub/influencehub-backend/internal/app/service"
	"github.com/influencehub/influencehub-backend/internal/db"
	"github.com/influencehub/influencehub-backend/internal/middleware"
	"github.com/influencehub/influencehub-backend/pkg/logger"
	"github.com/influencehub/influencehub-backend/pkg/util"
)

func main() {
	xlsxPath := flag.String("xlsx", "", "import influencers from this xlsx file")
	samples := flag.Bool("samples", false, "register the demo influencers")
	assumeYes := flag.Bool("yes", false, "do not ask for confirmation before importing")
	tokenEmail := flag.String("token-email", "", "print a staff token pair for this email and exit")
	tokenRole := flag.String("token-role", string(middleware.RoleViewer), "role of the issued token: ADMIN, MANAGER or VIEWER")
	tokenUserID := flag.Uint("token-user-id", 1, "user id carried by the issued token")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "access token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if *tokenEmail != "" {
		if err := issueToken(cfg, uint(*tokenUserID), *tokenEmail, middleware.Role(*tokenRole), *tokenTTL); err != nil {
			logger.Fatal("Failed to issue token", err)
		}
		return
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	conn := db.GetDB()
	referenceRepo := repository.NewReferenceRepository(conn)
	influencerService := service.NewInfluencerService(
		repository.NewInfluencerRepository(conn),
		repository.NewSocialAccountRepository(conn),
		referenceRepo,
		conn,
	)

	report, err := service.NewReferenceService(referenceRepo, nil).SetupReferenceData()
	if err != nil {
		logger.Fatal("Failed to set up reference data", err)
	}
	fmt.Printf("Reference data: %d platform(s), %d status(es), %d categorie(s) created\n",
		report.Platforms, report.Statuses, report.Categories)

	platforms, err := referenceRepo.ListPlatforms()
	if err != nil {
		logger.Fatal("Failed to load platforms", err)
	}
	categories, err := referenceRepo.ListCategories()
	if err != nil {
		logger.Fatal("Failed to load categories", err)
	}

	if *samples {
		registerSamples(influencerService, referenceRepo, platforms, categories)
	}

	if *xlsxPath != "" {
		importXLSX(influencerService, *xlsxPath, platforms, categories, *assumeYes)
	}
}

func issueToken(cfg *config.Config, userID uint, email string, role middleware.Role, ttl time.Duration) error {
	switch role {
	case middleware.RoleAdmin, middleware.RoleManager, middleware.RoleViewer:
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	tokens, err := util.GenerateTokenPair(userID, email, string(role), cfg.JWT.Secret, ttl, 7*ttl)
	if err != nil {
		return err
	}

	fmt.Printf("access_token:  %s\n", tokens.AccessToken)
	fmt.Printf("refresh_token: %s\n", tokens.RefreshToken)
	fmt.Printf("expires_at:    %s\n", time.Now().Add(ttl).Format(time.RFC3339))
	return nil
}

func registerSamples(svc service.InfluencerService, referenceRepo repository.ReferenceRepository, platforms []model.Platform, categories []model.Category) {
	platformIDs := make(map[model.PlatformCode]uint, len(platforms))
	for _, p := range platforms {
		platformIDs[p.Code] = p.ID
	}
	categoryIDs := make(map[string]uint, len(categories))
	for _, c := range categories {
		categoryIDs[c.Name] = c.ID
	}

	var activeStatusID uint
	if active, err := referenceRepo.FindStatusByCode(model.StatusActive); err == nil {
		activeStatusID = active.ID
	}

	created := 0
	for _, sample := range sampleInfluencers {
		_, err := svc.RegisterInfluencer(sample.registration(platformIDs, categoryIDs, activeStatusID))
		if err != nil {
			if verr, ok := service.AsValidationError(err); ok {
				fmt.Printf("Skipped %s: %s\n", sample.influencer.Email, verr.Error())
				continue
			}
			logger.Fatal("Failed to register sample influencer", err, map[string]interface{}{
				"email": sample.influencer.Email,
			})
		}
		created++
	}
	fmt.Printf("Sample influencers created: %d\n", created)
}

func importXLSX(svc service.InfluencerService, path string, platforms []model.Platform, categories []model.Category, assumeYes bool) {
	fmt.Printf("Reading XLSX file: %s\n", path)
	rows, problems, err := readInfluencersFromXLSX(path, platforms, categories)
	if err != nil {
		logger.Fatal("Failed to read XLSX", err)
	}
	for _, p := range problems {
		fmt.Printf("Line %d skipped: %s\n", p.Line, p.Reason)
	}

	fmt.Printf("Total influencers to import: %d\n", len(rows))
	if len(rows) == 0 {
		return
	}

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	// every row goes through the same validation as an API registration
	imported, rejected := 0, 0
	for _, row := range rows {
		if _, err := svc.RegisterInfluencer(row.Input); err != nil {
			if verr, ok := service.AsValidationError(err); ok {
				rejected++
				fmt.Printf("Line %d rejected: %s\n", row.Line, verr.Error())
				continue
			}
			logger.Error("Import stopped", err, map[string]interface{}{
				"line": row.Line,
			})
			os.Exit(1)
		}
		imported++
	}

	fmt.Println("Import completed!")
	fmt.Printf("Imported: %d, rejected: %d, unreadable: %d\n", imported, rejected, len(problems))
}
