package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"pierres.shop/app/internal/config"
	"pierres.shop/app/internal/database"
	"pierres.shop/app/internal/modules/auth"
	"pierres.shop/app/internal/modules/categories"
	"pierres.shop/app/internal/modules/products"
	"pierres.shop/app/internal/modules/users"
	"pierres.shop/app/internal/shared/dberr"
	"pierres.shop/app/internal/shared/slug"
)

type seedProduct struct {
	name, category, quality, size string
	priceCents                    int64
	inStock                       int
	seasons                       []string
}

var seedCategories = []struct{ name, desc string }{
	{"Seeds", "Crop seeds for every season"},
	{"Accessories", "Hats, rings and scarves"},
	{"Artisan Goods", "Made in the valley"},
}

var seedProducts = []seedProduct{
	{"Parsnip Seeds", "seeds", products.QualityRegular, "", 2000, 120, []string{"spring"}},
	{"Melon Seeds", "seeds", products.QualityRegular, "", 8000, 40, []string{"summer"}},
	{"Pumpkin Seeds", "seeds", products.QualitySilver, "", 10000, 35, []string{"fall"}},
	{"Blue Scarf", "accessories", products.QualityGold, "Regular", 15000, 3, []string{"fall", "winter"}},
	{"Truffle Oil", "artisan-goods", products.QualityIridium, "Large", 106500, 8, nil},
}

func main() {
	adminEmail := flag.String("admin-email", "pierre@pierres.shop", "Admin email")
	adminPassword := flag.String("admin-password", "", "Admin password (required)")
	flag.Parse()

	if *adminPassword == "" {
		log.Fatal("-admin-password is required")
	}

	_ = godotenv.Load()
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	ctx := context.Background()
	if err := seedCatalog(ctx, db); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	link, err := seedAdmin(ctx, db, cfg.AppBaseURL, *adminEmail, *adminPassword)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if link != "" {
		fmt.Printf("Verify the admin account: %s\n", link)
	}
}

func seedCatalog(ctx context.Context, db *gorm.DB) error {
	cats := categories.NewRepo(db)
	ids := map[string]string{}
	for _, c := range seedCategories {
		s := slug.FromName(c.name, "category")
		cat, err := cats.GetBySlug(ctx, s)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cat, err = cats.Create(ctx, c.name, s, c.desc)
		}
		if err != nil {
			return fmt.Errorf("category %s: %w", s, err)
		}
		ids[s] = cat.ID
	}

	repo := products.NewRepo(db)
	for _, p := range seedProducts {
		_, err := repo.Create(ctx, slug.FromName(p.name, "product"), products.Fields{
			Name:        p.name,
			Description: p.name + " from Pierre's",
			PriceCents:  p.priceCents,
			InStock:     p.inStock,
			Quality:     p.quality,
			CategoryID:  ids[p.category],
			Size:        p.size,
			Seasons:     p.seasons,
		})
		if dberr.IsDuplicateKey(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("product %s: %w", p.name, err)
		}
		fmt.Printf("✓ %s\n", p.name)
	}
	return nil
}

// seedAdmin returns the verification link of a newly created admin, or "" when
// the admin already exists.
func seedAdmin(ctx context.Context, db *gorm.DB, baseURL, email, password string) (string, error) {
	repo := users.NewRepo(db)
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return "", nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	local, _, _ := strings.Cut(email, "@")
	u, err := repo.Create(ctx, users.CreateInput{
		Slug:         slug.FromName(local, "admin"),
		Email:        email,
		PasswordHash: hash,
		Role:         users.RoleAdmin,
		FirstName:    "Pierre",
	})
	if err != nil {
		return "", err
	}

	verify := users.NewVerifyService(db, slog.New(slog.NewTextHandler(io.Discard, nil)), baseURL)
	_, link, err := verify.Issue(ctx, u.ID)
	return link, err
}

