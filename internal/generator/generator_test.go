package generator

import (
	"context"
	"testing"

	"github.com/taxism/backend/internal/domain"
)

func TestGenerateHonorsCounts(t *testing.T) {
	gen := New(Config{
		NumProfiles:           4,
		NumAssets:             3,
		NumPortfolios:         2,
		PositionsPerPortfolio: 5,
		NumMemos:              2,
		Seed:                  7,
	})

	dataset, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dataset.Profiles) != 4 {
		t.Errorf("expected 4 profiles, got %d", len(dataset.Profiles))
	}
	if len(dataset.Assets) != 3 {
		t.Errorf("expected 3 assets, got %d", len(dataset.Assets))
	}
	if len(dataset.Portfolios) != 2 {
		t.Errorf("expected 2 portfolios, got %d", len(dataset.Portfolios))
	}
	for i, portfolio := range dataset.Portfolios {
		if len(portfolio.Positions) != 5 {
			t.Errorf("portfolio %d: expected 5 positions, got %d", i, len(portfolio.Positions))
		}
	}
	if len(dataset.Memos) != 2 {
		t.Errorf("expected 2 memos, got %d", len(dataset.Memos))
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	cfg := Config{Seed: 42}

	first, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := New(cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Profiles) != len(second.Profiles) {
		t.Fatalf("profile counts differ: %d vs %d", len(first.Profiles), len(second.Profiles))
	}
	for i := range first.Profiles {
		if first.Profiles[i].FullName != second.Profiles[i].FullName {
			t.Errorf("profile %d: names differ: %q vs %q", i, first.Profiles[i].FullName, second.Profiles[i].FullName)
		}
		if first.Profiles[i].Email != second.Profiles[i].Email {
			t.Errorf("profile %d: emails differ: %q vs %q", i, first.Profiles[i].Email, second.Profiles[i].Email)
		}
	}
	for i := range first.Assets {
		if !first.Assets[i].CostBasis.Equal(second.Assets[i].CostBasis) {
			t.Errorf("asset %d: cost basis differs: %s vs %s", i, first.Assets[i].CostBasis, second.Assets[i].CostBasis)
		}
	}
}

func TestGeneratedProfilesPassValidation(t *testing.T) {
	dataset, err := New(Config{Seed: 42}).Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, profile := range dataset.Profiles {
		_, err := domain.NewUserProfile(domain.NewUserProfileParams{
			FullName:       profile.FullName,
			Email:          profile.Email,
			Country:        profile.Country,
			FilingStatus:   profile.FilingStatus,
			EmploymentType: profile.EmploymentType,
			Entities:       profile.Entities,
			RiskTolerance:  profile.RiskTolerance,
		})
		if err != nil {
			t.Errorf("profile %d failed validation: %v", i, err)
		}
	}
}

func TestGeneratedAssetsWithinLifeRange(t *testing.T) {
	dataset, err := New(Config{Seed: 42}).Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, asset := range dataset.Assets {
		if err := domain.ValidateLifeYears(asset.LifeYears); err != nil {
			t.Errorf("asset %d: life years %d out of range: %v", i, asset.LifeYears, err)
		}
		if err := domain.ValidateCostBasis(asset.CostBasis); err != nil {
			t.Errorf("asset %d: cost basis %s rejected: %v", i, asset.CostBasis, err)
		}
	}
}

func TestGenerateStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(Config{Seed: 42}).Generate(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
