package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/taxism/backend/internal/config"
	"github.com/taxism/backend/internal/docstore"
	"github.com/taxism/backend/internal/domain"
	"github.com/taxism/backend/internal/generator"
	"github.com/taxism/backend/internal/logging"
	"github.com/taxism/backend/internal/repository"
	"github.com/taxism/backend/internal/service"
)

func main() {
	defaults := generator.DefaultConfig()
	var (
		profiles   = flag.Int("profiles", defaults.NumProfiles, "number of user profiles to generate")
		assets     = flag.Int("assets", defaults.NumAssets, "number of depreciable assets to generate")
		portfolios = flag.Int("portfolios", defaults.NumPortfolios, "number of portfolios to generate")
		positions  = flag.Int("positions", defaults.PositionsPerPortfolio, "positions per generated portfolio")
		memos      = flag.Int("memos", defaults.NumMemos, "number of defense memos to generate")
		seed       = flag.Int64("seed", defaults.Seed, "random seed for deterministic generation")
		outputDir  = flag.String("output-dir", "", "write the dataset as JSON files instead of seeding the store")
		useStdout  = flag.Bool("stdout", false, "write the dataset to stdout instead of seeding the store")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging).With("component", "seed")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(generator.Config{
		NumProfiles:           *profiles,
		NumAssets:             *assets,
		NumPortfolios:         *portfolios,
		PositionsPerPortfolio: *positions,
		NumMemos:              *memos,
		Seed:                  *seed,
	})
	dataset, err := gen.Generate(ctx)
	if err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}

	if *useStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			logger.Error("failed to write dataset to stdout", "error", err)
			os.Exit(1)
		}
		return
	}

	if *outputDir != "" {
		if err := generator.WriteDataset(dataset, *outputDir); err != nil {
			logger.Error("failed to write dataset", "error", err, "dir", *outputDir)
			os.Exit(1)
		}
		logger.Info("dataset written", "dir", *outputDir)
		return
	}

	storeClient, err := docstore.NewSQLiteClient(docstore.Options{
		Path:         cfg.Store.Path,
		MaxOpenConns: cfg.Store.MaxOpenConns,
	})
	if err != nil {
		logger.Error("failed to open document store", "error", err, "path", cfg.Store.Path)
		os.Exit(1)
	}
	defer func() {
		if err := storeClient.Close(); err != nil {
			logger.Warn("closing document store failed", "error", err)
		}
	}()

	planner := service.NewPlannerService(repository.New(storeClient))

	seeded := 0
	for _, input := range dataset.Profiles {
		if _, err := planner.CreateProfile(ctx, input); err != nil {
			logger.Error("failed to seed profile", "error", err, "email", input.Email)
			os.Exit(1)
		}
		seeded++
	}

	for _, input := range dataset.Assets {
		record, err := planner.CalculateDepreciation(input)
		if err != nil {
			logger.Error("failed to calculate schedule", "error", err, "asset", input.AssetName)
			os.Exit(1)
		}
		if _, err := planner.SaveDepreciation(ctx, toRecordInput(record)); err != nil {
			logger.Error("failed to seed depreciation record", "error", err, "asset", input.AssetName)
			os.Exit(1)
		}
		seeded++
	}

	for _, input := range dataset.Portfolios {
		plan, err := planner.ScanHarvest(input)
		if err != nil {
			logger.Error("failed to scan portfolio", "error", err, "portfolio", input.PortfolioName)
			os.Exit(1)
		}
		if _, err := planner.SaveHarvestPlan(ctx, toPlanInput(plan)); err != nil {
			logger.Error("failed to seed harvest plan", "error", err, "portfolio", input.PortfolioName)
			os.Exit(1)
		}
		seeded++
	}

	for _, input := range dataset.Memos {
		memo, err := planner.GenerateMemo(input)
		if err != nil {
			logger.Error("failed to generate memo", "error", err, "title", input.Title)
			os.Exit(1)
		}
		if _, err := planner.SaveMemo(ctx, service.MemoRecordInput{
			Title:           memo.Title,
			PositionSummary: memo.PositionSummary,
			Citations:       memo.Citations,
			MemoText:        memo.MemoText,
		}); err != nil {
			logger.Error("failed to seed memo", "error", err, "title", input.Title)
			os.Exit(1)
		}
		seeded++
	}

	logger.Info("seeding complete", "documents", seeded, "store", cfg.Store.Path)
}

func toRecordInput(record domain.DepreciationRecord) service.DepreciationRecordInput {
	input := service.DepreciationRecordInput{
		AssetName:       record.AssetName,
		CostBasis:       record.CostBasis,
		PlacedInService: record.PlacedInService,
		Method:          record.Method,
		LifeYears:       record.LifeYears,
	}
	for _, entry := range record.Schedule {
		input.Schedule = append(input.Schedule, service.ScheduleEntryInput{
			Year:   entry.Year,
			Amount: entry.Amount,
		})
	}
	return input
}

func toPlanInput(plan domain.HarvestPlan) service.HarvestPlanInput {
	input := service.HarvestPlanInput{
		PortfolioName:     plan.PortfolioName,
		Threshold:         plan.Threshold,
		PositionsReviewed: plan.PositionsReviewed,
	}
	for _, candidate := range plan.Candidates {
		input.Candidates = append(input.Candidates, service.CandidateInput{
			Symbol:     candidate.Symbol,
			Unrealized: candidate.Unrealized,
			Note:       candidate.Note,
		})
	}
	return input
}
