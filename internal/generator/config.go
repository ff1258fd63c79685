package generator

// Config controls how much sample data is generated.
type Config struct {
	NumProfiles           int
	NumAssets             int
	NumPortfolios         int
	PositionsPerPortfolio int
	NumMemos              int
	Seed                  int64
}

// DefaultConfig returns the generation defaults used by the seed tool.
func DefaultConfig() Config {
	return Config{
		NumProfiles:           10,
		NumAssets:             8,
		NumPortfolios:         4,
		PositionsPerPortfolio: 12,
		NumMemos:              3,
		Seed:                  42,
	}
}
