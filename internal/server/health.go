package server

import (
	"context"

	"github.com/taxism/backend/internal/docstore"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// StoreHealthService verifies document-store connectivity as part of
// health checks.
type StoreHealthService struct {
	Client docstore.Client
}

// Probe implements the HealthService interface.
func (s StoreHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Ping(ctx)
}
