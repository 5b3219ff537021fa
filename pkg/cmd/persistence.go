package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/engagekit/engage/pkg/persistence"
	"github.com/engagekit/engage/pkg/persistence/file"
	"github.com/engagekit/engage/pkg/persistence/postgresql"
)

// NewPersistence creates a persistence backend from a database URL. The URL
// scheme selects the backend; anything unrecognized falls back to files.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create PostgreSQL persistence: %w", err))
		}

		return p
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return scheme
}
