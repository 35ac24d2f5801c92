package mockserver

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/fleetdash/internal/logging"
)

// Prepare opens the store at dbPath and seeds it when it holds no records.
// An empty seedPath uses the bundled seed.
func Prepare(ctx context.Context, dbPath, seedPath string, logger *zap.Logger) (*Store, error) {
	logger = logging.OrNop(logger)
	store, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	empty, err := store.Empty(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if !empty {
		return store, nil
	}

	var seed io.Reader
	if p := strings.TrimSpace(seedPath); p != "" {
		f, err := os.Open(p)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("open seed: %w", err)
		}
		defer f.Close()
		seed = f
	}
	if err := store.Seed(ctx, seed); err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Info("seeded mock database", zap.String("db", dbPath), zap.String("seed", seedPath))
	return store, nil
}
