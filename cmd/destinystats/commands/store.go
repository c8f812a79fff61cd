package commands

import (
	"context"
	"destinystats/internal/archive"
	"destinystats/internal/pipeline"
	"log/slog"
	"time"
)

// storeResult pushes a finished run to the archive when --archive is set.
func storeResult(ctx context.Context, kind archive.Kind, account string, state pipeline.State) error {
	if !archiveRuns {
		return nil
	}
	store, err := openArchive(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Push(ctx, kind, account, time.Now(), state)
	if err != nil {
		return err
	}
	slog.Info("archived result", "kind", kind, "account", account, "id", id)
	return nil
}
