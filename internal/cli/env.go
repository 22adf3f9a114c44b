package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/storyteller/internal/catalog"
	"github.com/roach88/storyteller/internal/layout"
	"github.com/roach88/storyteller/internal/store"
	"github.com/roach88/storyteller/internal/story"
)

// prepare creates the directory layout and opens the store.
func (o *RootOptions) prepare() (*store.Store, error) {
	if err := layout.Ensure(o.cfg.Root, story.Genres, o.logger); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to prepare working directory", err)
	}
	st, err := o.openStore()
	if err != nil {
		return nil, err
	}
	return st, nil
}

// openStore opens the configured database.
func (o *RootOptions) openStore() (*store.Store, error) {
	path := o.cfg.DatabasePath()
	st, err := store.Open(path, store.WithDriver(o.cfg.Driver))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	o.logger.Debug("database ready", zap.String("path", path), zap.String("driver", o.cfg.Driver))
	return st, nil
}

// reloadCatalog reads the catalog file, checks its images and replaces the
// stored snapshot.
func (o *RootOptions) reloadCatalog(ctx context.Context, st *store.Store) (*catalog.Catalog, error) {
	path := o.cfg.CatalogPath()
	if missing := layout.CheckFiles([]string{path}, o.logger); len(missing) > 0 {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("catalog file %s not found", path))
	}

	c, err := catalog.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	if missing := layout.CheckFiles(c.ImagePaths(o.cfg.Root), o.logger); len(missing) > 0 {
		o.logger.Warn("catalog images missing", zap.Int("count", len(missing)))
	}

	if err := st.SaveCatalog(ctx, c.Entries()); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to store catalog", err)
	}
	o.logger.Info("catalog stored", zap.String("path", path), zap.Int("entries", c.Len()))
	return c, nil
}

// catalog returns the stored snapshot, loading the catalog file on first use.
func (o *RootOptions) catalog(ctx context.Context, st *store.Store) (*catalog.Catalog, error) {
	has, err := st.HasCatalog(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read catalog", err)
	}
	if !has {
		o.logger.Info("no catalog stored, loading file")
		return o.reloadCatalog(ctx, st)
	}

	entries, err := st.LoadCatalog(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read catalog", err)
	}
	c, err := catalog.New(entries)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "stored catalog is invalid; run storyteller init", err)
	}
	return c, nil
}
