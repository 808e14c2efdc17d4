// Package ops implements the inbox operations: capture, scan, statistics,
// prioritization, weekly synthesis, and fix. Each operation lives in its own
// file with explicit Input/Output structs; all of them share a Deps bundle
// injected by the caller.
package ops

import (
	"context"

	"go.uber.org/zap"

	"github.com/hpungsan/fern/internal/config"
	"github.com/hpungsan/fern/internal/document"
	"github.com/hpungsan/fern/internal/store"
)

// Classifier classifies a thought. It never fails: degraded service yields
// the fallback classification. Satisfied by *brain.Gateway.
type Classifier interface {
	Classify(ctx context.Context, thought string) document.Classification
}

// Deps bundles the dependencies shared by all operations.
type Deps struct {
	Store      *store.Store
	Config     *config.Config
	Classifier Classifier
	Logger     *zap.Logger
}

// NewDeps creates a Deps bundle, substituting a no-op logger when none is
// given.
func NewDeps(st *store.Store, cfg *config.Config, classifier Classifier, logger *zap.Logger) *Deps {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deps{Store: st, Config: cfg, Classifier: classifier, Logger: logger}
}

func (d *Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
