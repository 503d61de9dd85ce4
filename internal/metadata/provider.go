package metadata

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/OldStager01/sales-forecaster/internal/logger"
	"github.com/OldStager01/sales-forecaster/pkg/models"
)

// ErrUnavailable carries the generic message shown when any list fails.
var ErrUnavailable = errors.New("could not load selection lists")

// Source fetches the three reference lists.
type Source interface {
	Regions(ctx context.Context) ([]string, error)
	Products(ctx context.Context) ([]string, error)
	Subcategories(ctx context.Context) ([]string, error)
}

type Provider struct {
	source Source
}

func NewProvider(source Source) *Provider {
	return &Provider{source: source}
}

// Fetch issues the three requests concurrently and succeeds only if all of
// them do. Nothing is cached between calls.
func (p *Provider) Fetch(ctx context.Context) (*models.MetadataSet, error) {
	var set models.MetadataSet

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		regions, err := p.source.Regions(gctx)
		if err != nil {
			return fmt.Errorf("regions: %w", err)
		}
		set.Regions = regions
		return nil
	})
	g.Go(func() error {
		products, err := p.source.Products(gctx)
		if err != nil {
			return fmt.Errorf("products: %w", err)
		}
		set.Products = products
		return nil
	})
	g.Go(func() error {
		subcats, err := p.source.Subcategories(gctx)
		if err != nil {
			return fmt.Errorf("subcategories: %w", err)
		}
		set.Subcategories = subcats
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.FromContext(ctx).Errorf("Failed to load metadata: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	logger.WithFields(map[string]interface{}{
		"regions":       len(set.Regions),
		"products":      len(set.Products),
		"subcategories": len(set.Subcategories),
	}).Debug("Metadata loaded")

	return &set, nil
}
