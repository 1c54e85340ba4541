// Package mock provides test doubles for apsara interfaces using
// function fields.
package mock

import (
	"context"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

// Interface compliance checks.
var (
	_ apsara.Provider       = (*Provider)(nil)
	_ apsara.ImageGenerator = (*Provider)(nil)
)

// Provider is a test double for apsara.Provider and apsara.ImageGenerator.
// Set the function field for each method the test exercises.
type Provider struct {
	GenerateFn       func(ctx context.Context, req apsara.Request) (*apsara.Response, error)
	GenerateImagesFn func(ctx context.Context, req apsara.ImageRequest) ([]apsara.Media, error)
}

// Generate delegates to GenerateFn.
func (p *Provider) Generate(ctx context.Context, req apsara.Request) (*apsara.Response, error) {
	return p.GenerateFn(ctx, req)
}

// GenerateImages delegates to GenerateImagesFn.
func (p *Provider) GenerateImages(ctx context.Context, req apsara.ImageRequest) ([]apsara.Media, error) {
	return p.GenerateImagesFn(ctx, req)
}
