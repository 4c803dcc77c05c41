package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/etnz/maney"
)

func (c *Client) assetPath(id int64) string {
	return c.cfg.Endpoints.Asset + "/" + strconv.FormatInt(id, 10)
}

// Portfolio fetches the portfolio of the authenticated user.
func (c *Client) Portfolio(ctx context.Context) (maney.Portfolio, error) {
	var p maney.Portfolio
	if err := c.query(ctx, request{op: OpPortfolio, method: http.MethodGet, path: c.cfg.Endpoints.Portfolio, out: &p}); err != nil {
		return maney.Portfolio{}, err
	}
	return p, nil
}

// Asset fetches one asset.
func (c *Client) Asset(ctx context.Context, id int64) (maney.IlliquidAsset, error) {
	var a maney.IlliquidAsset
	if err := c.query(ctx, request{op: OpAsset, method: http.MethodGet, path: c.assetPath(id), out: &a}); err != nil {
		return maney.IlliquidAsset{}, err
	}
	return a, nil
}

// CreateAsset persists a new asset and returns it with its identifier.
func (c *Client) CreateAsset(ctx context.Context, draft maney.IlliquidAsset) (maney.IlliquidAsset, error) {
	draft.ID = 0
	var a maney.IlliquidAsset
	if err := c.mutate(ctx, request{op: OpCreateAsset, method: http.MethodPost, path: c.cfg.Endpoints.Asset, body: draft, out: &a}); err != nil {
		return maney.IlliquidAsset{}, err
	}
	return a, nil
}

// UpdateAsset replaces every field of the asset id.
func (c *Client) UpdateAsset(ctx context.Context, id int64, draft maney.IlliquidAsset) (maney.IlliquidAsset, error) {
	draft.ID = id
	var a maney.IlliquidAsset
	if err := c.mutate(ctx, request{op: OpUpdateAsset, method: http.MethodPut, path: c.assetPath(id), body: draft, out: &a}); err != nil {
		return maney.IlliquidAsset{}, err
	}
	return a, nil
}

// DeleteAsset removes the asset id.
func (c *Client) DeleteAsset(ctx context.Context, id int64) error {
	return c.mutate(ctx, request{op: OpDeleteAsset, method: http.MethodDelete, path: c.assetPath(id)})
}
