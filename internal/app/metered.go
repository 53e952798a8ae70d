package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/ramonehamilton/MTG-Collection/internal/metrics"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/scryfall"
)

// meteredGateway records latency and outcome of every gateway call.
type meteredGateway struct {
	next    Gateway
	metrics *metrics.GatewayMetrics
}

func newMeteredGateway(next Gateway, m *metrics.GatewayMetrics) *meteredGateway {
	return &meteredGateway{next: next, metrics: m}
}

func (g *meteredGateway) observe(op metrics.Operation, start time.Time, err error) {
	g.metrics.Observe(op, time.Since(start), outcomeOf(err))
}

func outcomeOf(err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case scryfall.IsNotFound(err):
		return metrics.OutcomeNotFound
	case scryfall.IsRateLimited(err):
		return metrics.OutcomeRateLimited
	default:
		return metrics.OutcomeError
	}
}

func (g *meteredGateway) SearchCards(ctx context.Context, query string, page int) (*scryfall.SearchResult, error) {
	start := time.Now()
	res, err := g.next.SearchCards(ctx, query, page)
	g.observe(metrics.OpSearch, start, err)
	return res, err
}

func (g *meteredGateway) GetCard(ctx context.Context, id string) (*models.Card, error) {
	start := time.Now()
	card, err := g.next.GetCard(ctx, id)
	g.observe(metrics.OpCard, start, err)
	return card, err
}

func (g *meteredGateway) FindNamed(ctx context.Context, name, setCode string) (*models.Card, error) {
	start := time.Now()
	card, err := g.next.FindNamed(ctx, name, setCode)
	g.observe(metrics.OpNamed, start, err)
	return card, err
}

func (g *meteredGateway) GetRulings(ctx context.Context, id string) ([]scryfall.Ruling, error) {
	start := time.Now()
	r, err := g.next.GetRulings(ctx, id)
	g.observe(metrics.OpRulings, start, err)
	return r, err
}

func (g *meteredGateway) RandomBackground(ctx context.Context, logger *slog.Logger) (string, error) {
	start := time.Now()
	url, err := g.next.RandomBackground(ctx, logger)
	g.observe(metrics.OpBackground, start, err)
	return url, err
}
