package scryfall

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// FindNamed resolves a card by exact name and set. When the set-qualified
// lookup is not found it retries once without the set.
func (c *Client) FindNamed(ctx context.Context, name, setCode string) (*models.Card, error) {
	card, err := c.GetCardNamed(ctx, name, setCode)
	if err == nil || setCode == "" || !IsNotFound(err) {
		return card, err
	}
	return c.GetCardNamed(ctx, name, "")
}

// BackgroundQuery selects cards with striking full art for backgrounds.
const BackgroundQuery = "(is:fullart OR is:borderless) -t:token"

// backgroundBackoff is the delay schedule between background-art attempts.
// The last entry repeats.
var backgroundBackoff = []time.Duration{500 * time.Millisecond, 2 * time.Second}

// RandomBackground fetches random art until it succeeds or ctx ends.
// Every failure, rate limits included, is retried.
func (c *Client) RandomBackground(ctx context.Context, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	for attempt := 0; ; attempt++ {
		card, err := c.RandomCard(ctx, BackgroundQuery)
		if err == nil {
			if img := card.DisplayImage(); img != nil && img.ArtCrop != "" {
				return img.ArtCrop, nil
			}
			err = fmt.Errorf("card %s has no art crop", card.ID)
		}

		delay := backgroundBackoff[min(attempt, len(backgroundBackoff)-1)]
		logger.Warn("Background art fetch failed, retrying", "attempt", attempt+1, "delay", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}
