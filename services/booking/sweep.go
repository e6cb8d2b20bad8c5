package booking

import (
	"context"
	"fmt"

	"spabook/models"

	"go.uber.org/zap"
)

// ExpireOverdue expires pending bookings whose response deadline has passed
// and returns how many it expired. It covers deadlines whose in-process
// timers were lost, for example across a restart.
func (c *Coordinator) ExpireOverdue(ctx context.Context, limit int64) (int, error) {
	overdue, err := c.bookings.FindOverdue(ctx, c.now().UTC(), limit)
	if err != nil {
		return 0, &StoreError{Op: "find overdue bookings", Err: err}
	}

	expired := 0
	var failures int
	for _, b := range overdue {
		if ctx.Err() != nil {
			break
		}
		res, err := c.Transition(ctx, b.BookingID, models.StatusExpired, ReasonResponseTimeout)
		if err != nil {
			failures++
			c.logger.Warn("Sweep could not expire booking", zap.String("bookingId", b.BookingID), zap.Error(err))
			continue
		}
		if res.Applied {
			expired++
		}
	}

	if len(overdue) > 0 {
		c.logger.Info("Expiry sweep finished",
			zap.Int("overdue", len(overdue)),
			zap.Int("expired", expired),
			zap.Int("failed", failures),
		)
	}
	if failures > 0 {
		return expired, fmt.Errorf("expiry sweep: %d of %d bookings failed", failures, len(overdue))
	}
	return expired, ctx.Err()
}
