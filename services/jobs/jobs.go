// Package jobs runs the periodic maintenance of the school records.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/darasa/core"
)

const sweepTimeout = 2 * time.Minute

var nowFunc = time.Now // mockable

// OverdueMarker flags the sent invoices past their due date.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// SweepOverdue runs one overdue pass and logs its outcome.
func SweepOverdue(ctx context.Context, svc OverdueMarker, logger core.Logger) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	n, err := svc.MarkOverdue(ctx, nowFunc().UTC())
	if err != nil {
		logger.Error("marking overdue invoices", err)
		return
	}
	if n > 0 {
		logger.Info(fmt.Sprintf("%d invoice(s) marked overdue", n))
	}
}

// StartOverdueSweeper schedules SweepOverdue on schedule. It returns a nil scheduler when schedule is empty.
// Runs never overlap.
func StartOverdueSweeper(schedule string, svc OverdueMarker, logger core.Logger) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		SweepOverdue(context.Background(), svc, logger)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scheduling overdue sweeper %q", schedule)
	}
	c.Start()
	return c, nil
}
