package commands

import (
	"context"
	"log/slog"
	"time"

	"slot-capacity-engine/internal/domain/reservation"
	"slot-capacity-engine/internal/pkg/clock"
	"slot-capacity-engine/internal/pkg/config"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReapSummary struct {
	Scanned      int
	Groups       int
	Reaped       int
	Released     int
	FailedGroups int
}

// Reaper cancels holds nobody finished within the hold timeout and gives the
// capacity back, one store adjustment per resource.
type Reaper struct {
	uow         shared.UnitOfWork
	retry       *shared.Coordinator
	emitter     shared.EventEmitter
	clock       clock.Clock
	logger      *slog.Logger
	holdTimeout time.Duration
	batchSize   int32
	interval    time.Duration
}

func NewReaper(
	uow shared.UnitOfWork,
	retry *shared.Coordinator,
	emitter shared.EventEmitter,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.ReaperConfig,
) *Reaper {
	return &Reaper{
		uow:         uow,
		retry:       retry,
		emitter:     emitter,
		clock:       clk,
		logger:      logger,
		holdTimeout: cfg.HoldTimeout,
		batchSize:   cfg.BatchSize,
		interval:    cfg.Interval,
	}
}

type staleGroup struct {
	resourceID uuid.UUID
	ids        []uuid.UUID
}

func (r *Reaper) RunOnce(ctx context.Context) (ReapSummary, error) {
	var summary ReapSummary

	now := r.clock.Now()
	cutoff := now.Add(-r.holdTimeout)

	holds, err := r.uow.CommandReads().StaleHolds(ctx, cutoff, r.batchSize)
	if err != nil {
		return summary, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	summary.Scanned = len(holds)

	groups := groupByResource(holds)
	summary.Groups = len(groups)

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		released, err := r.reapGroup(ctx, g, cutoff, now)
		if err != nil {
			summary.FailedGroups++
			r.logger.Warn("reaper group failed, leaving for next cycle",
				"resource_id", g.resourceID,
				"holds", len(g.ids),
				"error", err.Error())
			continue
		}

		for _, h := range released {
			summary.Reaped++
			summary.Released += h.Quantity
			r.emit(ctx, reservation.NewReapedCancelled(h.ID, g.resourceID, h.Quantity, now))
		}
	}

	return summary, nil
}

// reapGroup cancels the group's holds that are still stale and releases their sum in one adjustment.
func (r *Reaper) reapGroup(ctx context.Context, g staleGroup, cutoff, now time.Time) ([]shared.ReleasedHold, error) {
	var released []shared.ReleasedHold
	err := r.retry.Do(ctx, func(ctx context.Context, attempt int) error {
		released = nil
		return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			res, err := loadResource(ctx, tx.Reads(), g.resourceID)
			if err != nil {
				return err
			}

			moved, err := tx.Reservations().CancelStale(ctx, tx.DB(), g.resourceID, g.ids, cutoff, now)
			if err != nil {
				return storeErr(err, errs.ErrReservationNotFound)
			}
			if len(moved) == 0 {
				return nil
			}

			total := 0
			for _, h := range moved {
				total += h.Quantity
			}
			if _, err := tx.Resources().TryAdjust(ctx, tx.DB(), res.ID(), -total, res.Version()); err != nil {
				return storeErr(err, errs.ErrResourceNotFound)
			}

			released = moved
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// Run ticks until ctx is cancelled. A failed cycle is logged and retried on the next tick.
func (r *Reaper) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	r.logger.Info("reaper started",
		"interval", r.interval.String(),
		"hold_timeout", r.holdTimeout.String())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reaper stopping")
			return
		case <-t.C:
			summary, err := r.RunOnce(ctx)
			if err != nil {
				r.logger.Error("reaper cycle failed", "error", err.Error())
				continue
			}
			if summary.Reaped > 0 || summary.FailedGroups > 0 {
				r.logger.Info("reaper cycle done",
					"scanned", summary.Scanned,
					"reaped", summary.Reaped,
					"released", summary.Released,
					"failed_groups", summary.FailedGroups)
			}
		}
	}
}

func (r *Reaper) emit(ctx context.Context, event reservation.Event) {
	if err := r.emitter.Emit(ctx, event); err != nil {
		r.logger.Warn("failed to emit reaper event",
			"reservation_id", event.ReservationID(),
			"error", err.Error())
	}
}

// groupByResource keeps the scan order of first appearance.
func groupByResource(holds []shared.StaleHold) []staleGroup {
	index := make(map[uuid.UUID]int)
	var groups []staleGroup
	for _, h := range holds {
		i, ok := index[h.ResourceID]
		if !ok {
			i = len(groups)
			index[h.ResourceID] = i
			groups = append(groups, staleGroup{resourceID: h.ResourceID})
		}
		groups[i].ids = append(groups[i].ids, h.ID)
	}
	return groups
}
