// Package aggregate keeps Timesheet.TotalHours equal to the sum of its
// timelogs' hours.
package aggregate

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Store is the storage the engine reads from and writes to. Implementations
// must honor a transaction carried in ctx.
type Store interface {
	SumHours(ctx context.Context, timesheetID string) (float64, error)
	SetTotalHours(ctx context.Context, timesheetID string, total float64) error
}

// Engine recomputes timesheet totals from scratch. It never applies deltas,
// so running it twice leaves the same result.
type Engine struct {
	store Store
}

// NewEngine creates a new Engine
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Recompute sums the current timelogs of timesheetID and stores the total.
// Call it inside the transaction that mutated the timelogs.
func (e *Engine) Recompute(ctx context.Context, timesheetID string) (float64, error) {
	sum, err := e.store.SumHours(ctx, timesheetID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum hours for timesheet %s: %w", timesheetID, err)
	}

	total := RoundHours(sum)
	if err := e.store.SetTotalHours(ctx, timesheetID, total); err != nil {
		return 0, fmt.Errorf("failed to store total for timesheet %s: %w", timesheetID, err)
	}
	return total, nil
}

// RecomputeAll recomputes every distinct timesheet in ids, in id order.
func (e *Engine) RecomputeAll(ctx context.Context, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	ordered := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	for _, id := range ordered {
		if _, err := e.Recompute(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// RoundHours rounds to the two decimals stored by the hours columns.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
