// Package pipeline implements the notification pipeline: fetch every record
// from a product line's collection, filter for eligibility, deduplicate by
// contact identity, then drain the survivors through the batch dispatcher.
// One Run is one full pass over one collection for one channel; nothing is
// persisted between runs.
package pipeline

import (
	"time"

	"nudge/internal/catalog"
	"nudge/internal/types"
)

// Eligible is the composite dispatch predicate. All rules must pass:
//
//  1. status is exactly "created" (case-sensitive); paid orders are done.
//  2. a course marker resolves under the line's rules.
//  3. when minAge > 0 (messaging only): the record is at least minAge old.
//     An undecodable createdAt fails this check closed.
//
// Pure predicate, no side effects.
func Eligible(rec *types.Record, line *catalog.ProductLine, minAge time.Duration, now time.Time) bool {
	if rec.Status != types.StatusCreated {
		return false
	}
	if !line.HasCourseMarker(rec) {
		return false
	}
	if minAge > 0 {
		created, ok := rec.CreatedAtTime()
		if !ok {
			return false
		}
		if now.Sub(created) < minAge {
			return false
		}
	}
	return true
}

// Filter returns the eligible subset of records, preserving input order.
func Filter(records []types.Record, line *catalog.ProductLine, minAge time.Duration, now time.Time) []types.Record {
	var eligible []types.Record
	for i := range records {
		if Eligible(&records[i], line, minAge, now) {
			eligible = append(eligible, records[i])
		}
	}
	return eligible
}
