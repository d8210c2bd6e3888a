package pipeline

import (
	"fmt"
	"strings"

	"nudge/internal/types"
)

// KeyFunc derives the deduplication identity for a record. An empty key
// drops the record from the deduplicated output entirely.
type KeyFunc func(*types.Record) string

// EmailKey keys records by trimmed email address.
func EmailKey(rec *types.Record) string {
	return rec.Email()
}

// PhoneKey keys records by normalized 10-digit phone. A phone that is
// present but malformed keys on its raw string form instead, so the record
// stays in the flow and the messaging channel can report the skip with a
// reason code; only a fully absent phone drops the record here.
func PhoneKey(rec *types.Record) string {
	raw := rec.CustomerDetails.Phone
	if raw == nil {
		return ""
	}
	if phone, ok := types.NormalizePhone(raw); ok {
		return phone
	}
	return strings.TrimSpace(fmt.Sprint(raw))
}

// Dedupe collapses records to one per identity key. The most recent record
// by decoded createdAt wins; on an exact tie the first-seen record is kept.
// An undecodable createdAt sorts as oldest possible, so it always loses to
// a decodable one and never displaces an existing entry. Output order is
// the insertion order of first-seen keys.
func Dedupe(records []types.Record, key KeyFunc) []types.Record {
	index := make(map[string]int, len(records))
	var out []types.Record

	for i := range records {
		k := key(&records[i])
		if k == "" {
			continue
		}

		at, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, records[i])
			continue
		}

		existing, _ := out[at].CreatedAtTime()
		candidate, _ := records[i].CreatedAtTime()
		if candidate.After(existing) {
			out[at] = records[i]
		}
	}

	return out
}
