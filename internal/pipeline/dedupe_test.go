package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nudge/internal/types"
)

func recordWithEmail(email string, createdAt any) types.Record {
	return types.Record{
		CustomerDetails: types.CustomerDetails{Email: email},
		CreatedAt:       createdAt,
	}
}

func TestDedupeLatestWins(t *testing.T) {
	earlier := "2025-06-15T10:00:00Z"
	later := "2025-06-15T11:00:00Z"

	t.Run("later record replaces earlier", func(t *testing.T) {
		records := []types.Record{
			recordWithEmail("a@x.com", earlier),
			recordWithEmail("a@x.com", later),
		}
		got := Dedupe(records, EmailKey)

		require.Len(t, got, 1)
		at, ok := got[0].CreatedAtTime()
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC), at)
	})

	t.Run("earlier record does not replace later", func(t *testing.T) {
		records := []types.Record{
			recordWithEmail("a@x.com", later),
			recordWithEmail("a@x.com", earlier),
		}
		got := Dedupe(records, EmailKey)

		require.Len(t, got, 1)
		at, _ := got[0].CreatedAtTime()
		assert.Equal(t, time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC), at)
	})

	t.Run("exact tie keeps first seen", func(t *testing.T) {
		first := recordWithEmail("a@x.com", earlier)
		first.CourseType = "first"
		second := recordWithEmail("a@x.com", earlier)
		second.CourseType = "second"

		got := Dedupe([]types.Record{first, second}, EmailKey)

		require.Len(t, got, 1)
		assert.Equal(t, "first", got[0].CourseType)
	})

	t.Run("unknown timestamp never displaces", func(t *testing.T) {
		known := recordWithEmail("a@x.com", earlier)
		unknown := recordWithEmail("a@x.com", map[string]any{"bad": "shape"})

		got := Dedupe([]types.Record{known, unknown}, EmailKey)

		require.Len(t, got, 1)
		_, ok := got[0].CreatedAtTime()
		assert.True(t, ok)
	})
}

func TestDedupeSkipsEmptyKeys(t *testing.T) {
	records := []types.Record{
		recordWithEmail("", "2025-06-15T10:00:00Z"),
		recordWithEmail("a@x.com", "2025-06-15T10:00:00Z"),
	}

	got := Dedupe(records, EmailKey)

	require.Len(t, got, 1)
	assert.Equal(t, "a@x.com", got[0].Email())
}

func TestDedupePreservesFirstSeenOrder(t *testing.T) {
	records := []types.Record{
		recordWithEmail("a@x.com", "2025-06-15T10:00:00Z"),
		recordWithEmail("b@x.com", "2025-06-15T10:00:00Z"),
		recordWithEmail("a@x.com", "2025-06-15T12:00:00Z"),
		recordWithEmail("c@x.com", "2025-06-15T10:00:00Z"),
	}

	got := Dedupe(records, EmailKey)

	require.Len(t, got, 3)
	assert.Equal(t, "a@x.com", got[0].Email())
	assert.Equal(t, "b@x.com", got[1].Email())
	assert.Equal(t, "c@x.com", got[2].Email())
	// The a@x.com slot holds the later record's data.
	at, _ := got[0].CreatedAtTime()
	assert.Equal(t, 12, at.Hour())
}

func TestPhoneKey(t *testing.T) {
	t.Run("normalized phone", func(t *testing.T) {
		rec := types.Record{CustomerDetails: types.CustomerDetails{Phone: "+919876543210"}}
		assert.Equal(t, "9876543210", PhoneKey(&rec))
	})

	t.Run("numeric phone", func(t *testing.T) {
		rec := types.Record{CustomerDetails: types.CustomerDetails{Phone: int64(9876543210)}}
		assert.Equal(t, "9876543210", PhoneKey(&rec))
	})

	t.Run("malformed phone keys on raw value", func(t *testing.T) {
		rec := types.Record{CustomerDetails: types.CustomerDetails{Phone: "12345"}}
		assert.Equal(t, "12345", PhoneKey(&rec))
	})

	t.Run("absent phone drops record", func(t *testing.T) {
		rec := types.Record{}
		assert.Equal(t, "", PhoneKey(&rec))
	})
}
