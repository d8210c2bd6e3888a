package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nudge/internal/catalog"
	"nudge/internal/types"
)

func testLine() *catalog.ProductLine {
	return catalog.ThirtyDC("team@example.com", "https://example.com")
}

func TestEligibleStatus(t *testing.T) {
	line := testLine()
	now := time.Now().UTC()

	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{name: "created passes", status: "created", want: true},
		{name: "paid rejected", status: "paid", want: false},
		{name: "empty rejected", status: "", want: false},
		{name: "case sensitive", status: "Created", want: false},
		{name: "unknown rejected", status: "refunded", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := types.Record{
				Status:     tt.status,
				CourseType: "beginner",
			}
			assert.Equal(t, tt.want, Eligible(&rec, line, 0, now))
		})
	}
}

func TestEligibleCourseMarker(t *testing.T) {
	line := testLine()
	now := time.Now().UTC()

	t.Run("no marker rejected", func(t *testing.T) {
		rec := types.Record{Status: "created", SourceURL: "https://example.com/pricing"}
		assert.False(t, Eligible(&rec, line, 0, now))
	})

	t.Run("unknown query value rejected", func(t *testing.T) {
		rec := types.Record{Status: "created", SourceURL: "https://example.com/checkout?course=unknown"}
		assert.False(t, Eligible(&rec, line, 0, now))
	})

	t.Run("query marker passes", func(t *testing.T) {
		rec := types.Record{Status: "created", SourceURL: "https://example.com/checkout?course=advanced&utm=x"}
		assert.True(t, Eligible(&rec, line, 0, now))
	})
}

func TestEligibleAgeGate(t *testing.T) {
	line := testLine()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	gate := 10 * time.Minute

	tests := []struct {
		name      string
		createdAt any
		want      bool
	}{
		{
			name:      "nine minutes old excluded",
			createdAt: now.Add(-9 * time.Minute).Format(time.RFC3339),
			want:      false,
		},
		{
			name:      "exactly ten minutes old included",
			createdAt: now.Add(-10 * time.Minute).Format(time.RFC3339),
			want:      true,
		},
		{
			name:      "eleven minutes old included",
			createdAt: now.Add(-11 * time.Minute).Format(time.RFC3339),
			want:      true,
		},
		{
			name:      "unknown timestamp fails closed",
			createdAt: map[string]any{"weird": "shape"},
			want:      false,
		},
		{
			name:      "missing timestamp fails closed",
			createdAt: nil,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := types.Record{
				Status:     "created",
				CourseType: "beginner",
				CreatedAt:  tt.createdAt,
			}
			assert.Equal(t, tt.want, Eligible(&rec, line, gate, now))
		})
	}

	t.Run("email channel has no age gate", func(t *testing.T) {
		rec := types.Record{
			Status:     "created",
			CourseType: "beginner",
			CreatedAt:  now.Add(-time.Minute).Format(time.RFC3339),
		}
		assert.True(t, Eligible(&rec, line, 0, now))
	})
}

func TestFilterPreservesOrder(t *testing.T) {
	line := testLine()
	now := time.Now().UTC()

	records := []types.Record{
		{Status: "created", CourseType: "beginner", CustomerDetails: types.CustomerDetails{Email: "a@x.com"}},
		{Status: "paid", CourseType: "beginner", CustomerDetails: types.CustomerDetails{Email: "b@x.com"}},
		{Status: "created", CourseType: "advanced", CustomerDetails: types.CustomerDetails{Email: "c@x.com"}},
	}

	got := Filter(records, line, 0, now)

	assert.Len(t, got, 2)
	assert.Equal(t, "a@x.com", got[0].Email())
	assert.Equal(t, "c@x.com", got[1].Email())
}
