package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nudge/internal/types"
)

func TestThirtyDCResolve(t *testing.T) {
	line := ThirtyDC("team@example.com", "https://example.com")

	tests := []struct {
		name     string
		rec      types.Record
		wantSlug string
		wantOK   bool
	}{
		{
			name:     "explicit field wins over URL",
			rec:      types.Record{CourseType: "advanced", SourceURL: "https://example.com/beginner"},
			wantSlug: "advanced",
			wantOK:   true,
		},
		{
			name:     "query value beginner",
			rec:      types.Record{SourceURL: "https://example.com/checkout?course=beginner"},
			wantSlug: "beginner",
			wantOK:   true,
		},
		{
			name:     "query value with trailing params",
			rec:      types.Record{SourceURL: "https://example.com/checkout?course=advanced&utm=x"},
			wantSlug: "advanced",
			wantOK:   true,
		},
		{
			name:   "unrecognized query value rejects",
			rec:    types.Record{SourceURL: "https://example.com/checkout?course=unknown"},
			wantOK: false,
		},
		{
			name:     "path substring beginner",
			rec:      types.Record{SourceURL: "https://example.com/beginner"},
			wantSlug: "beginner",
			wantOK:   true,
		},
		{
			name:     "path substring advanced",
			rec:      types.Record{SourceURL: "https://example.com/advanced?utm=y"},
			wantSlug: "advanced",
			wantOK:   true,
		},
		{
			name:   "no marker",
			rec:    types.Record{SourceURL: "https://example.com/pricing"},
			wantOK: false,
		},
		{
			name:   "empty record",
			rec:    types.Record{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, ok := line.Rules.Resolve(&tt.rec)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantSlug, slug)
			}
		})
	}
}

func TestSkillsetResolve(t *testing.T) {
	line := Skillset("team@skillset.example", "https://skillset.example")

	tests := []struct {
		name     string
		rec      types.Record
		wantSlug string
		wantOK   bool
	}{
		{
			name:     "explicit field wins over path",
			rec:      types.Record{CourseType: "ai", SourceURL: "https://skillset.example/data-analyst"},
			wantSlug: "ai",
			wantOK:   true,
		},
		{
			name:     "any query value resolves verbatim",
			rec:      types.Record{SourceURL: "https://skillset.example/checkout?course=unknown"},
			wantSlug: "unknown",
			wantOK:   true,
		},
		{
			name:     "ai-apps matches before ai",
			rec:      types.Record{SourceURL: "https://skillset.example/ai-apps"},
			wantSlug: "ai-apps",
			wantOK:   true,
		},
		{
			name:     "ai path",
			rec:      types.Record{SourceURL: "https://skillset.example/ai"},
			wantSlug: "ai",
			wantOK:   true,
		},
		{
			name:     "video editing path",
			rec:      types.Record{SourceURL: "https://skillset.example/video-editing?ref=x"},
			wantSlug: "video-editing",
			wantOK:   true,
		},
		{
			name:   "no marker",
			rec:    types.Record{SourceURL: "https://skillset.example/about"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, ok := line.Rules.Resolve(&tt.rec)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantSlug, slug)
			}
		})
	}

	t.Run("fallback slug for content", func(t *testing.T) {
		rec := types.Record{SourceURL: "https://skillset.example/about"}
		assert.Equal(t, "default", line.CourseSlug(&rec))
	})
}

func TestProductLineMultipliers(t *testing.T) {
	thirtyDC := ThirtyDC("a@b.c", "https://example.com")
	assert.Equal(t, 1.5, thirtyDC.Multiplier("beginner"))
	assert.Equal(t, 1.25, thirtyDC.Multiplier("advanced"))
	assert.Equal(t, 1.5, thirtyDC.Multiplier("something-else"))

	skillset := Skillset("a@b.c", "https://skillset.example")
	assert.Equal(t, 1.3, skillset.Multiplier("ai"))
	assert.Equal(t, 1.3, skillset.Multiplier("default"))
}

func TestProductLineSubjects(t *testing.T) {
	thirtyDC := ThirtyDC("a@b.c", "https://example.com")
	assert.Equal(t, "Complete Your Course Registration - 30 Days Coding", thirtyDC.Subject("beginner"))

	skillset := Skillset("a@b.c", "https://skillset.example")
	assert.Equal(t, "Complete Your AI Course Registration - SkillSet Master", skillset.Subject("ai"))
}

func TestButtonURL(t *testing.T) {
	line := ThirtyDC("a@b.c", "https://example.com")

	withURL := types.Record{SourceURL: "https://example.com/advanced"}
	assert.Equal(t, "https://example.com/advanced", line.ButtonURL(&withURL))

	withoutURL := types.Record{CourseType: "advanced"}
	assert.Equal(t, "https://example.com/checkout?course=advanced", line.ButtonURL(&withoutURL))

	unmarked := types.Record{}
	assert.Equal(t, "https://example.com/checkout?course=beginner", line.ButtonURL(&unmarked))
}
