// Package catalog defines the product lines served by the dispatcher and the
// course-type resolution rules for each. Course inference from URLs is
// data-driven: an ordered table of (substring, slug) pairs evaluated
// top-to-bottom, so the matching vocabulary can be read and tested without
// tracing through conditionals.
package catalog

import (
	"fmt"
	"strings"

	"nudge/internal/types"
)

// PathRule maps a URL substring to a canonical course slug. Rules are
// evaluated in declaration order; the first match wins, so more specific
// substrings must precede their prefixes ("/ai-apps" before "/ai").
type PathRule struct {
	Match string
	Slug  string
}

// CourseRules is the course-type inference policy for one product line.
type CourseRules struct {
	// AllowedQueryValues restricts which ?course= values resolve. When nil,
	// any non-empty value resolves verbatim. When set, a course query with a
	// value outside the list leaves the record unresolved even though the
	// parameter is present.
	AllowedQueryValues []string

	// Paths is the ordered substring table applied when no course query is
	// present.
	Paths []PathRule

	// Fallback is the slug used for content rendering when no marker
	// resolves. It does not make an unmarked record eligible.
	Fallback string
}

// Resolve derives the course slug for a record. Precedence:
//
//  1. explicit courseType field (taken verbatim)
//  2. ?course= query value in sourceUrl (subject to AllowedQueryValues)
//  3. first matching path rule
//
// ok is false when none of the three produce a slug; such records are not
// eligible for dispatch.
func (r CourseRules) Resolve(rec *types.Record) (string, bool) {
	if explicit := strings.TrimSpace(rec.CourseType); explicit != "" {
		return explicit, true
	}

	url := rec.SourceURL
	if value, present := courseQueryValue(url); present && value != "" {
		if r.AllowedQueryValues == nil {
			return value, true
		}
		for _, allowed := range r.AllowedQueryValues {
			if value == allowed {
				return value, true
			}
		}
		return "", false
	}

	for _, rule := range r.Paths {
		if strings.Contains(url, rule.Match) {
			return rule.Slug, true
		}
	}

	return "", false
}

// ResolveOrFallback returns the resolved slug, or the line's fallback slug
// when the record carries no marker. Used by content rendering, where a
// missing marker degrades the copy rather than skipping the send.
func (r CourseRules) ResolveOrFallback(rec *types.Record) string {
	if slug, ok := r.Resolve(rec); ok {
		return slug
	}
	return r.Fallback
}

// courseQueryValue extracts the course query parameter from a URL: the text
// after "course=" up to the next '&'. present reports whether the parameter
// exists at all, independent of whether its value is empty.
func courseQueryValue(url string) (value string, present bool) {
	for _, marker := range []string{"?course=", "&course="} {
		idx := strings.Index(url, marker)
		if idx < 0 {
			continue
		}
		value = url[idx+len(marker):]
		if amp := strings.IndexByte(value, '&'); amp >= 0 {
			value = value[:amp]
		}
		return value, true
	}
	return "", false
}

// ProductLine bundles everything channel adapters need to know about one
// product: sender identity, site URL, course rules, pricing multipliers and
// display copy.
type ProductLine struct {
	ID      string
	Name    string
	From    string
	SiteURL string
	Rules   CourseRules

	multipliers       map[string]float64
	defaultMultiplier float64
	displayNames      map[string]string
	defaultDisplay    string
	subject           func(slug string) string
}

// CourseSlug resolves the course slug for content purposes (falls back to
// the line default).
func (l *ProductLine) CourseSlug(rec *types.Record) string {
	return l.Rules.ResolveOrFallback(rec)
}

// HasCourseMarker reports whether the record carries a resolvable course
// marker, one of the three eligibility signals.
func (l *ProductLine) HasCourseMarker(rec *types.Record) bool {
	_, ok := l.Rules.Resolve(rec)
	return ok
}

// Multiplier returns the reference-price multiplier for a slug.
func (l *ProductLine) Multiplier(slug string) float64 {
	if m, ok := l.multipliers[slug]; ok {
		return m
	}
	return l.defaultMultiplier
}

// DisplayName returns the human-readable course name used in message bodies.
func (l *ProductLine) DisplayName(slug string) string {
	if name, ok := l.displayNames[slug]; ok {
		return name
	}
	return l.defaultDisplay
}

// Subject returns the email subject line for a slug.
func (l *ProductLine) Subject(slug string) string {
	return l.subject(slug)
}

// ButtonURL returns the checkout link placed in a message call-to-action:
// the record's own source URL when present, otherwise the line's checkout
// page with the resolved course preselected.
func (l *ProductLine) ButtonURL(rec *types.Record) string {
	if u := strings.TrimSpace(rec.SourceURL); u != "" {
		return u
	}
	return l.SiteURL + "/checkout?course=" + l.CourseSlug(rec)
}

// ThirtyDC builds the 30 Days Coding product line. Only the beginner and
// advanced tiers exist; an unrecognized ?course= value leaves the record
// unresolved rather than defaulting.
func ThirtyDC(from, siteURL string) *ProductLine {
	return &ProductLine{
		ID:      "30dc",
		Name:    "30 Days Coding",
		From:    from,
		SiteURL: siteURL,
		Rules: CourseRules{
			AllowedQueryValues: []string{"beginner", "advanced"},
			Paths: []PathRule{
				{Match: "/beginner", Slug: "beginner"},
				{Match: "/advanced", Slug: "advanced"},
			},
			Fallback: "beginner",
		},
		multipliers: map[string]float64{
			"beginner": 1.5,
			"advanced": 1.25,
		},
		defaultMultiplier: 1.5,
		displayNames: map[string]string{
			"beginner": "30 Days Coding - Beginner",
			"advanced": "30 Days Coding - Advanced",
		},
		defaultDisplay: "30 Days Coding - Beginner",
		subject: func(string) string {
			return "Complete Your Course Registration - 30 Days Coding"
		},
	}
}

// Skillset builds the SkillSet Master product line. Any ?course= value
// resolves verbatim; path inference covers the known course slugs, with the
// more specific "/ai-apps" ahead of "/ai".
func Skillset(from, siteURL string) *ProductLine {
	return &ProductLine{
		ID:      "skillset",
		Name:    "SkillSet Master",
		From:    from,
		SiteURL: siteURL,
		Rules: CourseRules{
			Paths: []PathRule{
				{Match: "/data-analyst", Slug: "data-analyst"},
				{Match: "/ai-apps", Slug: "ai-apps"},
				{Match: "/chatgpt", Slug: "chatgpt"},
				{Match: "/studyabroad", Slug: "studyabroad"},
				{Match: "/linkedin", Slug: "linkedin"},
				{Match: "/immigrants", Slug: "immigrants"},
				{Match: "/video-editing", Slug: "video-editing"},
				{Match: "/ai", Slug: "ai"},
			},
			Fallback: "default",
		},
		multipliers:       map[string]float64{},
		defaultMultiplier: 1.3,
		displayNames:      map[string]string{},
		defaultDisplay:    "SkillSet Master",
		subject: func(slug string) string {
			return fmt.Sprintf("Complete Your %s Course Registration - SkillSet Master", strings.ToUpper(slug))
		},
	}
}
