// ABOUTME: Static catalog of Guardian crossword variants and their publication schedule.
// ABOUTME: Builds download URLs, local filenames, and date-fallback candidate sequences.
package catalog

import (
	"fmt"
	"strings"
	"time"
)

// BaseURL is the Guardian static host that serves crossword PDFs.
const BaseURL = "https://crosswords-static.guim.co.uk"

// Variant identifies one of the Guardian's crossword series.
type Variant string

const (
	Quick        Variant = "quick"
	Cryptic      Variant = "cryptic"
	QuickCryptic Variant = "quick-cryptic"
	Weekend      Variant = "weekend"
)

// Variants lists every known variant in display order.
var Variants = []Variant{Quick, Cryptic, QuickCryptic, Weekend}

// publicationDays maps each variant to the weekdays it is published on.
var publicationDays = map[Variant][]time.Weekday{
	Quick:        {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
	Cryptic:      {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	QuickCryptic: {time.Saturday},
	Weekend:      {time.Saturday},
}

// displayNames maps variants to their human-readable titles.
var displayNames = map[Variant]string{
	Quick:        "Quick Crossword",
	Cryptic:      "Cryptic Crossword",
	QuickCryptic: "Quick-Cryptic Crossword",
	Weekend:      "Weekend Crossword",
}

// DisplayName returns the human-readable title for a variant.
func (v Variant) DisplayName() string {
	return displayNames[v]
}

// ParseVariant validates a variant name from user input.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := publicationDays[v]; !ok {
		return "", fmt.Errorf("unknown puzzle type %q (valid: quick, cryptic, quick-cryptic, weekend)", s)
	}
	return v, nil
}

// IsAvailable reports whether the variant is published on the given date's weekday.
func IsAvailable(v Variant, date time.Time) bool {
	for _, day := range publicationDays[v] {
		if date.Weekday() == day {
			return true
		}
	}
	return false
}

// AvailableOn returns the variants published on the given date's weekday, in display order.
func AvailableOn(date time.Time) []Variant {
	var out []Variant
	for _, v := range Variants {
		if IsAvailable(v, date) {
			out = append(out, v)
		}
	}
	return out
}

// URLPath returns the URL path component for a variant's PDF on a given date.
func URLPath(v Variant, date time.Time) string {
	return fmt.Sprintf("/gdn.%s.%s.pdf", v, date.Format("20060102"))
}

// URLFor returns the full download URL for a variant's PDF on a given date.
func URLFor(v Variant, date time.Time) string {
	return BaseURL + URLPath(v, date)
}

// Filename returns the on-disk name for a variant's PDF on a given date.
// Other tooling depends on this naming, so it is part of the contract.
func Filename(v Variant, date time.Time) string {
	return fmt.Sprintf("guardian-%s-%s.pdf", v, date.Format("20060102"))
}

// ParseFilename extracts the variant and date from a puzzle filename.
func ParseFilename(name string) (Variant, time.Time, error) {
	rest, ok := strings.CutPrefix(name, "guardian-")
	if !ok {
		return "", time.Time{}, fmt.Errorf("filename %q is not a puzzle file", name)
	}
	rest, ok = strings.CutSuffix(rest, ".pdf")
	if !ok {
		return "", time.Time{}, fmt.Errorf("filename %q is not a puzzle file", name)
	}
	i := strings.LastIndex(rest, "-")
	if i < 0 {
		return "", time.Time{}, fmt.Errorf("filename %q has no date component", name)
	}
	v, err := ParseVariant(rest[:i])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("filename %q: %w", name, err)
	}
	date, err := time.Parse("20060102", rest[i+1:])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("filename %q has invalid date: %w", name, err)
	}
	return v, date, nil
}

// Candidate pairs a variant with a concrete publication date worth attempting.
type Candidate struct {
	Variant Variant
	Date    time.Time
}

// maxFallbacks bounds how many earlier publication dates are tried after the target.
const maxFallbacks = 3

// Resolve computes the ordered fetch candidates for a variant around a target
// date: the target itself when the variant publishes that weekday, then up to
// three earlier publication dates, newest first. Saturday-only variants step
// back a week at a time; everything else steps back a day. Unpublished days
// are skipped outright so they never cost a network round trip.
func Resolve(v Variant, target time.Time) []Candidate {
	days := publicationDays[v]
	if len(days) == 0 {
		return nil
	}

	var out []Candidate
	if IsAvailable(v, target) {
		out = append(out, Candidate{Variant: v, Date: target})
	}

	// Walk back a day at a time until landing on the variant's schedule;
	// from there Saturday-only variants jump a week per step. The scan bound
	// covers a full week of snapping plus the widest fallback spread, so any
	// variant with at least one publication day always yields a candidate.
	weekly := len(days) == 1 && days[0] == time.Saturday
	d := target
	step := 1
	fallbacks := 0
	for i := 0; i < 7*(maxFallbacks+1) && fallbacks < maxFallbacks; i++ {
		d = d.AddDate(0, 0, -step)
		if IsAvailable(v, d) {
			out = append(out, Candidate{Variant: v, Date: d})
			fallbacks++
			if weekly {
				step = 7
			}
		}
	}
	return out
}
