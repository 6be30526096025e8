package potholes

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
)

// Normalizer turns a location description into the dedup key it is matched
// under. Case folding is on unless the deployment opted into case-sensitive
// matching.
type Normalizer struct {
	caseSensitive bool
}

func NewNormalizer(caseSensitive bool) Normalizer {
	return Normalizer{caseSensitive: caseSensitive}
}

// Key trims whitespace around the comma-separated segments, collapses inner
// runs of spaces, and case-folds the result.
func (n Normalizer) Key(description string) string {
	segments := strings.Split(description, ",")
	kept := segments[:0]
	for _, seg := range segments {
		if seg = collapse(seg); seg != "" {
			kept = append(kept, seg)
		}
	}
	key := strings.Join(kept, ", ")
	if n.caseSensitive {
		return key
	}
	// A Caser is stateful and not safe to share across goroutines.
	return cases.Fold().String(key)
}

// collapse trims s and squeezes inner whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ComposeDescription builds the display description from the address form
// fields: "City, Street" or "City, Street, Postal".
func ComposeDescription(city, street, postalCode string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{city, street, postalCode} {
		if p = collapse(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type descriptionFinder interface {
	FindByDedupKey(ctx context.Context, key string) (*Pothole, error)
}

// Matcher decides whether a submission refers to an already-known defect.
type Matcher struct {
	finder descriptionFinder
	norm   Normalizer
}

func NewMatcher(finder descriptionFinder, norm Normalizer) Matcher {
	return Matcher{finder: finder, norm: norm}
}

// FindExisting looks up the defect matching the description. A nil record
// with nil error means no match, which is a normal outcome. The computed
// dedup key is returned either way so the insert path can reuse it.
func (m Matcher) FindExisting(ctx context.Context, description string) (*Pothole, string, error) {
	key := m.norm.Key(description)
	existing, err := m.finder.FindByDedupKey(ctx, key)
	if err != nil {
		return nil, key, err
	}
	return existing, key, nil
}
