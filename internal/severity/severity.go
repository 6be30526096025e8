package severity

import (
	"fmt"
	"sort"
)

// Tier is a marker color bucket for the map legend.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Threshold maps report counts up to and including UpperBound to a tier.
type Threshold struct {
	UpperBound int  `yaml:"upper_bound" json:"upper_bound"`
	Tier       Tier `yaml:"tier" json:"tier"`
}

// Scale is an ordered list of thresholds plus the tier for everything above
// the last bound.
type Scale struct {
	Thresholds []Threshold `yaml:"thresholds" json:"thresholds"`
	Top        Tier        `yaml:"top" json:"top"`
}

// DefaultScale returns the canonical mapping: 1–10 low, 11–30 medium,
// above that high.
func DefaultScale() Scale {
	return Scale{
		Thresholds: []Threshold{
			{UpperBound: 10, Tier: TierLow},
			{UpperBound: 30, Tier: TierMedium},
		},
		Top: TierHigh,
	}
}

// Validate checks that the thresholds are strictly ascending and a top tier
// is set.
func (s Scale) Validate() error {
	if s.Top == "" {
		return fmt.Errorf("severity scale: top tier is required")
	}
	if !sort.SliceIsSorted(s.Thresholds, func(i, j int) bool {
		return s.Thresholds[i].UpperBound < s.Thresholds[j].UpperBound
	}) {
		return fmt.Errorf("severity scale: thresholds must be in ascending order")
	}
	for i := 1; i < len(s.Thresholds); i++ {
		if s.Thresholds[i].UpperBound == s.Thresholds[i-1].UpperBound {
			return fmt.Errorf("severity scale: duplicate upper bound %d", s.Thresholds[i].UpperBound)
		}
	}
	return nil
}

// TierFor maps a report count to its tier. Counts below 1 are treated as 1.
func (s Scale) TierFor(count int) Tier {
	if count < 1 {
		count = 1
	}
	for _, t := range s.Thresholds {
		if count <= t.UpperBound {
			return t.Tier
		}
	}
	return s.Top
}
