package severity

import "testing"

func TestTierFor_DefaultScale(t *testing.T) {
	scale := DefaultScale()

	cases := []struct {
		count int
		want  Tier
	}{
		{1, TierLow},
		{10, TierLow},
		{11, TierMedium},
		{30, TierMedium},
		{31, TierHigh},
		{500, TierHigh},
		// Counts below 1 can't come from the store, but render as tier low
		// rather than anything surprising.
		{0, TierLow},
		{-3, TierLow},
	}

	for _, tc := range cases {
		if got := scale.TierFor(tc.count); got != tc.want {
			t.Errorf("TierFor(%d) = %q, want %q", tc.count, got, tc.want)
		}
	}
}

func TestTierFor_CustomScale(t *testing.T) {
	// The 10/40 variant some deployments use.
	scale := Scale{
		Thresholds: []Threshold{
			{UpperBound: 10, Tier: TierLow},
			{UpperBound: 40, Tier: TierMedium},
		},
		Top: TierHigh,
	}
	if err := scale.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if got := scale.TierFor(35); got != TierMedium {
		t.Errorf("TierFor(35) = %q, want medium", got)
	}
	if got := scale.TierFor(41); got != TierHigh {
		t.Errorf("TierFor(41) = %q, want high", got)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		scale   Scale
		wantErr bool
	}{
		{"default", DefaultScale(), false},
		{"no thresholds", Scale{Top: TierHigh}, false},
		{"missing top", Scale{Thresholds: []Threshold{{UpperBound: 10, Tier: TierLow}}}, true},
		{"out of order", Scale{
			Thresholds: []Threshold{{UpperBound: 30, Tier: TierMedium}, {UpperBound: 10, Tier: TierLow}},
			Top:        TierHigh,
		}, true},
		{"duplicate bound", Scale{
			Thresholds: []Threshold{{UpperBound: 10, Tier: TierLow}, {UpperBound: 10, Tier: TierMedium}},
			Top:        TierHigh,
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.scale.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
