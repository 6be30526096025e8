package potholes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mifotohu/katyufigyelo/internal/geocoding"
)

// Store is the persistence surface the workflow drives.
type Store interface {
	ListAll(ctx context.Context) ([]Pothole, error)
	FindByDedupKey(ctx context.Context, key string) (*Pothole, error)
	Insert(ctx context.Context, lat, lng float64, description, key string, position RoadPosition) (*Pothole, error)
	IncrementCount(ctx context.Context, id uuid.UUID) (int, error)
}

// Geocoder resolves a free-text address into coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (lat, lng float64, err error)
}

// Submission is one citizen report. The address flow fills City and Street
// (PostalCode optional); the map-tap flow fills Lat, Lng and Description.
type Submission struct {
	City         string
	Street       string
	PostalCode   string
	Description  string
	Lat          *float64
	Lng          *float64
	RoadPosition RoadPosition
}

func (s Submission) hasCoordinates() bool {
	return s.Lat != nil && s.Lng != nil
}

// Result is the terminal outcome of a successful submission. Message is the
// human-readable notification; a submission never finishes silently.
type Result struct {
	Report   Pothole   `json:"report"`
	Created  bool      `json:"created"`
	Count    int       `json:"reports_count"`
	Message  string    `json:"message"`
	Snapshot []Pothole `json:"snapshot"`
}

// Workflow runs a submission through validate, match, then either increment
// or geocode-and-insert, and finally refreshes the read model. The phases
// are strictly sequential; a failure at any phase surfaces a typed error and
// leaves no partial side effect behind.
type Workflow struct {
	store    Store
	geocoder Geocoder
	matcher  Matcher
}

func NewWorkflow(store Store, geocoder Geocoder, norm Normalizer) *Workflow {
	return &Workflow{
		store:    store,
		geocoder: geocoder,
		matcher:  NewMatcher(store, norm),
	}
}

// Submit processes one report to completion.
func (w *Workflow) Submit(ctx context.Context, sub Submission) (*Result, error) {
	description, err := w.validate(sub)
	if err != nil {
		return nil, err
	}

	existing, key, err := w.matcher.FindExisting(ctx, description)
	if err != nil {
		return nil, err
	}

	var result Result
	if existing != nil {
		count, err := w.store.IncrementCount(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		result.Report = *existing
		result.Report.ReportsCount = count
		result.Count = count
		result.Message = fmt.Sprintf("Recorded report #%d for %s", count, existing.LocationDesc)
	} else {
		lat, lng := 0.0, 0.0
		if sub.hasCoordinates() {
			lat, lng = *sub.Lat, *sub.Lng
		} else {
			lat, lng, err = w.geocoder.Resolve(ctx, description)
			if err != nil {
				if errors.Is(err, geocoding.ErrNoResults) {
					return nil, fmt.Errorf("%w: %s", ErrAddressNotFound, description)
				}
				return nil, fmt.Errorf("%w: %v", ErrGeocodingUnavailable, err)
			}
		}

		record, err := w.store.Insert(ctx, lat, lng, description, key, sub.RoadPosition)
		if err != nil {
			return nil, err
		}
		result.Report = *record
		result.Count = record.ReportsCount
		if record.ReportsCount == 1 {
			result.Created = true
			result.Message = fmt.Sprintf("New pothole recorded at %s", record.LocationDesc)
		} else {
			// A concurrent first report won the insert race; ours became an
			// increment on the surviving row.
			result.Message = fmt.Sprintf("Recorded report #%d for %s", record.ReportsCount, record.LocationDesc)
		}
	}

	snapshot, err := w.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snapshot
	return &result, nil
}

// validate rejects incomplete submissions before any side effect and
// composes the location description the report is deduplicated under.
func (w *Workflow) validate(sub Submission) (string, error) {
	if !sub.RoadPosition.Valid() {
		return "", &ValidationError{Field: "road_position"}
	}

	if sub.hasCoordinates() {
		description := collapse(sub.Description)
		if description == "" {
			return "", &ValidationError{Field: "description"}
		}
		return description, nil
	}

	if collapse(sub.City) == "" {
		return "", &ValidationError{Field: "city"}
	}
	if collapse(sub.Street) == "" {
		return "", &ValidationError{Field: "street"}
	}
	return ComposeDescription(sub.City, sub.Street, sub.PostalCode), nil
}
