package domain

import "context"

// PlaceCandidate is one forward-geocoding result.
// swagger:model PlaceCandidate
type PlaceCandidate struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"displayName"`
}

// Location converts the candidate into a meetup location labelled with its display name.
func (p PlaceCandidate) Location() Location {
	return Location{Name: p.DisplayName, Lat: p.Lat, Lng: p.Lng}
}

// Geocoder resolves free text into candidate places. Implementations return
// ErrUpstreamUnavailable (wrapped) when the provider cannot be reached.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]PlaceCandidate, error)
}
