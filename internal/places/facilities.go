package places

import (
	"context"
	"fmt"
	"sync"

	"shieldkit/internal/geo"
	"shieldkit/internal/logging"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// TravelHealthQueries are the text searches combined by SearchTravelHealthFacilities.
var TravelHealthQueries = []string{
	"travel clinic",
	"vaccination center",
	"travel medicine",
	"immunization clinic",
}

// SearchTravelHealthFacilities runs every TravelHealthQueries search in
// parallel and merges the results: a failed query contributes nothing,
// duplicates keep their first occurrence in query order, and the merged list
// is sorted nearest first. Cancelling ctx aborts the whole search.
func (c *Client) SearchTravelHealthFacilities(ctx context.Context, origin geo.Location, radiusKm float64) ([]Clinic, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	results := make([][]Clinic, len(TravelHealthQueries))

	var mu sync.Mutex
	var merr *multierror.Error

	eg, egCtx := errgroup.WithContext(ctx)
	for i, query := range TravelHealthQueries {
		i, query := i, query
		eg.Go(func() error {
			clinics, err := c.SearchText(egCtx, query, origin, radiusKm)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				mu.Lock()
				merr = multierror.Append(merr, fmt.Errorf("%q: %w", query, err))
				mu.Unlock()
				return nil
			}
			results[i] = clinics
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := merr.ErrorOrNil(); err != nil {
		logging.PlacesWarn("some facility searches failed: %v", err)
	}

	merged := Dedupe(results...)
	SortByDistance(merged)
	logging.Places("found %d unique travel health facilities", len(merged))
	return merged, nil
}

// Dedupe concatenates the lists, keeping only the first clinic for each id.
func Dedupe(lists ...[]Clinic) []Clinic {
	seen := make(map[string]bool)
	out := []Clinic{}
	for _, list := range lists {
		for _, c := range list {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	return out
}
