package appstore

import (
	"context"
	"net/url"
	"strconv"
)

// DefaultSearchLimit caps search results when no limit is given
const DefaultSearchLimit = 5

// SearchResult is a single hit from the software search endpoint.
type SearchResult struct {
	AppID     string
	Name      string
	Developer string
	Version   string
}

// Search queries the iTunes search API for software matching term.
// It is used to discover app IDs worth adding to the watchlist.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := url.Values{}
	query.Set("term", term)
	query.Set("country", c.country)
	query.Set("entity", "software")
	query.Set("limit", strconv.Itoa(limit))

	var resp lookupResponse
	if err := c.getJSON(ctx, "/search", query, &resp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for _, res := range resp.Results {
		results = append(results, SearchResult{
			AppID:     strconv.FormatInt(res.TrackID, 10),
			Name:      res.TrackName,
			Developer: res.ArtistName,
			Version:   res.Version,
		})
		if len(results) == limit {
			break
		}
	}

	return results, nil
}
