package comexstat

import (
	"context"
	"fmt"
	"log"
)

// GeneralQuery fetches aggregated trade statistics (POST /general).
// On any failure the payload is nil and the error describes the reason.
func (c *Client) GeneralQuery(ctx context.Context, req *QueryRequest) ([]Row, error) {
	return c.query(ctx, "/general", req)
}

// MunicipalityQuery fetches trade statistics at city/state granularity
// (POST /cities). Same contract as GeneralQuery.
func (c *Client) MunicipalityQuery(ctx context.Context, req *QueryRequest) ([]Row, error) {
	return c.query(ctx, "/cities", req)
}

func (c *Client) query(ctx context.Context, path string, req *QueryRequest) ([]Row, error) {
	payload := sanitizeQuery(req)

	var env listEnvelope
	if err := c.postJSON(ctx, path, payload, &env); err != nil {
		log.Printf("[comexstat] query %s failed: %v", path, err)
		return nil, fmt.Errorf("comexstat query %s: %w", path, err)
	}
	return env.Data.List, nil
}

// sanitizeQuery drops "year" entries from the details and filters lists. The
// API rejects year-based breakdowns combined with a period; year ranges
// belong in the period argument.
func sanitizeQuery(req *QueryRequest) *QueryRequest {
	out := *req

	out.Details = make([]string, 0, len(req.Details))
	for _, d := range req.Details {
		if d != "year" {
			out.Details = append(out.Details, d)
		}
	}

	if len(req.Filters) > 0 {
		out.Filters = make([]Filter, 0, len(req.Filters))
		for _, f := range req.Filters {
			if f.Filter != "year" {
				out.Filters = append(out.Filters, f)
			}
		}
	}

	if out.Metrics == nil {
		out.Metrics = []string{}
	}
	return &out
}
