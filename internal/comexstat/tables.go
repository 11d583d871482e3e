package comexstat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
)

// Auxiliary table names exposed by GET /tables/{name}.
var TableNames = []string{
	"countries",
	"uf",
	"cities",
	"ways",
	"urf",
	"economic-blocks",
	"product-categories",
	"ncm",
	"hs",
	"nbm",
	"classifications",
}

// TableOptions are the optional query parameters for auxiliary-table lookups.
// Each parameter is forwarded only for the tables the API supports it on;
// everything else is silently dropped.
type TableOptions struct {
	Add      string
	Language string // "pt", "en" or "es"
	Page     int
	PerPage  int
	Search   string
}

// Tables supporting add/language/search, and additionally page/perPage.
var paginatedTables = map[string]bool{
	"product-categories": true,
	"ncm":                true,
	"hs":                 true,
	"nbm":                true,
	"classifications":    true,
}

// Tables supporting add/language/search only.
var searchableTables = map[string]bool{
	"economic-blocks": true,
}

// AuxiliaryTable fetches a reference table (countries, product
// classifications, ...) used to resolve codes before querying statistics.
func (c *Client) AuxiliaryTable(ctx context.Context, table string, opts *TableOptions) ([]Row, error) {
	u := c.baseURL + "/tables/" + url.PathEscape(table)
	if q := encodeTableOptions(table, opts); q != "" {
		u += "?" + q
	}

	var env listEnvelope
	if err := c.getJSON(ctx, u, c.queryTimeout, &env); err != nil {
		log.Printf("[comexstat] table %q lookup failed: %v", table, err)
		return nil, fmt.Errorf("comexstat table %s: %w", table, err)
	}
	return env.Data.List, nil
}

// ItemDetail fetches one item's attributes (GET /tables/{name}/{id}).
// A 404 means the item does not exist: the result is nil with no error.
func (c *Client) ItemDetail(ctx context.Context, table, id string) (Row, error) {
	u := c.baseURL + "/tables/" + url.PathEscape(table) + "/" + url.PathEscape(id)

	var raw map[string]any
	if err := c.getJSON(ctx, u, c.detailTimeout, &raw); err != nil {
		if errors.Is(err, errNotFound) {
			log.Printf("[comexstat] item %q not found in table %q", id, table)
			return nil, nil
		}
		log.Printf("[comexstat] detail %s/%s failed: %v", table, id, err)
		return nil, fmt.Errorf("comexstat detail %s/%s: %w", table, id, err)
	}

	// Some tables wrap the item in a "data" object, others return it at the
	// top level.
	if inner, ok := raw["data"].(map[string]any); ok {
		return inner, nil
	}
	return raw, nil
}

func encodeTableOptions(table string, opts *TableOptions) string {
	if opts == nil {
		return ""
	}

	q := url.Values{}
	if paginatedTables[table] || searchableTables[table] {
		if opts.Add != "" {
			q.Set("add", opts.Add)
		}
		if opts.Language != "" {
			q.Set("language", opts.Language)
		}
		if opts.Search != "" {
			q.Set("search", opts.Search)
		}
	}
	if paginatedTables[table] {
		if opts.Page > 0 {
			q.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PerPage > 0 {
			q.Set("perPage", strconv.Itoa(opts.PerPage))
		}
	}
	return q.Encode()
}
