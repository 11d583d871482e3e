package comexstat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL})
}

func TestGeneralQueryStripsYear(t *testing.T) {
	var got QueryRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/general" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Write([]byte(`{"data":{"list":[{"year":"2024","metricFOB":"100"}]}}`))
	})

	rows, err := client.GeneralQuery(context.Background(), &QueryRequest{
		Flow:    FlowExport,
		Period:  Period{From: "2024-01", To: "2024-12"},
		Details: []string{"year", "country", "year"},
		Filters: []Filter{
			{Filter: "year", Values: []any{2024}},
			{Filter: "country", Values: []any{63}},
		},
		Metrics: []string{"metricFOB"},
	})
	if err != nil {
		t.Fatalf("GeneralQuery: %v", err)
	}
	if len(rows) != 1 || rows[0]["metricFOB"] != "100" {
		t.Errorf("unexpected rows: %v", rows)
	}

	if len(got.Details) != 1 || got.Details[0] != "country" {
		t.Errorf("year not stripped from details: %v", got.Details)
	}
	if len(got.Filters) != 1 || got.Filters[0].Filter != "country" {
		t.Errorf("year not stripped from filters: %v", got.Filters)
	}
}

func TestQuerySendsEmptyMetricsArray(t *testing.T) {
	var body map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Write([]byte(`{"data":{"list":[]}}`))
	})

	if _, err := client.GeneralQuery(context.Background(), &QueryRequest{Flow: FlowImport}); err != nil {
		t.Fatalf("GeneralQuery: %v", err)
	}
	metrics, ok := body["metrics"].([]any)
	if !ok {
		t.Fatalf("metrics missing or not an array: %v", body["metrics"])
	}
	if len(metrics) != 0 {
		t.Errorf("expected empty metrics, got %v", metrics)
	}
}

func TestMunicipalityQueryPathAndSanitizing(t *testing.T) {
	var got QueryRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cities" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Write([]byte(`{"data":{"list":[{"city":"Manaus"}]}}`))
	})

	rows, err := client.MunicipalityQuery(context.Background(), &QueryRequest{
		Flow:    FlowImport,
		Details: []string{"year", "city"},
		Filters: []Filter{{Filter: "year", Values: []any{2024}}},
	})
	if err != nil {
		t.Fatalf("MunicipalityQuery: %v", err)
	}
	if len(rows) != 1 || rows[0]["city"] != "Manaus" {
		t.Errorf("unexpected rows: %v", rows)
	}
	if len(got.Details) != 1 || got.Details[0] != "city" || len(got.Filters) != 0 {
		t.Errorf("year not stripped: details=%v filters=%v", got.Details, got.Filters)
	}
}

func TestQueryErrorStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	rows, err := client.GeneralQuery(context.Background(), &QueryRequest{Flow: FlowExport})
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if rows != nil {
		t.Errorf("rows must be nil on failure, got %v", rows)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("status code missing from error: %v", err)
	}
}

func TestQueryNonJSONBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	})

	if _, err := client.GeneralQuery(context.Background(), &QueryRequest{Flow: FlowExport}); err == nil {
		t.Fatal("expected decode error on non-JSON body")
	}
}

func TestAuxiliaryTableParamPolicy(t *testing.T) {
	tests := []struct {
		table      string
		wantSearch bool
		wantPage   bool
	}{
		{"ncm", true, true},
		{"economic-blocks", true, false},
		{"countries", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			var query string
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				query = r.URL.RawQuery
				w.Write([]byte(`{"data":{"list":[]}}`))
			})

			opts := &TableOptions{Search: "soja", Language: "pt", Page: 2, PerPage: 50}
			if _, err := client.AuxiliaryTable(context.Background(), tt.table, opts); err != nil {
				t.Fatalf("AuxiliaryTable: %v", err)
			}

			if got := strings.Contains(query, "search=soja"); got != tt.wantSearch {
				t.Errorf("search param present=%v, want %v (query %q)", got, tt.wantSearch, query)
			}
			if got := strings.Contains(query, "page=2"); got != tt.wantPage {
				t.Errorf("page param present=%v, want %v (query %q)", got, tt.wantPage, query)
			}
		})
	}
}

func TestItemDetailNotFound(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	row, err := client.ItemDetail(context.Background(), "ncm", "99999999")
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if row != nil {
		t.Errorf("404 must yield a nil row, got %v", row)
	}
}

func TestItemDetailUnwrapsDataObject(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tables/ncm/12019000" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"id":12019000,"text":"Soja, mesmo triturada"}}`))
	})

	row, err := client.ItemDetail(context.Background(), "ncm", "12019000")
	if err != nil {
		t.Fatalf("ItemDetail: %v", err)
	}
	if row["text"] != "Soja, mesmo triturada" {
		t.Errorf("data envelope not unwrapped: %v", row)
	}
}

func TestItemDetailTopLevelObject(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":63,"text":"Argentina"}`))
	})

	row, err := client.ItemDetail(context.Background(), "countries", "63")
	if err != nil {
		t.Fatalf("ItemDetail: %v", err)
	}
	if row["text"] != "Argentina" {
		t.Errorf("unexpected row: %v", row)
	}
}

func TestUserAgentHeader(t *testing.T) {
	var ua string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Write([]byte(`{"data":{"list":[]}}`))
	})

	if _, err := client.AuxiliaryTable(context.Background(), "countries", nil); err != nil {
		t.Fatalf("AuxiliaryTable: %v", err)
	}
	if !strings.HasPrefix(ua, "ComexChat/") {
		t.Errorf("unexpected User-Agent: %q", ua)
	}
}
