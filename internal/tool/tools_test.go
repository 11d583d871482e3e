package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fabiokp/comexchat/internal/comexstat"
)

func testStatClient(t *testing.T, handler http.HandlerFunc) *comexstat.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return comexstat.New(comexstat.Config{BaseURL: srv.URL})
}

func TestRegistryOrderAndLookup(t *testing.T) {
	client := comexstat.New(comexstat.Config{})

	r := NewRegistry()
	r.Register(NewGeneralStatsTool(client))
	r.Register(NewMunicipalityStatsTool(client))
	r.Register(NewAuxiliaryTableTool(client))
	r.Register(NewItemDetailTool(client))

	want := []string{"dados_gerais", "dados_municipio", "fetch_auxiliary_table", "fetch_single_item_detail"}
	defs := r.Definitions()
	if len(defs) != len(want) {
		t.Fatalf("expected %d definitions, got %d", len(want), len(defs))
	}
	for i, name := range want {
		if defs[i].Name != name {
			t.Errorf("definition %d = %q, want %q", i, defs[i].Name, name)
		}
		if defs[i].Description == "" || len(defs[i].Parameters) == 0 {
			t.Errorf("definition %q incomplete", name)
		}
	}

	if _, err := r.Get("dados_gerais"); err != nil {
		t.Errorf("Get(dados_gerais): %v", err)
	}
	if _, err := r.Get("missing"); err == nil {
		t.Error("Get(missing) must fail")
	}
}

func TestRegistryReRegisterKeepsOrder(t *testing.T) {
	client := comexstat.New(comexstat.Config{})

	r := NewRegistry()
	r.Register(NewGeneralStatsTool(client))
	r.Register(NewItemDetailTool(client))
	r.Register(NewGeneralStatsTool(client))

	tools := r.List()
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
	if tools[0].Name() != "dados_gerais" || tools[1].Name() != "fetch_single_item_detail" {
		t.Errorf("registration order broken: %s, %s", tools[0].Name(), tools[1].Name())
	}
}

func TestGeneralStatsToolDefaults(t *testing.T) {
	var body map[string]any
	client := testStatClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/general" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(`{"data":{"list":[{"metricFOB":"42"}]}}`))
	})

	res, err := NewGeneralStatsTool(client).Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", res.Error)
	}
	if !strings.Contains(res.Output, `"metricFOB":"42"`) {
		t.Errorf("unexpected output: %s", res.Output)
	}

	if body["flow"] != "import" {
		t.Errorf("default flow = %v, want import", body["flow"])
	}
	period, _ := body["period"].(map[string]any)
	if period["from"] != "2024-01" || period["to"] != "2024-12" {
		t.Errorf("default period = %v", period)
	}
}

func TestMunicipalityStatsToolDefaultsToExport(t *testing.T) {
	var body map[string]any
	client := testStatClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cities" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(`{"data":{"list":[]}}`))
	})

	res, err := NewMunicipalityStatsTool(client).Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", res.Error)
	}
	if body["flow"] != "export" {
		t.Errorf("default flow = %v, want export", body["flow"])
	}
}

func TestStatsToolUpstreamFailure(t *testing.T) {
	client := testStatClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	res, err := NewGeneralStatsTool(client).Execute(context.Background(), json.RawMessage(`{"flow":"export"}`))
	if err != nil {
		t.Fatalf("upstream failures must be carried in the result, got err: %v", err)
	}
	if !res.IsError || !strings.Contains(res.Error, "503") {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestStatsToolBadArguments(t *testing.T) {
	client := comexstat.New(comexstat.Config{})

	res, err := NewGeneralStatsTool(client).Execute(context.Background(), json.RawMessage(`{"flow":`))
	if err != nil {
		t.Fatalf("malformed args must not be a hard error: %v", err)
	}
	if !res.IsError || !strings.Contains(res.Error, "invalid arguments") {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestAuxiliaryTableToolRequiresName(t *testing.T) {
	client := comexstat.New(comexstat.Config{})

	res, err := NewAuxiliaryTableTool(client).Execute(context.Background(), json.RawMessage(`{"search":"soja"}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.IsError || !strings.Contains(res.Error, "table_name") {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestAuxiliaryTableToolForwardsSearch(t *testing.T) {
	var rawQuery string
	client := testStatClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tables/ncm" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":{"list":[{"coNcm":"12019000","text":"Soja, mesmo triturada"}]}}`))
	})

	args := json.RawMessage(`{"table_name":"ncm","search":"soja","language":"pt","perPage":10}`)
	res, err := NewAuxiliaryTableTool(client).Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", res.Error)
	}
	if !strings.Contains(rawQuery, "search=soja") || !strings.Contains(rawQuery, "perPage=10") {
		t.Errorf("params not forwarded: %q", rawQuery)
	}
	if !strings.Contains(res.Output, "12019000") {
		t.Errorf("unexpected output: %s", res.Output)
	}
}

func TestItemDetailToolNumericID(t *testing.T) {
	client := testStatClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tables/countries/63" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"id":63,"text":"Argentina"}}`))
	})

	res, err := NewItemDetailTool(client).Execute(context.Background(), json.RawMessage(`{"table_name":"countries","item_id":63}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", res.Error)
	}
	if !strings.Contains(res.Output, "Argentina") {
		t.Errorf("unexpected output: %s", res.Output)
	}
}

func TestItemDetailToolNotFoundIsAnswer(t *testing.T) {
	client := testStatClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	res, err := NewItemDetailTool(client).Execute(context.Background(), json.RawMessage(`{"table_name":"ncm","item_id":"99999999"}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.IsError {
		t.Errorf("not-found must not be an error result: %+v", res)
	}
	if res.Output != "Item '99999999' not found in table 'ncm'." {
		t.Errorf("unexpected output: %q", res.Output)
	}
}

func TestFormatItemID(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{float64(63), "63"},
		{float64(12019000), "12019000"},
		{"063", "063"},
		{1.5, "1.5"},
	}
	for _, tt := range tests {
		if got := formatItemID(tt.in); got != tt.want {
			t.Errorf("formatItemID(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
