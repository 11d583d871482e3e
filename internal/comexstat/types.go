package comexstat

// Flow values accepted by the statistics endpoints. The API never accepts
// "both"; queries wanting both directions must be issued twice.
const (
	FlowImport = "import"
	FlowExport = "export"
)

// Period bounds a statistics query. Both ends use the "YYYY-MM" format; the
// month range applies to every year in the interval.
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Filter restricts a query to specific values of one dimension,
// e.g. {"filter": "country", "values": ["063"]}.
type Filter struct {
	Filter string `json:"filter"`
	Values []any  `json:"values"`
}

// QueryRequest is the request body shared by the general and
// municipality-level statistics queries.
type QueryRequest struct {
	Flow        string   `json:"flow"`
	MonthDetail bool     `json:"monthDetail"`
	Period      Period   `json:"period"`
	Filters     []Filter `json:"filters"`
	Details     []string `json:"details"`
	Metrics     []string `json:"metrics"`
}

// Row is one record of a statistics or auxiliary-table result.
type Row = map[string]any

// listEnvelope mirrors the API's {"data": {"list": [...]}} wrapper.
type listEnvelope struct {
	Data struct {
		List []Row `json:"list"`
	} `json:"data"`
}
