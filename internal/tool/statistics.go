package tool

import (
	"context"
	"encoding/json"

	"github.com/fabiokp/comexchat/internal/comexstat"
)

// statisticsQueryArgs are the arguments shared by both statistics tools.
type statisticsQueryArgs struct {
	Flow        string             `json:"flow"`
	MonthDetail bool               `json:"monthDetail"`
	Period      *comexstat.Period  `json:"period"`
	Filters     []comexstat.Filter `json:"filters"`
	Details     []string           `json:"details"`
	Metrics     []string           `json:"metrics"`
}

func (a *statisticsQueryArgs) toRequest(defaultFlow string) *comexstat.QueryRequest {
	req := &comexstat.QueryRequest{
		Flow:        a.Flow,
		MonthDetail: a.MonthDetail,
		Filters:     a.Filters,
		Details:     a.Details,
		Metrics:     a.Metrics,
	}
	if req.Flow == "" {
		req.Flow = defaultFlow
	}
	if a.Period != nil {
		req.Period = *a.Period
	} else {
		req.Period = comexstat.Period{From: "2024-01", To: "2024-12"}
	}
	return req
}

// rowsToJSON renders a result list for the LLM.
func rowsToJSON(rows []comexstat.Row) string {
	if rows == nil {
		return "null"
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "null"
	}
	return string(data)
}

// GeneralStatsTool queries aggregated trade statistics (POST /general).
type GeneralStatsTool struct {
	client *comexstat.Client
}

func NewGeneralStatsTool(client *comexstat.Client) *GeneralStatsTool {
	return &GeneralStatsTool{client: client}
}

func (t *GeneralStatsTool) Name() string { return "dados_gerais" }

func (t *GeneralStatsTool) Description() string {
	return "Busca dados gerais de comércio exterior da API ComexStat. " +
		"Filtros de mês ou ano devem ser aplicados apenas no argumento 'period'; nunca informe 'year' em filters ou details. " +
		"O ID do país nos filtros deve ser sempre uma string de 3 dígitos, ex: '063' para Argentina."
}

func (t *GeneralStatsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"flow": {
				"type": "string",
				"enum": ["import", "export"],
				"description": "Fluxo desejado: 'import' ou 'export'. Nunca 'both'. Padrão: 'import'."
			},
			"monthDetail": {
				"type": "boolean",
				"description": "Se detalhes mensais devem ser incluídos. Padrão: false."
			},
			"period": {
				"type": "object",
				"properties": {
					"from": {"type": "string", "description": "Início do período, formato 'AAAA-MM'."},
					"to": {"type": "string", "description": "Fim do período, formato 'AAAA-MM'."}
				},
				"required": ["from", "to"],
				"description": "Período da consulta. O intervalo 'MM' indica os meses recuperados para todos os anos 'AAAA' no intervalo."
			},
			"filters": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"filter": {"type": "string", "description": "Dimensão: country, economicBlock, state, via, urf, SITCSection, SITCDivision, SITCGroup, SITCSubGroup, SITCBasicHeading, ncm, subHeading, heading, chapter, section, BECLevel1, BECLevel2, BECLevel3, ISICSection, ISICDivision, ISICGroup ou ISICClass. Nunca 'year'."},
						"values": {"type": "array", "items": {}, "description": "Códigos a filtrar, ex: ['063']."}
					},
					"required": ["filter", "values"]
				},
				"description": "Filtros opcionais, ex: [{\"filter\": \"country\", \"values\": [\"063\"]}]."
			},
			"details": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Detalhamentos desejados, ex: 'country', 'state', 'SITCGroup'. Nunca 'year'."
			},
			"metrics": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Métricas: metricFOB, metricKG, metricStatistic (requer filtro ncm), metricFreight, metricInsurance e metricCIF (os três últimos requerem flow='import')."
			}
		}
	}`)
}

func (t *GeneralStatsTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params statisticsQueryArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return &Result{Error: "invalid arguments: " + err.Error(), IsError: true}, nil
	}

	rows, err := t.client.GeneralQuery(ctx, params.toRequest(comexstat.FlowImport))
	if err != nil {
		return &Result{Error: err.Error(), IsError: true}, nil
	}
	return &Result{Output: rowsToJSON(rows)}, nil
}

// MunicipalityStatsTool queries trade statistics at city/state granularity
// (POST /cities).
type MunicipalityStatsTool struct {
	client *comexstat.Client
}

func NewMunicipalityStatsTool(client *comexstat.Client) *MunicipalityStatsTool {
	return &MunicipalityStatsTool{client: client}
}

func (t *MunicipalityStatsTool) Name() string { return "dados_municipio" }

func (t *MunicipalityStatsTool) Description() string {
	return "Busca dados de comércio exterior em nível de município da API ComexStat. " +
		"Filtros de mês ou ano devem ser aplicados apenas no argumento 'period'; nunca informe 'year' em filters ou details."
}

func (t *MunicipalityStatsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"flow": {
				"type": "string",
				"enum": ["import", "export"],
				"description": "Fluxo desejado: 'import' ou 'export'. Nunca 'both'. Padrão: 'export'."
			},
			"monthDetail": {
				"type": "boolean",
				"description": "Se detalhes mensais devem ser incluídos. Padrão: false."
			},
			"period": {
				"type": "object",
				"properties": {
					"from": {"type": "string", "description": "Início do período, formato 'AAAA-MM'."},
					"to": {"type": "string", "description": "Fim do período, formato 'AAAA-MM'."}
				},
				"required": ["from", "to"],
				"description": "Período da consulta."
			},
			"filters": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"filter": {"type": "string", "description": "Dimensão: country, economicBlock, state, city, heading, chapter ou section. Nunca 'year'."},
						"values": {"type": "array", "items": {}, "description": "Códigos a filtrar, ex: [26]."}
					},
					"required": ["filter", "values"]
				},
				"description": "Filtros opcionais, ex: [{\"filter\": \"state\", \"values\": [26]}]."
			},
			"details": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Detalhamentos desejados, ex: 'country', 'state', 'city', 'heading'. Nunca 'year'."
			},
			"metrics": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Métricas: metricFOB e metricKG."
			}
		}
	}`)
}

func (t *MunicipalityStatsTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params statisticsQueryArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return &Result{Error: "invalid arguments: " + err.Error(), IsError: true}, nil
	}

	rows, err := t.client.MunicipalityQuery(ctx, params.toRequest(comexstat.FlowExport))
	if err != nil {
		return &Result{Error: err.Error(), IsError: true}, nil
	}
	return &Result{Output: rowsToJSON(rows)}, nil
}
