package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fabiokp/comexchat/internal/comexstat"
)

// AuxiliaryTableTool looks up reference tables (countries, product
// classifications, UFs, ...) so the agent can resolve codes before using
// them as statistics filters.
type AuxiliaryTableTool struct {
	client *comexstat.Client
}

func NewAuxiliaryTableTool(client *comexstat.Client) *AuxiliaryTableTool {
	return &AuxiliaryTableTool{client: client}
}

func (t *AuxiliaryTableTool) Name() string { return "fetch_auxiliary_table" }

func (t *AuxiliaryTableTool) Description() string {
	return "Busca uma tabela auxiliar da API ComexStat. Procura códigos ou descrições em tabelas auxiliares " +
		"como países, produto CUCI, UF, etc. Forneça o nome da tabela e o valor a ser pesquisado."
}

func (t *AuxiliaryTableTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"table_name": {
				"type": "string",
				"enum": ["countries", "uf", "cities", "ways", "urf", "economic-blocks", "product-categories", "ncm", "hs", "nbm", "classifications"],
				"description": "Nome da tabela: countries (países), uf (estados), cities (cidades), ways (vias de transporte), urf (unidades da Receita Federal), economic-blocks (blocos econômicos), product-categories (produtos CUCI/SITC), ncm, hs (Sistema Harmonizado), nbm, classifications (CGCE)."
			},
			"add": {
				"type": "string",
				"description": "Parâmetro adicional (aplicável a: ncm, hs, nbm, classifications, product-categories, economic-blocks)."
			},
			"language": {
				"type": "string",
				"enum": ["pt", "en", "es"],
				"description": "Código do idioma (aplicável a: ncm, hs, nbm, classifications, product-categories, economic-blocks)."
			},
			"page": {
				"type": "integer",
				"description": "Número da página (aplicável a: product-categories, ncm, hs, nbm, classifications)."
			},
			"perPage": {
				"type": "integer",
				"description": "Itens por página (aplicável a: product-categories, ncm, hs, nbm, classifications)."
			},
			"search": {
				"type": "string",
				"description": "Termo de busca (aplicável a: product-categories, ncm, hs, nbm, classifications, economic-blocks)."
			}
		},
		"required": ["table_name"]
	}`)
}

func (t *AuxiliaryTableTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		TableName string `json:"table_name"`
		Add       string `json:"add"`
		Language  string `json:"language"`
		Page      int    `json:"page"`
		PerPage   int    `json:"perPage"`
		Search    string `json:"search"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return &Result{Error: "invalid arguments: " + err.Error(), IsError: true}, nil
	}
	if params.TableName == "" {
		return &Result{Error: "table_name is required", IsError: true}, nil
	}

	rows, err := t.client.AuxiliaryTable(ctx, params.TableName, &comexstat.TableOptions{
		Add:      params.Add,
		Language: params.Language,
		Page:     params.Page,
		PerPage:  params.PerPage,
		Search:   params.Search,
	})
	if err != nil {
		return &Result{Error: err.Error(), IsError: true}, nil
	}
	return &Result{Output: rowsToJSON(rows)}, nil
}

// ItemDetailTool fetches the attribute mapping of a single auxiliary-table
// item, e.g. one country or one NCM code.
type ItemDetailTool struct {
	client *comexstat.Client
}

func NewItemDetailTool(client *comexstat.Client) *ItemDetailTool {
	return &ItemDetailTool{client: client}
}

func (t *ItemDetailTool) Name() string { return "fetch_single_item_detail" }

func (t *ItemDetailTool) Description() string {
	return "Busca detalhes de um único item de uma tabela auxiliar do ComexStat. Fornece informações adicionais, " +
		"descrição ou códigos para um país, cidade/município, produto, via, URF, NBM ou NCM."
}

func (t *ItemDetailTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"table_name": {
				"type": "string",
				"enum": ["uf", "cities", "countries", "ways", "urf", "nbm", "ncm"],
				"description": "Nome da tabela do item."
			},
			"item_id": {
				"description": "ID do item a ser buscado, correspondente à tabela. Ex: ID inteiro do país para 'countries', coMunGeo para 'cities', coNcm para 'ncm'."
			}
		},
		"required": ["table_name", "item_id"]
	}`)
}

func (t *ItemDetailTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		TableName string `json:"table_name"`
		ItemID    any    `json:"item_id"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return &Result{Error: "invalid arguments: " + err.Error(), IsError: true}, nil
	}
	if params.TableName == "" || params.ItemID == nil {
		return &Result{Error: "table_name and item_id are required", IsError: true}, nil
	}

	id := formatItemID(params.ItemID)
	item, err := t.client.ItemDetail(ctx, params.TableName, id)
	if err != nil {
		return &Result{Error: err.Error(), IsError: true}, nil
	}
	if item == nil {
		// Absence is an answer, not a failure.
		return &Result{Output: fmt.Sprintf("Item '%s' not found in table '%s'.", id, params.TableName)}, nil
	}

	data, err := json.Marshal(item)
	if err != nil {
		return &Result{Error: "encode item: " + err.Error(), IsError: true}, nil
	}
	return &Result{Output: string(data)}, nil
}

// formatItemID renders a JSON id value as a path segment. JSON numbers decode
// as float64; integral IDs must not pick up a decimal point.
func formatItemID(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", v)
}
