package domain

import (
	"time"

	"github.com/farmaindex/backend-go/internal/analysis"
)

// Role is the membership role inside an organization.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleCollaborator Role = "colaborador"
)

// Client is a pharmacy whose spreadsheets get analyzed.
type Client struct {
	ID        string    `json:"id" db:"id"`
	OrgID     string    `json:"org_id" db:"org_id"`
	CNPJ      string    `json:"cnpj,omitempty" db:"cnpj"`
	Name      string    `json:"nome_fantasia" db:"nome_fantasia"`
	City      string    `json:"cidade,omitempty" db:"cidade"`
	State     string    `json:"uf,omitempty" db:"uf"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Membership links a user to an organization with a role.
type Membership struct {
	OrgID  string `json:"org_id" db:"org_id"`
	UserID string `json:"user_id" db:"user_id"`
	Role   Role   `json:"role" db:"role"`
	IsRoot bool   `json:"is_root" db:"is_root"`
}

// IsAdmin reports whether the membership grants admin privileges.
func (m Membership) IsAdmin() bool {
	return m.Role == RoleAdmin || m.IsRoot
}

// AnalysisRun is one persisted execution of the engine for a client.
// Field names mirror the analise_runs table.
type AnalysisRun struct {
	ID               string           `json:"id" db:"id"`
	OrgID            string           `json:"org_id" db:"org_id"`
	ClientID         string           `json:"cliente_id" db:"cliente_id"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	CreatedBy        string           `json:"created_by" db:"created_by"`
	PeriodDays       int              `json:"periodo_dias" db:"periodo_dias"`
	AlgorithmVersion string           `json:"algoritmo_versao" db:"algoritmo_versao"`
	SalesPath        string           `json:"path_vendas,omitempty" db:"path_vendas"`
	InventoryPath    string           `json:"path_inventario,omitempty" db:"path_inventario"`
	PeriodStart      *time.Time       `json:"periodo_inicio,omitempty" db:"periodo_inicio"`
	PeriodEnd        *time.Time       `json:"periodo_fim,omitempty" db:"periodo_fim"`
	Summary          analysis.Summary `json:"summary" db:"-"`
}

// AnalysisRunDetail is a run plus the full product lists stored with it.
type AnalysisRunDetail struct {
	AnalysisRun
	Consolidated []analysis.ConsolidatedProduct `json:"consolidated"`
	Stockouts    []analysis.ConsolidatedProduct `json:"faltas"`
	Stagnant     []analysis.ConsolidatedProduct `json:"parados"`
}

// RunCurve is one row of analise_runs_curvas: the per-curve rollup of a
// stored run, denormalized for trend queries.
type RunCurve struct {
	RunID              string  `json:"run_id" db:"run_id"`
	Curve              string  `json:"curva" db:"curva"`
	SKUs               int     `json:"skus" db:"skus"`
	StagnantSKUs       int     `json:"skus_parados" db:"skus_parados"`
	StockoutSKUs       int     `json:"skus_em_falta" db:"skus_em_falta"`
	Sales90d           float64 `json:"venda_90d" db:"venda_90d"`
	CMV90d             float64 `json:"cmv_90d" db:"cmv_90d"`
	GrossProfit90d     float64 `json:"lucro_bruto_90d" db:"lucro_bruto_90d"`
	StagnantStockUnits float64 `json:"estoque_parado_unid" db:"estoque_parado_unid"`
	StagnantStockValue float64 `json:"estoque_parado_valor" db:"estoque_parado_valor"`
	ExcessUnits        float64 `json:"excesso_unidades" db:"excesso_unidades"`
	ExcessValue        float64 `json:"excesso_valor" db:"excesso_valor"`
	AvgCoverageDays    float64 `json:"dias_estoque_medio" db:"dias_estoque_medio"`
	StockoutPercent    float64 `json:"falta_percent" db:"falta_percent"`
}

// RunFilter narrows run history queries.
type RunFilter struct {
	OrgID    string `json:"org_id"`
	ClientID string `json:"cliente_id"`
	Limit    int    `json:"limit"`
}

// TopProducts are the derived "top N" slices computed by the service
// layer on top of an engine result.
type TopProducts struct {
	Stockouts []analysis.ConsolidatedProduct `json:"top_faltas"`
	Excess    []analysis.ConsolidatedProduct `json:"top_excessos"`
	Stagnant  []analysis.ConsolidatedProduct `json:"top_parados"`
}
