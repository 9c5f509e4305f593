package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/farmaindex/backend-go/internal/analysis"
	"github.com/farmaindex/backend-go/internal/domain"
	"github.com/farmaindex/backend-go/internal/repository"
)

type runRepository struct {
	db *DB
}

// NewRunRepository builds the Postgres-backed run store.
func NewRunRepository(db *DB) repository.RunRepository {
	return &runRepository{db: db}
}

// runRow is the sqlx scan target for analise_runs; JSONB columns come
// out as raw bytes and are decoded separately.
type runRow struct {
	ID               string         `db:"id"`
	OrgID            string         `db:"org_id"`
	ClientID         string         `db:"cliente_id"`
	CreatedAt        sql.NullTime   `db:"created_at"`
	CreatedBy        string         `db:"created_by"`
	PeriodDays       int            `db:"periodo_dias"`
	AlgorithmVersion string         `db:"algoritmo_versao"`
	SalesPath        sql.NullString `db:"path_vendas"`
	InventoryPath    sql.NullString `db:"path_inventario"`
	PeriodStart      sql.NullTime   `db:"periodo_inicio"`
	PeriodEnd        sql.NullTime   `db:"periodo_fim"`
	Summary          []byte         `db:"summary"`
	Consolidated     []byte         `db:"produtos"`
	Stockouts        []byte         `db:"faltas"`
	Stagnant         []byte         `db:"parados"`
}

func (r runRow) toRun() (domain.AnalysisRun, error) {
	run := domain.AnalysisRun{
		ID:               r.ID,
		OrgID:            r.OrgID,
		ClientID:         r.ClientID,
		CreatedBy:        r.CreatedBy,
		PeriodDays:       r.PeriodDays,
		AlgorithmVersion: r.AlgorithmVersion,
		SalesPath:        r.SalesPath.String,
		InventoryPath:    r.InventoryPath.String,
	}
	if r.CreatedAt.Valid {
		run.CreatedAt = r.CreatedAt.Time
	}
	if r.PeriodStart.Valid {
		t := r.PeriodStart.Time
		run.PeriodStart = &t
	}
	if r.PeriodEnd.Valid {
		t := r.PeriodEnd.Time
		run.PeriodEnd = &t
	}
	if len(r.Summary) > 0 {
		if err := json.Unmarshal(r.Summary, &run.Summary); err != nil {
			return run, fmt.Errorf("decode run summary: %w", err)
		}
	}
	return run, nil
}

func decodeProducts(raw []byte) ([]analysis.ConsolidatedProduct, error) {
	products := make([]analysis.ConsolidatedProduct, 0)
	if len(raw) == 0 {
		return products, nil
	}
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	return products, nil
}

func (r *runRepository) SaveRun(ctx context.Context, run *domain.AnalysisRunDetail) error {
	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}
	consolidated, err := json.Marshal(run.Consolidated)
	if err != nil {
		return fmt.Errorf("encode consolidated products: %w", err)
	}
	stockouts, err := json.Marshal(run.Stockouts)
	if err != nil {
		return fmt.Errorf("encode stockout products: %w", err)
	}
	stagnant, err := json.Marshal(run.Stagnant)
	if err != nil {
		return fmt.Errorf("encode stagnant products: %w", err)
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		const insertRun = `
			INSERT INTO analise_runs (
				id, org_id, cliente_id, created_by, periodo_dias,
				algoritmo_versao, path_vendas, path_inventario,
				periodo_inicio, periodo_fim,
				summary, produtos, faltas, parados
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		_, err := tx.ExecContext(ctx, insertRun,
			run.ID, run.OrgID, run.ClientID, run.CreatedBy, run.PeriodDays,
			run.AlgorithmVersion, nullIfEmpty(run.SalesPath), nullIfEmpty(run.InventoryPath),
			run.PeriodStart, run.PeriodEnd,
			summary, consolidated, stockouts, stagnant,
		)
		if err != nil {
			return fmt.Errorf("error inserting analysis run: %w", err)
		}

		const insertCurve = `
			INSERT INTO analise_runs_curvas (
				run_id, curva, skus, skus_parados, skus_em_falta,
				venda_90d, cmv_90d, lucro_bruto_90d,
				estoque_parado_unid, estoque_parado_valor,
				excesso_unidades, excesso_valor,
				dias_estoque_medio, falta_percent
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		for _, c := range run.Summary.Curves {
			_, err := tx.ExecContext(ctx, insertCurve,
				run.ID, string(c.Curve), c.SKUs, c.StagnantSKUs, c.StockoutSKUs,
				c.Sales90d, c.CMV90d, c.GrossProfit90d,
				c.StagnantStockUnits, c.StagnantStockValue,
				c.ExcessUnits, c.ExcessValue,
				c.AvgCoverageDays, c.StockoutPercent,
			)
			if err != nil {
				return fmt.Errorf("error inserting run curve %s: %w", c.Curve, err)
			}
		}
		return nil
	})
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func (r *runRepository) GetRun(ctx context.Context, orgID, runID string) (*domain.AnalysisRunDetail, error) {
	const query = `
		SELECT id, org_id, cliente_id, created_at, created_by,
		       periodo_dias, algoritmo_versao, path_vendas, path_inventario,
		       periodo_inicio, periodo_fim,
		       summary, produtos, faltas, parados
		FROM analise_runs
		WHERE org_id = $1 AND id = $2
	`

	var row runRow
	if err := r.db.GetContext(ctx, &row, query, orgID, runID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting analysis run: %w", err)
	}

	run, err := row.toRun()
	if err != nil {
		return nil, err
	}

	detail := &domain.AnalysisRunDetail{AnalysisRun: run}
	if detail.Consolidated, err = decodeProducts(row.Consolidated); err != nil {
		return nil, err
	}
	if detail.Stockouts, err = decodeProducts(row.Stockouts); err != nil {
		return nil, err
	}
	if detail.Stagnant, err = decodeProducts(row.Stagnant); err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *runRepository) ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.AnalysisRun, error) {
	query := `
		SELECT id, org_id, cliente_id, created_at, created_by,
		       periodo_dias, algoritmo_versao, path_vendas, path_inventario,
		       periodo_inicio, periodo_fim,
		       summary, '[]'::jsonb AS produtos, '[]'::jsonb AS faltas, '[]'::jsonb AS parados
		FROM analise_runs
		WHERE org_id = $1
	`

	args := []interface{}{filter.OrgID}
	if filter.ClientID != "" {
		query += fmt.Sprintf(" AND cliente_id = $%d", len(args)+1)
		args = append(args, filter.ClientID)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error listing analysis runs: %w", err)
	}

	runs := make([]domain.AnalysisRun, 0, len(rows))
	for _, row := range rows {
		run, err := row.toRun()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (r *runRepository) LatestRun(ctx context.Context, orgID, clientID string) (*domain.AnalysisRun, error) {
	runs, err := r.ListRuns(ctx, domain.RunFilter{OrgID: orgID, ClientID: clientID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (r *runRepository) GetRunCurves(ctx context.Context, runID string) ([]domain.RunCurve, error) {
	const query = `
		SELECT run_id, curva, skus, skus_parados, skus_em_falta,
		       venda_90d, cmv_90d, lucro_bruto_90d,
		       estoque_parado_unid, estoque_parado_valor,
		       excesso_unidades, excesso_valor,
		       dias_estoque_medio, falta_percent
		FROM analise_runs_curvas
		WHERE run_id = $1
		ORDER BY curva
	`

	var curves []domain.RunCurve
	if err := r.db.SelectContext(ctx, &curves, query, runID); err != nil {
		return nil, fmt.Errorf("error getting run curves: %w", err)
	}
	return curves, nil
}
