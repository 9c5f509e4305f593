package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/farmaindex/backend-go/internal/analysis"
	"github.com/farmaindex/backend-go/internal/cache"
	"github.com/farmaindex/backend-go/internal/domain"
	"github.com/farmaindex/backend-go/internal/excel"
	"github.com/farmaindex/backend-go/internal/repository"
	"github.com/farmaindex/backend-go/internal/storage"
)

// AlgorithmVersion tags every stored run with the engine revision that
// produced it.
const AlgorithmVersion = "v1"

// ErrClientNotFound is returned when the target pharmacy does not exist
// in the caller's organization.
var ErrClientNotFound = fmt.Errorf("cliente não encontrado")

// AnalysisInput carries one upload pair.
type AnalysisInput struct {
	OrgID       string
	ClientID    string
	UserID      string
	Sales       io.Reader
	Inventory   io.Reader
	PeriodStart *time.Time
	PeriodEnd   *time.Time
}

// AnalysisService runs the engine over uploaded spreadsheets and
// persists the result.
type AnalysisService struct {
	engine  *analysis.Engine
	runs    repository.RunRepository
	clients repository.ClientRepository
	store   storage.ObjectStorage
	cache   cache.RunCache
	topN    int
}

func NewAnalysisService(
	engine *analysis.Engine,
	runs repository.RunRepository,
	clients repository.ClientRepository,
	store storage.ObjectStorage,
	cacheImpl cache.RunCache,
	topN int,
) *AnalysisService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopRunCache()
	}
	if topN <= 0 {
		topN = 10
	}
	return &AnalysisService{
		engine:  engine,
		runs:    runs,
		clients: clients,
		store:   store,
		cache:   cacheImpl,
		topN:    topN,
	}
}

// Run reads both spreadsheets, validates them, executes the engine and
// stores the run. The uploaded files are archived in object storage
// when a store is configured; archiving failures don't fail the run.
func (s *AnalysisService) Run(ctx context.Context, input AnalysisInput) (*domain.AnalysisRunDetail, error) {
	client, err := s.clients.GetClient(ctx, input.OrgID, input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	salesData, err := io.ReadAll(input.Sales)
	if err != nil {
		return nil, fmt.Errorf("ler planilha de vendas: %w", err)
	}
	inventoryData, err := io.ReadAll(input.Inventory)
	if err != nil {
		return nil, fmt.Errorf("ler planilha de inventário: %w", err)
	}

	salesHeader, salesRecords, err := excel.ReadSheet(bytes.NewReader(salesData))
	if err != nil {
		return nil, fmt.Errorf("a planilha de vendas está vazia ou não pôde ser lida: %w", err)
	}
	inventoryHeader, inventoryRecords, err := excel.ReadSheet(bytes.NewReader(inventoryData))
	if err != nil {
		return nil, fmt.Errorf("a planilha de inventário está vazia ou não pôde ser lida: %w", err)
	}

	if err := analysis.ValidateColumns(salesHeader, inventoryHeader, len(salesRecords), len(inventoryRecords)); err != nil {
		return nil, err
	}

	result := s.engine.Process(
		analysis.SalesRowsFromRecords(salesRecords),
		analysis.InventoryRowsFromRecords(inventoryRecords),
	)

	runID := uuid.NewString()
	salesPath, inventoryPath := s.archive(ctx, input.OrgID, input.ClientID, runID, salesData, inventoryData)

	detail := &domain.AnalysisRunDetail{
		AnalysisRun: domain.AnalysisRun{
			ID:               runID,
			OrgID:            input.OrgID,
			ClientID:         input.ClientID,
			CreatedAt:        time.Now().UTC(),
			CreatedBy:        input.UserID,
			PeriodDays:       int(analysis.PeriodDays),
			AlgorithmVersion: AlgorithmVersion,
			SalesPath:        salesPath,
			InventoryPath:    inventoryPath,
			PeriodStart:      input.PeriodStart,
			PeriodEnd:        input.PeriodEnd,
			Summary:          result.Summary,
		},
		Consolidated: result.Consolidated,
		Stockouts:    result.Stockouts,
		Stagnant:     result.Stagnant,
	}

	if err := s.runs.SaveRun(ctx, detail); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateClient(ctx, input.OrgID, input.ClientID); err != nil {
		log.Warn().Err(err).Str("client_id", input.ClientID).Msg("analysis: cache invalidation failed")
	}

	return detail, nil
}

// archive stores the raw uploads next to the run for later audit.
func (s *AnalysisService) archive(ctx context.Context, orgID, clientID, runID string, sales, inventory []byte) (string, string) {
	if s.store == nil {
		return "", ""
	}

	salesKey := fmt.Sprintf("org/%s/cliente/%s/%s/vendas.xlsx", orgID, clientID, runID)
	inventoryKey := fmt.Sprintf("org/%s/cliente/%s/%s/inventario.xlsx", orgID, clientID, runID)

	if err := s.store.UploadObject(ctx, salesKey, sales); err != nil {
		log.Warn().Err(err).Str("key", salesKey).Msg("analysis: sales archive failed")
		salesKey = ""
	}
	if err := s.store.UploadObject(ctx, inventoryKey, inventory); err != nil {
		log.Warn().Err(err).Str("key", inventoryKey).Msg("analysis: inventory archive failed")
		inventoryKey = ""
	}
	return salesKey, inventoryKey
}

// TopProducts derives the ranked alert slices the dashboard and the
// assistant payload show.
func (s *AnalysisService) TopProducts(detail *domain.AnalysisRunDetail) domain.TopProducts {
	stockouts := sortedCopy(detail.Stockouts, func(a, b analysis.ConsolidatedProduct) bool {
		return a.NetSales > b.NetSales
	})

	excess := make([]analysis.ConsolidatedProduct, 0)
	for _, p := range detail.Consolidated {
		if p.ExcessFlag {
			excess = append(excess, p)
		}
	}
	excess = sortedCopy(excess, func(a, b analysis.ConsolidatedProduct) bool {
		return a.ExcessValue > b.ExcessValue
	})

	stagnant := sortedCopy(detail.Stagnant, func(a, b analysis.ConsolidatedProduct) bool {
		return a.Stock*a.UnitCost > b.Stock*b.UnitCost
	})

	return domain.TopProducts{
		Stockouts: truncate(stockouts, s.topN),
		Excess:    truncate(excess, s.topN),
		Stagnant:  truncate(stagnant, s.topN),
	}
}

func sortedCopy(products []analysis.ConsolidatedProduct, less func(a, b analysis.ConsolidatedProduct) bool) []analysis.ConsolidatedProduct {
	c := append([]analysis.ConsolidatedProduct(nil), products...)
	sort.SliceStable(c, func(i, j int) bool { return less(c[i], c[j]) })
	return c
}

func truncate(products []analysis.ConsolidatedProduct, n int) []analysis.ConsolidatedProduct {
	if len(products) > n {
		return products[:n]
	}
	return products
}

// Export renders a stored run's product list as a workbook.
func (s *AnalysisService) Export(ctx context.Context, orgID, runID string, view excel.View, w io.Writer) error {
	detail, err := s.runs.GetRun(ctx, orgID, runID)
	if err != nil {
		return err
	}
	if detail == nil {
		return fmt.Errorf("análise não encontrada")
	}

	products := detail.Consolidated
	switch view {
	case excel.ViewStockout:
		products = detail.Stockouts
	case excel.ViewStagnant:
		products = detail.Stagnant
	}

	return excel.WriteProducts(w, products, view)
}
