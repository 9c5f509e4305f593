package drive

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/farmaindex/backend-go/internal/service"
)

// workbook name prefixes the ingester looks for inside a client folder.
const (
	salesFilePrefix     = "vendas"
	inventoryFilePrefix = "inventario"
)

// IngestService pulls a client's spreadsheet pair from a shared Drive
// folder and runs the analysis over it, so pharmacies that drop files
// in Drive don't need to touch the API.
type IngestService struct {
	driveService *Service
	analysis     *service.AnalysisService
	rootPath     string
}

func NewIngestService(driveService *Service, analysisSvc *service.AnalysisService, rootPath string) *IngestService {
	return &IngestService{
		driveService: driveService,
		analysis:     analysisSvc,
		rootPath:     rootPath,
	}
}

// IngestClient locates the vendas and inventario workbooks inside
// <root>/<folderName>, downloads both concurrently and runs the engine
// for the given client.
func (s *IngestService) IngestClient(ctx context.Context, orgID, clientID, userID, folderName string) (string, error) {
	folderID, err := s.driveService.FindFolderByPath(joinPath(s.rootPath, folderName))
	if err != nil {
		return "", err
	}

	files, err := s.driveService.ListFiles(folderID)
	if err != nil {
		return "", err
	}

	salesFile := findWorkbook(files, salesFilePrefix)
	inventoryFile := findWorkbook(files, inventoryFilePrefix)
	if salesFile == nil {
		return "", fmt.Errorf("pasta %s: planilha de vendas não encontrada", folderName)
	}
	if inventoryFile == nil {
		return "", fmt.Errorf("pasta %s: planilha de inventário não encontrada", folderName)
	}

	var salesBuf, inventoryBuf bytes.Buffer
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.downloadFile(gctx, salesFile.ID, &salesBuf)
	})
	g.Go(func() error {
		return s.downloadFile(gctx, inventoryFile.ID, &inventoryBuf)
	})
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("download das planilhas falhou: %w", err)
	}

	detail, err := s.analysis.Run(ctx, service.AnalysisInput{
		OrgID:     orgID,
		ClientID:  clientID,
		UserID:    userID,
		Sales:     &salesBuf,
		Inventory: &inventoryBuf,
	})
	if err != nil {
		return "", err
	}
	return detail.ID, nil
}

func (s *IngestService) downloadFile(ctx context.Context, fileID string, w *bytes.Buffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.driveService.DownloadFile(fileID, w)
}

// findWorkbook returns the most recently modified .xlsx whose name
// starts with the prefix, comparing case and accent insensitively
// ("Inventário outubro.xlsx" matches "inventario").
func findWorkbook(files []*File, prefix string) *File {
	var best *File
	for _, f := range files {
		name := normalizeFileName(f.Name)
		if !strings.HasSuffix(name, ".xlsx") || !strings.HasPrefix(name, prefix) {
			continue
		}
		if best == nil || f.ModifiedTime > best.ModifiedTime {
			best = f
		}
	}
	return best
}

func normalizeFileName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer("á", "a", "â", "a", "ã", "a", "é", "e", "ê", "e", "í", "i", "ó", "o", "ô", "o", "ú", "u", "ç", "c")
	return replacer.Replace(name)
}

func joinPath(root, folder string) string {
	root = strings.Trim(root, "/")
	folder = strings.Trim(folder, "/")
	if root == "" {
		return folder
	}
	if folder == "" {
		return root
	}
	return root + "/" + folder
}
