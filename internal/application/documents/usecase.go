package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// DocumentUseCase crea y consulta documentos comerciales y es el único punto,
// fuera de la acción manual del operador, donde se muta el libro de stock
// (al confirmar o anular un documento).
type DocumentUseCase struct {
	txRunner      DocumentTxRunner
	stockLedger   StockLedger
	docRepo       repository.DocumentRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(
	txRunner DocumentTxRunner,
	stockLedger StockLedger,
	docRepo repository.DocumentRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *DocumentUseCase {
	return &DocumentUseCase{
		txRunner:      txRunner,
		stockLedger:   stockLedger,
		docRepo:       docRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Create guarda el documento y sus líneas en estado DRAFT. El inventario no
// se toca hasta la confirmación.
func (uc *DocumentUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if !entity.ValidDocumentType(in.Type) || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.WarehouseID != "" {
		wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
		if err != nil {
			return nil, err
		}
		if wh == nil || wh.CompanyID != companyID || !wh.Active {
			return nil, domain.ErrUnknownWarehouse
		}
	}

	// Validar productos y precios fuera de la tx (solo lectura).
	productsByID := make(map[string]*entity.Product, len(in.Lines))
	for i := range in.Lines {
		line := &in.Lines[i]
		if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if line.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		if line.UnitPrice.IsZero() {
			line.UnitPrice = product.Price
		}
		productsByID[line.ProductID] = product
	}

	now := time.Now()
	number := in.Number
	if number == "" {
		number = fmt.Sprintf("DOC-%d", now.Unix())
	}
	doc := &entity.Document{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Type:        in.Type,
		Status:      entity.DocumentStatusDraft,
		Number:      number,
		WarehouseID: in.WarehouseID,
		Date:        now,
		Notes:       in.Notes,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	lines := make([]*entity.DocumentLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, &entity.DocumentLine{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			Subtotal:   l.Quantity.Mul(l.UnitPrice),
		})
	}

	err := uc.txRunner.RunDocument(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.StockPositionRepository,
		docRepo repository.DocumentRepository,
	) error {
		if err := docRepo.Create(doc); err != nil {
			return err
		}
		for _, line := range lines {
			if err := docRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, lines), nil
}

// GetByID obtiene un documento con sus líneas.
func (uc *DocumentUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.docRepo.GetLines(id)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, lines), nil
}

// List lista documentos de la empresa, opcionalmente por estado.
func (uc *DocumentUseCase) List(ctx context.Context, companyID, status string, limit, offset int) (*dto.DocumentListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.docRepo.ListByCompany(companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDocumentResponse(d, nil))
	}
	return &dto.DocumentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toDocumentResponse(doc *entity.Document, lines []*entity.DocumentLine) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:          doc.ID,
		CompanyID:   doc.CompanyID,
		Type:        doc.Type,
		Status:      doc.Status,
		Number:      doc.Number,
		WarehouseID: doc.WarehouseID,
		Date:        doc.Date,
		Notes:       doc.Notes,
		Lines:       make([]dto.DocumentLineResponse, 0, len(lines)),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.DocumentLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return resp
}
