package documents

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Confirm transiciona el documento DRAFT -> CONFIRMED y aplica el inventario
// de cada línea con control de stock en la misma transacción: descuenta (SALE)
// en ventas, suma (PURCHASE) en compras, siempre con referencia al documento.
// Si cualquier línea falla (stock insuficiente incluido), TODO se revierte:
// movimientos, posiciones y el cambio de estado. Nunca hay confirmación
// parcial.
func (uc *DocumentUseCase) Confirm(ctx context.Context, companyID, userID, documentID string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if doc.Status != entity.DocumentStatusDraft {
		return nil, domain.ErrConflict
	}

	warehouse, err := uc.resolveWarehouse(companyID, doc)
	if err != nil {
		return nil, err
	}

	lines, err := uc.docRepo.GetLines(doc.ID)
	if err != nil {
		return nil, err
	}
	products, err := uc.loadProducts(companyID, lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	movementType, outbound := doc.MovementTypeOnConfirm()

	err = uc.txRunner.RunDocument(ctx, func(
		movRepo repository.StockMovementRepository,
		posRepo repository.StockPositionRepository,
		docRepo repository.DocumentRepository,
	) error {
		// La transición condicional DRAFT -> CONFIRMED va primero: toma el
		// bloqueo de fila del documento, así dos confirmaciones concurrentes
		// se serializan aquí y la perdedora recibe conflicto sin tocar stock.
		// La verificación de estado previa a la transacción no basta: ambas
		// pudieron leer DRAFT antes de que cualquiera confirmara.
		doc.Status = entity.DocumentStatusConfirmed
		doc.WarehouseID = warehouse.ID
		doc.UpdatedAt = now
		if err := docRepo.UpdateStatus(doc, entity.DocumentStatusDraft); err != nil {
			return err
		}

		// Guarda adicional de idempotencia: si el documento ya registró
		// movimientos, no se duplican.
		count, err := movRepo.CountByReference(doc.ReferenceType(), doc.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrConflict
		}

		for _, line := range lines {
			product := products[line.ProductID]
			if !product.TracksStock {
				// Productos sin control de stock: la línea se factura pero
				// no toca el libro.
				continue
			}
			entry := ledger.MovementEntry{
				CompanyID:     companyID,
				WarehouseID:   warehouse.ID,
				ProductID:     line.ProductID,
				Type:          movementType,
				Quantity:      line.Quantity,
				ReferenceType: doc.ReferenceType(),
				ReferenceID:   doc.ID,
				CreatedBy:     userID,
				Now:           now,
			}
			if outbound {
				_, err = uc.stockLedger.DeductInTx(movRepo, posRepo, entry)
			} else {
				_, err = uc.stockLedger.IncreaseInTx(movRepo, posRepo, entry)
			}
			if err != nil {
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

// Void transiciona CONFIRMED -> VOID escribiendo movimientos compensatorios
// por cada línea con control de stock (el histórico nunca se edita): RETURN
// entrante para anular una venta, ADJUSTMENT saliente para anular una compra.
// La reversa de una compra pasa por la misma verificación de disponibilidad
// que cualquier otra salida.
func (uc *DocumentUseCase) Void(ctx context.Context, companyID, userID, documentID string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if doc.Status != entity.DocumentStatusConfirmed {
		return nil, domain.ErrConflict
	}

	lines, err := uc.docRepo.GetLines(doc.ID)
	if err != nil {
		return nil, err
	}
	products, err := uc.loadProducts(companyID, lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = uc.txRunner.RunDocument(ctx, func(
		movRepo repository.StockMovementRepository,
		posRepo repository.StockPositionRepository,
		docRepo repository.DocumentRepository,
	) error {
		// Igual que en la confirmación: la transición condicional
		// CONFIRMED -> VOID serializa anulaciones concurrentes antes de
		// escribir cualquier reversa.
		doc.Status = entity.DocumentStatusVoid
		doc.UpdatedAt = now
		if err := docRepo.UpdateStatus(doc, entity.DocumentStatusConfirmed); err != nil {
			return err
		}

		for _, line := range lines {
			product := products[line.ProductID]
			if !product.TracksStock {
				continue
			}
			entry := ledger.MovementEntry{
				CompanyID:     companyID,
				WarehouseID:   doc.WarehouseID,
				ProductID:     line.ProductID,
				Quantity:      line.Quantity,
				ReferenceType: doc.ReferenceType(),
				ReferenceID:   doc.ID,
				Notes:         "anulación de documento " + doc.Number,
				CreatedBy:     userID,
				Now:           now,
			}
			if doc.Type == entity.DocumentTypeSales {
				entry.Type = entity.MovementTypeRETURN
				_, err = uc.stockLedger.IncreaseInTx(movRepo, posRepo, entry)
			} else {
				entry.Type = entity.MovementTypeADJUSTMENT
				entry.Direction = entity.AdjustmentDirectionOut
				_, err = uc.stockLedger.DeductInTx(movRepo, posRepo, entry)
			}
			if err != nil {
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

// resolveWarehouse resuelve la bodega objetivo de la confirmación: la del
// documento si trae, si no la bodega por defecto explícita de la empresa.
// Sin bodega por defecto configurada, la confirmación se rechaza: no se
// adivina con "la primera bodega activa".
func (uc *DocumentUseCase) resolveWarehouse(companyID string, doc *entity.Document) (*entity.Warehouse, error) {
	if doc.WarehouseID != "" {
		wh, err := uc.warehouseRepo.GetByID(doc.WarehouseID)
		if err != nil {
			return nil, err
		}
		if wh == nil || wh.CompanyID != companyID || !wh.Active {
			return nil, domain.ErrUnknownWarehouse
		}
		return wh, nil
	}
	wh, err := uc.warehouseRepo.GetDefault(companyID)
	if err != nil {
		return nil, err
	}
	if wh == nil || !wh.Active {
		return nil, domain.ErrUnknownWarehouse
	}
	return wh, nil
}

func (uc *DocumentUseCase) loadProducts(companyID string, lines []*entity.DocumentLine) (map[string]*entity.Product, error) {
	products := make(map[string]*entity.Product, len(lines))
	for _, line := range lines {
		if _, ok := products[line.ProductID]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		products[line.ProductID] = product
	}
	return products, nil
}
