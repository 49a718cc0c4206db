package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Policy políticas configurables del libro de stock.
type Policy struct {
	// RecordZeroAdjustment: si true, un ajuste con delta cero también escribe
	// un movimiento ADJUSTMENT de magnitud cero (auditoría exhaustiva).
	// Por defecto false: sin delta no hay movimiento.
	RecordZeroAdjustment bool
}

// LedgerUseCase opera el libro de stock: posiciones, movimientos manuales,
// ajustes y traslados. Toda mutación pasa por una transacción (TxRunner) que
// escribe posición y movimiento como una sola unidad.
type LedgerUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	posRepo       repository.StockPositionRepository
	movRepo       repository.StockMovementRepository
	policy        Policy
}

// NewLedgerUseCase construye el caso de uso. posRepo y movRepo atados al pool
// se usan solo para lecturas; las escrituras van por txRunner.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	posRepo repository.StockPositionRepository,
	movRepo repository.StockMovementRepository,
	policy Policy,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		posRepo:       posRepo,
		movRepo:       movRepo,
		policy:        policy,
	}
}

// GetPosition devuelve la posición actual (ceros si nunca hubo actividad) con
// el estado frente a los umbrales informativos del producto.
func (uc *LedgerUseCase) GetPosition(ctx context.Context, companyID, warehouseID, productID string) (*dto.StockPositionResponse, error) {
	if _, err := uc.requireWarehouse(companyID, warehouseID); err != nil {
		return nil, err
	}
	product, err := uc.requireProduct(companyID, productID)
	if err != nil {
		return nil, err
	}
	pos, err := uc.posRepo.Get(warehouseID, productID)
	if err != nil {
		return nil, err
	}
	return &dto.StockPositionResponse{
		WarehouseID:     warehouseID,
		ProductID:       productID,
		Quantity:        pos.Quantity,
		ReservedQty:     pos.ReservedQty,
		AvailableQty:    pos.AvailableQty(),
		ThresholdStatus: product.ThresholdStatus(pos.Quantity),
		UpdatedAt:       pos.UpdatedAt,
	}, nil
}

// RegisterMovement registra un movimiento manual. Solo admite los tipos que
// no tienen productor propio: RETURN y PRODUCTION (entradas) y LOSS (salida).
// SALE/PURCHASE nacen de la confirmación de documentos, ADJUSTMENT del
// reconciliador y TRANSFER_IN/OUT del coordinador de traslados.
func (uc *LedgerUseCase) RegisterMovement(ctx context.Context, companyID, userID string, in dto.RegisterMovementRequest) (*dto.StockMovementResponse, error) {
	switch in.Type {
	case entity.MovementTypeRETURN, entity.MovementTypePRODUCTION, entity.MovementTypeLOSS:
	default:
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, &domain.InvalidQuantityError{Quantity: in.Quantity, Reason: "la cantidad debe ser mayor que cero"}
	}
	if _, err := uc.requireWarehouse(companyID, in.WarehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.requireProduct(companyID, in.ProductID); err != nil {
		return nil, err
	}

	now := time.Now()
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		posRepo repository.StockPositionRepository,
	) error {
		var errTx error
		if entity.MovementSign(in.Type) > 0 {
			mov, errTx = uc.IncreaseInTx(movRepo, posRepo, MovementEntry{
				CompanyID:   companyID,
				WarehouseID: in.WarehouseID,
				ProductID:   in.ProductID,
				Type:        in.Type,
				Quantity:    in.Quantity,
				Notes:       in.Notes,
				CreatedBy:   userID,
				Now:         now,
			})
		} else {
			mov, errTx = uc.DeductInTx(movRepo, posRepo, MovementEntry{
				CompanyID:   companyID,
				WarehouseID: in.WarehouseID,
				ProductID:   in.ProductID,
				Type:        in.Type,
				Quantity:    in.Quantity,
				Notes:       in.Notes,
				CreatedBy:   userID,
				Now:         now,
			})
		}
		return errTx
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mov), nil
}

// ListMovements consulta el kardex con filtros por bodega, producto,
// referencia y rango de fechas.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, companyID string, filter repository.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := uc.movRepo.List(companyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// VerifyPosition compara la posición materializada contra el pliegue con
// signo de su historial completo de movimientos. Deben coincidir siempre.
func (uc *LedgerUseCase) VerifyPosition(ctx context.Context, companyID, warehouseID, productID string) (*dto.ConsistencyResponse, error) {
	if _, err := uc.requireWarehouse(companyID, warehouseID); err != nil {
		return nil, err
	}
	pos, err := uc.posRepo.Get(warehouseID, productID)
	if err != nil {
		return nil, err
	}
	sum, err := uc.movRepo.SumSigned(warehouseID, productID)
	if err != nil {
		return nil, err
	}
	return &dto.ConsistencyResponse{
		WarehouseID:    warehouseID,
		ProductID:      productID,
		StoredQuantity: pos.Quantity,
		MovementSum:    sum,
		Consistent:     pos.Quantity.Equal(sum),
	}, nil
}

// MovementEntry describe una entrada o salida a aplicar dentro de una tx.
type MovementEntry struct {
	CompanyID     string
	WarehouseID   string
	ProductID     string
	Type          string
	Quantity      decimal.Decimal // magnitud positiva
	Direction     string          // solo ADJUSTMENT: IN o OUT
	ReferenceType string
	ReferenceID   string
	Notes         string
	CreatedBy     string
	Now           time.Time
}

// DeductInTx descuenta stock usando los repositorios del caller (misma
// transacción). La verificación de disponibilidad y el decremento son una
// sola operación atómica en el storage: dos deducciones concurrentes nunca
// pasan ambas contra un saldo viejo. Si el disponible no alcanza retorna
// InsufficientStockError sin haber mutado nada.
func (uc *LedgerUseCase) DeductInTx(
	movRepo repository.StockMovementRepository,
	posRepo repository.StockPositionRepository,
	entry MovementEntry,
) (*entity.StockMovement, error) {
	if !entry.Quantity.GreaterThan(decimal.Zero) {
		return nil, &domain.InvalidQuantityError{Quantity: entry.Quantity, Reason: "la cantidad debe ser mayor que cero"}
	}
	_, err := posRepo.DeductAvailable(entry.WarehouseID, entry.ProductID, entry.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			// Solo para armar el mensaje: el saldo leído aquí no participa
			// de ninguna decisión de escritura.
			pos, getErr := posRepo.Get(entry.WarehouseID, entry.ProductID)
			if getErr != nil {
				return nil, getErr
			}
			return nil, &domain.InsufficientStockError{
				ProductID:   entry.ProductID,
				WarehouseID: entry.WarehouseID,
				Available:   pos.AvailableQty(),
				Required:    entry.Quantity,
			}
		}
		return nil, err
	}
	mov := uc.buildMovement(entry)
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// IncreaseInTx suma stock usando los repositorios del caller (misma
// transacción). Siempre procede: los umbrales máximos son informativos,
// nunca topes duros.
func (uc *LedgerUseCase) IncreaseInTx(
	movRepo repository.StockMovementRepository,
	posRepo repository.StockPositionRepository,
	entry MovementEntry,
) (*entity.StockMovement, error) {
	if !entry.Quantity.GreaterThan(decimal.Zero) {
		return nil, &domain.InvalidQuantityError{Quantity: entry.Quantity, Reason: "la cantidad debe ser mayor que cero"}
	}
	if _, err := posRepo.Increase(entry.WarehouseID, entry.ProductID, entry.Quantity); err != nil {
		return nil, err
	}
	mov := uc.buildMovement(entry)
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func (uc *LedgerUseCase) buildMovement(entry MovementEntry) *entity.StockMovement {
	return &entity.StockMovement{
		ID:            uuid.New().String(),
		CompanyID:     entry.CompanyID,
		WarehouseID:   entry.WarehouseID,
		ProductID:     entry.ProductID,
		Type:          entry.Type,
		Quantity:      entry.Quantity,
		Direction:     entry.Direction,
		Date:          entry.Now,
		ReferenceType: entry.ReferenceType,
		ReferenceID:   entry.ReferenceID,
		Notes:         entry.Notes,
		CreatedBy:     entry.CreatedBy,
		CreatedAt:     entry.Now,
	}
}

// requireWarehouse valida que la bodega exista, sea de la empresa y esté activa.
func (uc *LedgerUseCase) requireWarehouse(companyID, warehouseID string) (*entity.Warehouse, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil || wh.CompanyID != companyID || !wh.Active {
		return nil, domain.ErrUnknownWarehouse
	}
	return wh, nil
}

// requireProduct valida que el producto exista, sea de la empresa y tenga
// control de stock. Operar manualmente sobre un producto sin control de stock
// es un error del caller, no un no-op.
func (uc *LedgerUseCase) requireProduct(companyID, productID string) (*entity.Product, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if !product.TracksStock {
		return nil, domain.ErrUnknownProduct
	}
	return product, nil
}

func toMovementResponse(m *entity.StockMovement) *dto.StockMovementResponse {
	if m == nil {
		return nil
	}
	return &dto.StockMovementResponse{
		ID:            m.ID,
		WarehouseID:   m.WarehouseID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		SignedQty:     m.SignedQuantity(),
		Date:          m.Date,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
