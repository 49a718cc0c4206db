package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// SetAbsolute concilia la posición con una cantidad absoluta declarada por el
// operador (conteo físico). Calcula delta = objetivo - actual bajo bloqueo de
// fila, escribe la cantidad objetivo directamente (no por incremento, para
// evitar deriva por agregación) y registra un ADJUSTMENT de magnitud |delta|.
// Con delta cero no se escribe movimiento, salvo que la política
// RecordZeroAdjustment esté activa. Todo en una transacción.
func (uc *LedgerUseCase) SetAbsolute(ctx context.Context, companyID, userID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if in.TargetQty.LessThan(decimal.Zero) {
		// Stock absoluto negativo es un error del caller; distinto de la
		// disponibilidad negativa transitoria que pueden causar las reservas.
		return nil, &domain.InvalidQuantityError{Quantity: in.TargetQty, Reason: "la cantidad objetivo no puede ser negativa"}
	}
	if _, err := uc.requireWarehouse(companyID, in.WarehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.requireProduct(companyID, in.ProductID); err != nil {
		return nil, err
	}

	now := time.Now()
	out := &dto.AdjustStockResponse{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		NewQuantity: in.TargetQty,
	}
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		posRepo repository.StockPositionRepository,
	) error {
		pos, err := posRepo.GetForUpdate(in.WarehouseID, in.ProductID)
		if err != nil {
			return err
		}
		delta := in.TargetQty.Sub(pos.Quantity)
		out.Delta = delta

		if delta.IsZero() && !uc.policy.RecordZeroAdjustment {
			return nil
		}
		if err := posRepo.SetQuantity(in.WarehouseID, in.ProductID, in.TargetQty); err != nil {
			return err
		}
		direction := entity.AdjustmentDirectionIn
		if delta.IsNegative() {
			direction = entity.AdjustmentDirectionOut
		}
		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			CompanyID:   companyID,
			WarehouseID: in.WarehouseID,
			ProductID:   in.ProductID,
			Type:        entity.MovementTypeADJUSTMENT,
			Quantity:    delta.Abs(),
			Direction:   direction,
			Date:        now,
			Notes:       in.Reason,
			CreatedBy:   userID,
			CreatedAt:   now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		out.MovementID = mov.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
