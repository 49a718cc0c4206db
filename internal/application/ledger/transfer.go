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

// Transfer traslada cantidad entre dos bodegas como una unidad atómica:
// TRANSFER_OUT en origen y TRANSFER_IN en destino, en la misma transacción,
// compartiendo una referencia de traslado generada. Si la pierna de entrada
// falla, la salida también se revierte; nunca hay traslado parcial visible.
func (uc *LedgerUseCase) Transfer(ctx context.Context, companyID, userID string, in dto.TransferStockRequest) (*dto.TransferStockResponse, error) {
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, &domain.InvalidQuantityError{Quantity: in.Quantity, Reason: "la cantidad debe ser mayor que cero"}
	}
	if _, err := uc.requireWarehouse(companyID, in.FromWarehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.requireWarehouse(companyID, in.ToWarehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.requireProduct(companyID, in.ProductID); err != nil {
		return nil, err
	}

	now := time.Now()
	transferID := uuid.New().String()

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		posRepo repository.StockPositionRepository,
	) error {
		_, err := uc.DeductInTx(movRepo, posRepo, MovementEntry{
			CompanyID:     companyID,
			WarehouseID:   in.FromWarehouseID,
			ProductID:     in.ProductID,
			Type:          entity.MovementTypeTransferOut,
			Quantity:      in.Quantity,
			ReferenceType: entity.ReferenceTypeTransfer,
			ReferenceID:   transferID,
			Notes:         in.Notes,
			CreatedBy:     userID,
			Now:           now,
		})
		if err != nil {
			var insufficient *domain.InsufficientStockError
			if errors.As(err, &insufficient) {
				return &domain.TransferExceedsAvailableError{
					ProductID:       in.ProductID,
					FromWarehouseID: in.FromWarehouseID,
					Available:       insufficient.Available,
					Required:        in.Quantity,
				}
			}
			return err
		}
		_, err = uc.IncreaseInTx(movRepo, posRepo, MovementEntry{
			CompanyID:     companyID,
			WarehouseID:   in.ToWarehouseID,
			ProductID:     in.ProductID,
			Type:          entity.MovementTypeTransferIn,
			Quantity:      in.Quantity,
			ReferenceType: entity.ReferenceTypeTransfer,
			ReferenceID:   transferID,
			Notes:         in.Notes,
			CreatedBy:     userID,
			Now:           now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.TransferStockResponse{
		TransferID:      transferID,
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
	}, nil
}
