package documents

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// DocumentTxRunner ejecuta una función dentro de una transacción que incluye
// los repos del libro de stock y el de documentos: el cambio de estado del
// documento y sus movimientos se confirman o se revierten juntos.
type DocumentTxRunner interface {
	RunDocument(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		posRepo repository.StockPositionRepository,
		docRepo repository.DocumentRepository,
	) error) error
}

// StockLedger interfaz para integrar documentos con el libro de stock.
// DeductInTx/IncreaseInTx operan con los repositorios del caller (misma
// transacción). Si retornan error (ej: InsufficientStockError), el caller
// debe dejar que la transacción se revierta completa.
type StockLedger interface {
	DeductInTx(
		movRepo repository.StockMovementRepository,
		posRepo repository.StockPositionRepository,
		entry ledger.MovementEntry,
	) (*entity.StockMovement, error)
	IncreaseInTx(
		movRepo repository.StockMovementRepository,
		posRepo repository.StockPositionRepository,
		entry ledger.MovementEntry,
	) (*entity.StockMovement, error)
}
