package ledger

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Posición y movimiento se escriben siempre
// juntos dentro del mismo Run: el libro no expone mutación por fuera.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		posRepo repository.StockPositionRepository,
	) error) error
}
