package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// DocumentRepository define el puerto de persistencia para documentos
// comerciales y sus líneas.
type DocumentRepository interface {
	Create(document *entity.Document) error
	CreateLine(line *entity.DocumentLine) error
	GetByID(id string) (*entity.Document, error)
	GetLines(documentID string) ([]*entity.DocumentLine, error)
	ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Document, error)
	// UpdateStatus persiste la transición de estado de forma condicional:
	// solo aplica si el estado almacenado sigue siendo fromStatus; si otro
	// proceso ya transicionó el documento devuelve domain.ErrConflict. Debe
	// ejecutarse en la misma transacción que los movimientos que genera; el
	// bloqueo de fila que toma serializa transiciones concurrentes.
	UpdateStatus(document *entity.Document, fromStatus string) error
}
