package documents_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/documents"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El DocumentTxRunner ejecuta fn sobre una copia del estado
// (posiciones, movimientos y documentos) y la publica solo si fn no falla:
// así se verifica que la confirmación es una unidad, estado incluido.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompany = "c-1"
	testUser    = "u-1"
	whDefault   = "wh-default"
	whOther     = "wh-other"
	prodA       = "p-a"
	prodB       = "p-b"
	prodService = "p-service"
)

func posKey(warehouseID, productID string) string { return warehouseID + "|" + productID }

type memState struct {
	positions map[string]entity.StockPosition
	movements []entity.StockMovement
	docs      map[string]entity.Document
	lines     map[string][]entity.DocumentLine
}

func newMemState() *memState {
	return &memState{
		positions: make(map[string]entity.StockPosition),
		docs:      make(map[string]entity.Document),
		lines:     make(map[string][]entity.DocumentLine),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.positions {
		c.positions[k] = v
	}
	c.movements = append(c.movements, s.movements...)
	for k, v := range s.docs {
		c.docs[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = append([]entity.DocumentLine(nil), v...)
	}
	return c
}

type posRepo struct{ s *memState }

func (r *posRepo) Get(warehouseID, productID string) (*entity.StockPosition, error) {
	if pos, ok := r.s.positions[posKey(warehouseID, productID)]; ok {
		p := pos
		return &p, nil
	}
	return &entity.StockPosition{WarehouseID: warehouseID, ProductID: productID,
		Quantity: decimal.Zero, ReservedQty: decimal.Zero}, nil
}

func (r *posRepo) GetForUpdate(warehouseID, productID string) (*entity.StockPosition, error) {
	k := posKey(warehouseID, productID)
	if _, ok := r.s.positions[k]; !ok {
		r.s.positions[k] = entity.StockPosition{WarehouseID: warehouseID, ProductID: productID,
			Quantity: decimal.Zero, ReservedQty: decimal.Zero}
	}
	p := r.s.positions[k]
	return &p, nil
}

func (r *posRepo) DeductAvailable(warehouseID, productID string, qty decimal.Decimal) (*entity.StockPosition, error) {
	pos, _ := r.Get(warehouseID, productID)
	if pos.AvailableQty().LessThan(qty) {
		return nil, domain.ErrInsufficientStock
	}
	pos.Quantity = pos.Quantity.Sub(qty)
	r.s.positions[posKey(warehouseID, productID)] = *pos
	return pos, nil
}

func (r *posRepo) Increase(warehouseID, productID string, qty decimal.Decimal) (*entity.StockPosition, error) {
	pos, _ := r.Get(warehouseID, productID)
	pos.Quantity = pos.Quantity.Add(qty)
	r.s.positions[posKey(warehouseID, productID)] = *pos
	return pos, nil
}

func (r *posRepo) SetQuantity(warehouseID, productID string, qty decimal.Decimal) error {
	pos, _ := r.Get(warehouseID, productID)
	pos.Quantity = qty
	r.s.positions[posKey(warehouseID, productID)] = *pos
	return nil
}

func (r *posRepo) ExistsForWarehouse(warehouseID string) (bool, error) { return false, nil }

type movRepo struct{ s *memState }

func (r *movRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *movRepo) GetByID(id string) (*entity.StockMovement, error) { return nil, nil }

func (r *movRepo) List(companyID string, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *movRepo) CountByReference(referenceType, referenceID string) (int, error) {
	count := 0
	for i := range r.s.movements {
		if r.s.movements[i].ReferenceType == referenceType && r.s.movements[i].ReferenceID == referenceID {
			count++
		}
	}
	return count, nil
}

func (r *movRepo) SumSigned(warehouseID, productID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.WarehouseID == warehouseID && m.ProductID == productID {
			sum = sum.Add(m.SignedQuantity())
		}
	}
	return sum, nil
}

type docRepo struct{ s *memState }

func (r *docRepo) Create(d *entity.Document) error {
	r.s.docs[d.ID] = *d
	return nil
}

func (r *docRepo) CreateLine(l *entity.DocumentLine) error {
	r.s.lines[l.DocumentID] = append(r.s.lines[l.DocumentID], *l)
	return nil
}

func (r *docRepo) GetByID(id string) (*entity.Document, error) {
	if d, ok := r.s.docs[id]; ok {
		doc := d
		return &doc, nil
	}
	return nil, nil
}

func (r *docRepo) GetLines(documentID string) ([]*entity.DocumentLine, error) {
	var out []*entity.DocumentLine
	for i := range r.s.lines[documentID] {
		l := r.s.lines[documentID][i]
		out = append(out, &l)
	}
	return out, nil
}

func (r *docRepo) ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range r.s.docs {
		if d.CompanyID != companyID {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		doc := d
		out = append(out, &doc)
	}
	return out, nil
}

func (r *docRepo) UpdateStatus(d *entity.Document, fromStatus string) error {
	stored, ok := r.s.docs[d.ID]
	if !ok || stored.Status != fromStatus {
		return domain.ErrConflict
	}
	stored.Status = d.Status
	stored.WarehouseID = d.WarehouseID
	stored.UpdatedAt = d.UpdatedAt
	r.s.docs[d.ID] = stored
	return nil
}

type txRunner struct{ s *memState }

func (r *txRunner) RunDocument(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	posRepo repository.StockPositionRepository,
	docRepo repository.DocumentRepository,
) error) error {
	tmp := r.s.clone()
	if err := fn(&movRepo{tmp}, &posRepo{tmp}, &docRepo{tmp}); err != nil {
		return err
	}
	*r.s = *tmp
	return nil
}

// Run hace también de TxRunner del libro: el constructor del ledger lo pide
// aunque estos tests solo usan los métodos *InTx.
func (r *txRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	posRepo repository.StockPositionRepository,
) error) error {
	tmp := r.s.clone()
	if err := fn(&movRepo{tmp}, &posRepo{tmp}); err != nil {
		return err
	}
	*r.s = *tmp
	return nil
}

// raceRunner simula a un proceso concurrente que gana la carrera: ejecuta
// flip (los efectos del ganador, ya confirmados) entre la lectura inicial del
// documento y la apertura de la transacción del perdedor.
type raceRunner struct {
	*txRunner
	flip func()
}

func (r *raceRunner) RunDocument(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	posRepo repository.StockPositionRepository,
	docRepo repository.DocumentRepository,
) error) error {
	if r.flip != nil {
		r.flip()
	}
	return r.txRunner.RunDocument(ctx, fn)
}

type warehouseRepo struct{ byID map[string]*entity.Warehouse }

func (r *warehouseRepo) Create(w *entity.Warehouse) error              { r.byID[w.ID] = w; return nil }
func (r *warehouseRepo) GetByID(id string) (*entity.Warehouse, error)  { return r.byID[id], nil }
func (r *warehouseRepo) Update(w *entity.Warehouse) error              { r.byID[w.ID] = w; return nil }
func (r *warehouseRepo) Delete(id string) error                        { delete(r.byID, id); return nil }
func (r *warehouseRepo) ClearDefault(companyID string) error           { return nil }
func (r *warehouseRepo) ListByCompany(companyID string, activeOnly bool, limit, offset int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (r *warehouseRepo) GetDefault(companyID string) (*entity.Warehouse, error) {
	for _, w := range r.byID {
		if w.CompanyID == companyID && w.IsDefault {
			return w, nil
		}
	}
	return nil, nil
}

type productRepo struct{ byID map[string]*entity.Product }

func (r *productRepo) Create(p *entity.Product) error             { r.byID[p.ID] = p; return nil }
func (r *productRepo) GetByID(id string) (*entity.Product, error) { return r.byID[id], nil }
func (r *productRepo) Update(p *entity.Product) error             { r.byID[p.ID] = p; return nil }
func (r *productRepo) GetBySKU(companyID, sku string) (*entity.Product, error) { return nil, nil }
func (r *productRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type fixture struct {
	uc    *documents.DocumentUseCase
	state *memState
	whs   *warehouseRepo
	race  *raceRunner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	state := newMemState()
	runner := &raceRunner{txRunner: &txRunner{s: state}}
	whs := &warehouseRepo{byID: map[string]*entity.Warehouse{
		whDefault: {ID: whDefault, CompanyID: testCompany, Code: "BOD-01", Active: true, IsDefault: true},
		whOther:   {ID: whOther, CompanyID: testCompany, Code: "BOD-02", Active: true},
	}}
	prods := &productRepo{byID: map[string]*entity.Product{
		prodA:       {ID: prodA, CompanyID: testCompany, SKU: "A", TracksStock: true, Price: decimal.NewFromInt(100)},
		prodB:       {ID: prodB, CompanyID: testCompany, SKU: "B", TracksStock: true, Price: decimal.NewFromInt(50)},
		prodService: {ID: prodService, CompanyID: testCompany, SKU: "SRV", TracksStock: false, Price: decimal.NewFromInt(30)},
	}}
	ledgerUC := ledger.NewLedgerUseCase(runner, prods, whs, &posRepo{s: state}, &movRepo{s: state}, ledger.Policy{})
	docs := &docRepo{s: state}
	uc := documents.NewDocumentUseCase(runner, ledgerUC, docs, prods, whs)
	return &fixture{uc: uc, state: state, whs: whs, race: runner}
}

func (f *fixture) seedStock(warehouseID, productID string, qty int64) {
	f.state.positions[posKey(warehouseID, productID)] = entity.StockPosition{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    decimal.NewFromInt(qty),
		ReservedQty: decimal.Zero,
	}
}

func (f *fixture) seedDocument(docType, status, warehouseID string, lines map[string]int64) string {
	id := uuid.New().String()
	f.state.docs[id] = entity.Document{
		ID:          id,
		CompanyID:   testCompany,
		Type:        docType,
		Status:      status,
		Number:      "DOC-TEST",
		WarehouseID: warehouseID,
		Date:        time.Now(),
	}
	for productID, qty := range lines {
		f.state.lines[id] = append(f.state.lines[id], entity.DocumentLine{
			ID:         uuid.New().String(),
			DocumentID: id,
			ProductID:  productID,
			Quantity:   decimal.NewFromInt(qty),
			UnitPrice:  decimal.NewFromInt(10),
			Subtotal:   decimal.NewFromInt(qty * 10),
		})
	}
	return id
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_QuedaEnBorradorSinTocarStock(t *testing.T) {
	f := newFixture(t)
	f.seedStock(whDefault, prodA, 10)

	doc, err := f.uc.Create(context.Background(), testCompany, testUser, dto.CreateDocumentRequest{
		Type:   entity.DocumentTypeSales,
		Number: "V-001",
		Lines: []dto.DocumentLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusDraft, doc.Status)

	pos := f.state.positions[posKey(whDefault, prodA)]
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(10)), "crear en borrador no toca el stock")
	assert.Empty(t, f.state.movements)
}

func TestCreate_TipoInvalidoOSinLineas(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), testCompany, testUser, dto.CreateDocumentRequest{
		Type:  "OTRO",
		Lines: []dto.DocumentLineRequest{{ProductID: prodA, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(context.Background(), testCompany, testUser, dto.CreateDocumentRequest{
		Type: entity.DocumentTypeSales,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_PrecioPorDefectoDelCatalogo(t *testing.T) {
	f := newFixture(t)

	doc, err := f.uc.Create(context.Background(), testCompany, testUser, dto.CreateDocumentRequest{
		Type: entity.DocumentTypeSales,
		Lines: []dto.DocumentLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(2)}, // sin unit_price
		},
	})
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.True(t, doc.Lines[0].UnitPrice.Equal(decimal.NewFromInt(100)), "toma el precio del catálogo")
	assert.True(t, doc.Lines[0].Subtotal.Equal(decimal.NewFromInt(200)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirm
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_VentaDescuentaPorLinea(t *testing.T) {
	f := newFixture(t)
	f.seedStock(whDefault, prodA, 10)
	f.seedStock(whDefault, prodB, 8)
	docID := f.seedDocument(entity.DocumentTypeSales, entity.DocumentStatusDraft, whDefault,
		map[string]int64{prodA: 3, prodB: 2})

	doc, err := f.uc.Confirm(context.Background(), testCompany, testUser, docID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusConfirmed, doc.Status)

	assert.True(t, f.state.positions[posKey(whDefault, prodA)].Quantity.Equal(decimal.NewFromInt(7)))
	assert.True(t, f.state.positions[posKey(whDefault, prodB)].Quantity.Equal(decimal.NewFromInt(6)))

	require.Len(t, f.state.movements, 2)
	for _, m := range f.state.movements {
		assert.Equal(t, entity.MovementTypeSALE, m.Type)
		assert.Equal(t, entity.ReferenceTypeSalesDocument, m.ReferenceType)
		assert.Equal(t, docID, m.ReferenceID)
		assert.Equal(t, testUser, m.CreatedBy)
	}
}

func TestConfirm_CompraSuma(t *testing.T) {
	f := newFixture(t)
	docID := f.seedDocument(entity.DocumentTypePurchase, entity.DocumentStatusDraft, whDefault,
		map[string]int64{prodA: 15})

	doc, err := f.uc.Confirm(context.Background(), testCompany, testUser, docID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusConfirmed, doc.Status)

	assert.True(t, f.state.positions[posKey(whDefault, prodA)].Quantity.Equal(decimal.NewFromInt(15)),
		"la compra crea la posición si no existía")
	require.Len(t, f.state.movements, 1)
	assert.Equal(t, entity.MovementTypePURCHASE, f.state.movements[0].Type)
	assert.Equal(t, entity.ReferenceTypePurchaseDocument, f.state.movements[0].ReferenceType)
}

func TestConfirm_TodoONada(t *testing.T) {
	f := newFixture(t)
	f.seedStock(whDefault, prodA, 10)
	f.seedStock(whDefault, prodB, 1) // la segunda línea no alcanza
	docID := f.seedDocument(entity.DocumentTypeSales, entity.DocumentStatusDraft, whDefault,
		map[string]int64{prodA: 3, prodB: 2})

	_, err := f.uc.Confirm(context.Background(), testCompany, testUser, docID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada cambió: ni la línea que sí alcanzaba, ni el estado del documento.
	assert.True(t, f.state.positions[posKey(whDefault, prodA)].Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, f.state.positions[posKey(whDefault, prodB)].Quantity.Equal(decimal.NewFromInt(1)))
	assert.Empty(t, f.state.movements)
	assert.Equal(t, entity.DocumentStatusDraft, f.state.docs[docID].Status)
}

func TestConfirm_SoloDesdeBorrador(t *testing.T) {
	f := newFixture(t)
	for _, status := range []string{entity.DocumentStatusConfirmed, entity.DocumentStatusVoid} {
		docID := f.seedDocument(entity.DocumentTypeSales, status, whDefault, map[string]int64{prodA: 1})
		_, err := f.uc.Confirm(context.Background(), testCompany, testUser, docID)
		assert.ErrorIs(t, err, domain.ErrConflict, "estado %s no es confirmable", status)
	}
}

func TestConfirm_GuardaDeIdempotencia(t *testing.T) {
	f := newFixture(t)
	f.seedStock(whDefault, prodA, 10)
	docID := f.seedDocument(entity.DocumentTypeSales, entity.DocumentStatusDraft, whDefault,
		map[string]int64{prodA: 3})

	// Simula una confirmación concurrente que ya escribió el movimiento pero
	// cuyo cambio de estado este proceso aún no vio.
	f.state.movements = append(f.state.movements, entity.StockMovement{
		ID:            uuid.New().String(),
		CompanyID:     testCompany,
		WarehouseID:   whDefault,
		ProductID:     prodA,
		Type:          entity.MovementTypeSALE,
		Quantity:      decimal.NewFromInt(3),
		ReferenceType: entity.ReferenceTypeSalesDocument,
		ReferenceID:   docID,
	})

	_, err := f.uc.Confirm(context.Background(), testCompany, testUser, docID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.Len(t, f.state.movements, 1, "no debe duplicar los movimientos del documento")
	assert.True(t, f.state.positions[posKey(whDefault, prodA)].Quantity.Equal(decimal.NewFromInt(10)))
}

func TestConfirm_CarreraDeConfirmacionesSoloAplicaUna(t *testing.T) {
	f := newFixture(t)
	f.seedStock(whDefault, prodA, 10)
	docID := f.seedDocument(entity.DocumentTypeSales, entity.DocumentStatusDraft, whDefault,
		map[string]int64{prodA: 3})

	// El otro proceso gana la carrera: transiciona el documento después de
	// que este leyó DRAFT pero antes de que abra su transacción. La guarda
	// de movimientos no lo cubre (ese count todavía vería cero); es la
	// transición condicional de estado la que debe rechazar al perdedor.
	f.race.flip = func() {
		d := f.state.docs[docID]
		d.Status = entity.DocumentStatusConfirmed
		f.state.docs[docID] = d
	}

	_, err := f.uc.Confirm(context.Background(), testCompany, testUser, docID)
	require.ErrorIs(t, err, domain.ErrConflict)

	assert.Empty(t, f.state.movements, "el perdedor de la carrera no escribe movimientos")
	assert.True(t, f.state.positions[posKey(whDefault, prodA)].Quantity.Equal(decimal.NewFromInt(10)),
		"el perdedor de la carrera no toca stock")
}

func TestConfirm_ResuelveBodegaPorDefecto(t *testing.T) {
	f := newFixture(t)
	f.seedStock(whDefault, prodA, 10)
	// Documento sin bodega explícita.
	docID := f.seedDocument(entity.DocumentTypeSales, entity.DocumentStatusDraft, "",
		map[string]int64{prodA: 4})

	doc, err := f.uc.Confirm(context.Background(), testCompany, testUser, docID)
	require.NoError(t, err)
	assert.Equal(t, whDefault, doc.WarehouseID, "debe quedar registrada la bodega resuelta")
	assert.True(t, f.state.positions[posKey(whDefault, prodA)].Quantity.Equal(decimal.NewFromInt(6)))
}

func TestConfirm_SinBodegaPorDefectoRechaza(t *testing.T) {
	f := newFixture(t)
	f.whs.byID[whDefault].IsDefault = false // nadie es default
	docID := f.seedDocument(entity.DocumentTypeSales, entity.DocumentStatusDraft, "",
		map[string]int64{prodA: 1})

	_, err := f.uc.Confirm(context.Background(), testCompany, testUser, docID)
	assert.ErrorIs(t, err, domain.ErrUnknownWarehouse,
		"sin bodega por defecto configurada no se adivina ninguna")
}

func TestConfirm_LineaSinControlDeStockSeOmite(t *testing.T) {
	f := newFixture(t)
	f.seedStock(whDefault, prodA, 10)
	docID := f.seedDocument(entity.DocumentTypeSales, entity.DocumentStatusDraft, whDefault,
		map[string]int64{prodA: 2, prodService: 1})

	doc, err := f.uc.Confirm(context.Background(), testCompany, testUser, docID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusConfirmed, doc.Status)

	require.Len(t, f.state.movements, 1, "el servicio se factura pero no genera movimiento")
	assert.Equal(t, prodA, f.state.movements[0].ProductID)
}

func TestConfirm_DocumentoDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	docID := f.seedDocument(entity.DocumentTypeSales, entity.DocumentStatusDraft, whDefault,
		map[string]int64{prodA: 1})

	_, err := f.uc.Confirm(context.Background(), "empresa-ajena", testUser, docID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Void
// ──────────────────────────────────────────────────────────────────────────────

func TestVoid_VentaRestauraConRetorno(t *testing.T) {
	f := newFixture(t)
	f.seedStock(whDefault, prodA, 10)
	docID := f.seedDocument(entity.DocumentTypeSales, entity.DocumentStatusDraft, whDefault,
		map[string]int64{prodA: 4})

	_, err := f.uc.Confirm(context.Background(), testCompany, testUser, docID)
	require.NoError(t, err)
	require.True(t, f.state.positions[posKey(whDefault, prodA)].Quantity.Equal(decimal.NewFromInt(6)))

	doc, err := f.uc.Void(context.Background(), testCompany, testUser, docID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusVoid, doc.Status)

	assert.True(t, f.state.positions[posKey(whDefault, prodA)].Quantity.Equal(decimal.NewFromInt(10)),
		"la anulación devuelve las unidades")

	// El histórico no se edita: venta original + devolución compensatoria.
	require.Len(t, f.state.movements, 2)
	assert.Equal(t, entity.MovementTypeSALE, f.state.movements[0].Type)
	assert.Equal(t, entity.MovementTypeRETURN, f.state.movements[1].Type)
	assert.Equal(t, docID, f.state.movements[1].ReferenceID)
}

func TestVoid_CompraRevierteConAjusteSaliente(t *testing.T) {
	f := newFixture(t)
	docID := f.seedDocument(entity.DocumentTypePurchase, entity.DocumentStatusDraft, whDefault,
		map[string]int64{prodA: 15})

	_, err := f.uc.Confirm(context.Background(), testCompany, testUser, docID)
	require.NoError(t, err)

	doc, err := f.uc.Void(context.Background(), testCompany, testUser, docID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusVoid, doc.Status)
	assert.True(t, f.state.positions[posKey(whDefault, prodA)].Quantity.IsZero())

	require.Len(t, f.state.movements, 2)
	reversa := f.state.movements[1]
	assert.Equal(t, entity.MovementTypeADJUSTMENT, reversa.Type)
	assert.Equal(t, entity.AdjustmentDirectionOut, reversa.Direction)
	assert.True(t, reversa.SignedQuantity().Equal(decimal.NewFromInt(-15)))
}

func TestVoid_CompraSinStockParaRevertirFalla(t *testing.T) {
	f := newFixture(t)
	docID := f.seedDocument(entity.DocumentTypePurchase, entity.DocumentStatusDraft, whDefault,
		map[string]int64{prodA: 15})

	_, err := f.uc.Confirm(context.Background(), testCompany, testUser, docID)
	require.NoError(t, err)

	// Ya se vendieron 10 de las 15 compradas: la reversa completa no alcanza.
	pos := f.state.positions[posKey(whDefault, prodA)]
	pos.Quantity = decimal.NewFromInt(5)
	f.state.positions[posKey(whDefault, prodA)] = pos

	_, err = f.uc.Void(context.Background(), testCompany, testUser, docID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, entity.DocumentStatusConfirmed, f.state.docs[docID].Status,
		"la anulación fallida no debe cambiar el estado")
	assert.True(t, f.state.positions[posKey(whDefault, prodA)].Quantity.Equal(decimal.NewFromInt(5)))
}

func TestVoid_SoloDesdeConfirmado(t *testing.T) {
	f := newFixture(t)
	for _, status := range []string{entity.DocumentStatusDraft, entity.DocumentStatusVoid} {
		docID := f.seedDocument(entity.DocumentTypeSales, status, whDefault, map[string]int64{prodA: 1})
		_, err := f.uc.Void(context.Background(), testCompany, testUser, docID)
		assert.ErrorIs(t, err, domain.ErrConflict, "estado %s no es anulable", status)
	}
}

func TestVoid_CarreraDeAnulacionesSoloAplicaUna(t *testing.T) {
	f := newFixture(t)
	f.seedStock(whDefault, prodA, 7)
	docID := f.seedDocument(entity.DocumentTypeSales, entity.DocumentStatusConfirmed, whDefault,
		map[string]int64{prodA: 3})

	// El otro proceso anula primero; una doble anulación restauraría el
	// stock dos veces.
	f.race.flip = func() {
		d := f.state.docs[docID]
		d.Status = entity.DocumentStatusVoid
		f.state.docs[docID] = d
	}

	_, err := f.uc.Void(context.Background(), testCompany, testUser, docID)
	require.ErrorIs(t, err, domain.ErrConflict)

	assert.Empty(t, f.state.movements)
	assert.True(t, f.state.positions[posKey(whDefault, prodA)].Quantity.Equal(decimal.NewFromInt(7)))
}
