package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas. Una bodega con posiciones
// de stock nunca se elimina físicamente: se desactiva para preservar el
// historial de movimientos.
type WarehouseUseCase struct {
	repo    repository.WarehouseRepository
	posRepo repository.StockPositionRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, posRepo repository.StockPositionRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, posRepo: posRepo}
}

// Create crea una nueva bodega (activa, tipo GENERAL por defecto).
func (uc *WarehouseUseCase) Create(companyID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	whType := in.Type
	if whType == "" {
		whType = entity.WarehouseTypeGeneral
	}
	if !entity.ValidWarehouseType(whType) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      in.Code,
		Name:      in.Name,
		Type:      whType,
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID (de la empresa).
func (uc *WarehouseUseCase) GetByID(companyID, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return nil, nil
	}
	return toWarehouseResponse(warehouse), nil
}

// Update actualiza nombre, tipo, dirección o el flag activo de una bodega.
func (uc *WarehouseUseCase) Update(companyID, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return nil, nil
	}
	if in.Name != nil {
		warehouse.Name = *in.Name
	}
	if in.Type != nil {
		if !entity.ValidWarehouseType(*in.Type) {
			return nil, domain.ErrInvalidInput
		}
		warehouse.Type = *in.Type
	}
	if in.Address != nil {
		warehouse.Address = *in.Address
	}
	if in.Active != nil {
		warehouse.Active = *in.Active
		if !warehouse.Active {
			warehouse.IsDefault = false
		}
	}
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas por empresa con paginación.
func (uc *WarehouseUseCase) List(companyID string, activeOnly bool, limit, offset int) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina una bodega sin historial; con posiciones registradas la
// desactiva (el historial de movimientos debe seguir siendo consultable).
func (uc *WarehouseUseCase) Delete(companyID, id string) error {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return domain.ErrNotFound
	}
	hasActivity, err := uc.posRepo.ExistsForWarehouse(id)
	if err != nil {
		return err
	}
	if hasActivity {
		warehouse.Active = false
		warehouse.IsDefault = false
		warehouse.UpdatedAt = time.Now()
		return uc.repo.Update(warehouse)
	}
	return uc.repo.Delete(id)
}

// SetDefault marca la bodega como la bodega por defecto de la empresa para
// la confirmación de documentos (desmarca cualquier otra).
func (uc *WarehouseUseCase) SetDefault(companyID, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if !warehouse.Active {
		return nil, domain.ErrUnknownWarehouse
	}
	if err := uc.repo.ClearDefault(companyID); err != nil {
		return nil, err
	}
	warehouse.IsDefault = true
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		CompanyID: w.CompanyID,
		Code:      w.Code,
		Name:      w.Name,
		Type:      w.Type,
		Address:   w.Address,
		Active:    w.Active,
		IsDefault: w.IsDefault,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
