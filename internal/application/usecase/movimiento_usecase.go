package usecase

import (
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// MovimientoUseCase consulta del historial de movimientos. El historial es
// solo lectura desde aquí: los movimientos nacen en el ledger.
type MovimientoUseCase struct {
	repo repository.MovimientoRepository
}

// NewMovimientoUseCase construye el caso de uso.
func NewMovimientoUseCase(repo repository.MovimientoRepository) *MovimientoUseCase {
	return &MovimientoUseCase{repo: repo}
}

// GetByID obtiene un movimiento por id.
func (uc *MovimientoUseCase) GetByID(id string) (*dto.MovimientoResponse, error) {
	m, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return ToMovimientoResponse(m), nil
}

// List lista movimientos con filtros y paginación.
func (uc *MovimientoUseCase) List(filtro repository.MovimientoFiltro) ([]dto.MovimientoResponse, int, error) {
	if filtro.Tipo != "" && !entity.TipoMovimientoValido(filtro.Tipo) {
		return nil, 0, domain.ErrInvalidInput
	}
	items, total, err := uc.repo.List(filtro)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.MovimientoResponse, 0, len(items))
	for _, m := range items {
		out = append(out, *ToMovimientoResponse(m))
	}
	return out, total, nil
}

// ListAll trae todos los movimientos del filtro sin paginar, para exportes.
func (uc *MovimientoUseCase) ListAll(filtro repository.MovimientoFiltro) ([]*entity.Movimiento, error) {
	filtro.Limit = 0
	filtro.Offset = 0
	items, _, err := uc.repo.List(filtro)
	return items, err
}

// ToMovimientoResponse mapea la entidad al DTO de salida.
func ToMovimientoResponse(m *entity.Movimiento) *dto.MovimientoResponse {
	return &dto.MovimientoResponse{
		ID:              m.ID,
		TransaccionID:   m.TransaccionID,
		ProductoID:      m.ProductoID,
		UbicacionID:     m.UbicacionID,
		LoteID:          m.LoteID,
		Tipo:            m.Tipo,
		Cantidad:        m.Cantidad,
		CantidadAntes:   m.CantidadAntes,
		CantidadDespues: m.CantidadDespues,
		Motivo:          m.Motivo,
		Referencia:      m.Referencia,
		CreadoPor:       m.CreadoPor,
		CreatedAt:       m.CreatedAt,
	}
}
