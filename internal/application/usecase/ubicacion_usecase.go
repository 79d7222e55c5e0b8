package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UbicacionUseCase casos de uso CRUD para ubicaciones físicas.
type UbicacionUseCase struct {
	repo    repository.UbicacionRepository
	invRepo repository.InventarioRepository
}

// NewUbicacionUseCase construye el caso de uso.
func NewUbicacionUseCase(repo repository.UbicacionRepository, invRepo repository.InventarioRepository) *UbicacionUseCase {
	return &UbicacionUseCase{repo: repo, invRepo: invRepo}
}

// Create crea una ubicación activa. Capacidad cero significa sin límite.
func (uc *UbicacionUseCase) Create(in dto.CreateUbicacionRequest) (*dto.UbicacionResponse, error) {
	if in.Codigo == "" || !entity.TipoUbicacionValido(in.Tipo) {
		return nil, domain.ErrInvalidInput
	}
	if in.Capacidad.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.TemperaturaMin != nil && in.TemperaturaMax != nil && in.TemperaturaMin.GreaterThan(*in.TemperaturaMax) {
		return nil, domain.ErrInvalidInput
	}
	if in.HumedadMin != nil && in.HumedadMax != nil && in.HumedadMin.GreaterThan(*in.HumedadMax) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCodigo(in.Codigo)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	u := &entity.Ubicacion{
		ID:             uuid.New().String(),
		Codigo:         in.Codigo,
		Pasillo:        in.Pasillo,
		Estante:        in.Estante,
		Nivel:          in.Nivel,
		Capacidad:      in.Capacidad,
		Tipo:           in.Tipo,
		TemperaturaMin: in.TemperaturaMin,
		TemperaturaMax: in.TemperaturaMax,
		HumedadMin:     in.HumedadMin,
		HumedadMax:     in.HumedadMax,
		Activa:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(u); err != nil {
		return nil, err
	}
	return uc.toResponse(u), nil
}

// GetByID obtiene una ubicación con su ocupación actual.
func (uc *UbicacionUseCase) GetByID(id string) (*dto.UbicacionResponse, error) {
	u, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(u), nil
}

// Update actualiza los campos editables de la ubicación.
func (uc *UbicacionUseCase) Update(id string, in dto.UpdateUbicacionRequest) (*dto.UbicacionResponse, error) {
	u, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if in.Pasillo != nil {
		u.Pasillo = *in.Pasillo
	}
	if in.Estante != nil {
		u.Estante = *in.Estante
	}
	if in.Nivel != nil {
		u.Nivel = *in.Nivel
	}
	if in.Capacidad != nil {
		if in.Capacidad.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		u.Capacidad = *in.Capacidad
	}
	if in.Tipo != nil {
		if !entity.TipoUbicacionValido(*in.Tipo) {
			return nil, domain.ErrInvalidInput
		}
		u.Tipo = *in.Tipo
	}
	if in.TemperaturaMin != nil {
		u.TemperaturaMin = in.TemperaturaMin
	}
	if in.TemperaturaMax != nil {
		u.TemperaturaMax = in.TemperaturaMax
	}
	if in.HumedadMin != nil {
		u.HumedadMin = in.HumedadMin
	}
	if in.HumedadMax != nil {
		u.HumedadMax = in.HumedadMax
	}
	if in.Activa != nil {
		u.Activa = *in.Activa
	}
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(u); err != nil {
		return nil, err
	}
	return uc.toResponse(u), nil
}

// List lista ubicaciones con filtros y su ocupación.
func (uc *UbicacionUseCase) List(filtro repository.UbicacionFiltro) ([]dto.UbicacionResponse, int, error) {
	if filtro.Tipo != "" && !entity.TipoUbicacionValido(filtro.Tipo) {
		return nil, 0, domain.ErrInvalidInput
	}
	items, total, err := uc.repo.List(filtro)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.UbicacionResponse, 0, len(items))
	for _, u := range items {
		out = append(out, *uc.toResponse(u))
	}
	return out, total, nil
}

func (uc *UbicacionUseCase) toResponse(u *entity.Ubicacion) *dto.UbicacionResponse {
	ocupacion, err := uc.invRepo.SumByUbicacion(u.ID)
	if err != nil {
		ocupacion = decimal.Zero
	}
	return &dto.UbicacionResponse{
		ID:             u.ID,
		Codigo:         u.Codigo,
		Pasillo:        u.Pasillo,
		Estante:        u.Estante,
		Nivel:          u.Nivel,
		Capacidad:      u.Capacidad,
		Ocupacion:      ocupacion,
		Tipo:           u.Tipo,
		TemperaturaMin: u.TemperaturaMin,
		TemperaturaMax: u.TemperaturaMax,
		HumedadMin:     u.HumedadMin,
		HumedadMax:     u.HumedadMax,
		Activa:         u.Activa,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
