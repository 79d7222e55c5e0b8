package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// LoteUseCase casos de uso para lotes. Las operaciones de cantidad
// (ajuste, reserva, liberación) delegan en el ledger para que cada cambio
// quede en el historial de movimientos.
type LoteUseCase struct {
	repo     repository.LoteRepository
	prodRepo repository.ProductoRepository
	ledger   *ledger.UseCase
}

// NewLoteUseCase construye el caso de uso.
func NewLoteUseCase(repo repository.LoteRepository, prodRepo repository.ProductoRepository, ledgerUC *ledger.UseCase) *LoteUseCase {
	return &LoteUseCase{repo: repo, prodRepo: prodRepo, ledger: ledgerUC}
}

// Create registra un lote en DISPONIBLE. El stock físico asociado entra
// después con movimientos ENTRADA que referencien el lote.
func (uc *LoteUseCase) Create(in dto.CreateLoteRequest) (*dto.LoteResponse, error) {
	if in.Codigo == "" || in.ProductoID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CantidadInicial.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if !in.FechaVencimiento.IsZero() && !in.FechaFabricacion.IsZero() &&
		in.FechaVencimiento.Before(in.FechaFabricacion) {
		return nil, domain.ErrInvalidInput
	}
	producto, err := uc.prodRepo.GetByID(in.ProductoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	l := &entity.Lote{
		ID:                 uuid.New().String(),
		Codigo:             in.Codigo,
		ProductoID:         in.ProductoID,
		CantidadInicial:    in.CantidadInicial,
		CantidadDisponible: in.CantidadInicial,
		FechaFabricacion:   in.FechaFabricacion,
		FechaVencimiento:   in.FechaVencimiento,
		Estado:             entity.LoteDisponible,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.repo.Create(l); err != nil {
		return nil, err
	}
	return toLoteResponse(l, now), nil
}

// GetByID obtiene un lote por id.
func (uc *LoteUseCase) GetByID(id string) (*dto.LoteResponse, error) {
	l, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	return toLoteResponse(l, time.Now()), nil
}

// List lista lotes paginados.
func (uc *LoteUseCase) List(limit, offset int) ([]dto.LoteResponse, int, error) {
	items, total, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	out := make([]dto.LoteResponse, 0, len(items))
	for _, l := range items {
		out = append(out, *toLoteResponse(l, now))
	}
	return out, total, nil
}

// ListByProducto lista los lotes de un producto.
func (uc *LoteUseCase) ListByProducto(productoID string) ([]dto.LoteResponse, error) {
	items, err := uc.repo.ListByProducto(productoID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]dto.LoteResponse, 0, len(items))
	for _, l := range items {
		out = append(out, *toLoteResponse(l, now))
	}
	return out, nil
}

// Ajustar ajusta la cantidad disponible del lote (delta con signo, motivo
// obligatorio). Queda un movimiento AJUSTE con ubicación nula.
func (uc *LoteUseCase) Ajustar(ctx context.Context, id string, in dto.AjusteLoteRequest, actor string) (*dto.LoteResponse, error) {
	if err := uc.ledger.AjustarLote(ctx, id, in.Cantidad, in.Motivo, actor); err != nil {
		return nil, err
	}
	return uc.GetByID(id)
}

// Reservar reserva cantidad del lote repartida entre sus registros de
// inventario; todo o nada.
func (uc *LoteUseCase) Reservar(ctx context.Context, id string, in dto.ReservaLoteRequest, actor string) (*dto.LoteResponse, error) {
	if err := uc.ledger.ReservarLote(ctx, id, in.Cantidad, actor); err != nil {
		return nil, err
	}
	return uc.GetByID(id)
}

// Liberar libera una reserva previa a nivel de lote.
func (uc *LoteUseCase) Liberar(ctx context.Context, id string, in dto.ReservaLoteRequest, actor string) (*dto.LoteResponse, error) {
	if err := uc.ledger.LiberarLote(ctx, id, in.Cantidad, actor); err != nil {
		return nil, err
	}
	return uc.GetByID(id)
}

// CambiarEstado cambia el estado del lote. Un lote RETIRADO o VENCIDO deja
// de ser asignable por el picking aunque conserve cantidad disponible.
func (uc *LoteUseCase) CambiarEstado(id, estado string) (*dto.LoteResponse, error) {
	if !entity.EstadoLoteValido(estado) {
		return nil, domain.ErrInvalidInput
	}
	l, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	l.Estado = estado
	l.UpdatedAt = time.Now()
	if err := uc.repo.Update(l); err != nil {
		return nil, err
	}
	return toLoteResponse(l, time.Now()), nil
}

func toLoteResponse(l *entity.Lote, ahora time.Time) *dto.LoteResponse {
	return &dto.LoteResponse{
		ID:                 l.ID,
		Codigo:             l.Codigo,
		ProductoID:         l.ProductoID,
		CantidadInicial:    l.CantidadInicial,
		CantidadDisponible: l.CantidadDisponible,
		FechaFabricacion:   l.FechaFabricacion,
		FechaVencimiento:   l.FechaVencimiento,
		Estado:             l.Estado,
		Vencido:            l.Vencido(ahora),
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}
