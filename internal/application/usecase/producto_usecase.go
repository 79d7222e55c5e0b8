package usecase

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ProductoUseCase casos de uso CRUD para productos. El stock se maneja vía
// movimientos; aquí solo catálogo, estado de calidad y la vista de existencias.
type ProductoUseCase struct {
	repo    repository.ProductoRepository
	invRepo repository.InventarioRepository
}

// NewProductoUseCase construye el caso de uso.
func NewProductoUseCase(repo repository.ProductoRepository, invRepo repository.InventarioRepository) *ProductoUseCase {
	return &ProductoUseCase{repo: repo, invRepo: invRepo}
}

// NormalizarBusqueda baja a minúsculas y quita diacríticos para que
// "azúcar" y "AZUCAR" busquen lo mismo.
func NormalizarBusqueda(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plano, _, err := transform.String(t, s)
	if err != nil {
		plano = s
	}
	return strings.ToLower(strings.TrimSpace(plano))
}

// Create crea un producto en DISPONIBLE y activo. El código es único.
func (uc *ProductoUseCase) Create(in dto.CreateProductoRequest) (*dto.ProductoResponse, error) {
	if in.Codigo == "" || in.Nombre == "" || in.UnidadMedida == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StockMinimo.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCodigo(in.Codigo)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p := &entity.Producto{
		ID:           uuid.New().String(),
		Codigo:       in.Codigo,
		Nombre:       in.Nombre,
		Descripcion:  in.Descripcion,
		UnidadMedida: in.UnidadMedida,
		StockMinimo:  in.StockMinimo,
		Estado:       entity.ProductoDisponible,
		Activo:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	return toProductoResponse(p), nil
}

// GetByID obtiene un producto por id.
func (uc *ProductoUseCase) GetByID(id string) (*dto.ProductoResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductoResponse(p), nil
}

// Update actualiza los campos editables del producto. El código no cambia.
func (uc *ProductoUseCase) Update(id string, in dto.UpdateProductoRequest) (*dto.ProductoResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Nombre != nil {
		p.Nombre = *in.Nombre
	}
	if in.Descripcion != nil {
		p.Descripcion = *in.Descripcion
	}
	if in.UnidadMedida != nil {
		p.UnidadMedida = *in.UnidadMedida
	}
	if in.StockMinimo != nil {
		if in.StockMinimo.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p.StockMinimo = *in.StockMinimo
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return toProductoResponse(p), nil
}

// CambiarEstado cambia el estado de calidad del producto.
func (uc *ProductoUseCase) CambiarEstado(id, estado string) (*dto.ProductoResponse, error) {
	if !entity.EstadoProductoValido(estado) {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.Estado = estado
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return toProductoResponse(p), nil
}

// Desactivar da de baja lógica al producto. Nunca se elimina físicamente:
// sus movimientos históricos lo referencian.
func (uc *ProductoUseCase) Desactivar(id string) error {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	p.Activo = false
	p.UpdatedAt = time.Now()
	return uc.repo.Update(p)
}

// List lista productos con búsqueda normalizada y filtros.
func (uc *ProductoUseCase) List(filtro repository.ProductoFiltro) ([]dto.ProductoResponse, int, error) {
	filtro.Busqueda = NormalizarBusqueda(filtro.Busqueda)
	items, total, err := uc.repo.List(filtro)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ProductoResponse, 0, len(items))
	for _, p := range items {
		out = append(out, *toProductoResponse(p))
	}
	return out, total, nil
}

// GetStock devuelve las existencias del producto desglosadas por
// (ubicación, lote) con los totales agregados.
func (uc *ProductoUseCase) GetStock(id string) (*dto.StockProductoResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	registros, err := uc.invRepo.ListByProducto(id)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockProductoResponse{
		ProductoID:      id,
		Total:           decimal.Zero,
		TotalReservado:  decimal.Zero,
		TotalDisponible: decimal.Zero,
		Registros:       make([]dto.RegistroStockResponse, 0, len(registros)),
	}
	for _, r := range registros {
		resp.Total = resp.Total.Add(r.Cantidad)
		resp.TotalReservado = resp.TotalReservado.Add(r.CantidadReservada)
		resp.TotalDisponible = resp.TotalDisponible.Add(r.Disponible())
		resp.Registros = append(resp.Registros, dto.RegistroStockResponse{
			UbicacionID: r.UbicacionID,
			LoteID:      r.LoteID,
			Cantidad:    r.Cantidad,
			Reservada:   r.CantidadReservada,
			Disponible:  r.Disponible(),
		})
	}
	return resp, nil
}

func toProductoResponse(p *entity.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:           p.ID,
		Codigo:       p.Codigo,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		UnidadMedida: p.UnidadMedida,
		StockMinimo:  p.StockMinimo,
		Estado:       p.Estado,
		Activo:       p.Activo,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
