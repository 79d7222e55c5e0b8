package memory

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ProductoRepository = (*ProductoRepo)(nil)

// ProductoRepo implementación en memoria de ProductoRepository.
type ProductoRepo struct {
	lk locker
}

// NewProductoRepository construye el adaptador sobre el store.
func NewProductoRepository(s *Store) *ProductoRepo {
	return &ProductoRepo{lk: locker{s: s}}
}

func (r *ProductoRepo) Create(p *entity.Producto) error {
	defer r.lk.acquire()()
	for _, e := range r.lk.s.productos {
		if e.Codigo == p.Codigo {
			return nil // el caller valida duplicados por GetByCodigo
		}
	}
	r.lk.s.productos[p.ID] = cloneProducto(p)
	return nil
}

func (r *ProductoRepo) GetByID(id string) (*entity.Producto, error) {
	defer r.lk.acquire()()
	p, ok := r.lk.s.productos[id]
	if !ok {
		return nil, nil
	}
	return cloneProducto(p), nil
}

func (r *ProductoRepo) GetByCodigo(codigo string) (*entity.Producto, error) {
	defer r.lk.acquire()()
	for _, p := range r.lk.s.productos {
		if p.Codigo == codigo {
			return cloneProducto(p), nil
		}
	}
	return nil, nil
}

func (r *ProductoRepo) Update(p *entity.Producto) error {
	defer r.lk.acquire()()
	if _, ok := r.lk.s.productos[p.ID]; !ok {
		return nil
	}
	r.lk.s.productos[p.ID] = cloneProducto(p)
	return nil
}

func (r *ProductoRepo) List(filtro repository.ProductoFiltro) ([]*entity.Producto, int, error) {
	defer r.lk.acquire()()
	var list []*entity.Producto
	for _, p := range r.lk.s.productos {
		if filtro.SoloActivos && !p.Activo {
			continue
		}
		if filtro.Busqueda != "" {
			if !strings.Contains(sinAcentos(p.Codigo), filtro.Busqueda) &&
				!strings.Contains(sinAcentos(p.Nombre), filtro.Busqueda) {
				continue
			}
		}
		if filtro.SoloBajoStock {
			if !p.StockMinimo.IsPositive() || r.stockDe(p.ID).GreaterThanOrEqual(p.StockMinimo) {
				continue
			}
		}
		list = append(list, cloneProducto(p))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Codigo < list[j].Codigo })
	total := len(list)
	return paginar(list, filtro.Limit, filtro.Offset), total, nil
}

// stockDe suma la cantidad física del producto. Caller debe tener el mutex.
func (r *ProductoRepo) stockDe(productoID string) decimal.Decimal {
	sum := decimal.Zero
	for _, reg := range r.lk.s.inventario {
		if reg.ProductoID == productoID {
			sum = sum.Add(reg.Cantidad)
		}
	}
	return sum
}

// sinAcentos baja a minúsculas y quita diacríticos, igual que la búsqueda
// con unaccent() del lado PostgreSQL.
func sinAcentos(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plano, _, err := transform.String(t, s)
	if err != nil {
		plano = s
	}
	return strings.ToLower(plano)
}

// paginar aplica limit/offset sobre una lista ya ordenada.
func paginar[T any](list []T, limit, offset int) []T {
	if limit <= 0 {
		return list
	}
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
