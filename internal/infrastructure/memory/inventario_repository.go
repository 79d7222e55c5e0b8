package memory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.InventarioRepository = (*InventarioRepo)(nil)

// InventarioRepo implementación en memoria de InventarioRepository.
type InventarioRepo struct {
	lk locker
}

// NewInventarioRepository construye el adaptador sobre el store.
func NewInventarioRepository(s *Store) *InventarioRepo {
	return &InventarioRepo{lk: locker{s: s}}
}

func (r *InventarioRepo) Get(productoID, ubicacionID string, loteID *string) (*entity.RegistroInventario, error) {
	defer r.lk.acquire()()
	return r.getLocked(productoID, ubicacionID, loteID), nil
}

func (r *InventarioRepo) GetForUpdate(productoID, ubicacionID string, loteID *string) (*entity.RegistroInventario, error) {
	return r.Get(productoID, ubicacionID, loteID)
}

func (r *InventarioRepo) getLocked(productoID, ubicacionID string, loteID *string) *entity.RegistroInventario {
	if reg, ok := r.lk.s.inventario[invKey(productoID, ubicacionID, loteID)]; ok {
		return cloneRegistro(reg)
	}
	return &entity.RegistroInventario{
		ProductoID:        productoID,
		UbicacionID:       ubicacionID,
		LoteID:            loteID,
		Cantidad:          decimal.Zero,
		CantidadReservada: decimal.Zero,
	}
}

func (r *InventarioRepo) Upsert(reg *entity.RegistroInventario) error {
	defer r.lk.acquire()()
	r.lk.s.inventario[invKey(reg.ProductoID, reg.UbicacionID, reg.LoteID)] = cloneRegistro(reg)
	return nil
}

func (r *InventarioRepo) ListByProducto(productoID string) ([]*entity.RegistroInventario, error) {
	defer r.lk.acquire()()
	var list []*entity.RegistroInventario
	for _, reg := range r.lk.s.inventario {
		if reg.ProductoID == productoID {
			list = append(list, cloneRegistro(reg))
		}
	}
	ordenarRegistros(list)
	return list, nil
}

func (r *InventarioRepo) ListByLote(loteID string) ([]*entity.RegistroInventario, error) {
	defer r.lk.acquire()()
	var list []*entity.RegistroInventario
	for _, reg := range r.lk.s.inventario {
		if reg.LoteID != nil && *reg.LoteID == loteID {
			list = append(list, cloneRegistro(reg))
		}
	}
	ordenarRegistros(list)
	return list, nil
}

func (r *InventarioRepo) SumByUbicacion(ubicacionID string) (decimal.Decimal, error) {
	defer r.lk.acquire()()
	sum := decimal.Zero
	for _, reg := range r.lk.s.inventario {
		if reg.UbicacionID == ubicacionID {
			sum = sum.Add(reg.Cantidad)
		}
	}
	return sum, nil
}

func ordenarRegistros(list []*entity.RegistroInventario) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].UbicacionID != list[j].UbicacionID {
			return list[i].UbicacionID < list[j].UbicacionID
		}
		li, lj := "", ""
		if list[i].LoteID != nil {
			li = *list[i].LoteID
		}
		if list[j].LoteID != nil {
			lj = *list[j].LoteID
		}
		return li < lj
	})
}
