package memory

import (
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

// MovimientoRepo implementación en memoria de MovimientoRepository.
// Append-only, igual que la tabla.
type MovimientoRepo struct {
	lk locker
}

// NewMovimientoRepository construye el adaptador sobre el store.
func NewMovimientoRepository(s *Store) *MovimientoRepo {
	return &MovimientoRepo{lk: locker{s: s}}
}

func (r *MovimientoRepo) Create(m *entity.Movimiento) error {
	defer r.lk.acquire()()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.lk.s.movimientos = append(r.lk.s.movimientos, cloneMovimiento(m))
	return nil
}

func (r *MovimientoRepo) GetByID(id string) (*entity.Movimiento, error) {
	defer r.lk.acquire()()
	for _, m := range r.lk.s.movimientos {
		if m.ID == id {
			return cloneMovimiento(m), nil
		}
	}
	return nil, nil
}

func (r *MovimientoRepo) List(filtro repository.MovimientoFiltro) ([]*entity.Movimiento, int, error) {
	defer r.lk.acquire()()
	var list []*entity.Movimiento
	for _, m := range r.lk.s.movimientos {
		if filtro.ProductoID != "" && m.ProductoID != filtro.ProductoID {
			continue
		}
		if filtro.UbicacionID != "" && (m.UbicacionID == nil || *m.UbicacionID != filtro.UbicacionID) {
			continue
		}
		if filtro.LoteID != "" && (m.LoteID == nil || *m.LoteID != filtro.LoteID) {
			continue
		}
		if filtro.Tipo != "" && m.Tipo != filtro.Tipo {
			continue
		}
		if filtro.Desde != nil && m.CreatedAt.Before(*filtro.Desde) {
			continue
		}
		if filtro.Hasta != nil && m.CreatedAt.After(*filtro.Hasta) {
			continue
		}
		list = append(list, cloneMovimiento(m))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	total := len(list)
	return paginar(list, filtro.Limit, filtro.Offset), total, nil
}
