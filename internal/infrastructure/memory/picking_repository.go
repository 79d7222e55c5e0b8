package memory

import (
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.PickingRepository = (*PickingRepo)(nil)

// PickingRepo implementación en memoria de PickingRepository.
type PickingRepo struct {
	lk locker
}

// NewPickingRepository construye el adaptador sobre el store.
func NewPickingRepository(s *Store) *PickingRepo {
	return &PickingRepo{lk: locker{s: s}}
}

func (r *PickingRepo) Create(p *entity.Picking) error {
	defer r.lk.acquire()()
	r.lk.s.pickings[p.ID] = clonePicking(p)
	return nil
}

func (r *PickingRepo) GetByID(id string) (*entity.Picking, error) {
	defer r.lk.acquire()()
	p, ok := r.lk.s.pickings[id]
	if !ok {
		return nil, nil
	}
	return clonePicking(p), nil
}

func (r *PickingRepo) GetForUpdate(id string) (*entity.Picking, error) {
	return r.GetByID(id)
}

func (r *PickingRepo) Update(p *entity.Picking) error {
	defer r.lk.acquire()()
	actual, ok := r.lk.s.pickings[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	actual.Estado = p.Estado
	actual.AsignadoA = p.AsignadoA
	actual.FechaAsignacion = p.FechaAsignacion
	actual.FechaCierre = p.FechaCierre
	actual.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *PickingRepo) UpdateDetalle(d *entity.PickingDetalle) error {
	defer r.lk.acquire()()
	p, ok := r.lk.s.pickings[d.PickingID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, actual := range p.Detalles {
		if actual.ID == d.ID {
			dc := *d
			p.Detalles[i] = &dc
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *PickingRepo) ListByOrden(ordenID string) ([]*entity.Picking, error) {
	defer r.lk.acquire()()
	var list []*entity.Picking
	for _, p := range r.lk.s.pickings {
		if p.OrdenID == ordenID {
			list = append(list, clonePicking(p))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *PickingRepo) CountByOrden(ordenID string) (int, error) {
	defer r.lk.acquire()()
	total := 0
	for _, p := range r.lk.s.pickings {
		if p.OrdenID == ordenID {
			total++
		}
	}
	return total, nil
}

func (r *PickingRepo) List(estado string, limit, offset int) ([]*entity.Picking, int, error) {
	defer r.lk.acquire()()
	var list []*entity.Picking
	for _, p := range r.lk.s.pickings {
		if estado != "" && p.Estado != estado {
			continue
		}
		list = append(list, clonePicking(p))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	total := len(list)
	return paginar(list, limit, offset), total, nil
}
