package memory

import (
	"sort"
	"strings"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.OrdenRepository = (*OrdenRepo)(nil)

// OrdenRepo implementación en memoria de OrdenRepository.
type OrdenRepo struct {
	lk locker
}

// NewOrdenRepository construye el adaptador sobre el store.
func NewOrdenRepository(s *Store) *OrdenRepo {
	return &OrdenRepo{lk: locker{s: s}}
}

func (r *OrdenRepo) Create(o *entity.OrdenSalida) error {
	defer r.lk.acquire()()
	r.lk.s.ordenes[o.ID] = cloneOrden(o)
	return nil
}

func (r *OrdenRepo) GetByID(id string) (*entity.OrdenSalida, error) {
	defer r.lk.acquire()()
	o, ok := r.lk.s.ordenes[id]
	if !ok {
		return nil, nil
	}
	return cloneOrden(o), nil
}

func (r *OrdenRepo) GetForUpdate(id string) (*entity.OrdenSalida, error) {
	return r.GetByID(id)
}

func (r *OrdenRepo) UpdateEstado(o *entity.OrdenSalida) error {
	defer r.lk.acquire()()
	actual, ok := r.lk.s.ordenes[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	actual.Estado = o.Estado
	actual.UpdatedAt = o.UpdatedAt
	return nil
}

func (r *OrdenRepo) UpdateDetalle(d *entity.DetalleOrden) error {
	defer r.lk.acquire()()
	o, ok := r.lk.s.ordenes[d.OrdenID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, actual := range o.Detalles {
		if actual.ID == d.ID {
			dc := *d
			o.Detalles[i] = &dc
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *OrdenRepo) List(filtro repository.OrdenFiltro) ([]*entity.OrdenSalida, int, error) {
	defer r.lk.acquire()()
	var list []*entity.OrdenSalida
	for _, o := range r.lk.s.ordenes {
		if filtro.Estado != "" && o.Estado != filtro.Estado {
			continue
		}
		if filtro.Cliente != "" && !strings.Contains(strings.ToLower(o.Cliente), strings.ToLower(filtro.Cliente)) {
			continue
		}
		list = append(list, cloneOrden(o))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Prioridad != list[j].Prioridad {
			return list[i].Prioridad < list[j].Prioridad
		}
		if !list[i].FechaCompromiso.Equal(list[j].FechaCompromiso) {
			return list[i].FechaCompromiso.Before(list[j].FechaCompromiso)
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	total := len(list)
	return paginar(list, filtro.Limit, filtro.Offset), total, nil
}
