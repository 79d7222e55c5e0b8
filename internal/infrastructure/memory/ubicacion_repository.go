package memory

import (
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.UbicacionRepository = (*UbicacionRepo)(nil)

// UbicacionRepo implementación en memoria de UbicacionRepository.
type UbicacionRepo struct {
	lk locker
}

// NewUbicacionRepository construye el adaptador sobre el store.
func NewUbicacionRepository(s *Store) *UbicacionRepo {
	return &UbicacionRepo{lk: locker{s: s}}
}

func (r *UbicacionRepo) Create(u *entity.Ubicacion) error {
	defer r.lk.acquire()()
	r.lk.s.ubicaciones[u.ID] = cloneUbicacion(u)
	return nil
}

func (r *UbicacionRepo) GetByID(id string) (*entity.Ubicacion, error) {
	defer r.lk.acquire()()
	u, ok := r.lk.s.ubicaciones[id]
	if !ok {
		return nil, nil
	}
	return cloneUbicacion(u), nil
}

func (r *UbicacionRepo) GetByCodigo(codigo string) (*entity.Ubicacion, error) {
	defer r.lk.acquire()()
	for _, u := range r.lk.s.ubicaciones {
		if u.Codigo == codigo {
			return cloneUbicacion(u), nil
		}
	}
	return nil, nil
}

func (r *UbicacionRepo) Update(u *entity.Ubicacion) error {
	defer r.lk.acquire()()
	if _, ok := r.lk.s.ubicaciones[u.ID]; !ok {
		return nil
	}
	r.lk.s.ubicaciones[u.ID] = cloneUbicacion(u)
	return nil
}

func (r *UbicacionRepo) List(filtro repository.UbicacionFiltro) ([]*entity.Ubicacion, int, error) {
	defer r.lk.acquire()()
	var list []*entity.Ubicacion
	for _, u := range r.lk.s.ubicaciones {
		if filtro.Tipo != "" && u.Tipo != filtro.Tipo {
			continue
		}
		if filtro.SoloActivas && !u.Activa {
			continue
		}
		list = append(list, cloneUbicacion(u))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Codigo < list[j].Codigo })
	total := len(list)
	return paginar(list, filtro.Limit, filtro.Offset), total, nil
}
