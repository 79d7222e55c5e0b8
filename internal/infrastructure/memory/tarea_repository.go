package memory

import (
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.TareaRepository = (*TareaRepo)(nil)
var _ repository.IncidenciaRepository = (*IncidenciaRepo)(nil)

// TareaRepo implementación en memoria de TareaRepository.
type TareaRepo struct {
	lk locker
}

// NewTareaRepository construye el adaptador sobre el store.
func NewTareaRepository(s *Store) *TareaRepo {
	return &TareaRepo{lk: locker{s: s}}
}

func (r *TareaRepo) Create(t *entity.Tarea) error {
	defer r.lk.acquire()()
	r.lk.s.tareas[t.ID] = cloneTarea(t)
	return nil
}

func (r *TareaRepo) GetByID(id string) (*entity.Tarea, error) {
	defer r.lk.acquire()()
	t, ok := r.lk.s.tareas[id]
	if !ok {
		return nil, nil
	}
	return cloneTarea(t), nil
}

func (r *TareaRepo) Update(t *entity.Tarea) error {
	defer r.lk.acquire()()
	if _, ok := r.lk.s.tareas[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.lk.s.tareas[t.ID] = cloneTarea(t)
	return nil
}

func (r *TareaRepo) List(estado string, limit, offset int) ([]*entity.Tarea, int, error) {
	defer r.lk.acquire()()
	var list []*entity.Tarea
	for _, t := range r.lk.s.tareas {
		if estado != "" && t.Estado != estado {
			continue
		}
		list = append(list, cloneTarea(t))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Prioridad != list[j].Prioridad {
			return list[i].Prioridad < list[j].Prioridad
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	total := len(list)
	return paginar(list, limit, offset), total, nil
}

// IncidenciaRepo implementación en memoria de IncidenciaRepository.
type IncidenciaRepo struct {
	lk locker
}

// NewIncidenciaRepository construye el adaptador sobre el store.
func NewIncidenciaRepository(s *Store) *IncidenciaRepo {
	return &IncidenciaRepo{lk: locker{s: s}}
}

func (r *IncidenciaRepo) Create(i *entity.Incidencia) error {
	defer r.lk.acquire()()
	r.lk.s.incidencias[i.ID] = cloneIncidencia(i)
	return nil
}

func (r *IncidenciaRepo) GetByID(id string) (*entity.Incidencia, error) {
	defer r.lk.acquire()()
	i, ok := r.lk.s.incidencias[id]
	if !ok {
		return nil, nil
	}
	return cloneIncidencia(i), nil
}

func (r *IncidenciaRepo) Update(i *entity.Incidencia) error {
	defer r.lk.acquire()()
	if _, ok := r.lk.s.incidencias[i.ID]; !ok {
		return domain.ErrNotFound
	}
	r.lk.s.incidencias[i.ID] = cloneIncidencia(i)
	return nil
}

func (r *IncidenciaRepo) List(estado string, limit, offset int) ([]*entity.Incidencia, int, error) {
	defer r.lk.acquire()()
	var list []*entity.Incidencia
	for _, i := range r.lk.s.incidencias {
		if estado != "" && i.Estado != estado {
			continue
		}
		list = append(list, cloneIncidencia(i))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	total := len(list)
	return paginar(list, limit, offset), total, nil
}
