package memory

import (
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.LoteRepository = (*LoteRepo)(nil)

// LoteRepo implementación en memoria de LoteRepository. GetForUpdate equivale
// a GetByID: el mutex del store ya serializa las transacciones completas.
type LoteRepo struct {
	lk locker
}

// NewLoteRepository construye el adaptador sobre el store.
func NewLoteRepository(s *Store) *LoteRepo {
	return &LoteRepo{lk: locker{s: s}}
}

func (r *LoteRepo) Create(l *entity.Lote) error {
	defer r.lk.acquire()()
	r.lk.s.lotes[l.ID] = cloneLote(l)
	return nil
}

func (r *LoteRepo) GetByID(id string) (*entity.Lote, error) {
	defer r.lk.acquire()()
	l, ok := r.lk.s.lotes[id]
	if !ok {
		return nil, nil
	}
	return cloneLote(l), nil
}

func (r *LoteRepo) GetForUpdate(id string) (*entity.Lote, error) {
	return r.GetByID(id)
}

func (r *LoteRepo) Update(l *entity.Lote) error {
	defer r.lk.acquire()()
	if _, ok := r.lk.s.lotes[l.ID]; !ok {
		return nil
	}
	r.lk.s.lotes[l.ID] = cloneLote(l)
	return nil
}

func (r *LoteRepo) ListByProducto(productoID string) ([]*entity.Lote, error) {
	defer r.lk.acquire()()
	var list []*entity.Lote
	for _, l := range r.lk.s.lotes {
		if l.ProductoID == productoID {
			list = append(list, cloneLote(l))
		}
	}
	ordenarLotes(list)
	return list, nil
}

func (r *LoteRepo) List(limit, offset int) ([]*entity.Lote, int, error) {
	defer r.lk.acquire()()
	var list []*entity.Lote
	for _, l := range r.lk.s.lotes {
		list = append(list, cloneLote(l))
	}
	ordenarLotes(list)
	total := len(list)
	return paginar(list, limit, offset), total, nil
}

func ordenarLotes(list []*entity.Lote) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].FechaVencimiento.Equal(list[j].FechaVencimiento) {
			return list[i].FechaVencimiento.Before(list[j].FechaVencimiento)
		}
		return list[i].Codigo < list[j].Codigo
	})
}
