package memory

import (
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo implementación en memoria de UsuarioRepository.
type UsuarioRepo struct {
	lk locker
}

// NewUsuarioRepository construye el adaptador sobre el store.
func NewUsuarioRepository(s *Store) *UsuarioRepo {
	return &UsuarioRepo{lk: locker{s: s}}
}

func (r *UsuarioRepo) Create(u *entity.Usuario) error {
	defer r.lk.acquire()()
	for _, e := range r.lk.s.usuarios {
		if e.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.lk.s.usuarios[u.ID] = cloneUsuario(u)
	return nil
}

func (r *UsuarioRepo) GetByID(id string) (*entity.Usuario, error) {
	defer r.lk.acquire()()
	u, ok := r.lk.s.usuarios[id]
	if !ok {
		return nil, nil
	}
	return cloneUsuario(u), nil
}

func (r *UsuarioRepo) FindByEmail(email string) (*entity.Usuario, error) {
	defer r.lk.acquire()()
	for _, u := range r.lk.s.usuarios {
		if u.Email == email {
			return cloneUsuario(u), nil
		}
	}
	return nil, nil
}

func (r *UsuarioRepo) Update(u *entity.Usuario) error {
	defer r.lk.acquire()()
	if _, ok := r.lk.s.usuarios[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.lk.s.usuarios[u.ID] = cloneUsuario(u)
	return nil
}
