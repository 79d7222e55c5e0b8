// Package tareas implementa el seguimiento de tareas operativas genéricas y
// de incidencias reportadas en piso.
package tareas

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UseCase gestiona tareas e incidencias. No participa del ledger: son
// registros operativos sin efecto sobre el inventario.
type UseCase struct {
	tareaRepo repository.TareaRepository
	incRepo   repository.IncidenciaRepository
}

// New construye el gestor de tareas e incidencias.
func New(tareaRepo repository.TareaRepository, incRepo repository.IncidenciaRepository) *UseCase {
	return &UseCase{tareaRepo: tareaRepo, incRepo: incRepo}
}

// CrearTareaInput entrada para crear una tarea operativa.
type CrearTareaInput struct {
	Tipo        string
	Prioridad   int
	Descripcion string
	AsignadaA   *string
	CreadaPor   string
}

// CrearTarea crea una tarea en NUEVA, o directamente en ASIGNADA si viene con
// responsable.
func (uc *UseCase) CrearTarea(ctx context.Context, in CrearTareaInput) (*entity.Tarea, error) {
	if in.Tipo == "" || in.Descripcion == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Prioridad < 1 || in.Prioridad > 5 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	t := &entity.Tarea{
		ID:          uuid.New().String(),
		Tipo:        in.Tipo,
		Prioridad:   in.Prioridad,
		Descripcion: in.Descripcion,
		Estado:      entity.TareaNueva,
		AsignadaA:   in.AsignadaA,
		CreadaPor:   in.CreadaPor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.AsignadaA != nil {
		t.Estado = entity.TareaAsignada
	}
	if err := uc.tareaRepo.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

// AsignarTarea asigna la tarea a un operador y la pasa a ASIGNADA.
func (uc *UseCase) AsignarTarea(ctx context.Context, tareaID, operadorID string) (*entity.Tarea, error) {
	return uc.transicionar(tareaID, entity.TareaAsignada, func(t *entity.Tarea) {
		t.AsignadaA = &operadorID
	})
}

// CambiarEstadoTarea aplica una transición de la matriz de estados. Una
// transición fuera de la matriz falla con ErrInvalidState.
func (uc *UseCase) CambiarEstadoTarea(ctx context.Context, tareaID, estado string) (*entity.Tarea, error) {
	if !entity.EstadoTareaValido(estado) {
		return nil, domain.ErrInvalidInput
	}
	return uc.transicionar(tareaID, estado, nil)
}

func (uc *UseCase) transicionar(tareaID, hacia string, mutar func(*entity.Tarea)) (*entity.Tarea, error) {
	t, err := uc.tareaRepo.GetByID(tareaID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.TransicionTareaValida(t.Estado, hacia) {
		return nil, domain.ErrInvalidState
	}
	t.Estado = hacia
	if mutar != nil {
		mutar(t)
	}
	t.UpdatedAt = time.Now()
	if err := uc.tareaRepo.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTarea devuelve una tarea por id.
func (uc *UseCase) GetTarea(ctx context.Context, tareaID string) (*entity.Tarea, error) {
	t, err := uc.tareaRepo.GetByID(tareaID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// ListTareas lista tareas filtrando opcionalmente por estado.
func (uc *UseCase) ListTareas(ctx context.Context, estado string, limit, offset int) ([]*entity.Tarea, int, error) {
	if estado != "" && !entity.EstadoTareaValido(estado) {
		return nil, 0, domain.ErrInvalidInput
	}
	return uc.tareaRepo.List(estado, limit, offset)
}

// CrearIncidenciaInput entrada para reportar una incidencia.
type CrearIncidenciaInput struct {
	TareaID     *string
	ProductoID  *string
	Descripcion string
	OperadorID  string
}

// CrearIncidencia registra una incidencia en PENDIENTE. Si referencia una
// tarea, la tarea queda BLOQUEADA cuando su estado lo permite.
func (uc *UseCase) CrearIncidencia(ctx context.Context, in CrearIncidenciaInput) (*entity.Incidencia, error) {
	if in.Descripcion == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.TareaID != nil {
		t, err := uc.tareaRepo.GetByID(*in.TareaID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, domain.ErrNotFound
		}
		if entity.TransicionTareaValida(t.Estado, entity.TareaBloqueada) {
			t.Estado = entity.TareaBloqueada
			t.UpdatedAt = time.Now()
			if err := uc.tareaRepo.Update(t); err != nil {
				return nil, err
			}
		}
	}
	inc := &entity.Incidencia{
		ID:          uuid.New().String(),
		TareaID:     in.TareaID,
		ProductoID:  in.ProductoID,
		OperadorID:  in.OperadorID,
		Descripcion: in.Descripcion,
		Estado:      entity.IncidenciaPendiente,
		CreatedAt:   time.Now(),
	}
	if err := uc.incRepo.Create(inc); err != nil {
		return nil, err
	}
	return inc, nil
}

// ResolverIncidencia marca la incidencia como RESUELTA. Resolverla dos veces
// falla con ErrInvalidState. No desbloquea la tarea asociada: eso lo decide
// un supervisor con una transición explícita.
func (uc *UseCase) ResolverIncidencia(ctx context.Context, incidenciaID, resueltaPor string) (*entity.Incidencia, error) {
	inc, err := uc.incRepo.GetByID(incidenciaID)
	if err != nil {
		return nil, err
	}
	if inc == nil {
		return nil, domain.ErrNotFound
	}
	if inc.Estado == entity.IncidenciaResuelta {
		return nil, domain.ErrInvalidState
	}
	now := time.Now()
	inc.Estado = entity.IncidenciaResuelta
	inc.ResueltaPor = &resueltaPor
	inc.ResueltaAt = &now
	if err := uc.incRepo.Update(inc); err != nil {
		return nil, err
	}
	return inc, nil
}

// ListIncidencias lista incidencias filtrando opcionalmente por estado.
func (uc *UseCase) ListIncidencias(ctx context.Context, estado string, limit, offset int) ([]*entity.Incidencia, int, error) {
	if estado != "" && estado != entity.IncidenciaPendiente && estado != entity.IncidenciaResuelta {
		return nil, 0, domain.ErrInvalidInput
	}
	return uc.incRepo.List(estado, limit, offset)
}
