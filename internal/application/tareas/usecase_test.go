package tareas_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/tareas"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

const actor = "tester"

func newUseCase() *tareas.UseCase {
	store := memory.NewStore()
	return tareas.New(memory.NewTareaRepository(store), memory.NewIncidenciaRepository(store))
}

func crearTarea(t *testing.T, uc *tareas.UseCase, asignadaA *string) *entity.Tarea {
	t.Helper()
	tarea, err := uc.CrearTarea(context.Background(), tareas.CrearTareaInput{
		Tipo:        "CONTEO",
		Prioridad:   3,
		Descripcion: "conteo cíclico pasillo A",
		AsignadaA:   asignadaA,
		CreadaPor:   actor,
	})
	require.NoError(t, err)
	return tarea
}

func ptr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Tareas
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearTarea_NuevaOAsignada(t *testing.T) {
	uc := newUseCase()

	sinOperador := crearTarea(t, uc, nil)
	assert.Equal(t, entity.TareaNueva, sinOperador.Estado)

	conOperador := crearTarea(t, uc, ptr("operador-1"))
	assert.Equal(t, entity.TareaAsignada, conOperador.Estado,
		"con responsable nace directamente en ASIGNADA")
}

func TestCrearTarea_Validaciones(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	_, err := uc.CrearTarea(ctx, tareas.CrearTareaInput{Prioridad: 3, Descripcion: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo obligatorio")

	_, err = uc.CrearTarea(ctx, tareas.CrearTareaInput{Tipo: "CONTEO", Prioridad: 0, Descripcion: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "prioridad 1..5")
}

func TestCicloDeVida_NuevaAsignadaEnProcesoCompletada(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	tarea := crearTarea(t, uc, nil)

	asignada, err := uc.AsignarTarea(ctx, tarea.ID, "operador-1")
	require.NoError(t, err)
	assert.Equal(t, entity.TareaAsignada, asignada.Estado)
	require.NotNil(t, asignada.AsignadaA)
	assert.Equal(t, "operador-1", *asignada.AsignadaA)

	enProceso, err := uc.CambiarEstadoTarea(ctx, tarea.ID, entity.TareaEnProceso)
	require.NoError(t, err)
	assert.Equal(t, entity.TareaEnProceso, enProceso.Estado)

	completada, err := uc.CambiarEstadoTarea(ctx, tarea.ID, entity.TareaCompletada)
	require.NoError(t, err)
	assert.Equal(t, entity.TareaCompletada, completada.Estado)
}

func TestTransiciones_FueraDeMatrizFallan(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	tarea := crearTarea(t, uc, nil)

	// NUEVA no puede saltar directo a EN_PROCESO ni a COMPLETADA.
	_, err := uc.CambiarEstadoTarea(ctx, tarea.ID, entity.TareaEnProceso)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = uc.CambiarEstadoTarea(ctx, tarea.ID, entity.TareaCompletada)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// COMPLETADA es terminal.
	_, err = uc.AsignarTarea(ctx, tarea.ID, "op")
	require.NoError(t, err)
	_, err = uc.CambiarEstadoTarea(ctx, tarea.ID, entity.TareaEnProceso)
	require.NoError(t, err)
	_, err = uc.CambiarEstadoTarea(ctx, tarea.ID, entity.TareaCompletada)
	require.NoError(t, err)
	_, err = uc.CambiarEstadoTarea(ctx, tarea.ID, entity.TareaEnProceso)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestTransiciones_BloqueadaPuedeRetomarse(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	tarea := crearTarea(t, uc, ptr("operador-1"))

	_, err := uc.CambiarEstadoTarea(ctx, tarea.ID, entity.TareaBloqueada)
	require.NoError(t, err)

	retomada, err := uc.CambiarEstadoTarea(ctx, tarea.ID, entity.TareaEnProceso)
	require.NoError(t, err)
	assert.Equal(t, entity.TareaEnProceso, retomada.Estado)
}

func TestListTareas_EstadoInvalido(t *testing.T) {
	uc := newUseCase()
	_, _, err := uc.ListTareas(context.Background(), "INEXISTENTE", 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Incidencias
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearIncidencia_BloqueaLaTareaReferenciada(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	tarea := crearTarea(t, uc, ptr("operador-1"))

	inc, err := uc.CrearIncidencia(ctx, tareas.CrearIncidenciaInput{
		TareaID:     &tarea.ID,
		Descripcion: "producto dañado en estante",
		OperadorID:  actor,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.IncidenciaPendiente, inc.Estado)

	bloqueada, err := uc.GetTarea(ctx, tarea.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TareaBloqueada, bloqueada.Estado)
}

func TestCrearIncidencia_NoBloqueaTareaTerminal(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	tarea := crearTarea(t, uc, ptr("operador-1"))
	_, err := uc.CambiarEstadoTarea(ctx, tarea.ID, entity.TareaCancelada)
	require.NoError(t, err)

	// La incidencia se registra igual; la tarea cancelada no cambia.
	_, err = uc.CrearIncidencia(ctx, tareas.CrearIncidenciaInput{
		TareaID:     &tarea.ID,
		Descripcion: "hallazgo tardío",
		OperadorID:  actor,
	})
	require.NoError(t, err)

	cargada, err := uc.GetTarea(ctx, tarea.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TareaCancelada, cargada.Estado)
}

func TestCrearIncidencia_TareaInexistente(t *testing.T) {
	uc := newUseCase()
	id := "no-existe"
	_, err := uc.CrearIncidencia(context.Background(), tareas.CrearIncidenciaInput{
		TareaID:     &id,
		Descripcion: "x",
		OperadorID:  actor,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolverIncidencia_NoDesbloqueaLaTarea(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	tarea := crearTarea(t, uc, ptr("operador-1"))

	inc, err := uc.CrearIncidencia(ctx, tareas.CrearIncidenciaInput{
		TareaID:     &tarea.ID,
		Descripcion: "faltante en conteo",
		OperadorID:  actor,
	})
	require.NoError(t, err)

	resuelta, err := uc.ResolverIncidencia(ctx, inc.ID, "supervisor-1")
	require.NoError(t, err)
	assert.Equal(t, entity.IncidenciaResuelta, resuelta.Estado)
	require.NotNil(t, resuelta.ResueltaPor)
	assert.Equal(t, "supervisor-1", *resuelta.ResueltaPor)
	assert.NotNil(t, resuelta.ResueltaAt)

	// El desbloqueo es una decisión explícita aparte.
	cargada, err := uc.GetTarea(ctx, tarea.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TareaBloqueada, cargada.Estado)
}

func TestResolverIncidencia_DobleResolucionFalla(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	inc, err := uc.CrearIncidencia(ctx, tareas.CrearIncidenciaInput{
		Descripcion: "derrame en pasillo",
		OperadorID:  actor,
	})
	require.NoError(t, err)

	_, err = uc.ResolverIncidencia(ctx, inc.ID, "supervisor-1")
	require.NoError(t, err)
	_, err = uc.ResolverIncidencia(ctx, inc.ID, "supervisor-2")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
