package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.TareaRepository = (*TareaRepo)(nil)
var _ repository.IncidenciaRepository = (*IncidenciaRepo)(nil)

// TareaRepo implementación de TareaRepository sobre PostgreSQL.
type TareaRepo struct {
	q Querier
}

// NewTareaRepository construye el adaptador. Acepta pool o tx (Querier).
func NewTareaRepository(q Querier) *TareaRepo {
	return &TareaRepo{q: q}
}

const tareaCols = `id, tipo, prioridad, descripcion, estado, asignada_a, creada_por, created_at, updated_at`

func (r *TareaRepo) Create(t *entity.Tarea) error {
	query := `
		INSERT INTO tareas (` + tareaCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.Tipo, t.Prioridad, t.Descripcion, t.Estado,
		t.AsignadaA, t.CreadaPor, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create tarea: %w", err)
	}
	return nil
}

func (r *TareaRepo) GetByID(id string) (*entity.Tarea, error) {
	query := `SELECT ` + tareaCols + ` FROM tareas WHERE id = $1`
	var t entity.Tarea
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.Tipo, &t.Prioridad, &t.Descripcion, &t.Estado,
		&t.AsignadaA, &t.CreadaPor, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tarea: %w", err)
	}
	return &t, nil
}

func (r *TareaRepo) Update(t *entity.Tarea) error {
	query := `
		UPDATE tareas
		SET prioridad = $2, descripcion = $3, estado = $4, asignada_a = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		t.ID, t.Prioridad, t.Descripcion, t.Estado, t.AsignadaA, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tarea: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TareaRepo) List(estado string, limit, offset int) ([]*entity.Tarea, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	n := 0
	if estado != "" {
		n++
		where += fmt.Sprintf(" AND estado = $%d", n)
		args = append(args, estado)
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM tareas`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tareas: %w", err)
	}

	query := `SELECT ` + tareaCols + ` FROM tareas` + where + ` ORDER BY prioridad, created_at`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tareas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tarea
	for rows.Next() {
		var t entity.Tarea
		if err := rows.Scan(
			&t.ID, &t.Tipo, &t.Prioridad, &t.Descripcion, &t.Estado,
			&t.AsignadaA, &t.CreadaPor, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan tarea: %w", err)
		}
		list = append(list, &t)
	}
	return list, total, rows.Err()
}

// IncidenciaRepo implementación de IncidenciaRepository sobre PostgreSQL.
type IncidenciaRepo struct {
	q Querier
}

// NewIncidenciaRepository construye el adaptador. Acepta pool o tx (Querier).
func NewIncidenciaRepository(q Querier) *IncidenciaRepo {
	return &IncidenciaRepo{q: q}
}

const incidenciaCols = `id, tarea_id, producto_id, operador_id, descripcion, estado, resuelta_por, resuelta_at, created_at`

func (r *IncidenciaRepo) Create(i *entity.Incidencia) error {
	query := `
		INSERT INTO incidencias (` + incidenciaCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		i.ID, i.TareaID, i.ProductoID, i.OperadorID, i.Descripcion,
		i.Estado, i.ResueltaPor, i.ResueltaAt, i.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create incidencia: %w", err)
	}
	return nil
}

func (r *IncidenciaRepo) GetByID(id string) (*entity.Incidencia, error) {
	query := `SELECT ` + incidenciaCols + ` FROM incidencias WHERE id = $1`
	var i entity.Incidencia
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&i.ID, &i.TareaID, &i.ProductoID, &i.OperadorID, &i.Descripcion,
		&i.Estado, &i.ResueltaPor, &i.ResueltaAt, &i.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get incidencia: %w", err)
	}
	return &i, nil
}

func (r *IncidenciaRepo) Update(i *entity.Incidencia) error {
	query := `
		UPDATE incidencias
		SET estado = $2, resuelta_por = $3, resuelta_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, i.ID, i.Estado, i.ResueltaPor, i.ResueltaAt)
	if err != nil {
		return fmt.Errorf("update incidencia: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *IncidenciaRepo) List(estado string, limit, offset int) ([]*entity.Incidencia, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	n := 0
	if estado != "" {
		n++
		where += fmt.Sprintf(" AND estado = $%d", n)
		args = append(args, estado)
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM incidencias`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count incidencias: %w", err)
	}

	query := `SELECT ` + incidenciaCols + ` FROM incidencias` + where + ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list incidencias: %w", err)
	}
	defer rows.Close()
	var list []*entity.Incidencia
	for rows.Next() {
		var i entity.Incidencia
		if err := rows.Scan(
			&i.ID, &i.TareaID, &i.ProductoID, &i.OperadorID, &i.Descripcion,
			&i.Estado, &i.ResueltaPor, &i.ResueltaAt, &i.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan incidencia: %w", err)
		}
		list = append(list, &i)
	}
	return list, total, rows.Err()
}
