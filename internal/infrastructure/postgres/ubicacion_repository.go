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

var _ repository.UbicacionRepository = (*UbicacionRepo)(nil)

// UbicacionRepo implementación de UbicacionRepository sobre PostgreSQL.
type UbicacionRepo struct {
	q Querier
}

// NewUbicacionRepository construye el adaptador. Acepta pool o tx (Querier).
func NewUbicacionRepository(q Querier) *UbicacionRepo {
	return &UbicacionRepo{q: q}
}

const ubicacionCols = `id, codigo, pasillo, estante, nivel, capacidad, tipo,
	temperatura_min, temperatura_max, humedad_min, humedad_max, activa, created_at, updated_at`

func (r *UbicacionRepo) Create(u *entity.Ubicacion) error {
	query := `
		INSERT INTO ubicaciones (` + ubicacionCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		u.ID, u.Codigo, u.Pasillo, u.Estante, u.Nivel, u.Capacidad, u.Tipo,
		u.TemperaturaMin, u.TemperaturaMax, u.HumedadMin, u.HumedadMax,
		u.Activa, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create ubicacion: %w", err)
	}
	return nil
}

func (r *UbicacionRepo) GetByID(id string) (*entity.Ubicacion, error) {
	query := `SELECT ` + ubicacionCols + ` FROM ubicaciones WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

func (r *UbicacionRepo) GetByCodigo(codigo string) (*entity.Ubicacion, error) {
	query := `SELECT ` + ubicacionCols + ` FROM ubicaciones WHERE codigo = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, codigo))
}

func (r *UbicacionRepo) Update(u *entity.Ubicacion) error {
	query := `
		UPDATE ubicaciones
		SET pasillo = $2, estante = $3, nivel = $4, capacidad = $5, tipo = $6,
		    temperatura_min = $7, temperatura_max = $8, humedad_min = $9,
		    humedad_max = $10, activa = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		u.ID, u.Pasillo, u.Estante, u.Nivel, u.Capacidad, u.Tipo,
		u.TemperaturaMin, u.TemperaturaMax, u.HumedadMin, u.HumedadMax,
		u.Activa, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update ubicacion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UbicacionRepo) List(filtro repository.UbicacionFiltro) ([]*entity.Ubicacion, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	n := 0
	if filtro.Tipo != "" {
		n++
		where += fmt.Sprintf(" AND tipo = $%d", n)
		args = append(args, filtro.Tipo)
	}
	if filtro.SoloActivas {
		where += " AND activa = true"
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM ubicaciones`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ubicaciones: %w", err)
	}

	query := `SELECT ` + ubicacionCols + ` FROM ubicaciones` + where + ` ORDER BY codigo`
	if filtro.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
		args = append(args, filtro.Limit, filtro.Offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ubicaciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ubicacion
	for rows.Next() {
		var u entity.Ubicacion
		if err := rows.Scan(
			&u.ID, &u.Codigo, &u.Pasillo, &u.Estante, &u.Nivel, &u.Capacidad, &u.Tipo,
			&u.TemperaturaMin, &u.TemperaturaMax, &u.HumedadMin, &u.HumedadMax,
			&u.Activa, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan ubicacion: %w", err)
		}
		list = append(list, &u)
	}
	return list, total, rows.Err()
}

func (r *UbicacionRepo) scanOne(row pgx.Row) (*entity.Ubicacion, error) {
	var u entity.Ubicacion
	err := row.Scan(
		&u.ID, &u.Codigo, &u.Pasillo, &u.Estante, &u.Nivel, &u.Capacidad, &u.Tipo,
		&u.TemperaturaMin, &u.TemperaturaMax, &u.HumedadMin, &u.HumedadMax,
		&u.Activa, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ubicacion: %w", err)
	}
	return &u, nil
}
