package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

// MovimientoRepo implementación de MovimientoRepository sobre PostgreSQL.
// La tabla es append-only: nunca se ejecuta UPDATE ni DELETE contra ella.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Acepta pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

const movimientoCols = `id, transaccion_id, producto_id, ubicacion_id, lote_id, tipo,
	cantidad, cantidad_antes, cantidad_despues, motivo, referencia, creado_por, created_at`

func (r *MovimientoRepo) Create(m *entity.Movimiento) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos (` + movimientoCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.TransaccionID, m.ProductoID, m.UbicacionID, m.LoteID, m.Tipo,
		m.Cantidad, m.CantidadAntes, m.CantidadDespues, m.Motivo, m.Referencia,
		m.CreadoPor, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movimiento: %w", err)
	}
	return nil
}

func (r *MovimientoRepo) GetByID(id string) (*entity.Movimiento, error) {
	query := `SELECT ` + movimientoCols + ` FROM movimientos WHERE id = $1`
	var m entity.Movimiento
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.TransaccionID, &m.ProductoID, &m.UbicacionID, &m.LoteID, &m.Tipo,
		&m.Cantidad, &m.CantidadAntes, &m.CantidadDespues, &m.Motivo, &m.Referencia,
		&m.CreadoPor, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return &m, nil
}

func (r *MovimientoRepo) List(filtro repository.MovimientoFiltro) ([]*entity.Movimiento, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	n := 0
	add := func(cond string, val any) {
		n++
		where += fmt.Sprintf(" AND "+cond, n)
		args = append(args, val)
	}
	if filtro.ProductoID != "" {
		add("producto_id = $%d", filtro.ProductoID)
	}
	if filtro.UbicacionID != "" {
		add("ubicacion_id = $%d", filtro.UbicacionID)
	}
	if filtro.LoteID != "" {
		add("lote_id = $%d", filtro.LoteID)
	}
	if filtro.Tipo != "" {
		add("tipo = $%d", filtro.Tipo)
	}
	if filtro.Desde != nil {
		add("created_at >= $%d", *filtro.Desde)
	}
	if filtro.Hasta != nil {
		add("created_at <= $%d", *filtro.Hasta)
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM movimientos`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movimientos: %w", err)
	}

	query := `SELECT ` + movimientoCols + ` FROM movimientos` + where + ` ORDER BY created_at DESC, id`
	if filtro.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
		args = append(args, filtro.Limit, filtro.Offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movimiento
	for rows.Next() {
		var m entity.Movimiento
		if err := rows.Scan(
			&m.ID, &m.TransaccionID, &m.ProductoID, &m.UbicacionID, &m.LoteID, &m.Tipo,
			&m.Cantidad, &m.CantidadAntes, &m.CantidadDespues, &m.Motivo, &m.Referencia,
			&m.CreadoPor, &m.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, &m)
	}
	return list, total, rows.Err()
}
