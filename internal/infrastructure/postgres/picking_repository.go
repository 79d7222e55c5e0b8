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

var _ repository.PickingRepository = (*PickingRepo)(nil)

// PickingRepo implementación de PickingRepository sobre PostgreSQL.
type PickingRepo struct {
	q Querier
}

// NewPickingRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPickingRepository(q Querier) *PickingRepo {
	return &PickingRepo{q: q}
}

const pickingCols = `id, orden_id, estado, asignado_a, creado_por, fecha_asignacion, fecha_cierre, created_at, updated_at`
const pickingDetCols = `id, picking_id, detalle_orden_id, producto_id, ubicacion_id, lote_id, cant_objetivo, cant_pickeada`

func (r *PickingRepo) Create(p *entity.Picking) error {
	query := `
		INSERT INTO pickings (` + pickingCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.OrdenID, p.Estado, p.AsignadoA, p.CreadoPor,
		p.FechaAsignacion, p.FechaCierre, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create picking: %w", err)
	}
	for _, d := range p.Detalles {
		queryDet := `
			INSERT INTO picking_detalles (` + pickingDetCols + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := r.q.Exec(context.Background(), queryDet,
			d.ID, d.PickingID, d.DetalleOrdenID, d.ProductoID, d.UbicacionID,
			d.LoteID, d.CantObjetivo, d.CantPickeada,
		)
		if err != nil {
			return fmt.Errorf("create picking detalle: %w", err)
		}
	}
	return nil
}

func (r *PickingRepo) GetByID(id string) (*entity.Picking, error) {
	return r.get(id, false)
}

// GetForUpdate bloquea la cabecera de la tarea dentro de la transacción actual.
func (r *PickingRepo) GetForUpdate(id string) (*entity.Picking, error) {
	return r.get(id, true)
}

func (r *PickingRepo) get(id string, lock bool) (*entity.Picking, error) {
	query := `SELECT ` + pickingCols + ` FROM pickings WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	var p entity.Picking
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.OrdenID, &p.Estado, &p.AsignadoA, &p.CreadoPor,
		&p.FechaAsignacion, &p.FechaCierre, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get picking: %w", err)
	}
	detalles, err := r.listDetalles(id)
	if err != nil {
		return nil, err
	}
	p.Detalles = detalles
	return &p, nil
}

func (r *PickingRepo) listDetalles(pickingID string) ([]*entity.PickingDetalle, error) {
	query := `SELECT ` + pickingDetCols + ` FROM picking_detalles WHERE picking_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, pickingID)
	if err != nil {
		return nil, fmt.Errorf("list picking detalles: %w", err)
	}
	defer rows.Close()
	var list []*entity.PickingDetalle
	for rows.Next() {
		var d entity.PickingDetalle
		if err := rows.Scan(
			&d.ID, &d.PickingID, &d.DetalleOrdenID, &d.ProductoID, &d.UbicacionID,
			&d.LoteID, &d.CantObjetivo, &d.CantPickeada,
		); err != nil {
			return nil, fmt.Errorf("scan picking detalle: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

func (r *PickingRepo) Update(p *entity.Picking) error {
	query := `
		UPDATE pickings
		SET estado = $2, asignado_a = $3, fecha_asignacion = $4, fecha_cierre = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		p.ID, p.Estado, p.AsignadoA, p.FechaAsignacion, p.FechaCierre, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update picking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PickingRepo) UpdateDetalle(d *entity.PickingDetalle) error {
	query := `UPDATE picking_detalles SET cant_pickeada = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, d.ID, d.CantPickeada)
	if err != nil {
		return fmt.Errorf("update picking detalle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PickingRepo) ListByOrden(ordenID string) ([]*entity.Picking, error) {
	query := `SELECT ` + pickingCols + ` FROM pickings WHERE orden_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, ordenID)
	if err != nil {
		return nil, fmt.Errorf("list pickings by orden: %w", err)
	}
	defer rows.Close()
	list, err := r.scanAll(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		detalles, err := r.listDetalles(p.ID)
		if err != nil {
			return nil, err
		}
		p.Detalles = detalles
	}
	return list, nil
}

func (r *PickingRepo) CountByOrden(ordenID string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM pickings WHERE orden_id = $1`, ordenID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count pickings by orden: %w", err)
	}
	return total, nil
}

func (r *PickingRepo) List(estado string, limit, offset int) ([]*entity.Picking, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	n := 0
	if estado != "" {
		n++
		where += fmt.Sprintf(" AND estado = $%d", n)
		args = append(args, estado)
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM pickings`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pickings: %w", err)
	}

	query := `SELECT ` + pickingCols + ` FROM pickings` + where + ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pickings: %w", err)
	}
	defer rows.Close()
	list, err := r.scanAll(rows)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range list {
		detalles, err := r.listDetalles(p.ID)
		if err != nil {
			return nil, 0, err
		}
		p.Detalles = detalles
	}
	return list, total, nil
}

func (r *PickingRepo) scanAll(rows pgx.Rows) ([]*entity.Picking, error) {
	var list []*entity.Picking
	for rows.Next() {
		var p entity.Picking
		if err := rows.Scan(
			&p.ID, &p.OrdenID, &p.Estado, &p.AsignadoA, &p.CreadoPor,
			&p.FechaAsignacion, &p.FechaCierre, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan picking: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
