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

var _ repository.OrdenRepository = (*OrdenRepo)(nil)

// OrdenRepo implementación de OrdenRepository sobre PostgreSQL.
type OrdenRepo struct {
	q Querier
}

// NewOrdenRepository construye el adaptador. Acepta pool o tx (Querier).
func NewOrdenRepository(q Querier) *OrdenRepo {
	return &OrdenRepo{q: q}
}

const ordenCols = `id, cliente, prioridad, fecha_compromiso, estado, creado_por, created_at, updated_at`
const detalleCols = `id, orden_id, producto_id, lote_preferente, cant_solicitada, cant_comprometida, cant_pickeada`

func (r *OrdenRepo) Create(o *entity.OrdenSalida) error {
	query := `
		INSERT INTO ordenes_salida (` + ordenCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.Cliente, o.Prioridad, o.FechaCompromiso, o.Estado,
		o.CreadoPor, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create orden: %w", err)
	}
	for _, d := range o.Detalles {
		queryDet := `
			INSERT INTO detalles_orden (` + detalleCols + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err := r.q.Exec(context.Background(), queryDet,
			d.ID, d.OrdenID, d.ProductoID, d.LotePreferente,
			d.CantSolicitada, d.CantComprometida, d.CantPickeada,
		)
		if err != nil {
			return fmt.Errorf("create detalle orden: %w", err)
		}
	}
	return nil
}

func (r *OrdenRepo) GetByID(id string) (*entity.OrdenSalida, error) {
	return r.get(id, false)
}

// GetForUpdate bloquea la cabecera de la orden dentro de la transacción actual.
func (r *OrdenRepo) GetForUpdate(id string) (*entity.OrdenSalida, error) {
	return r.get(id, true)
}

func (r *OrdenRepo) get(id string, lock bool) (*entity.OrdenSalida, error) {
	query := `SELECT ` + ordenCols + ` FROM ordenes_salida WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	var o entity.OrdenSalida
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.Cliente, &o.Prioridad, &o.FechaCompromiso, &o.Estado,
		&o.CreadoPor, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get orden: %w", err)
	}
	detalles, err := r.listDetalles(id)
	if err != nil {
		return nil, err
	}
	o.Detalles = detalles
	return &o, nil
}

func (r *OrdenRepo) listDetalles(ordenID string) ([]*entity.DetalleOrden, error) {
	query := `SELECT ` + detalleCols + ` FROM detalles_orden WHERE orden_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, ordenID)
	if err != nil {
		return nil, fmt.Errorf("list detalles orden: %w", err)
	}
	defer rows.Close()
	var list []*entity.DetalleOrden
	for rows.Next() {
		var d entity.DetalleOrden
		if err := rows.Scan(
			&d.ID, &d.OrdenID, &d.ProductoID, &d.LotePreferente,
			&d.CantSolicitada, &d.CantComprometida, &d.CantPickeada,
		); err != nil {
			return nil, fmt.Errorf("scan detalle orden: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

func (r *OrdenRepo) UpdateEstado(o *entity.OrdenSalida) error {
	query := `UPDATE ordenes_salida SET estado = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, o.ID, o.Estado, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update estado orden: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrdenRepo) UpdateDetalle(d *entity.DetalleOrden) error {
	query := `
		UPDATE detalles_orden
		SET cant_comprometida = $2, cant_pickeada = $3
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, d.ID, d.CantComprometida, d.CantPickeada)
	if err != nil {
		return fmt.Errorf("update detalle orden: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrdenRepo) List(filtro repository.OrdenFiltro) ([]*entity.OrdenSalida, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	n := 0
	if filtro.Estado != "" {
		n++
		where += fmt.Sprintf(" AND estado = $%d", n)
		args = append(args, filtro.Estado)
	}
	if filtro.Cliente != "" {
		n++
		where += fmt.Sprintf(" AND cliente ILIKE $%d", n)
		args = append(args, "%"+filtro.Cliente+"%")
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM ordenes_salida`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ordenes: %w", err)
	}

	query := `SELECT ` + ordenCols + ` FROM ordenes_salida` + where + ` ORDER BY prioridad, fecha_compromiso, created_at`
	if filtro.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
		args = append(args, filtro.Limit, filtro.Offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ordenes: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrdenSalida
	for rows.Next() {
		var o entity.OrdenSalida
		if err := rows.Scan(
			&o.ID, &o.Cliente, &o.Prioridad, &o.FechaCompromiso, &o.Estado,
			&o.CreadoPor, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan orden: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, o := range list {
		detalles, err := r.listDetalles(o.ID)
		if err != nil {
			return nil, 0, err
		}
		o.Detalles = detalles
	}
	return list, total, nil
}
