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

var _ repository.LoteRepository = (*LoteRepo)(nil)

// LoteRepo implementación de LoteRepository sobre PostgreSQL.
type LoteRepo struct {
	q Querier
}

// NewLoteRepository construye el adaptador. Acepta pool o tx (Querier).
func NewLoteRepository(q Querier) *LoteRepo {
	return &LoteRepo{q: q}
}

const loteCols = `id, codigo, producto_id, cantidad_inicial, cantidad_disponible,
	fecha_fabricacion, fecha_vencimiento, estado, created_at, updated_at`

func (r *LoteRepo) Create(l *entity.Lote) error {
	query := `
		INSERT INTO lotes (` + loteCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.Codigo, l.ProductoID, l.CantidadInicial, l.CantidadDisponible,
		l.FechaFabricacion, l.FechaVencimiento, l.Estado, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create lote: %w", err)
	}
	return nil
}

func (r *LoteRepo) GetByID(id string) (*entity.Lote, error) {
	query := `SELECT ` + loteCols + ` FROM lotes WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate bloquea la fila del lote dentro de la transacción actual.
func (r *LoteRepo) GetForUpdate(id string) (*entity.Lote, error) {
	query := `SELECT ` + loteCols + ` FROM lotes WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

func (r *LoteRepo) Update(l *entity.Lote) error {
	query := `
		UPDATE lotes
		SET cantidad_disponible = $2, estado = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		l.ID, l.CantidadDisponible, l.Estado, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LoteRepo) ListByProducto(productoID string) ([]*entity.Lote, error) {
	query := `SELECT ` + loteCols + ` FROM lotes WHERE producto_id = $1 ORDER BY fecha_vencimiento, codigo`
	rows, err := r.q.Query(context.Background(), query, productoID)
	if err != nil {
		return nil, fmt.Errorf("list lotes by producto: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *LoteRepo) List(limit, offset int) ([]*entity.Lote, int, error) {
	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM lotes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count lotes: %w", err)
	}
	query := `SELECT ` + loteCols + ` FROM lotes ORDER BY fecha_vencimiento, codigo`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list lotes: %w", err)
	}
	defer rows.Close()
	list, err := r.scanAll(rows)
	return list, total, err
}

func (r *LoteRepo) scanAll(rows pgx.Rows) ([]*entity.Lote, error) {
	var list []*entity.Lote
	for rows.Next() {
		var l entity.Lote
		if err := rows.Scan(
			&l.ID, &l.Codigo, &l.ProductoID, &l.CantidadInicial, &l.CantidadDisponible,
			&l.FechaFabricacion, &l.FechaVencimiento, &l.Estado, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *LoteRepo) scanOne(row pgx.Row) (*entity.Lote, error) {
	var l entity.Lote
	err := row.Scan(
		&l.ID, &l.Codigo, &l.ProductoID, &l.CantidadInicial, &l.CantidadDisponible,
		&l.FechaFabricacion, &l.FechaVencimiento, &l.Estado, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return &l, nil
}
