package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.InventarioRepository = (*InventarioRepo)(nil)

// InventarioRepo implementación de InventarioRepository sobre PostgreSQL.
// La tabla inventario tiene un índice único (producto_id, ubicacion_id, lote_id)
// NULLS NOT DISTINCT para que el stock sin lote sea un solo registro.
type InventarioRepo struct {
	q Querier
}

// NewInventarioRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventarioRepository(q Querier) *InventarioRepo {
	return &InventarioRepo{q: q}
}

const inventarioCols = `producto_id, ubicacion_id, lote_id, cantidad, cantidad_reservada, updated_at`

func (r *InventarioRepo) Get(productoID, ubicacionID string, loteID *string) (*entity.RegistroInventario, error) {
	return r.get(productoID, ubicacionID, loteID, false)
}

// GetForUpdate bloquea el registro dentro de la transacción actual. Un
// triplete que no existe se materializa primero en cero: sin la fila, dos
// transacciones concurrentes sobre el mismo triplete nuevo no tendrían nada
// que bloquear y la segunda pisaría el upsert de la primera.
func (r *InventarioRepo) GetForUpdate(productoID, ubicacionID string, loteID *string) (*entity.RegistroInventario, error) {
	query := `
		INSERT INTO inventario (` + inventarioCols + `)
		VALUES ($1, $2, $3, 0, 0, now())
		ON CONFLICT (producto_id, ubicacion_id, lote_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), query, productoID, ubicacionID, loteID); err != nil {
		return nil, fmt.Errorf("materializar inventario: %w", err)
	}
	return r.get(productoID, ubicacionID, loteID, true)
}

func (r *InventarioRepo) get(productoID, ubicacionID string, loteID *string, lock bool) (*entity.RegistroInventario, error) {
	query := `
		SELECT ` + inventarioCols + `
		FROM inventario
		WHERE producto_id = $1 AND ubicacion_id = $2 AND lote_id IS NOT DISTINCT FROM $3`
	if lock {
		query += ` FOR UPDATE`
	}
	var reg entity.RegistroInventario
	err := r.q.QueryRow(context.Background(), query, productoID, ubicacionID, loteID).Scan(
		&reg.ProductoID, &reg.UbicacionID, &reg.LoteID,
		&reg.Cantidad, &reg.CantidadReservada, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.RegistroInventario{
				ProductoID:        productoID,
				UbicacionID:       ubicacionID,
				LoteID:            loteID,
				Cantidad:          decimal.Zero,
				CantidadReservada: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get inventario: %w", err)
	}
	return &reg, nil
}

func (r *InventarioRepo) Upsert(reg *entity.RegistroInventario) error {
	query := `
		INSERT INTO inventario (` + inventarioCols + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (producto_id, ubicacion_id, lote_id)
		DO UPDATE SET cantidad = EXCLUDED.cantidad,
		              cantidad_reservada = EXCLUDED.cantidad_reservada,
		              updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		reg.ProductoID, reg.UbicacionID, reg.LoteID,
		reg.Cantidad, reg.CantidadReservada, reg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert inventario: %w", err)
	}
	return nil
}

func (r *InventarioRepo) ListByProducto(productoID string) ([]*entity.RegistroInventario, error) {
	query := `
		SELECT ` + inventarioCols + `
		FROM inventario
		WHERE producto_id = $1
		ORDER BY ubicacion_id, lote_id NULLS FIRST`
	rows, err := r.q.Query(context.Background(), query, productoID)
	if err != nil {
		return nil, fmt.Errorf("list inventario by producto: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *InventarioRepo) ListByLote(loteID string) ([]*entity.RegistroInventario, error) {
	query := `
		SELECT ` + inventarioCols + `
		FROM inventario
		WHERE lote_id = $1
		ORDER BY ubicacion_id`
	rows, err := r.q.Query(context.Background(), query, loteID)
	if err != nil {
		return nil, fmt.Errorf("list inventario by lote: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *InventarioRepo) SumByUbicacion(ubicacionID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(cantidad), 0) FROM inventario WHERE ubicacion_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, ubicacionID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum inventario by ubicacion: %w", err)
	}
	return sum, nil
}

func (r *InventarioRepo) scanAll(rows pgx.Rows) ([]*entity.RegistroInventario, error) {
	var list []*entity.RegistroInventario
	for rows.Next() {
		var reg entity.RegistroInventario
		if err := rows.Scan(
			&reg.ProductoID, &reg.UbicacionID, &reg.LoteID,
			&reg.Cantidad, &reg.CantidadReservada, &reg.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventario: %w", err)
		}
		list = append(list, &reg)
	}
	return list, rows.Err()
}
