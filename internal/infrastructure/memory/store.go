// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con un TxRunner que simula transacciones por snapshot. Se usa en
// tests y para correr la API sin PostgreSQL (APP_STORAGE=memory).
package memory

import (
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Store guarda todos los agregados. El mutex serializa tanto las operaciones
// sueltas como las transacciones completas; los repositorios devuelven copias
// para que mutar una entidad fuera de Update no toque el estado guardado.
type Store struct {
	mu          sync.Mutex
	productos   map[string]*entity.Producto
	ubicaciones map[string]*entity.Ubicacion
	lotes       map[string]*entity.Lote
	inventario  map[string]*entity.RegistroInventario
	movimientos []*entity.Movimiento
	ordenes     map[string]*entity.OrdenSalida
	pickings    map[string]*entity.Picking
	tareas      map[string]*entity.Tarea
	incidencias map[string]*entity.Incidencia
	usuarios    map[string]*entity.Usuario
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		productos:   make(map[string]*entity.Producto),
		ubicaciones: make(map[string]*entity.Ubicacion),
		lotes:       make(map[string]*entity.Lote),
		inventario:  make(map[string]*entity.RegistroInventario),
		ordenes:     make(map[string]*entity.OrdenSalida),
		pickings:    make(map[string]*entity.Picking),
		tareas:      make(map[string]*entity.Tarea),
		incidencias: make(map[string]*entity.Incidencia),
		usuarios:    make(map[string]*entity.Usuario),
	}
}

// invKey identidad del registro de inventario. Lote nulo se codifica vacío.
func invKey(productoID, ubicacionID string, loteID *string) string {
	k := productoID + "|" + ubicacionID + "|"
	if loteID != nil {
		k += *loteID
	}
	return k
}

type snapshot struct {
	productos   map[string]*entity.Producto
	ubicaciones map[string]*entity.Ubicacion
	lotes       map[string]*entity.Lote
	inventario  map[string]*entity.RegistroInventario
	movimientos []*entity.Movimiento
	ordenes     map[string]*entity.OrdenSalida
	pickings    map[string]*entity.Picking
	tareas      map[string]*entity.Tarea
	incidencias map[string]*entity.Incidencia
	usuarios    map[string]*entity.Usuario
}

// takeSnapshot copia el estado completo. Caller debe tener el mutex.
func (s *Store) takeSnapshot() snapshot {
	snap := snapshot{
		productos:   make(map[string]*entity.Producto, len(s.productos)),
		ubicaciones: make(map[string]*entity.Ubicacion, len(s.ubicaciones)),
		lotes:       make(map[string]*entity.Lote, len(s.lotes)),
		inventario:  make(map[string]*entity.RegistroInventario, len(s.inventario)),
		movimientos: make([]*entity.Movimiento, len(s.movimientos)),
		ordenes:     make(map[string]*entity.OrdenSalida, len(s.ordenes)),
		pickings:    make(map[string]*entity.Picking, len(s.pickings)),
		tareas:      make(map[string]*entity.Tarea, len(s.tareas)),
		incidencias: make(map[string]*entity.Incidencia, len(s.incidencias)),
		usuarios:    make(map[string]*entity.Usuario, len(s.usuarios)),
	}
	for k, v := range s.productos {
		snap.productos[k] = cloneProducto(v)
	}
	for k, v := range s.ubicaciones {
		snap.ubicaciones[k] = cloneUbicacion(v)
	}
	for k, v := range s.lotes {
		snap.lotes[k] = cloneLote(v)
	}
	for k, v := range s.inventario {
		snap.inventario[k] = cloneRegistro(v)
	}
	copy(snap.movimientos, s.movimientos)
	for k, v := range s.ordenes {
		snap.ordenes[k] = cloneOrden(v)
	}
	for k, v := range s.pickings {
		snap.pickings[k] = clonePicking(v)
	}
	for k, v := range s.tareas {
		snap.tareas[k] = cloneTarea(v)
	}
	for k, v := range s.incidencias {
		snap.incidencias[k] = cloneIncidencia(v)
	}
	for k, v := range s.usuarios {
		snap.usuarios[k] = cloneUsuario(v)
	}
	return snap
}

// restore vuelve al snapshot. Caller debe tener el mutex.
func (s *Store) restore(snap snapshot) {
	s.productos = snap.productos
	s.ubicaciones = snap.ubicaciones
	s.lotes = snap.lotes
	s.inventario = snap.inventario
	s.movimientos = snap.movimientos
	s.ordenes = snap.ordenes
	s.pickings = snap.pickings
	s.tareas = snap.tareas
	s.incidencias = snap.incidencias
	s.usuarios = snap.usuarios
}

func cloneProducto(p *entity.Producto) *entity.Producto {
	c := *p
	return &c
}

func cloneUbicacion(u *entity.Ubicacion) *entity.Ubicacion {
	c := *u
	return &c
}

func cloneLote(l *entity.Lote) *entity.Lote {
	c := *l
	return &c
}

func cloneRegistro(r *entity.RegistroInventario) *entity.RegistroInventario {
	c := *r
	return &c
}

func cloneMovimiento(m *entity.Movimiento) *entity.Movimiento {
	c := *m
	return &c
}

func cloneOrden(o *entity.OrdenSalida) *entity.OrdenSalida {
	c := *o
	c.Detalles = make([]*entity.DetalleOrden, len(o.Detalles))
	for i, d := range o.Detalles {
		dc := *d
		c.Detalles[i] = &dc
	}
	return &c
}

func clonePicking(p *entity.Picking) *entity.Picking {
	c := *p
	c.Detalles = make([]*entity.PickingDetalle, len(p.Detalles))
	for i, d := range p.Detalles {
		dc := *d
		c.Detalles[i] = &dc
	}
	return &c
}

func cloneTarea(t *entity.Tarea) *entity.Tarea {
	c := *t
	return &c
}

func cloneIncidencia(i *entity.Incidencia) *entity.Incidencia {
	c := *i
	return &c
}

func cloneUsuario(u *entity.Usuario) *entity.Usuario {
	c := *u
	return &c
}

// locker permite que los repositorios funcionen solos (cada operación toma el
// mutex) o dentro de una transacción (el TxRunner ya lo tiene tomado).
type locker struct {
	s        *Store
	insideTx bool
}

func (l locker) acquire() func() {
	if l.insideTx {
		return func() {}
	}
	l.s.mu.Lock()
	return l.s.mu.Unlock
}
