package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto de concurrencia")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidReservation = errors.New("reserva insuficiente para liberar")
	ErrInvalidState       = errors.New("transición de estado no permitida")
	ErrExceedsTarget      = errors.New("cantidad pickeada excede el objetivo")
	ErrIncompleteDetails  = errors.New("detalles de picking incompletos")
	ErrCapacityExceeded   = errors.New("capacidad de la ubicación excedida")
)
