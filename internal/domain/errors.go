package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrValidation         = errors.New("validación fallida")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrAlreadyTerminal    = errors.New("la operación está en un estado terminal")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvariantViolation = errors.New("violación de invariante de stock")
	ErrMissingLocation    = errors.New("ubicación no especificada")
)

// InsufficientStockError detalla qué producto no tiene stock disponible suficiente.
// errors.Is(err, ErrInsufficientStock) == true.
type InsufficientStockError struct {
	ProductID string
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: disponible %s, requerido %s",
		e.ProductID, e.Available.String(), e.Required.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidTransitionError nombra el estado actual y el solicitado.
// errors.Is(err, ErrInvalidTransition) == true.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transición no permitida: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// MissingLocationError indica que una línea no pudo resolver su ubicación
// (ni override de línea ni default del documento).
type MissingLocationError struct {
	ProductID string
	Side      string // "origen" | "destino"
}

func (e *MissingLocationError) Error() string {
	return fmt.Sprintf("sin ubicación de %s para producto %s", e.Side, e.ProductID)
}

func (e *MissingLocationError) Unwrap() error { return ErrMissingLocation }

// Is permite que MissingLocationError también matchee ErrValidation.
func (e *MissingLocationError) Is(target error) bool {
	return target == ErrMissingLocation || target == ErrValidation
}
