package services

import "errors"

// Common service errors
var (
	ErrNotFound        = errors.New("registro no encontrado")
	ErrInvalidPassword = errors.New("contraseña inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrInvalidState    = errors.New("transición de estado inválida")
	ErrDuplicate       = errors.New("registro duplicado")
	ErrHasLoans        = errors.New("el cliente tiene préstamos registrados")
	ErrInvalidAmount   = errors.New("monto inválido")
)
