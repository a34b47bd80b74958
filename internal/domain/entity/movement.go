package entity

import "time"

// Tipos de movimiento del libro de stock.
const (
	MovementTypeEntrada = "entrada" // suma al saldo
	MovementTypeSaida   = "saída"   // resta del saldo
)

// ValidMovementType reporta si el tipo es entrada o saída.
func ValidMovementType(t string) bool {
	return t == MovementTypeEntrada || t == MovementTypeSaida
}

// Movement representa una línea del libro de movimientos (append-only).
// Una vez creada nunca se edita ni se borra; corregir un error se hace
// registrando un movimiento compensatorio del tipo opuesto.
type Movement struct {
	ID        string
	ProductID string
	Type      string // entrada | saída
	Quantity  int64  // siempre > 0; el signo lo da Type
	UserID    string // usuario que registró el movimiento
	CreatedAt time.Time
}

// Signed devuelve la cantidad con signo según el tipo (+entrada, -saída).
func (m *Movement) Signed() int64 {
	if m.Type == MovementTypeSaida {
		return -m.Quantity
	}
	return m.Quantity
}
