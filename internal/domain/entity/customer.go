package entity

import "time"

// Customer representa un cliente (pedidos y ventas).
type Customer struct {
	ID        string
	Name      string
	TaxID     string // NIT o cédula
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
