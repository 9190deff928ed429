package entity

import "time"

// Supplier representa un proveedor (compras).
type Supplier struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
