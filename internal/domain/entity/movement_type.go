package entity

// Dirección de un tipo de movimiento. Campo declarado del catálogo,
// nunca se infiere del contenido del código.
const (
	DirectionIn  = "IN"  // entrada
	DirectionOut = "OUT" // salida
)

// Códigos de tipo de movimiento sembrados en el catálogo.
const (
	MovementCompra      = "COMPRA"        // entrada por compra
	MovementDevCliente  = "DEV_CLIENTE"   // entrada por devolución de cliente
	MovementAjustePos   = "AJUSTE_POS"    // ajuste positivo
	MovementTrasladoIn  = "TRASLADO_IN"   // entrada por traslado
	MovementVenta       = "VENTA"         // salida por venta
	MovementDevProv     = "DEV_PROVEEDOR" // salida por devolución a proveedor
	MovementAjusteNeg   = "AJUSTE_NEG"    // ajuste negativo
	MovementTrasladoOut = "TRASLADO_OUT"  // salida por traslado
	MovementMerma       = "MERMA"         // salida por merma o pérdida
)

// MovementType describe un código del catálogo de movimientos: dirección,
// si afecta stock, si exige documento fuente y si requiere autorización
// previa antes de tomar efecto.
type MovementType struct {
	Code                  string
	Name                  string
	Direction             string // IN | OUT
	AffectsStock          bool
	RequiresDocument      bool
	RequiresAuthorization bool
	Active                bool
}

// Sign devuelve el signo aritmético de la dirección: +1 entrada, -1 salida.
func (mt *MovementType) Sign() int64 {
	if mt.Direction == DirectionIn {
		return 1
	}
	return -1
}
