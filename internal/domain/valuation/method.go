package valuation

// Method método de costeo configurado por tenant.
type Method string

const (
	MethodWeightedAverage Method = "WEIGHTED_AVERAGE"
	MethodFIFO            Method = "FIFO"
	MethodLIFO            Method = "LIFO"
)

// SettingKey clave de configuración por empresa que selecciona el método.
const SettingKey = "INVENTORY_VALUATION_METHOD"

// IsLayered indica si el método mantiene capas de costeo.
func (m Method) IsLayered() bool {
	return m == MethodFIFO || m == MethodLIFO
}

// ParseMethod interpreta el valor configurado. Vacío o no reconocido = FIFO.
func ParseMethod(s string) Method {
	switch Method(s) {
	case MethodWeightedAverage, MethodFIFO, MethodLIFO:
		return Method(s)
	}
	return MethodFIFO
}
