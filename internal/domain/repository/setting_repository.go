package repository

// SettingRepository puerto de configuración por empresa (clave-valor).
// El motor de valoración lee INVENTORY_VALUATION_METHOD aquí en cada
// entrada/salida; la clave es consumida, no poseída, por este subsistema.
type SettingRepository interface {
	// Get devuelve el valor de la clave; "" si no está definida.
	Get(companyID, key string) (string, error)
	Set(companyID, key, value string) error
}
