package models

import "strings"

// Status vocabulary for stock units. Stored canonically uppercase; legacy
// rows may carry mixed casing, so read paths match case-insensitively.
const (
	StatusForSale     = "FOR SALE"
	StatusInWarehouse = "IN WAREHOUSE"
	StatusSold        = "SOLD"
	StatusMaintenance = "MAINTENANCE"
	StatusRepair      = "REPAIR"
	StatusInTransit   = "IN TRANSIT"
)

// CanonicalStatus normalizes a status string at the storage boundary.
func CanonicalStatus(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// InStockStatuses classify a unit as sitting in a warehouse for reporting.
var InStockStatuses = []string{StatusInWarehouse, StatusForSale}

// StockUnit is one physically serialized, individually tracked instance of
// a Fixture model. Dates travel as strings end to end: the normalizer passes
// unrecognized values through verbatim and storage keeps them as given.
type StockUnit struct {
	ID           int     `json:"id" db:"id"`
	FixtureID    int     `json:"fixture_id" db:"fixture_id"`
	SerialNumber string  `json:"serial_number" db:"serial_number"`
	WarehouseID  *int    `json:"warehouse_id" db:"warehouse_id"`
	ClientID     *int    `json:"client_id" db:"client_id"`
	Status       string  `json:"status" db:"status"`
	MfgDate      *string `json:"mfg_date" db:"mfg_date"`
	InstallDate  *string `json:"install_date" db:"install_date"`

	FixtureName   string  `json:"fixture_name,omitempty" db:"fixture_name"`
	WarehouseName *string `json:"warehouse_name,omitempty" db:"warehouse_name"`
	ClientName    *string `json:"client_name,omitempty" db:"client_name"`
}

func (s *StockUnit) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.ID,
		ResourceType: "stock_unit",
	}
}
