package models

type Warehouse struct {
	ID        int     `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Location  *string `json:"location" db:"location"`
	UnitCount int     `json:"unit_count" db:"unit_count"`
}

func (w *Warehouse) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   w.ID,
		ResourceType: "warehouse",
	}
}
