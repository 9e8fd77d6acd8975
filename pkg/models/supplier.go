package models

type Supplier struct {
	ID            int     `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	ContactPerson *string `json:"contact_person" db:"contact_person"`
	Email         *string `json:"email" db:"email"`
	Phone         *string `json:"phone" db:"phone"`
	FixtureCount  int     `json:"fixture_count" db:"fixture_count"`
}

func (s *Supplier) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.ID,
		ResourceType: "supplier",
	}
}
