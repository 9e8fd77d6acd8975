package models

type Client struct {
	ID          int     `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	ContactInfo *string `json:"contact_info" db:"contact_info"`
	UnitCount   int     `json:"unit_count" db:"unit_count"`
}

func (c *Client) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   c.ID,
		ResourceType: "client",
	}
}
