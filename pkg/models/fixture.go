package models

import "github.com/shopspring/decimal"

type FixtureType struct {
	ID         int    `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	ModelCount int    `json:"model_count" db:"model_count"`
}

func (t *FixtureType) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   t.ID,
		ResourceType: "fixture_type",
	}
}

// Fixture is a catalog entry describing a model of lighting equipment,
// not a physical unit.
type Fixture struct {
	ID               int                 `json:"id" db:"id"`
	Name             string              `json:"name" db:"name"`
	ModelName        *string             `json:"model_name" db:"model_name"`
	FactoryModelName *string             `json:"factory_model_name" db:"factory_model_name"`
	SKU              *string             `json:"sku" db:"sku"`
	TypeID           *int                `json:"type_id" db:"type_id"`
	SupplierID       *int                `json:"supplier_id" db:"supplier_id"`
	PowerWatts       *float64            `json:"power_watts" db:"power_watts"`
	Color            *string             `json:"color" db:"color"`
	BeamAngle        *string             `json:"beam_angle" db:"beam_angle"`
	IPRating         *string             `json:"ip_rating" db:"ip_rating"`
	WeightKg         *float64            `json:"weight_kg" db:"weight_kg"`
	Cost             decimal.NullDecimal `json:"cost" db:"cost"`
	PriceSGD         decimal.NullDecimal `json:"price_sgd" db:"price_sgd"`
	PriceUSD         decimal.NullDecimal `json:"price_usd" db:"price_usd"`
	Remarks          *string             `json:"remarks" db:"remarks"`

	CategoryName   *string `json:"category_name,omitempty" db:"category_name"`
	SupplierName   *string `json:"supplier_name,omitempty" db:"supplier_name"`
	InventoryCount int     `json:"inventory_count" db:"inventory_count"`
}

func (f *Fixture) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   f.ID,
		ResourceType: "fixture",
	}
}
