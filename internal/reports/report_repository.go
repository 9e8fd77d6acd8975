package reports

import (
	"fmt"

	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// Summary is the dashboard headline: unit counts bucketed by status.
// Status matching is case-insensitive so legacy rows written before
// canonicalization still classify correctly.
type Summary struct {
	TotalUnits int `db:"total_units" json:"total_units"`
	InStock    int `db:"in_stock" json:"in_stock"`
	Sold       int `db:"sold" json:"sold"`
	InRepair   int `db:"in_repair" json:"in_repair"`
}

type DistributionRow struct {
	WarehouseName string `db:"warehouse_name" json:"warehouse_name"`
	FixtureName   string `db:"fixture_name" json:"fixture_name"`
	Quantity      int    `db:"quantity" json:"quantity"`
}

type LogisticsRow struct {
	SerialNumber  string `db:"serial_number" json:"serial_number"`
	FixtureName   string `db:"fixture_name" json:"fixture_name"`
	Status        string `db:"status" json:"status"`
	WarehouseName string `db:"warehouse_name" json:"warehouse_name"`
}

type SalesRow struct {
	ClientName  string `db:"client_name" json:"client_name"`
	FixtureName string `db:"fixture_name" json:"fixture_name"`
	Quantity    int    `db:"quantity" json:"quantity"`
}

type SalesReport struct {
	Breakdown       []SalesRow `json:"breakdown"`
	DistinctClients int        `json:"distinct_clients"`
}

type ReportRepository interface {
	GetSummary() (*Summary, error)
	GetDistribution() ([]DistributionRow, error)
	GetLogistics() ([]LogisticsRow, error)
	GetSales() (*SalesReport, error)
}

type reportRepositoryImpl struct {
	*repository.Repository
}

func NewRepository(r *repository.Repository) ReportRepository {
	return &reportRepositoryImpl{r}
}

func (r *reportRepositoryImpl) GetSummary() (*Summary, error) {
	var summary Summary
	query := r.GoquDBWrapper.From("stock").Select(
		goqu.L("COUNT(*)").As("total_units"),
		goqu.L("COUNT(*) FILTER (WHERE UPPER(status) IN ('IN WAREHOUSE', 'FOR SALE'))").As("in_stock"),
		goqu.L("COUNT(*) FILTER (WHERE UPPER(status) = 'SOLD')").As("sold"),
		goqu.L("COUNT(*) FILTER (WHERE UPPER(status) IN ('MAINTENANCE', 'REPAIR'))").As("in_repair"),
	)
	if _, err := query.ScanStruct(&summary); err != nil {
		return nil, fmt.Errorf("unable to load stock summary: %w", err)
	}
	return &summary, nil
}

func (r *reportRepositoryImpl) GetDistribution() ([]DistributionRow, error) {
	var rows []DistributionRow
	err := r.GoquDBWrapper.From(goqu.T("stock").As("s")).
		Join(goqu.T("warehouses").As("w"), goqu.On(goqu.Ex{"s.warehouse_id": goqu.I("w.id")})).
		Join(goqu.T("fixtures").As("f"), goqu.On(goqu.Ex{"s.fixture_id": goqu.I("f.id")})).
		Where(goqu.Func("UPPER", goqu.I("s.status")).In(models.InStockStatuses)).
		Select(
			goqu.I("w.name").As("warehouse_name"),
			goqu.I("f.name").As("fixture_name"),
			goqu.COUNT(goqu.I("s.id")).As("quantity"),
		).
		GroupBy(goqu.I("w.name"), goqu.I("f.name")).
		Order(goqu.I("w.name").Asc(), goqu.I("f.name").Asc()).
		ScanStructs(&rows)
	if err != nil {
		return nil, fmt.Errorf("unable to load stock distribution: %w", err)
	}
	return rows, nil
}

// GetLogistics lists units that are currently off the shelf. Units without a
// warehouse are shown as in transit.
func (r *reportRepositoryImpl) GetLogistics() ([]LogisticsRow, error) {
	var rows []LogisticsRow
	err := r.GoquDBWrapper.From(goqu.T("stock").As("s")).
		Join(goqu.T("fixtures").As("f"), goqu.On(goqu.Ex{"s.fixture_id": goqu.I("f.id")})).
		LeftJoin(goqu.T("warehouses").As("w"), goqu.On(goqu.Ex{"s.warehouse_id": goqu.I("w.id")})).
		Where(goqu.Func("UPPER", goqu.I("s.status")).In(
			models.StatusMaintenance, models.StatusInTransit, models.StatusRepair,
		)).
		Select(
			goqu.I("s.serial_number"),
			goqu.I("f.name").As("fixture_name"),
			goqu.I("s.status"),
			goqu.L("COALESCE(w.name, 'Transit')").As("warehouse_name"),
		).
		Order(goqu.I("s.id").Asc()).
		ScanStructs(&rows)
	if err != nil {
		return nil, fmt.Errorf("unable to load logistics report: %w", err)
	}
	return rows, nil
}

func (r *reportRepositoryImpl) GetSales() (*SalesReport, error) {
	var breakdown []SalesRow
	err := r.GoquDBWrapper.From(goqu.T("stock").As("s")).
		Join(goqu.T("clients").As("c"), goqu.On(goqu.Ex{"s.client_id": goqu.I("c.id")})).
		Join(goqu.T("fixtures").As("f"), goqu.On(goqu.Ex{"s.fixture_id": goqu.I("f.id")})).
		Where(goqu.Func("UPPER", goqu.I("s.status")).Eq(models.StatusSold)).
		Select(
			goqu.I("c.name").As("client_name"),
			goqu.I("f.name").As("fixture_name"),
			goqu.COUNT(goqu.I("s.id")).As("quantity"),
		).
		GroupBy(goqu.I("c.name"), goqu.I("f.name")).
		Order(goqu.I("c.name").Asc(), goqu.I("f.name").Asc()).
		ScanStructs(&breakdown)
	if err != nil {
		return nil, fmt.Errorf("unable to load sales breakdown: %w", err)
	}

	var distinct int
	query := r.GoquDBWrapper.From("stock").
		Where(
			goqu.Func("UPPER", goqu.I("status")).Eq(models.StatusSold),
			goqu.I("client_id").IsNotNull(),
		).
		Select(goqu.L("COUNT(DISTINCT client_id)"))
	if _, err := query.ScanVal(&distinct); err != nil {
		return nil, fmt.Errorf("unable to count sold-to clients: %w", err)
	}

	return &SalesReport{Breakdown: breakdown, DistinctClients: distinct}, nil
}
