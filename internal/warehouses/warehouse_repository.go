package warehouses

import (
	"fmt"

	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"
	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type WarehouseRepository interface {
	GetWarehouses() ([]models.Warehouse, error)
	GetWarehouse(id int) (*models.Warehouse, error)
	GetWarehouseUnits(id int) ([]models.StockUnit, error)
	PersistWarehouse(warehouse *models.Warehouse) error
	UpdateWarehouse(id int, warehouse *models.Warehouse) error
	DeleteWarehouse(id int) error
}

type warehouseRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) WarehouseRepository {
	return &warehouseRepositoryImpl{repository: r}
}

func (r *warehouseRepositoryImpl) GetWarehouses() ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("w.id"),
			goqu.I("w.name"),
			goqu.I("w.location"),
			goqu.COUNT(goqu.I("s.id")).As("unit_count"),
		).
		From(goqu.T("warehouses").As("w")).
		LeftJoin(goqu.T("stock").As("s"), goqu.On(goqu.I("w.id").Eq(goqu.I("s.warehouse_id")))).
		GroupBy(goqu.I("w.id"), goqu.I("w.name"), goqu.I("w.location")).
		Order(goqu.I("w.name").Asc())

	if err := query.Executor().ScanStructs(&warehouses); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return warehouses, nil
}

func (r *warehouseRepositoryImpl) GetWarehouse(id int) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "location").
		From("warehouses").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&warehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("warehouse", fmt.Sprint(id))
	}

	return &warehouse, nil
}

func (r *warehouseRepositoryImpl) GetWarehouseUnits(id int) ([]models.StockUnit, error) {
	var units []models.StockUnit
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("s.id"),
			goqu.I("s.fixture_id"),
			goqu.I("s.serial_number"),
			goqu.I("s.warehouse_id"),
			goqu.I("s.client_id"),
			goqu.I("s.status"),
			goqu.I("s.mfg_date"),
			goqu.I("s.install_date"),
			goqu.I("f.name").As("fixture_name"),
		).
		From(goqu.T("stock").As("s")).
		Join(goqu.T("fixtures").As("f"), goqu.On(goqu.I("s.fixture_id").Eq(goqu.I("f.id")))).
		Where(goqu.Ex{"s.warehouse_id": id}).
		Order(goqu.I("s.id").Asc())

	if err := query.Executor().ScanStructs(&units); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return units, nil
}

func (r *warehouseRepositoryImpl) PersistWarehouse(warehouse *models.Warehouse) error {
	query := r.repository.GoquDBWrapper.Insert("warehouses").
		Rows(goqu.Record{
			"name":     warehouse.Name,
			"location": warehouse.Location,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&warehouse.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate warehouse", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert warehouse record: %w", err)
	}

	return nil
}

func (r *warehouseRepositoryImpl) UpdateWarehouse(id int, warehouse *models.Warehouse) error {
	result, err := r.repository.GoquDBWrapper.
		Update("warehouses").
		Set(goqu.Record{
			"name":     warehouse.Name,
			"location": warehouse.Location,
		}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update warehouse: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFoundError("warehouse", fmt.Sprint(id))
	}

	return nil
}

// DeleteWarehouse refuses while the warehouse still holds stock units.
func (r *warehouseRepositoryImpl) DeleteWarehouse(id int) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var count int64
		if _, err := tx.From("stock").
			Select(goqu.COUNT("id")).
			Where(goqu.Ex{"warehouse_id": id}).
			Executor().ScanVal(&count); err != nil {
			return fmt.Errorf("failed to check warehouse dependents: %w", err)
		}
		if count > 0 {
			return custom_error.NewReferentialIntegrityError("warehouse", "stock unit", int(count))
		}

		result, err := tx.Delete("warehouses").Where(goqu.Ex{"id": id}).Executor().Exec()
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return custom_error.NewReferentialIntegrityError("warehouse", "stock unit", 1)
			}
			return fmt.Errorf("failed to delete warehouse: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("could not retrieve rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return custom_error.NewNotFoundError("warehouse", fmt.Sprint(id))
		}

		return nil
	})
}
