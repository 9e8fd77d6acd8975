package fixtures

import (
	"fmt"

	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"
	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

// StockDistribution is one per-warehouse quantity bucket for a fixture
// model, restricted to in-stock statuses.
type StockDistribution struct {
	FixtureID     int    `json:"fixture_id" db:"fixture_id"`
	WarehouseName string `json:"warehouse_name" db:"warehouse_name"`
	Quantity      int    `json:"quantity" db:"quantity"`
}

type FixtureRepository interface {
	GetFixtureTypes() ([]models.FixtureType, error)
	PersistFixtureType(t *models.FixtureType) error
	UpdateFixtureType(id int, name string) error
	DeleteFixtureType(id int) error

	GetFixtures() ([]models.Fixture, error)
	GetFixture(id int) (*models.Fixture, error)
	PersistFixture(f *models.Fixture) error
	UpdateFixture(id int, f *models.Fixture) error
	DeleteFixture(id int) error
	GetStockDistribution() ([]StockDistribution, error)
}

type fixtureRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) FixtureRepository {
	return &fixtureRepositoryImpl{repository: r}
}

func (r *fixtureRepositoryImpl) GetFixtureTypes() ([]models.FixtureType, error) {
	var types []models.FixtureType
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("t.id"),
			goqu.I("t.name"),
			goqu.COUNT(goqu.I("f.id")).As("model_count"),
		).
		From(goqu.T("fixture_types").As("t")).
		LeftJoin(goqu.T("fixtures").As("f"), goqu.On(goqu.I("t.id").Eq(goqu.I("f.type_id")))).
		GroupBy(goqu.I("t.id"), goqu.I("t.name")).
		Order(goqu.I("t.name").Asc())

	if err := query.Executor().ScanStructs(&types); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return types, nil
}

func (r *fixtureRepositoryImpl) PersistFixtureType(t *models.FixtureType) error {
	query := r.repository.GoquDBWrapper.Insert("fixture_types").
		Rows(goqu.Record{"name": t.Name}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&t.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate fixture type name", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert fixture type record: %w", err)
	}

	return nil
}

func (r *fixtureRepositoryImpl) UpdateFixtureType(id int, name string) error {
	result, err := r.repository.GoquDBWrapper.
		Update("fixture_types").
		Set(goqu.Record{"name": name}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return custom_error.WrapDBError("Duplicate fixture type name", string(pqErr.Code))
		}
		return fmt.Errorf("failed to update fixture type: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFoundError("fixture type", fmt.Sprint(id))
	}

	return nil
}

func (r *fixtureRepositoryImpl) DeleteFixtureType(id int) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var count int64
		if _, err := tx.From("fixtures").
			Select(goqu.COUNT("id")).
			Where(goqu.Ex{"type_id": id}).
			Executor().ScanVal(&count); err != nil {
			return fmt.Errorf("failed to check fixture type dependents: %w", err)
		}
		if count > 0 {
			return custom_error.NewReferentialIntegrityError("fixture type", "fixture", int(count))
		}

		result, err := tx.Delete("fixture_types").Where(goqu.Ex{"id": id}).Executor().Exec()
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return custom_error.NewReferentialIntegrityError("fixture type", "fixture", 1)
			}
			return fmt.Errorf("failed to delete fixture type: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("could not retrieve rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return custom_error.NewNotFoundError("fixture type", fmt.Sprint(id))
		}

		return nil
	})
}

var fixtureColumns = []interface{}{
	goqu.I("f.id"),
	goqu.I("f.name"),
	goqu.I("f.model_name"),
	goqu.I("f.factory_model_name"),
	goqu.I("f.sku"),
	goqu.I("f.type_id"),
	goqu.I("f.supplier_id"),
	goqu.I("f.power_watts"),
	goqu.I("f.color"),
	goqu.I("f.beam_angle"),
	goqu.I("f.ip_rating"),
	goqu.I("f.weight_kg"),
	goqu.I("f.cost"),
	goqu.I("f.price_sgd"),
	goqu.I("f.price_usd"),
	goqu.I("f.remarks"),
	goqu.I("t.name").As("category_name"),
	goqu.I("s.name").As("supplier_name"),
	goqu.L("(SELECT COUNT(*) FROM stock WHERE stock.fixture_id = f.id)").As("inventory_count"),
}

func (r *fixtureRepositoryImpl) GetFixtures() ([]models.Fixture, error) {
	var fixtures []models.Fixture
	query := r.repository.GoquDBWrapper.
		Select(fixtureColumns...).
		From(goqu.T("fixtures").As("f")).
		LeftJoin(goqu.T("fixture_types").As("t"), goqu.On(goqu.I("f.type_id").Eq(goqu.I("t.id")))).
		LeftJoin(goqu.T("suppliers").As("s"), goqu.On(goqu.I("f.supplier_id").Eq(goqu.I("s.id")))).
		Order(goqu.I("f.name").Asc())

	if err := query.Executor().ScanStructs(&fixtures); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return fixtures, nil
}

func (r *fixtureRepositoryImpl) GetFixture(id int) (*models.Fixture, error) {
	var fixture models.Fixture
	query := r.repository.GoquDBWrapper.
		Select(fixtureColumns...).
		From(goqu.T("fixtures").As("f")).
		LeftJoin(goqu.T("fixture_types").As("t"), goqu.On(goqu.I("f.type_id").Eq(goqu.I("t.id")))).
		LeftJoin(goqu.T("suppliers").As("s"), goqu.On(goqu.I("f.supplier_id").Eq(goqu.I("s.id")))).
		Where(goqu.Ex{"f.id": id})

	found, err := query.Executor().ScanStruct(&fixture)
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("fixture", fmt.Sprint(id))
	}

	return &fixture, nil
}

func fixtureRecord(f *models.Fixture) goqu.Record {
	return goqu.Record{
		"name":               f.Name,
		"model_name":         f.ModelName,
		"factory_model_name": f.FactoryModelName,
		"sku":                f.SKU,
		"type_id":            f.TypeID,
		"supplier_id":        f.SupplierID,
		"power_watts":        f.PowerWatts,
		"color":              f.Color,
		"beam_angle":         f.BeamAngle,
		"ip_rating":          f.IPRating,
		"weight_kg":          f.WeightKg,
		"cost":               f.Cost,
		"price_sgd":          f.PriceSGD,
		"price_usd":          f.PriceUSD,
		"remarks":            f.Remarks,
	}
}

func (r *fixtureRepositoryImpl) PersistFixture(f *models.Fixture) error {
	query := r.repository.GoquDBWrapper.Insert("fixtures").
		Rows(fixtureRecord(f)).
		Returning("id")

	if _, err := query.Executor().ScanVal(&f.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate SKU for fixture", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert fixture record: %w", err)
	}

	return nil
}

func (r *fixtureRepositoryImpl) UpdateFixture(id int, f *models.Fixture) error {
	result, err := r.repository.GoquDBWrapper.
		Update("fixtures").
		Set(fixtureRecord(f)).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return custom_error.WrapDBError("Duplicate SKU for fixture", string(pqErr.Code))
		}
		return fmt.Errorf("failed to update fixture: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFoundError("fixture", fmt.Sprint(id))
	}

	return nil
}

// DeleteFixture refuses while inventory units exist for the model.
func (r *fixtureRepositoryImpl) DeleteFixture(id int) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var count int64
		if _, err := tx.From("stock").
			Select(goqu.COUNT("id")).
			Where(goqu.Ex{"fixture_id": id}).
			Executor().ScanVal(&count); err != nil {
			return fmt.Errorf("failed to check fixture dependents: %w", err)
		}
		if count > 0 {
			return custom_error.NewReferentialIntegrityError("fixture", "stock unit", int(count))
		}

		result, err := tx.Delete("fixtures").Where(goqu.Ex{"id": id}).Executor().Exec()
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return custom_error.NewReferentialIntegrityError("fixture", "stock unit", 1)
			}
			return fmt.Errorf("failed to delete fixture: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("could not retrieve rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return custom_error.NewNotFoundError("fixture", fmt.Sprint(id))
		}

		return nil
	})
}

func (r *fixtureRepositoryImpl) GetStockDistribution() ([]StockDistribution, error) {
	var distribution []StockDistribution
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("s.fixture_id"),
			goqu.I("w.name").As("warehouse_name"),
			goqu.COUNT(goqu.I("s.id")).As("quantity"),
		).
		From(goqu.T("stock").As("s")).
		Join(goqu.T("warehouses").As("w"), goqu.On(goqu.I("s.warehouse_id").Eq(goqu.I("w.id")))).
		Where(goqu.Func("UPPER", goqu.I("s.status")).In(models.InStockStatuses)).
		GroupBy(goqu.I("s.fixture_id"), goqu.I("w.id"), goqu.I("w.name"))

	if err := query.Executor().ScanStructs(&distribution); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return distribution, nil
}
