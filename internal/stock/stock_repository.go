package stock

import (
	"fmt"

	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"
	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

// ExportRow is one line of the CSV export, nullable references included.
type ExportRow struct {
	SerialNumber  string  `db:"serial_number"`
	FixtureName   string  `db:"fixture_name"`
	Status        string  `db:"status"`
	MfgDate       *string `db:"mfg_date"`
	WarehouseName *string `db:"warehouse_name"`
	ClientName    *string `db:"client_name"`
	InstallDate   *string `db:"install_date"`
}

// InsertUnitParams carries one unit of a bulk-add batch. The fixture,
// warehouse and status are fixed per batch, the serial and mfg date vary
// per row.
type InsertUnitParams struct {
	FixtureID    int
	WarehouseID  int
	SerialNumber string
	MfgDate      *string
	Status       string
}

// ImportUpdate is the field set a bulk-update row applies to a matched
// unit. Status, install date, warehouse and client overwrite whatever is
// stored; MfgDate keeps the old value when nil; FixtureID reassigns the
// model only when present.
type ImportUpdate struct {
	Status      string
	MfgDate     *string
	InstallDate *string
	WarehouseID *int
	ClientID    *int
	FixtureID   *int
}

// UnitUpdate is the full-row replace applied by the single-unit edit form.
type UnitUpdate struct {
	Status      string
	WarehouseID *int
	ClientID    *int
	InstallDate *string
}

// BatchOps are the per-row operations available inside one CSV batch
// transaction.
type BatchOps interface {
	InsertUnit(params InsertUnitParams) (bool, error)
	FindUnitIDBySerial(serial string) (int, bool, error)
	FindWarehouseIDByName(name string) (int, bool, error)
	CreateWarehouse(name string) (int, error)
	FindClientIDByName(name string) (int, bool, error)
	CreateClient(name string) (int, error)
	FindFixtureIDByName(name string) (int, bool, error)
	UpdateUnitFromImport(id int, update ImportUpdate) error
}

type StockRepository interface {
	GetStock() ([]models.StockUnit, error)
	GetStockUnit(id int) (*models.StockUnit, error)
	PersistStockUnit(unit *models.StockUnit) error
	UpdateStockUnit(id int, update UnitUpdate) error
	DeleteStockUnit(id int) error
	ExportRows() ([]ExportRow, error)

	// RunBatch executes fn inside a single transaction: every row of a CSV
	// batch commits or rolls back as one unit.
	RunBatch(fn func(ops BatchOps) error) error
}

type stockRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) StockRepository {
	return &stockRepositoryImpl{repository: r}
}

var stockColumns = []interface{}{
	goqu.I("s.id"),
	goqu.I("s.fixture_id"),
	goqu.I("s.serial_number"),
	goqu.I("s.warehouse_id"),
	goqu.I("s.client_id"),
	goqu.I("s.status"),
	goqu.I("s.mfg_date"),
	goqu.I("s.install_date"),
	goqu.I("f.name").As("fixture_name"),
	goqu.I("w.name").As("warehouse_name"),
	goqu.I("c.name").As("client_name"),
}

func stockDataset(db *goqu.Database) *goqu.SelectDataset {
	return db.
		Select(stockColumns...).
		From(goqu.T("stock").As("s")).
		Join(goqu.T("fixtures").As("f"), goqu.On(goqu.I("s.fixture_id").Eq(goqu.I("f.id")))).
		LeftJoin(goqu.T("warehouses").As("w"), goqu.On(goqu.I("s.warehouse_id").Eq(goqu.I("w.id")))).
		LeftJoin(goqu.T("clients").As("c"), goqu.On(goqu.I("s.client_id").Eq(goqu.I("c.id"))))
}

func (r *stockRepositoryImpl) GetStock() ([]models.StockUnit, error) {
	var units []models.StockUnit
	query := stockDataset(r.repository.GoquDBWrapper).Order(goqu.I("s.id").Desc())

	if err := query.Executor().ScanStructs(&units); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return units, nil
}

func (r *stockRepositoryImpl) GetStockUnit(id int) (*models.StockUnit, error) {
	var unit models.StockUnit
	query := stockDataset(r.repository.GoquDBWrapper).Where(goqu.Ex{"s.id": id})

	found, err := query.Executor().ScanStruct(&unit)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock unit: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("stock unit", fmt.Sprint(id))
	}

	return &unit, nil
}

func (r *stockRepositoryImpl) PersistStockUnit(unit *models.StockUnit) error {
	query := r.repository.GoquDBWrapper.Insert("stock").
		Rows(goqu.Record{
			"fixture_id":    unit.FixtureID,
			"serial_number": unit.SerialNumber,
			"warehouse_id":  unit.WarehouseID,
			"client_id":     unit.ClientID,
			"status":        models.CanonicalStatus(unit.Status),
			"mfg_date":      unit.MfgDate,
			"install_date":  unit.InstallDate,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&unit.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate serial number for stock unit", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert stock unit record: %w", err)
	}

	return nil
}

// UpdateStockUnit is a full-row replace of the mutable unit fields; absent
// values land as NULL, there is no merge.
func (r *stockRepositoryImpl) UpdateStockUnit(id int, update UnitUpdate) error {
	result, err := r.repository.GoquDBWrapper.
		Update("stock").
		Set(goqu.Record{
			"status":       models.CanonicalStatus(update.Status),
			"warehouse_id": update.WarehouseID,
			"client_id":    update.ClientID,
			"install_date": update.InstallDate,
		}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update stock unit: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFoundError("stock unit", fmt.Sprint(id))
	}

	return nil
}

// DeleteStockUnit is unguarded: a unit has no dependents.
func (r *stockRepositoryImpl) DeleteStockUnit(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("stock").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete stock unit: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFoundError("stock unit", fmt.Sprint(id))
	}

	return nil
}

// ExportRows returns every unit in id order so repeated exports are stable.
func (r *stockRepositoryImpl) ExportRows() ([]ExportRow, error) {
	var rows []ExportRow
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("s.serial_number"),
			goqu.I("f.name").As("fixture_name"),
			goqu.I("s.status"),
			goqu.I("s.mfg_date"),
			goqu.I("w.name").As("warehouse_name"),
			goqu.I("c.name").As("client_name"),
			goqu.I("s.install_date"),
		).
		From(goqu.T("stock").As("s")).
		Join(goqu.T("fixtures").As("f"), goqu.On(goqu.I("s.fixture_id").Eq(goqu.I("f.id")))).
		LeftJoin(goqu.T("warehouses").As("w"), goqu.On(goqu.I("s.warehouse_id").Eq(goqu.I("w.id")))).
		LeftJoin(goqu.T("clients").As("c"), goqu.On(goqu.I("s.client_id").Eq(goqu.I("c.id")))).
		Order(goqu.I("s.id").Asc())

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

func (r *stockRepositoryImpl) RunBatch(fn func(ops BatchOps) error) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return fn(&txBatchOps{tx: tx})
	})
}

type txBatchOps struct {
	tx *goqu.TxDatabase
}

// InsertUnit adds one unit, reporting false on a serial_number collision.
// ON CONFLICT DO NOTHING keeps a duplicate row from aborting the rest of
// the batch transaction.
func (b *txBatchOps) InsertUnit(params InsertUnitParams) (bool, error) {
	result, err := b.tx.Insert("stock").
		Rows(goqu.Record{
			"fixture_id":    params.FixtureID,
			"serial_number": params.SerialNumber,
			"warehouse_id":  params.WarehouseID,
			"mfg_date":      params.MfgDate,
			"status":        params.Status,
		}).
		OnConflict(goqu.DoNothing()).
		Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to insert stock unit record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (b *txBatchOps) findIDBy(table string, where goqu.Ex) (int, bool, error) {
	var id int
	found, err := b.tx.From(table).Select("id").Where(where).Executor().ScanVal(&id)
	if err != nil {
		return 0, false, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return id, found, nil
}

func (b *txBatchOps) FindUnitIDBySerial(serial string) (int, bool, error) {
	return b.findIDBy("stock", goqu.Ex{"serial_number": serial})
}

func (b *txBatchOps) FindWarehouseIDByName(name string) (int, bool, error) {
	return b.findIDBy("warehouses", goqu.Ex{"name": name})
}

func (b *txBatchOps) CreateWarehouse(name string) (int, error) {
	var id int
	if _, err := b.tx.Insert("warehouses").
		Rows(goqu.Record{"name": name}).
		Returning("id").
		Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert warehouse record: %w", err)
	}
	return id, nil
}

func (b *txBatchOps) FindClientIDByName(name string) (int, bool, error) {
	return b.findIDBy("clients", goqu.Ex{"name": name})
}

func (b *txBatchOps) CreateClient(name string) (int, error) {
	var id int
	if _, err := b.tx.Insert("clients").
		Rows(goqu.Record{"name": name}).
		Returning("id").
		Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert client record: %w", err)
	}
	return id, nil
}

func (b *txBatchOps) FindFixtureIDByName(name string) (int, bool, error) {
	return b.findIDBy("fixtures", goqu.Ex{"name": name})
}

func (b *txBatchOps) UpdateUnitFromImport(id int, update ImportUpdate) error {
	record := goqu.Record{
		"status":       update.Status,
		"install_date": update.InstallDate,
		"warehouse_id": update.WarehouseID,
		"client_id":    update.ClientID,
		// A blank mfg_date in the file keeps the stored value; every other
		// field is a plain overwrite.
		"mfg_date": goqu.L("COALESCE(?, mfg_date)", update.MfgDate),
	}
	if update.FixtureID != nil {
		record["fixture_id"] = *update.FixtureID
	}

	if _, err := b.tx.Update("stock").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().Exec(); err != nil {
		return fmt.Errorf("failed to apply bulk update to stock unit %d: %w", id, err)
	}

	return nil
}
