package clients

import (
	"fmt"

	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"
	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type ClientRepository interface {
	GetClients() ([]models.Client, error)
	GetClient(id int) (*models.Client, error)
	GetClientUnits(id int) ([]models.StockUnit, error)
	PersistClient(client *models.Client) error
	UpdateClient(id int, client *models.Client) error
	DeleteClient(id int) error
}

type clientRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ClientRepository {
	return &clientRepositoryImpl{repository: r}
}

func (r *clientRepositoryImpl) GetClients() ([]models.Client, error) {
	var clients []models.Client
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("c.id"),
			goqu.I("c.name"),
			goqu.I("c.contact_info"),
			goqu.COUNT(goqu.I("s.id")).As("unit_count"),
		).
		From(goqu.T("clients").As("c")).
		LeftJoin(goqu.T("stock").As("s"), goqu.On(goqu.I("c.id").Eq(goqu.I("s.client_id")))).
		GroupBy(goqu.I("c.id"), goqu.I("c.name"), goqu.I("c.contact_info")).
		Order(goqu.I("c.name").Asc())

	if err := query.Executor().ScanStructs(&clients); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return clients, nil
}

func (r *clientRepositoryImpl) GetClient(id int) (*models.Client, error) {
	var client models.Client
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "contact_info").
		From("clients").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&client)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("client", fmt.Sprint(id))
	}

	return &client, nil
}

func (r *clientRepositoryImpl) GetClientUnits(id int) ([]models.StockUnit, error) {
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
		Where(goqu.Ex{"s.client_id": id}).
		Order(goqu.I("s.id").Asc())

	if err := query.Executor().ScanStructs(&units); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return units, nil
}

func (r *clientRepositoryImpl) PersistClient(client *models.Client) error {
	query := r.repository.GoquDBWrapper.Insert("clients").
		Rows(goqu.Record{
			"name":         client.Name,
			"contact_info": client.ContactInfo,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&client.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate client", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert client record: %w", err)
	}

	return nil
}

func (r *clientRepositoryImpl) UpdateClient(id int, client *models.Client) error {
	// Full-row replace: the caller supplies every field, absent values land
	// as NULL.
	result, err := r.repository.GoquDBWrapper.
		Update("clients").
		Set(goqu.Record{
			"name":         client.Name,
			"contact_info": client.ContactInfo,
		}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFoundError("client", fmt.Sprint(id))
	}

	return nil
}

// DeleteClient refuses while any stock unit still references the client.
// Check and delete share one transaction; the FK constraint on
// stock.client_id is the backstop against a concurrent assignment.
func (r *clientRepositoryImpl) DeleteClient(id int) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var count int64
		if _, err := tx.From("stock").
			Select(goqu.COUNT("id")).
			Where(goqu.Ex{"client_id": id}).
			Executor().ScanVal(&count); err != nil {
			return fmt.Errorf("failed to check client dependents: %w", err)
		}
		if count > 0 {
			return custom_error.NewReferentialIntegrityError("client", "stock unit", int(count))
		}

		result, err := tx.Delete("clients").Where(goqu.Ex{"id": id}).Executor().Exec()
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return custom_error.NewReferentialIntegrityError("client", "stock unit", 1)
			}
			return fmt.Errorf("failed to delete client: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("could not retrieve rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return custom_error.NewNotFoundError("client", fmt.Sprint(id))
		}

		return nil
	})
}
