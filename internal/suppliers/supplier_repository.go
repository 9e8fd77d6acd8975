package suppliers

import (
	"fmt"

	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"
	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type SupplierRepository interface {
	GetSuppliers() ([]models.Supplier, error)
	GetSupplier(id int) (*models.Supplier, error)
	PersistSupplier(supplier *models.Supplier) error
	UpdateSupplier(id int, supplier *models.Supplier) error
	DeleteSupplier(id int) error
}

type supplierRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) SupplierRepository {
	return &supplierRepositoryImpl{repository: r}
}

func (r *supplierRepositoryImpl) GetSuppliers() ([]models.Supplier, error) {
	var suppliers []models.Supplier
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("s.id"),
			goqu.I("s.name"),
			goqu.I("s.contact_person"),
			goqu.I("s.email"),
			goqu.I("s.phone"),
			goqu.COUNT(goqu.I("f.id")).As("fixture_count"),
		).
		From(goqu.T("suppliers").As("s")).
		LeftJoin(goqu.T("fixtures").As("f"), goqu.On(goqu.I("s.id").Eq(goqu.I("f.supplier_id")))).
		GroupBy(goqu.I("s.id"), goqu.I("s.name"), goqu.I("s.contact_person"), goqu.I("s.email"), goqu.I("s.phone")).
		Order(goqu.I("s.name").Asc())

	if err := query.Executor().ScanStructs(&suppliers); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return suppliers, nil
}

func (r *supplierRepositoryImpl) GetSupplier(id int) (*models.Supplier, error) {
	var supplier models.Supplier
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "contact_person", "email", "phone").
		From("suppliers").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&supplier)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("supplier", fmt.Sprint(id))
	}

	return &supplier, nil
}

func (r *supplierRepositoryImpl) PersistSupplier(supplier *models.Supplier) error {
	query := r.repository.GoquDBWrapper.Insert("suppliers").
		Rows(goqu.Record{
			"name":           supplier.Name,
			"contact_person": supplier.ContactPerson,
			"email":          supplier.Email,
			"phone":          supplier.Phone,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&supplier.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate supplier", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert supplier record: %w", err)
	}

	return nil
}

func (r *supplierRepositoryImpl) UpdateSupplier(id int, supplier *models.Supplier) error {
	result, err := r.repository.GoquDBWrapper.
		Update("suppliers").
		Set(goqu.Record{
			"name":           supplier.Name,
			"contact_person": supplier.ContactPerson,
			"email":          supplier.Email,
			"phone":          supplier.Phone,
		}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFoundError("supplier", fmt.Sprint(id))
	}

	return nil
}

// DeleteSupplier refuses while any fixture profile still references the
// supplier.
func (r *supplierRepositoryImpl) DeleteSupplier(id int) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var count int64
		if _, err := tx.From("fixtures").
			Select(goqu.COUNT("id")).
			Where(goqu.Ex{"supplier_id": id}).
			Executor().ScanVal(&count); err != nil {
			return fmt.Errorf("failed to check supplier dependents: %w", err)
		}
		if count > 0 {
			return custom_error.NewReferentialIntegrityError("supplier", "fixture", int(count))
		}

		result, err := tx.Delete("suppliers").Where(goqu.Ex{"id": id}).Executor().Exec()
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return custom_error.NewReferentialIntegrityError("supplier", "fixture", 1)
			}
			return fmt.Errorf("failed to delete supplier: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("could not retrieve rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return custom_error.NewNotFoundError("supplier", fmt.Sprint(id))
		}

		return nil
	})
}
