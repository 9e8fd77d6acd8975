package stock

import (
	"fmt"

	"github.com/jeremynbs/LumiPro-Inventory/pkg/dates"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"
)

// BulkAddResult summarizes one bulk-add batch. Errors are row-scoped and do
// not abort the batch; Imported counts only rows that landed.
type BulkAddResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// BulkUpdateResult summarizes one bulk-update batch, including how many
// referenced warehouses and clients had to be created on the fly.
type BulkUpdateResult struct {
	Updated       int      `json:"updated"`
	NewClients    int      `json:"new_clients"`
	NewWarehouses int      `json:"new_warehouses"`
	Errors        []string `json:"errors"`
}

// CSVService applies parsed CSV batches against the stock store. Row-level
// business failures are collected as messages; a storage failure aborts and
// rolls back the whole batch.
type CSVService struct {
	repo StockRepository
}

func NewCSVService(repo StockRepository) *CSVService {
	return &CSVService{repo: repo}
}

// BulkAdd inserts new units for one fixture model into one warehouse. Every
// unit starts life as FOR SALE.
func (s *CSVService) BulkAdd(fixtureID, warehouseID int, rows []BulkAddRow) (BulkAddResult, error) {
	var result BulkAddResult

	err := s.repo.RunBatch(func(ops BatchOps) error {
		for _, row := range rows {
			if row.SerialNumber == "" {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: serial number is empty", row.RowNum))
				continue
			}

			inserted, err := ops.InsertUnit(InsertUnitParams{
				FixtureID:    fixtureID,
				WarehouseID:  warehouseID,
				SerialNumber: row.SerialNumber,
				MfgDate:      dates.Normalize(row.MfgDate),
				Status:       models.StatusForSale,
			})
			if err != nil {
				return err
			}
			if !inserted {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: serial number '%s' already exists", row.RowNum, row.SerialNumber))
				continue
			}

			result.Imported++
		}
		return nil
	})
	if err != nil {
		return BulkAddResult{}, err
	}

	return result, nil
}

// BulkUpdate matches units by serial number and rewrites their state from
// the file. Missing warehouses and clients are created by name; a missing
// fixture model skips the row, since catalog identity must pre-exist.
func (s *CSVService) BulkUpdate(rows []BulkUpdateRow) (BulkUpdateResult, error) {
	var result BulkUpdateResult

	err := s.repo.RunBatch(func(ops BatchOps) error {
		for _, row := range rows {
			// A blank serial is skipped silently, not counted as an error.
			if row.SerialNumber == "" {
				continue
			}

			unitID, found, err := ops.FindUnitIDBySerial(row.SerialNumber)
			if err != nil {
				return err
			}
			if !found {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: serial '%s' not found", row.RowNum, row.SerialNumber))
				continue
			}

			var warehouseID *int
			if row.WarehouseName != "" {
				id, found, err := ops.FindWarehouseIDByName(row.WarehouseName)
				if err != nil {
					return err
				}
				if !found {
					id, err = ops.CreateWarehouse(row.WarehouseName)
					if err != nil {
						return err
					}
					result.NewWarehouses++
				}
				warehouseID = &id
			}

			var clientID *int
			if row.ClientName != "" {
				id, found, err := ops.FindClientIDByName(row.ClientName)
				if err != nil {
					return err
				}
				if !found {
					id, err = ops.CreateClient(row.ClientName)
					if err != nil {
						return err
					}
					result.NewClients++
				}
				clientID = &id
			}

			var fixtureID *int
			if row.FixtureName != "" {
				id, found, err := ops.FindFixtureIDByName(row.FixtureName)
				if err != nil {
					return err
				}
				if !found {
					result.Errors = append(result.Errors, fmt.Sprintf("Row %d: fixture '%s' not found", row.RowNum, row.FixtureName))
					continue
				}
				fixtureID = &id
			}

			update := ImportUpdate{
				Status:      models.CanonicalStatus(row.Status),
				MfgDate:     dates.Normalize(row.MfgDate),
				InstallDate: dates.Normalize(row.InstallDate),
				WarehouseID: warehouseID,
				ClientID:    clientID,
				FixtureID:   fixtureID,
			}
			if err := ops.UpdateUnitFromImport(unitID, update); err != nil {
				return err
			}

			result.Updated++
		}
		return nil
	})
	if err != nil {
		return BulkUpdateResult{}, err
	}

	return result, nil
}
