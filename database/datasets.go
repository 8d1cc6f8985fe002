package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/churner/helper"
	"github.com/siherrmann/churner/model"
	"github.com/siherrmann/churner/sql"
)

// DatasetsDBHandlerFunctions defines the interface for Datasets database operations.
type DatasetsDBHandlerFunctions interface {
	InsertDataset(ds *model.Dataset) error
	SelectDataset(rid uuid.UUID) (*model.Dataset, error)
	SelectAllDatasets(lastCreatedAt *time.Time, limit int) ([]*model.Dataset, error)
	SelectDatasetsBySearch(searchTerm string, limit int) ([]*model.Dataset, error)
	UpdateDataset(ds *model.Dataset) error
	DeleteDataset(rid uuid.UUID) error
}

// DatasetsDBHandler handles dataset-related database operations
type DatasetsDBHandler struct {
	db *helper.Database
}

// NewDatasetsDBHandler creates a new datasets database handler.
// It initializes the database connection and loads dataset-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewDatasetsDBHandler(db *helper.Database, force bool) (*DatasetsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	datasetsDbHandler := &DatasetsDBHandler{
		db: db,
	}

	err := sql.LoadDatasetsSql(datasetsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load datasets sql", err)
	}

	err = datasetsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized DatasetsDBHandler")

	return datasetsDbHandler, nil
}

// CreateTable creates the 'datasets' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *DatasetsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_datasets();`)
	if err != nil {
		log.Panicf("error initializing datasets table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table datasets")

	return nil
}

// InsertDataset inserts a new dataset
func (h *DatasetsDBHandler) InsertDataset(ds *model.Dataset) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_dataset($1, $2, $3)`,
		ds.Title,
		ds.Source,
		ds.Metadata,
	)

	err := row.Scan(
		&ds.ID,
		&ds.RID,
		&ds.Title,
		&ds.Source,
		&ds.Metadata,
		&ds.CreatedAt,
		&ds.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectDataset retrieves a dataset by RID
func (h *DatasetsDBHandler) SelectDataset(rid uuid.UUID) (*model.Dataset, error) {
	ds := &model.Dataset{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_dataset($1)`,
		rid,
	)

	err := row.Scan(
		&ds.ID,
		&ds.RID,
		&ds.Title,
		&ds.Source,
		&ds.Metadata,
		&ds.CreatedAt,
		&ds.UpdatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return ds, nil
}

// SelectAllDatasets retrieves all datasets with keyset pagination
func (h *DatasetsDBHandler) SelectAllDatasets(lastCreatedAt *time.Time, limit int) ([]*model.Dataset, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_datasets($1, $2)`,
		lastCreatedAt,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var datasets []*model.Dataset
	for rows.Next() {
		ds := &model.Dataset{}
		err := rows.Scan(
			&ds.ID,
			&ds.RID,
			&ds.Title,
			&ds.Source,
			&ds.Metadata,
			&ds.CreatedAt,
			&ds.UpdatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		datasets = append(datasets, ds)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return datasets, nil
}

// SelectDatasetsBySearch searches datasets by title or source
func (h *DatasetsDBHandler) SelectDatasetsBySearch(searchTerm string, limit int) ([]*model.Dataset, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM search_datasets($1, $2)`,
		searchTerm,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var datasets []*model.Dataset
	for rows.Next() {
		ds := &model.Dataset{}
		err := rows.Scan(
			&ds.ID,
			&ds.RID,
			&ds.Title,
			&ds.Source,
			&ds.Metadata,
			&ds.CreatedAt,
			&ds.UpdatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		datasets = append(datasets, ds)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return datasets, nil
}

// UpdateDataset updates a dataset
func (h *DatasetsDBHandler) UpdateDataset(ds *model.Dataset) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_dataset($1, $2, $3, $4)`,
		ds.RID,
		ds.Title,
		ds.Source,
		ds.Metadata,
	)

	err := row.Scan(
		&ds.ID,
		&ds.RID,
		&ds.Title,
		&ds.Source,
		&ds.Metadata,
		&ds.CreatedAt,
		&ds.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeleteDataset deletes a dataset by RID
func (h *DatasetsDBHandler) DeleteDataset(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_dataset($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
