package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/churner/helper"
	"github.com/siherrmann/churner/model"
	loadSql "github.com/siherrmann/churner/sql"
)

// ReportsDBHandlerFunctions defines the interface for Reports database operations.
type ReportsDBHandlerFunctions interface {
	InsertReport(report *model.Report) error
	SelectReport(rid uuid.UUID) (*model.Report, error)
	SelectReportsByDataset(datasetRID uuid.UUID, kind model.ReportKind) ([]*model.Report, error)
	DeleteReport(rid uuid.UUID) error
}

// ReportsDBHandler handles report-related database operations
type ReportsDBHandler struct {
	db *helper.Database
}

// NewReportsDBHandler creates a new reports database handler.
// It initializes the database connection and loads report-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewReportsDBHandler(db *helper.Database, force bool) (*ReportsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	reportsDbHandler := &ReportsDBHandler{
		db: db,
	}

	err := loadSql.LoadReportsSql(reportsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load reports sql", err)
	}

	err = reportsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ReportsDBHandler")

	return reportsDbHandler, nil
}

// CreateTable creates the 'reports' table in the database.
// If the table already exists, it does not create it again.
func (h *ReportsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_reports();`)
	if err != nil {
		log.Panicf("error initializing reports table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table reports")

	return nil
}

// InsertReport inserts a new report. DatasetID must be set, the dataset
// RID is resolved by the database.
func (h *ReportsDBHandler) InsertReport(report *model.Report) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_report($1, $2, $3)`,
		report.DatasetID,
		string(report.Kind),
		report.Payload,
	)

	err := row.Scan(
		&report.ID,
		&report.RID,
		&report.DatasetID,
		&report.DatasetRID,
		&report.Kind,
		&report.Payload,
		&report.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectReport retrieves a report by RID
func (h *ReportsDBHandler) SelectReport(rid uuid.UUID) (*model.Report, error) {
	report := &model.Report{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_report($1)`,
		rid,
	)

	err := row.Scan(
		&report.ID,
		&report.RID,
		&report.DatasetID,
		&report.DatasetRID,
		&report.Kind,
		&report.Payload,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return report, nil
}

// SelectReportsByDataset retrieves reports of a dataset, newest first.
// An empty kind returns reports of every kind.
func (h *ReportsDBHandler) SelectReportsByDataset(datasetRID uuid.UUID, kind model.ReportKind) ([]*model.Report, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_reports_by_dataset($1, $2)`,
		datasetRID,
		string(kind),
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		report := &model.Report{}
		err := rows.Scan(
			&report.ID,
			&report.RID,
			&report.DatasetID,
			&report.DatasetRID,
			&report.Kind,
			&report.Payload,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		reports = append(reports, report)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return reports, nil
}

// DeleteReport deletes a report by RID
func (h *ReportsDBHandler) DeleteReport(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_report($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
