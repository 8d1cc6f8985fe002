package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/churner/helper"
	"github.com/siherrmann/churner/model"
	loadSql "github.com/siherrmann/churner/sql"
)

// CustomersDBHandlerFunctions defines the interface for Customers database operations.
type CustomersDBHandlerFunctions interface {
	InsertCustomer(customer *model.Customer) error
	SelectCustomer(rid uuid.UUID) (*model.Customer, error)
	SelectCustomersByDataset(datasetRID uuid.UUID) ([]*model.Customer, error)
	SelectCustomersBySimilarity(features []float32, limit int, threshold float64, config *model.QueryConfig) ([]*model.Customer, error)
	UpdateCustomerFeatures(customer *model.Customer) error
	DeleteCustomer(rid uuid.UUID) error
	SelectChurnCounts(datasetRID uuid.UUID) (total int, churned int, err error)
	SelectFieldChurnCounts(datasetRID uuid.UUID, field string) ([]model.GroupChurnRate, error)
}

// GroupableFields lists the categorical columns accepted by
// SelectFieldChurnCounts. The SQL function enforces the same list.
var GroupableFields = []string{
	"gender",
	"contract",
	"payment_method",
	"internet_service",
	"multiple_lines",
	"online_security",
	"online_backup",
	"device_protection",
	"tech_support",
	"streaming_tv",
	"streaming_movies",
	"tenure_group",
	"monthly_charges_group",
}

// CustomersDBHandler handles customer-related database operations
type CustomersDBHandler struct {
	db *helper.Database
}

// NewCustomersDBHandler creates a new customers database handler.
// It initializes the database connection and loads customer-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewCustomersDBHandler(db *helper.Database, featureDim int, force bool) (*CustomersDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	customersDbHandler := &CustomersDBHandler{
		db: db,
	}

	err := loadSql.LoadCustomersSql(customersDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load customers sql", err)
	}

	err = customersDbHandler.CreateTable(featureDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized CustomersDBHandler")

	return customersDbHandler, nil
}

// CreateTable creates the 'customers' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes, including the vector index
// on the feature column.
func (h *CustomersDBHandler) CreateTable(featureDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_customers($1);`, featureDim)
	if err != nil {
		log.Panicf("error initializing customers table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table customers")

	return nil
}

// nullVector scans a pgvector column that may be NULL
type nullVector struct {
	vector pgvector.Vector
	valid  bool
}

func (n *nullVector) Scan(src interface{}) error {
	if src == nil {
		n.valid = false
		return nil
	}
	n.valid = true
	return n.vector.Scan(src)
}

// scanner is satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanCustomer scans one customer row in table column order.
// If withFeatures is true the features column is expected before metadata,
// if withSimilarity is true a trailing similarity column is expected.
func scanCustomer(row scanner, customer *model.Customer, withFeatures bool, withSimilarity bool) error {
	var features nullVector

	dest := []interface{}{
		&customer.ID,
		&customer.RID,
		&customer.DatasetID,
		&customer.DatasetRID,
		&customer.CustomerNo,
		&customer.Gender,
		&customer.SeniorCitizen,
		&customer.Partner,
		&customer.Dependents,
		&customer.Tenure,
		&customer.Contract,
		&customer.PaperlessBilling,
		&customer.PaymentMethod,
		&customer.MonthlyCharges,
		&customer.TotalCharges,
		&customer.PhoneService,
		&customer.MultipleLines,
		&customer.InternetService,
		&customer.OnlineSecurity,
		&customer.OnlineBackup,
		&customer.DeviceProtection,
		&customer.TechSupport,
		&customer.StreamingTV,
		&customer.StreamingMovies,
		&customer.Churn,
		&customer.TenureGroup,
		&customer.MonthlyChargesGroup,
	}
	if withFeatures {
		dest = append(dest, &features)
	}
	dest = append(dest, &customer.Metadata, &customer.CreatedAt)
	if withSimilarity {
		customer.Similarity = new(float64)
		dest = append(dest, customer.Similarity)
	}

	err := row.Scan(dest...)
	if err != nil {
		return err
	}

	if features.valid {
		customer.Features = features.vector.Slice()
	}

	return nil
}

// featuresValue converts a feature slice to a vector parameter,
// mapping an empty slice to NULL
func featuresValue(features []float32) interface{} {
	if len(features) == 0 {
		return nil
	}
	return pgvector.NewVector(features)
}

// InsertCustomer inserts a new customer row. DatasetID must be set,
// the dataset RID is resolved by the database.
func (h *CustomersDBHandler) InsertCustomer(customer *model.Customer) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_customer($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`,
		customer.DatasetID,
		customer.CustomerNo,
		customer.Gender,
		customer.SeniorCitizen,
		customer.Partner,
		customer.Dependents,
		customer.Tenure,
		customer.Contract,
		customer.PaperlessBilling,
		customer.PaymentMethod,
		customer.MonthlyCharges,
		customer.TotalCharges,
		customer.PhoneService,
		customer.MultipleLines,
		customer.InternetService,
		customer.OnlineSecurity,
		customer.OnlineBackup,
		customer.DeviceProtection,
		customer.TechSupport,
		customer.StreamingTV,
		customer.StreamingMovies,
		customer.Churn,
		customer.TenureGroup,
		customer.MonthlyChargesGroup,
		featuresValue(customer.Features),
		customer.Metadata,
	)

	err := scanCustomer(row, customer, false, false)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectCustomer retrieves a customer by RID
func (h *CustomersDBHandler) SelectCustomer(rid uuid.UUID) (*model.Customer, error) {
	customer := &model.Customer{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_customer($1)`,
		rid,
	)

	err := scanCustomer(row, customer, true, false)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return customer, nil
}

// SelectCustomersByDataset retrieves all customers of a dataset
func (h *CustomersDBHandler) SelectCustomersByDataset(datasetRID uuid.UUID) ([]*model.Customer, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_customers_by_dataset($1)`,
		datasetRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var customers []*model.Customer
	for rows.Next() {
		customer := &model.Customer{}
		err := scanCustomer(rows, customer, true, false)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		customers = append(customers, customer)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return customers, nil
}

// SelectCustomersBySimilarity performs cosine similarity search over
// customer feature vectors, applying the dataset and segment filters of
// the config. A nil config applies no filters beyond limit and threshold.
func (h *CustomersDBHandler) SelectCustomersBySimilarity(features []float32, limit int, threshold float64, config *model.QueryConfig) ([]*model.Customer, error) {
	if len(features) == 0 {
		return nil, helper.NewError("similarity query validation", fmt.Errorf("feature vector is empty"))
	}

	var datasetRIDs []uuid.UUID
	var contract, internetService string
	var churnedOnly bool
	if config != nil {
		datasetRIDs = config.DatasetRIDs
		contract = config.Contract
		internetService = config.InternetService
		churnedOnly = config.ChurnedOnly
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_customers_by_similarity($1, $2, $3, $4, $5, $6, $7)`,
		pgvector.NewVector(features),
		limit,
		threshold,
		pq.Array(datasetRIDs),
		contract,
		internetService,
		churnedOnly,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var customers []*model.Customer
	for rows.Next() {
		customer := &model.Customer{}
		err := scanCustomer(rows, customer, true, true)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		customer.RetrievalMethod = model.RetrievalMethodVector

		customers = append(customers, customer)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return customers, nil
}

// UpdateCustomerFeatures updates the feature vector of a customer
func (h *CustomersDBHandler) UpdateCustomerFeatures(customer *model.Customer) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_customer_features($1, $2)`,
		customer.ID,
		featuresValue(customer.Features),
	)

	err := scanCustomer(row, customer, true, false)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeleteCustomer deletes a customer by RID
func (h *CustomersDBHandler) DeleteCustomer(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_customer($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectChurnCounts returns the total and churned customer counts of a dataset
func (h *CustomersDBHandler) SelectChurnCounts(datasetRID uuid.UUID) (int, int, error) {
	var total, churned int
	err := h.db.Instance.QueryRow(
		`SELECT * FROM select_churn_counts($1)`,
		datasetRID,
	).Scan(&total, &churned)
	if err != nil {
		return 0, 0, helper.NewError("scan", err)
	}

	return total, churned, nil
}

// SelectFieldChurnCounts returns churn counts of a dataset grouped by one
// categorical column. The field must be one of GroupableFields.
func (h *CustomersDBHandler) SelectFieldChurnCounts(datasetRID uuid.UUID, field string) ([]model.GroupChurnRate, error) {
	groupable := false
	for _, f := range GroupableFields {
		if f == field {
			groupable = true
			break
		}
	}
	if !groupable {
		return nil, helper.NewError("field validation", fmt.Errorf("field %v is not groupable", field))
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_field_churn_counts($1, $2)`,
		datasetRID,
		field,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var groups []model.GroupChurnRate
	for rows.Next() {
		group := model.GroupChurnRate{}
		err := rows.Scan(&group.Label, &group.Total, &group.Churned)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		if group.Total > 0 {
			group.ChurnRate = float64(group.Churned) / float64(group.Total)
		}

		groups = append(groups, group)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return groups, nil
}
