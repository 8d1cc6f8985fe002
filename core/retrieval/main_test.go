package retrieval

import (
	"context"
	"log"
	"testing"

	"github.com/siherrmann/churner/database"
	"github.com/siherrmann/churner/helper"
	"github.com/siherrmann/churner/model"
	loadSql "github.com/siherrmann/churner/sql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

// Feature dimension used across the retrieval tests
const testFeatureDim = 3

var dbPort string

func TestMain(m *testing.M) {
	var teardown func(ctx context.Context, opts ...testcontainers.TerminateOption) error
	var err error
	teardown, dbPort, err = helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("error starting postgres container: %v", err)
	}

	m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatalf("error tearing down postgres container: %v", err)
	}
}

func initDB(t *testing.T) *helper.Database {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")
	db := helper.NewTestDatabase(dbConfig)

	err = loadSql.Init(db.Instance)
	require.NoError(t, err)

	return db
}

func initHandlers(t *testing.T) (*database.DatasetsDBHandler, *database.CustomersDBHandler) {
	db := initDB(t)

	// Create all handlers, datasets first for the foreign key
	datasets, err := database.NewDatasetsDBHandler(db, true)
	require.NoError(t, err)

	customers, err := database.NewCustomersDBHandler(db, testFeatureDim, true)
	require.NoError(t, err)

	// Note: We don't close the db here as tests will use these handlers
	// The container will be cleaned up in TestMain
	return datasets, customers
}

// insertTestCustomers inserts customers with the given feature vectors and
// churn labels into a fresh dataset and returns them
func insertTestCustomers(t *testing.T, datasets *database.DatasetsDBHandler, customers *database.CustomersDBHandler, features [][]float32, churned []bool) (*model.Dataset, []*model.Customer) {
	ds := &model.Dataset{
		Title:    "Retrieval Test Dataset",
		Source:   "test.csv",
		Metadata: model.Metadata{},
	}
	err := datasets.InsertDataset(ds)
	require.NoError(t, err)

	inserted := make([]*model.Customer, len(features))
	for i, vector := range features {
		contract := model.ContractMonthToMonth
		if !churned[i] {
			contract = model.ContractTwoYear
		}
		customer := &model.Customer{
			DatasetID:           ds.ID,
			CustomerNo:          "R00" + string(rune('0'+i)) + "-TEST",
			Gender:              "Female",
			Tenure:              12,
			Contract:            contract,
			PaymentMethod:       model.PaymentElectronicCheck,
			MonthlyCharges:      70.0,
			TotalCharges:        840.0,
			PhoneService:        true,
			MultipleLines:       "No",
			InternetService:     model.InternetFiber,
			OnlineSecurity:      "No",
			OnlineBackup:        "No",
			DeviceProtection:    "No",
			TechSupport:         "No",
			StreamingTV:         "No",
			StreamingMovies:     "No",
			Churn:               churned[i],
			TenureGroup:         "0-12",
			MonthlyChargesGroup: "51-75",
			Features:            vector,
			Metadata:            model.Metadata{},
		}
		err = customers.InsertCustomer(customer)
		require.NoError(t, err)
		inserted[i] = customer
	}

	return ds, inserted
}
