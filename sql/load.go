package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed datasets.sql
var datasetsSQL string

//go:embed customers.sql
var customersSQL string

//go:embed reports.sql
var reportsSQL string

// Function lists for verification
var DatasetsFunctions = []string{
	"init_datasets",
	"insert_dataset",
	"select_dataset",
	"select_all_datasets",
	"search_datasets",
	"update_dataset",
	"delete_dataset",
}

var CustomersFunctions = []string{
	"init_customers",
	"insert_customer",
	"select_customer",
	"select_customers_by_dataset",
	"select_customers_by_similarity",
	"update_customer_features",
	"delete_customer",
	"select_churn_counts",
	"select_field_churn_counts",
}

var ReportsFunctions = []string{
	"init_reports",
	"insert_report",
	"select_report",
	"select_reports_by_dataset",
	"delete_report",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadDatasetsSql loads dataset-related SQL functions
func LoadDatasetsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, DatasetsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing datasets functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(datasetsSQL)
	if err != nil {
		return fmt.Errorf("error executing datasets SQL: %w", err)
	}

	exist, err := checkFunctions(db, DatasetsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL datasets functions loaded successfully")
	return nil
}

// LoadCustomersSql loads customer-related SQL functions
func LoadCustomersSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, CustomersFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing customers functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(customersSQL)
	if err != nil {
		return fmt.Errorf("error executing customers SQL: %w", err)
	}

	exist, err := checkFunctions(db, CustomersFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL customers functions loaded successfully")
	return nil
}

// LoadReportsSql loads report-related SQL functions
func LoadReportsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, ReportsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing reports functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(reportsSQL)
	if err != nil {
		return fmt.Errorf("error executing reports SQL: %w", err)
	}

	exist, err := checkFunctions(db, ReportsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL reports functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadDatasetsSql(db, force); err != nil {
		return err
	}

	if err := LoadCustomersSql(db, force); err != nil {
		return err
	}

	if err := LoadReportsSql(db, force); err != nil {
		return err
	}

	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
