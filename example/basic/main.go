package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/churner"
	"github.com/siherrmann/churner/helper"
	"github.com/siherrmann/churner/model"
)

const sampleContent = `customerID,gender,SeniorCitizen,Partner,Dependents,tenure,PhoneService,MultipleLines,InternetService,OnlineSecurity,OnlineBackup,DeviceProtection,TechSupport,StreamingTV,StreamingMovies,Contract,PaperlessBilling,PaymentMethod,MonthlyCharges,TotalCharges,Churn
7590-VHVEG,Female,0,Yes,No,1,No,No phone service,DSL,No,Yes,No,No,No,No,Month-to-month,Yes,Electronic check,29.85,29.85,No
5575-GNVDE,Male,0,No,No,34,Yes,No,DSL,Yes,No,Yes,No,No,No,One year,No,Mailed check,56.95,1889.5,No
3668-QPYBK,Male,0,No,No,2,Yes,No,DSL,Yes,Yes,No,No,No,No,Month-to-month,Yes,Mailed check,53.85,108.15,Yes
7795-CFOCW,Male,0,No,No,45,No,No phone service,DSL,Yes,No,Yes,Yes,No,No,One year,No,Bank transfer (automatic),42.3,1840.75,No
9237-HQITU,Female,0,No,No,2,Yes,No,Fiber optic,No,No,No,No,No,No,Month-to-month,Yes,Electronic check,70.7,151.65,Yes
9305-CDSKC,Female,0,No,No,8,Yes,Yes,Fiber optic,No,No,Yes,No,Yes,Yes,Month-to-month,Yes,Electronic check,99.65,820.5,Yes
1452-KIOVK,Male,0,No,Yes,22,Yes,Yes,Fiber optic,No,Yes,No,No,Yes,No,Month-to-month,Yes,Credit card (automatic),89.1,1949.4,No
6713-OKOMC,Female,0,No,No,10,No,No phone service,DSL,Yes,No,No,No,No,No,Month-to-month,No,Mailed check,29.75,301.9,No
7892-POOKP,Female,0,Yes,No,28,Yes,Yes,Fiber optic,No,No,Yes,Yes,Yes,Yes,Month-to-month,Yes,Electronic check,104.8,3046.05,Yes
6388-TABGU,Male,0,No,Yes,62,Yes,No,DSL,Yes,Yes,No,No,No,No,One year,No,Bank transfer (automatic),56.15,3487.95,No
9763-GRSKD,Male,0,Yes,Yes,13,Yes,No,DSL,Yes,No,No,No,No,No,Month-to-month,Yes,Mailed check,49.95,587.45,No
7469-LKBCI,Male,0,No,No,16,Yes,No,No,No internet service,No internet service,No internet service,No internet service,No internet service,No internet service,Two year,No,Credit card (automatic),18.95,326.8,No
8091-TTVAX,Male,0,Yes,No,58,Yes,Yes,Fiber optic,No,No,Yes,No,Yes,Yes,One year,No,Credit card (automatic),100.35,5681.1,No
0280-XJGEX,Male,0,No,No,49,Yes,Yes,Fiber optic,No,Yes,Yes,No,Yes,Yes,Month-to-month,Yes,Bank transfer (automatic),103.7,5036.3,Yes
5129-JLPIS,Male,0,No,No,25,Yes,No,Fiber optic,Yes,No,Yes,Yes,Yes,Yes,Month-to-month,Yes,Electronic check,105.5,2686.05,No
3655-SNQYZ,Female,0,Yes,Yes,69,Yes,Yes,Fiber optic,Yes,Yes,Yes,Yes,Yes,Yes,Two year,No,Credit card (automatic),113.25,7895.15,No
4183-MYFRB,Female,0,No,No,10,Yes,No,Fiber optic,No,No,No,No,Yes,No,Month-to-month,Yes,Electronic check,75.3,767.25,Yes
1680-VDCWW,Male,0,Yes,No,0,Yes,No,No,No internet service,No internet service,No internet service,No internet service,No internet service,No internet service,Two year,No,Bank transfer (automatic),20.15,,No`

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	c, err := churner.NewChurner(dbConfig)
	if err != nil {
		log.Fatalf("Failed to create churner: %v", err)
	}
	defer c.Close()

	// Set up the default pipeline (CSV parsing + cleaning + feature encoding)
	c.UseDefaultPipeline()

	// Create dataset with content - simplified API
	ds := &model.Dataset{
		Title:   "Telco Customer Churn Sample",
		Source:  "basic_example",
		Content: sampleContent,
		Metadata: model.Metadata{
			"origin": "telco",
		},
	}

	// Process and insert dataset in one call
	fmt.Println("Ingesting dataset...")
	numCustomers, err := c.ProcessAndInsertDataset(ds)
	if err != nil {
		log.Fatalf("Failed to process and insert dataset: %v", err)
	}
	fmt.Printf("Dataset inserted with ID: %s\n", ds.RID)
	fmt.Printf("Inserted %d customers\n", numCustomers)

	// Compute the full descriptive report
	report, err := c.AnalyzeDataset(context.Background(), ds.RID)
	if err != nil {
		log.Fatalf("Failed to analyze dataset: %v", err)
	}

	fmt.Printf("\nOverall churn rate: %.1f%% (%d of %d customers)\n",
		report.Summary.ChurnRate*100, report.Summary.Churned, report.Summary.TotalCustomers)
	fmt.Printf("Average tenure: %.1f months\n", report.Summary.AvgTenure)
	fmt.Printf("Average monthly charges: %.2f\n", report.Summary.AvgMonthlyCharges)

	fmt.Println("\nChurn rate by contract:")
	for _, group := range report.ByContract {
		fmt.Printf("  %-15s %.1f%% (%d of %d)\n", group.Label, group.ChurnRate*100, group.Churned, group.Total)
	}

	fmt.Println("\nChurn rate by internet service:")
	for _, group := range report.ByInternetService {
		fmt.Printf("  %-15s %.1f%% (%d of %d)\n", group.Label, group.ChurnRate*100, group.Churned, group.Total)
	}

	// The churn column is the last field of the correlation matrix
	fmt.Println("\nCorrelation with churn:")
	churnIdx := len(report.Correlation.Fields) - 1
	for i, field := range report.Correlation.Fields {
		if i == churnIdx {
			continue
		}
		fmt.Printf("  %-15s %+.3f\n", field, report.Correlation.Values[i][churnIdx])
	}

	fmt.Println("\nBasic example completed successfully!")
}
