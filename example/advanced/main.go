package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/siherrmann/churner"
	"github.com/siherrmann/churner/core/classify"
	"github.com/siherrmann/churner/helper"
	"github.com/siherrmann/churner/model"
)

const sampleHeader = `customerID,gender,SeniorCitizen,Partner,Dependents,tenure,PhoneService,MultipleLines,InternetService,OnlineSecurity,OnlineBackup,DeviceProtection,TechSupport,StreamingTV,StreamingMovies,Contract,PaperlessBilling,PaymentMethod,MonthlyCharges,TotalCharges,Churn`

// Churn-prone profiles: short tenure, month-to-month fiber customers
// paying by electronic check
var churnedRows = []string{
	`3668-QPYBK,Male,0,No,No,2,Yes,No,Fiber optic,No,No,No,No,No,No,Month-to-month,Yes,Electronic check,70.35,140.7,Yes`,
	`9237-HQITU,Female,0,No,No,2,Yes,No,Fiber optic,No,No,No,No,No,No,Month-to-month,Yes,Electronic check,70.7,151.65,Yes`,
	`9305-CDSKC,Female,0,No,No,8,Yes,Yes,Fiber optic,No,No,Yes,No,Yes,Yes,Month-to-month,Yes,Electronic check,99.65,820.5,Yes`,
	`7892-POOKP,Female,0,Yes,No,28,Yes,Yes,Fiber optic,No,No,Yes,Yes,Yes,Yes,Month-to-month,Yes,Electronic check,104.8,3046.05,Yes`,
	`0280-XJGEX,Male,0,No,No,9,Yes,Yes,Fiber optic,No,Yes,Yes,No,Yes,Yes,Month-to-month,Yes,Electronic check,103.7,941.4,Yes`,
	`4183-MYFRB,Female,0,No,No,10,Yes,No,Fiber optic,No,No,No,No,Yes,No,Month-to-month,Yes,Electronic check,75.3,767.25,Yes`,
	`8773-HHUOZ,Female,0,No,Yes,17,Yes,No,Fiber optic,No,No,No,No,Yes,Yes,Month-to-month,Yes,Mailed check,64.7,1093.1,Yes`,
	`1066-JKSGK,Male,0,No,No,1,Yes,No,Fiber optic,No,No,No,No,No,No,Month-to-month,No,Electronic check,69.55,69.55,Yes`,
}

// Retained profiles: long tenure, one- and two-year contracts
var retainedRows = []string{
	`5575-GNVDE,Male,0,No,No,34,Yes,No,DSL,Yes,No,Yes,No,No,No,One year,No,Mailed check,56.95,1889.5,No`,
	`7795-CFOCW,Male,0,No,No,45,No,No phone service,DSL,Yes,No,Yes,Yes,No,No,One year,No,Bank transfer (automatic),42.3,1840.75,No`,
	`6388-TABGU,Male,0,No,Yes,62,Yes,No,DSL,Yes,Yes,No,No,No,No,One year,No,Bank transfer (automatic),56.15,3487.95,No`,
	`7469-LKBCI,Male,0,No,No,16,Yes,No,No,No internet service,No internet service,No internet service,No internet service,No internet service,No internet service,Two year,No,Credit card (automatic),18.95,326.8,No`,
	`8091-TTVAX,Male,0,Yes,No,58,Yes,Yes,Fiber optic,No,No,Yes,No,Yes,Yes,One year,No,Credit card (automatic),100.35,5681.1,No`,
	`3655-SNQYZ,Female,0,Yes,Yes,69,Yes,Yes,Fiber optic,Yes,Yes,Yes,Yes,Yes,Yes,Two year,No,Credit card (automatic),113.25,7895.15,No`,
	`1452-KIOVK,Male,0,No,Yes,22,Yes,Yes,Fiber optic,No,Yes,No,No,Yes,No,Month-to-month,Yes,Credit card (automatic),89.1,1949.4,No`,
	`6713-OKOMC,Female,0,No,No,10,No,No phone service,DSL,Yes,No,No,No,No,No,Month-to-month,No,Mailed check,29.75,301.9,No`,
	`9763-GRSKD,Male,0,Yes,Yes,13,Yes,No,DSL,Yes,No,No,No,No,No,Month-to-month,Yes,Mailed check,49.95,587.45,No`,
	`5129-JLPIS,Male,0,No,No,25,Yes,No,Fiber optic,Yes,No,Yes,Yes,Yes,Yes,Month-to-month,Yes,Electronic check,105.5,2686.05,No`,
	`6467-CHFZW,Male,0,Yes,Yes,47,Yes,Yes,DSL,Yes,Yes,Yes,Yes,Yes,No,One year,Yes,Credit card (automatic),84.5,3975.85,No`,
	`1680-VDCWW,Male,0,Yes,No,0,Yes,No,No,No internet service,No internet service,No internet service,No internet service,No internet service,No internet service,Two year,No,Bank transfer (automatic),20.15,,No`,
}

func sampleContent() string {
	rows := []string{sampleHeader}
	rows = append(rows, churnedRows...)
	rows = append(rows, retainedRows...)
	return strings.Join(rows, "\n")
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration
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

	ds := &model.Dataset{
		Title:   "Telco Customer Churn",
		Source:  "advanced_example",
		Content: sampleContent(),
		Metadata: model.Metadata{
			"origin": "telco",
		},
	}

	fmt.Println("=== Ingesting Dataset ===")
	numCustomers, err := c.ProcessAndInsertDataset(ds)
	if err != nil {
		log.Fatalf("Failed to process and insert dataset: %v", err)
	}
	fmt.Printf("Dataset '%s' (RID: %s): %d customers\n", ds.Title, ds.RID, numCustomers)

	ctx := context.Background()

	// 1. Descriptive analysis
	fmt.Println("\n=== 1. Descriptive Analysis ===")
	report, err := c.AnalyzeDataset(ctx, ds.RID)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	fmt.Printf("Churn rate: %.1f%%, avg tenure: %.1f months\n",
		report.Summary.ChurnRate*100, report.Summary.AvgTenure)
	for _, group := range report.ByContract {
		fmt.Printf("  %-15s %.1f%%\n", group.Label, group.ChurnRate*100)
	}

	// 2. Database-side cross-tabulation
	fmt.Println("\n=== 2. Churn Rate by Payment Method (in database) ===")
	groups, err := c.ChurnRateByField(ctx, ds.RID, "payment_method")
	if err != nil {
		log.Fatalf("Cross-tabulation failed: %v", err)
	}
	for _, group := range groups {
		fmt.Printf("  %-28s %.1f%% (%d of %d)\n", group.Label, group.ChurnRate*100, group.Churned, group.Total)
	}

	// 3. Classifier training
	fmt.Println("\n=== 3. Training Churn Classifier ===")
	trainConfig := classify.DefaultTrainConfig()
	evaluation, err := c.TrainClassifier(ctx, ds.RID, trainConfig)
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}
	fmt.Printf("Accuracy: %.2f, Precision: %.2f, Recall: %.2f, AUC: %.2f (test size %d)\n",
		evaluation.Accuracy, evaluation.Precision, evaluation.Recall, evaluation.AUC, evaluation.TestSize)

	// 4. Churn probability for every stored customer
	fmt.Println("\n=== 4. Churn Predictions ===")
	customers, err := c.Customers.SelectCustomersByDataset(ds.RID)
	if err != nil {
		log.Fatalf("Failed to load customers: %v", err)
	}
	for _, customer := range customers[:5] {
		probability, err := c.PredictChurn(ctx, customer.RID)
		if err != nil {
			log.Fatalf("Prediction failed: %v", err)
		}
		fmt.Printf("  %-12s contract=%-15s p(churn)=%.2f actual=%v\n",
			customer.CustomerNo, customer.Contract, probability, customer.Churn)
	}

	// 5. Similar customers
	fmt.Println("\n=== 5. Similar Customers ===")
	target := customers[0]
	similarConfig := model.DefaultQueryConfig()
	similarConfig.TopK = 3
	similarConfig.SimilarityThreshold = 0.0
	neighbors, err := c.SimilarCustomers(ctx, target.RID, &similarConfig)
	if err != nil {
		log.Fatalf("Similar customer search failed: %v", err)
	}
	fmt.Printf("Customers similar to %s:\n", target.CustomerNo)
	printResults(neighbors)

	// 6. Segment-scoped search (month-to-month fiber customers only)
	fmt.Println("\n=== 6. Segment-Scoped Search ===")
	segmentConfig := model.DefaultQueryConfig()
	segmentConfig.TopK = 3
	segmentConfig.SimilarityThreshold = 0.0
	segmentConfig.Contract = model.ContractMonthToMonth
	segmentConfig.InternetService = model.InternetFiber
	segmentResults, err := c.SegmentScopedSearch(ctx, target.Features, &segmentConfig)
	if err != nil {
		log.Fatalf("Segment-scoped search failed: %v", err)
	}
	printResults(segmentResults)

	// 7. Risk-weighted search
	fmt.Println("\n=== 7. Risk-Weighted Search ===")
	riskConfig := model.DefaultQueryConfig()
	riskConfig.TopK = 3
	riskConfig.SimilarityThreshold = 0.0
	riskResults, err := c.RiskWeightedSearch(ctx, target.Features, &riskConfig)
	if err != nil {
		log.Fatalf("Risk-weighted search failed: %v", err)
	}
	printResults(riskResults)

	// 8. Switch the vector index to IVFFlat
	fmt.Println("\n=== 8. Changing Vector Index ===")
	err = c.ChangeIndexType(ctx, "ivfflat", map[string]interface{}{"lists": 10})
	if err != nil {
		log.Fatalf("Index change failed: %v", err)
	}
	fmt.Println("Index changed to IVFFlat")

	fmt.Println("\nAdvanced example completed successfully!")
}

func printResults(results []*model.NeighborResult) {
	for i, result := range results {
		fmt.Printf("  %d. %-12s score=%.4f similarity=%.4f p(churn)=%.2f method=%s\n",
			i+1,
			result.Customer.CustomerNo,
			result.Score,
			result.SimilarityScore,
			result.ChurnProbability,
			result.RetrievalMethod,
		)
	}
}
