package churner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/siherrmann/churner/core/classify"
	"github.com/siherrmann/churner/core/pipeline"
	"github.com/siherrmann/churner/core/retrieval"
	"github.com/siherrmann/churner/core/stats"
	"github.com/siherrmann/churner/database"
	"github.com/siherrmann/churner/helper"
	"github.com/siherrmann/churner/model"
	loadSql "github.com/siherrmann/churner/sql"
)

// DefaultHistogramBins is the number of bins used for the tenure
// histogram in AnalyzeDataset
const DefaultHistogramBins = 12

// Churner provides a unified interface to all database handlers
type Churner struct {
	DB         *helper.Database
	Datasets   *database.DatasetsDBHandler
	Customers  *database.CustomersDBHandler
	Reports    *database.ReportsDBHandler
	Pipeline   *pipeline.Pipeline   // Optional ingest pipeline
	Engine     *retrieval.Engine    // Retrieval engine for similar-customer search
	Classifier *classify.Classifier // Optional trained churn classifier
	// Logging
	log *slog.Logger
}

// NewChurner creates a new Churner instance with all handlers initialized
func NewChurner(config *helper.DatabaseConfiguration) (*Churner, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("churner", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers in the correct order (datasets first, then customers)
	// force=false to not reload if functions already exist
	datasets, err := database.NewDatasetsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create datasets handler", err)
	}

	customers, err := database.NewCustomersDBHandler(db, pipeline.FeatureDimension, false)
	if err != nil {
		return nil, helper.NewError("create customers handler", err)
	}

	reports, err := database.NewReportsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create reports handler", err)
	}

	// Create retrieval engine with the customers handler
	engine := retrieval.NewEngine(customers)

	return &Churner{
		DB:        db,
		Datasets:  datasets,
		Customers: customers,
		Reports:   reports,
		Engine:    engine,
		log:       logger,
	}, nil
}

// Close closes the database connection
func (c *Churner) Close() error {
	if c.DB != nil && c.DB.Instance != nil {
		return c.DB.Instance.Close()
	}
	return nil
}

// SetPipeline sets the ingest pipeline for dataset processing
func (c *Churner) SetPipeline(pipeline *pipeline.Pipeline) {
	c.Pipeline = pipeline
}

// UseDefaultPipeline sets up the default ingest pipeline:
// CSV parsing, median imputation of missing total charges with derived
// tenure and charge buckets, and z-scored one-hot feature encoding.
func (c *Churner) UseDefaultPipeline() {
	c.Pipeline = pipeline.NewPipeline(
		pipeline.DefaultParser(),
		pipeline.DefaultCleaner(),
		pipeline.DefaultEncoder(),
	)
}

// ProcessAndInsertDataset processes a dataset by:
// 1. Inserting the dataset metadata (without content)
// 2. Processing the content into customer records using the pipeline
// 3. Inserting all customers with the dataset ID
// The dataset's Content field is used for processing but not stored in the
// database. Returns the number of customers inserted and any error encountered.
func (c *Churner) ProcessAndInsertDataset(ds *model.Dataset) (int, error) {
	if c.Pipeline == nil {
		return 0, helper.NewError("process dataset", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	if ds.Content == "" {
		return 0, helper.NewError("process dataset", fmt.Errorf("dataset content is empty"))
	}

	// Store content temporarily and clear it before DB insert
	content := ds.Content
	ds.Content = ""

	// Insert dataset metadata
	if err := c.Datasets.InsertDataset(ds); err != nil {
		return 0, helper.NewError("insert dataset", err)
	}

	c.log.Info("Inserted dataset", slog.String("dataset_id", ds.RID.String()), slog.String("title", ds.Title))

	// Process content into customer records
	customers, err := c.Pipeline.Process(content)
	if err != nil {
		return 0, helper.NewError("process customers", err)
	}

	c.log.Info("Processed dataset into customers", slog.Int("num_customers", len(customers)), slog.String("dataset_id", ds.RID.String()))

	// Insert all customers
	for i, customer := range customers {
		customer.DatasetID = ds.ID
		if err := c.Customers.InsertCustomer(customer); err != nil {
			return i, helper.NewError(fmt.Sprintf("insert customer %d", i), err)
		}
	}

	return len(customers), nil
}

// AnalyzeDataset computes the full descriptive report for a dataset:
// summary KPIs, churn cross-tabulations, tenure histogram, monthly
// charge box stats by churn and the correlation matrix. The report is
// persisted as a summary report and returned.
func (c *Churner) AnalyzeDataset(ctx context.Context, datasetRID uuid.UUID) (*model.AnalysisReport, error) {
	ds, err := c.Datasets.SelectDataset(datasetRID)
	if err != nil {
		return nil, helper.NewError("select dataset", err)
	}

	customers, err := c.Customers.SelectCustomersByDataset(datasetRID)
	if err != nil {
		return nil, helper.NewError("select customers", err)
	}
	if len(customers) == 0 {
		return nil, helper.NewError("analyze dataset", fmt.Errorf("dataset %v has no customers", datasetRID))
	}

	histogram, err := stats.TenureHistogram(customers, DefaultHistogramBins)
	if err != nil {
		return nil, helper.NewError("tenure histogram", err)
	}
	churnedCharges, retainedCharges := stats.MonthlyChargesByChurn(customers)

	report := &model.AnalysisReport{
		Summary:               stats.Summary(customers),
		ByContract:            stats.ByContract(customers),
		ByGender:              stats.ByGender(customers),
		ByInternetService:     stats.ByInternetService(customers),
		ByPaymentMethod:       stats.ByPaymentMethod(customers),
		ByTenureGroup:         stats.ByTenureGroup(customers),
		ByMonthlyChargesGroup: stats.ByMonthlyChargesGroup(customers),
		BySeniorCitizen:       stats.BySeniorCitizen(customers),
		TenureHistogram:       histogram,
		ChurnedCharges:        churnedCharges,
		RetainedCharges:       retainedCharges,
		Correlation:           stats.Correlation(customers),
	}

	payload, err := toMetadata(report)
	if err != nil {
		return nil, helper.NewError("encode report payload", err)
	}

	err = c.Reports.InsertReport(&model.Report{
		DatasetID: ds.ID,
		Kind:      model.ReportKindSummary,
		Payload:   payload,
	})
	if err != nil {
		return nil, helper.NewError("insert report", err)
	}

	c.log.Info("Analyzed dataset",
		slog.String("dataset_id", datasetRID.String()),
		slog.Int("num_customers", report.Summary.TotalCustomers),
		slog.Float64("churn_rate", report.Summary.ChurnRate),
	)

	return report, nil
}

// TrainClassifier fits a logistic-regression churn classifier on the
// stored feature vectors of a dataset. The trained model is kept on the
// Churner for prediction and risk-weighted search, and the held-out
// evaluation is persisted as an evaluation report.
func (c *Churner) TrainClassifier(ctx context.Context, datasetRID uuid.UUID, config classify.TrainConfig) (*classify.Evaluation, error) {
	ds, err := c.Datasets.SelectDataset(datasetRID)
	if err != nil {
		return nil, helper.NewError("select dataset", err)
	}

	customers, err := c.Customers.SelectCustomersByDataset(datasetRID)
	if err != nil {
		return nil, helper.NewError("select customers", err)
	}

	classifier, evaluation, err := classify.Train(customers, config)
	if err != nil {
		return nil, helper.NewError("train classifier", err)
	}
	c.Classifier = classifier

	payload, err := toMetadata(evaluation)
	if err != nil {
		return nil, helper.NewError("encode evaluation payload", err)
	}

	err = c.Reports.InsertReport(&model.Report{
		DatasetID: ds.ID,
		Kind:      model.ReportKindEvaluation,
		Payload:   payload,
	})
	if err != nil {
		return nil, helper.NewError("insert report", err)
	}

	c.log.Info("Trained classifier",
		slog.String("dataset_id", datasetRID.String()),
		slog.Int("test_size", evaluation.TestSize),
		slog.Float64("accuracy", evaluation.Accuracy),
		slog.Float64("auc", evaluation.AUC),
	)

	return evaluation, nil
}

// PredictChurn returns the churn probability of a stored customer using
// the trained classifier
func (c *Churner) PredictChurn(ctx context.Context, customerRID uuid.UUID) (float64, error) {
	if c.Classifier == nil {
		return 0, helper.NewError("predict churn", fmt.Errorf("classifier not trained, use TrainClassifier() first"))
	}

	customer, err := c.Customers.SelectCustomer(customerRID)
	if err != nil {
		return 0, helper.NewError("select customer", err)
	}

	return c.Classifier.PredictCustomer(customer)
}

// Search performs vector similarity search over customer feature vectors
func (c *Churner) Search(ctx context.Context, features []float32, config *model.QueryConfig) ([]*model.NeighborResult, error) {
	if c.Engine == nil {
		return nil, helper.NewError("vector search", fmt.Errorf("retrieval engine not initialized"))
	}

	return c.Engine.VectorRetrieve(ctx, features, config)
}

// SegmentScopedSearch performs similarity search within a customer segment
// (contract type and/or internet service), filtering at the database level
func (c *Churner) SegmentScopedSearch(ctx context.Context, features []float32, config *model.QueryConfig) ([]*model.NeighborResult, error) {
	strategy := retrieval.NewSegmentScopedStrategy(c.Engine)
	return strategy.Retrieve(ctx, features, config)
}

// RiskWeightedSearch performs similarity search rescored by the predicted
// churn probability of each neighbor
func (c *Churner) RiskWeightedSearch(ctx context.Context, features []float32, config *model.QueryConfig) ([]*model.NeighborResult, error) {
	if c.Classifier == nil {
		return nil, helper.NewError("risk weighted search", fmt.Errorf("classifier not trained, use TrainClassifier() first"))
	}

	strategy := retrieval.NewRiskWeightedStrategy(c.Engine, c.Classifier)
	return strategy.Retrieve(ctx, features, config)
}

// SimilarCustomers finds the stored customers most similar to a given
// customer, excluding the customer itself
func (c *Churner) SimilarCustomers(ctx context.Context, customerRID uuid.UUID, config *model.QueryConfig) ([]*model.NeighborResult, error) {
	customer, err := c.Customers.SelectCustomer(customerRID)
	if err != nil {
		return nil, helper.NewError("select customer", err)
	}
	if len(customer.Features) == 0 {
		return nil, helper.NewError("similar customers", fmt.Errorf("customer %v has no feature vector", customerRID))
	}

	if config == nil {
		defaultConfig := model.DefaultQueryConfig()
		config = &defaultConfig
	}

	// Fetch one extra neighbor, the customer matches itself with similarity 1
	searchConfig := *config
	searchConfig.TopK = config.TopK + 1

	results, err := c.Engine.VectorRetrieve(ctx, customer.Features, &searchConfig)
	if err != nil {
		return nil, err
	}

	filtered := make([]*model.NeighborResult, 0, len(results))
	for _, result := range results {
		if result.Customer.RID == customerRID {
			continue
		}
		filtered = append(filtered, result)
	}
	if len(filtered) > config.TopK {
		filtered = filtered[:config.TopK]
	}

	return filtered, nil
}

// ChurnRateByField cross-tabulates churn by one categorical column of a
// dataset, computed in the database. The field must be one of
// database.GroupableFields. Groups are sorted by descending churn rate.
func (c *Churner) ChurnRateByField(ctx context.Context, datasetRID uuid.UUID, field string) ([]model.GroupChurnRate, error) {
	return c.Customers.SelectFieldChurnCounts(datasetRID, field)
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (c *Churner) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return c.Customers.ChangeIndexType(ctx, indexType, params)
}

// toMetadata converts a report payload struct to a metadata map through
// its JSON representation
func toMetadata(payload interface{}) (model.Metadata, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	metadata := model.Metadata{}
	err = json.Unmarshal(encoded, &metadata)
	if err != nil {
		return nil, err
	}

	return metadata, nil
}
