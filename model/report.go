package model

import (
	"time"

	"github.com/google/uuid"
)

// ReportKind identifies what a persisted report payload contains
type ReportKind string

const (
	ReportKindSummary    ReportKind = "summary"
	ReportKindEvaluation ReportKind = "evaluation"
)

// Report is a persisted analysis result for a dataset
type Report struct {
	ID         int64      `json:"id"`
	RID        uuid.UUID  `json:"rid"`
	DatasetID  int64      `json:"dataset_id"`
	DatasetRID uuid.UUID  `json:"dataset_rid"`
	Kind       ReportKind `json:"kind"`
	Payload    Metadata   `json:"payload"`
	CreatedAt  time.Time  `json:"created_at"`
}

// SummaryReport holds the high-level KPIs of a dataset
type SummaryReport struct {
	TotalCustomers     int     `json:"total_customers"`
	Churned            int     `json:"churned"`
	Retained           int     `json:"retained"`
	ChurnRate          float64 `json:"churn_rate"`
	AvgTenure          float64 `json:"avg_tenure"`
	AvgMonthlyCharges  float64 `json:"avg_monthly_charges"`
	MedianTotalCharges float64 `json:"median_total_charges"`
}

// GroupChurnRate is one row of a churn cross-tabulation
type GroupChurnRate struct {
	Label     string  `json:"label"`
	Total     int     `json:"total"`
	Churned   int     `json:"churned"`
	ChurnRate float64 `json:"churn_rate"`
}

// HistogramBin counts churned and retained customers in a value range.
// Low is inclusive, High is exclusive.
type HistogramBin struct {
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Churned  int     `json:"churned"`
	Retained int     `json:"retained"`
}

// BoxStats holds the five-number summary plus mean of a numeric column
type BoxStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// CorrelationMatrix holds pairwise Pearson correlations of numeric fields
type CorrelationMatrix struct {
	Fields []string    `json:"fields"`
	Values [][]float64 `json:"values"`
}

// AnalysisReport bundles all descriptive statistics computed for a dataset
type AnalysisReport struct {
	Summary               *SummaryReport     `json:"summary"`
	ByContract            []GroupChurnRate   `json:"by_contract"`
	ByGender              []GroupChurnRate   `json:"by_gender"`
	ByInternetService     []GroupChurnRate   `json:"by_internet_service"`
	ByPaymentMethod       []GroupChurnRate   `json:"by_payment_method"`
	ByTenureGroup         []GroupChurnRate   `json:"by_tenure_group"`
	ByMonthlyChargesGroup []GroupChurnRate   `json:"by_monthly_charges_group"`
	BySeniorCitizen       []GroupChurnRate   `json:"by_senior_citizen"`
	TenureHistogram       []HistogramBin     `json:"tenure_histogram"`
	ChurnedCharges        *BoxStats          `json:"churned_charges"`
	RetainedCharges       *BoxStats          `json:"retained_charges"`
	Correlation           *CorrelationMatrix `json:"correlation"`
}
