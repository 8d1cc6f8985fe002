package model

import (
	"time"

	"github.com/google/uuid"
)

type RetrievalMethod string

const (
	RetrievalMethodVector       RetrievalMethod = "vector"
	RetrievalMethodSegment      RetrievalMethod = "segment"
	RetrievalMethodRiskWeighted RetrievalMethod = "risk_weighted"
)

// Contract types as they appear in the Telco dataset
const (
	ContractMonthToMonth = "Month-to-month"
	ContractOneYear      = "One year"
	ContractTwoYear      = "Two year"
)

// Internet service types as they appear in the Telco dataset
const (
	InternetDSL   = "DSL"
	InternetFiber = "Fiber optic"
	InternetNone  = "No"
)

// Payment methods as they appear in the Telco dataset
const (
	PaymentElectronicCheck = "Electronic check"
	PaymentMailedCheck     = "Mailed check"
	PaymentBankTransfer    = "Bank transfer (automatic)"
	PaymentCreditCard      = "Credit card (automatic)"
)

// Customer represents a single subscriber row of an ingested dataset
type Customer struct {
	ID         int64     `json:"id"`
	RID        uuid.UUID `json:"rid"`
	DatasetID  int64     `json:"dataset_id"`
	DatasetRID uuid.UUID `json:"dataset_rid"`

	// CustomerNo is the identifier carried by the source file,
	// not the database identity
	CustomerNo string `json:"customer_no"`

	// Demographics
	Gender        string `json:"gender"`
	SeniorCitizen bool   `json:"senior_citizen"`
	Partner       bool   `json:"partner"`
	Dependents    bool   `json:"dependents"`

	// Account
	Tenure           int     `json:"tenure"`
	Contract         string  `json:"contract"`
	PaperlessBilling bool    `json:"paperless_billing"`
	PaymentMethod    string  `json:"payment_method"`
	MonthlyCharges   float64 `json:"monthly_charges"`
	TotalCharges     float64 `json:"total_charges"`

	// Services
	PhoneService     bool   `json:"phone_service"`
	MultipleLines    string `json:"multiple_lines"`
	InternetService  string `json:"internet_service"`
	OnlineSecurity   string `json:"online_security"`
	OnlineBackup     string `json:"online_backup"`
	DeviceProtection string `json:"device_protection"`
	TechSupport      string `json:"tech_support"`
	StreamingTV      string `json:"streaming_tv"`
	StreamingMovies  string `json:"streaming_movies"`

	// Churn is true if the customer discontinued service
	Churn bool `json:"churn"`

	// Derived by the cleaning step
	TenureGroup         string `json:"tenure_group,omitempty"`
	MonthlyChargesGroup string `json:"monthly_charges_group,omitempty"`

	// Features is the encoded feature vector used for similarity
	// search and classification
	Features []float32 `json:"features,omitempty"`

	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Results
	Similarity      *float64        `json:"similarity,omitempty"`
	Score           float64         `json:"score,omitempty"`
	RetrievalMethod RetrievalMethod `json:"retrieval_method,omitempty"`
}

// ChurnFlag returns the churn label as 0 or 1
func (c *Customer) ChurnFlag() float64 {
	if c.Churn {
		return 1
	}
	return 0
}

// AddonServices lists the optional add-on service fields. A value of "Yes"
// means the customer subscribed to the add-on.
func (c *Customer) AddonServices() []string {
	return []string{
		c.OnlineSecurity,
		c.OnlineBackup,
		c.DeviceProtection,
		c.TechSupport,
		c.StreamingTV,
		c.StreamingMovies,
	}
}
