package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/siherrmann/churner/model"
)

// Column names of the Telco customer churn CSV
const (
	colCustomerID       = "customerID"
	colGender           = "gender"
	colSeniorCitizen    = "SeniorCitizen"
	colPartner          = "Partner"
	colDependents       = "Dependents"
	colTenure           = "tenure"
	colPhoneService     = "PhoneService"
	colMultipleLines    = "MultipleLines"
	colInternetService  = "InternetService"
	colOnlineSecurity   = "OnlineSecurity"
	colOnlineBackup     = "OnlineBackup"
	colDeviceProtection = "DeviceProtection"
	colTechSupport      = "TechSupport"
	colStreamingTV      = "StreamingTV"
	colStreamingMovies  = "StreamingMovies"
	colContract         = "Contract"
	colPaperlessBilling = "PaperlessBilling"
	colPaymentMethod    = "PaymentMethod"
	colMonthlyCharges   = "MonthlyCharges"
	colTotalCharges     = "TotalCharges"
	colChurn            = "Churn"
)

var requiredColumns = []string{
	colCustomerID,
	colGender,
	colSeniorCitizen,
	colPartner,
	colDependents,
	colTenure,
	colPhoneService,
	colMultipleLines,
	colInternetService,
	colOnlineSecurity,
	colOnlineBackup,
	colDeviceProtection,
	colTechSupport,
	colStreamingTV,
	colStreamingMovies,
	colContract,
	colPaperlessBilling,
	colPaymentMethod,
	colMonthlyCharges,
	colTotalCharges,
	colChurn,
}

// DefaultParser creates a parser for the Telco customer churn CSV schema.
// Columns are located by header name, so column order does not matter and
// extra columns are ignored. A blank TotalCharges value is parsed as NaN
// and left for the cleaner to impute.
func DefaultParser() ParseFunc {
	return func(content string) ([]*model.Customer, error) {
		if strings.TrimSpace(content) == "" {
			return nil, fmt.Errorf("content is empty")
		}

		reader := csv.NewReader(strings.NewReader(content))
		reader.TrimLeadingSpace = true

		header, err := reader.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}

		index := make(map[string]int, len(header))
		for i, name := range header {
			index[strings.TrimSpace(name)] = i
		}
		for _, name := range requiredColumns {
			if _, ok := index[name]; !ok {
				return nil, fmt.Errorf("missing column %q in header", name)
			}
		}

		var customers []*model.Customer
		rowNum := 1
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			rowNum++
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}

			customer, err := parseRecord(record, index)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}

			customers = append(customers, customer)
		}

		if len(customers) == 0 {
			return nil, fmt.Errorf("no customer rows found")
		}

		return customers, nil
	}
}

func parseRecord(record []string, index map[string]int) (*model.Customer, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[index[name]])
	}

	tenure, err := strconv.Atoi(field(colTenure))
	if err != nil {
		return nil, fmt.Errorf("invalid tenure %q", field(colTenure))
	}

	monthlyCharges, err := strconv.ParseFloat(field(colMonthlyCharges), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly charges %q", field(colMonthlyCharges))
	}

	// TotalCharges is blank for customers with zero tenure in the source
	// data, the cleaner imputes the column median
	totalCharges := math.NaN()
	if raw := field(colTotalCharges); raw != "" {
		totalCharges, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid total charges %q", raw)
		}
	}

	seniorCitizen, err := parseBinary(field(colSeniorCitizen))
	if err != nil {
		return nil, fmt.Errorf("invalid senior citizen flag: %w", err)
	}

	partner, err := parseYesNo(field(colPartner))
	if err != nil {
		return nil, fmt.Errorf("invalid partner flag: %w", err)
	}

	dependents, err := parseYesNo(field(colDependents))
	if err != nil {
		return nil, fmt.Errorf("invalid dependents flag: %w", err)
	}

	phoneService, err := parseYesNo(field(colPhoneService))
	if err != nil {
		return nil, fmt.Errorf("invalid phone service flag: %w", err)
	}

	paperlessBilling, err := parseYesNo(field(colPaperlessBilling))
	if err != nil {
		return nil, fmt.Errorf("invalid paperless billing flag: %w", err)
	}

	churn, err := parseYesNo(field(colChurn))
	if err != nil {
		return nil, fmt.Errorf("invalid churn label: %w", err)
	}

	return &model.Customer{
		CustomerNo:       field(colCustomerID),
		Gender:           field(colGender),
		SeniorCitizen:    seniorCitizen,
		Partner:          partner,
		Dependents:       dependents,
		Tenure:           tenure,
		PhoneService:     phoneService,
		MultipleLines:    field(colMultipleLines),
		InternetService:  field(colInternetService),
		OnlineSecurity:   field(colOnlineSecurity),
		OnlineBackup:     field(colOnlineBackup),
		DeviceProtection: field(colDeviceProtection),
		TechSupport:      field(colTechSupport),
		StreamingTV:      field(colStreamingTV),
		StreamingMovies:  field(colStreamingMovies),
		Contract:         field(colContract),
		PaperlessBilling: paperlessBilling,
		PaymentMethod:    field(colPaymentMethod),
		MonthlyCharges:   monthlyCharges,
		TotalCharges:     totalCharges,
		Churn:            churn,
	}, nil
}

// parseYesNo parses the "Yes"/"No" flags of the dataset
func parseYesNo(value string) (bool, error) {
	switch value {
	case "Yes":
		return true, nil
	case "No":
		return false, nil
	default:
		return false, fmt.Errorf("expected Yes or No, got %q", value)
	}
}

// parseBinary parses the "0"/"1" flags of the dataset, also accepting
// "Yes"/"No" for exports that normalized the column
func parseBinary(value string) (bool, error) {
	switch value {
	case "1", "Yes":
		return true, nil
	case "0", "No":
		return false, nil
	default:
		return false, fmt.Errorf("expected 0 or 1, got %q", value)
	}
}
