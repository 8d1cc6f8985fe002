package pipeline

import (
	"fmt"
	"math"
	"sort"

	"github.com/siherrmann/churner/model"
)

// Bucket labels for derived group columns
const (
	TenureGroup0to12  = "0-12"
	TenureGroup13to24 = "13-24"
	TenureGroup25to48 = "25-48"
	TenureGroup49to72 = "49-72"
	TenureGroup73Plus = "73+"

	ChargeGroup0to25   = "0-25"
	ChargeGroup26to50  = "26-50"
	ChargeGroup51to75  = "51-75"
	ChargeGroup76to100 = "76-100"
	ChargeGroup100Plus = "100+"
)

// DefaultCleaner creates a cleaner that imputes missing TotalCharges with
// the column median and derives the tenure and monthly charge buckets
func DefaultCleaner() CleanFunc {
	return func(customers []*model.Customer) error {
		if len(customers) == 0 {
			return nil
		}

		var known []float64
		for _, customer := range customers {
			if !math.IsNaN(customer.TotalCharges) {
				known = append(known, customer.TotalCharges)
			}
		}
		if len(known) == 0 {
			return fmt.Errorf("all total charges values are missing")
		}
		medianTotal := median(known)

		for _, customer := range customers {
			if math.IsNaN(customer.TotalCharges) {
				customer.TotalCharges = medianTotal
			}
			customer.TenureGroup = TenureGroupFor(customer.Tenure)
			customer.MonthlyChargesGroup = ChargeGroupFor(customer.MonthlyCharges)
		}

		return nil
	}
}

// TenureGroupFor returns the tenure bucket label for a tenure in months.
// Bucket edges are right-closed at 12, 24, 48 and 72 months.
func TenureGroupFor(tenure int) string {
	switch {
	case tenure <= 12:
		return TenureGroup0to12
	case tenure <= 24:
		return TenureGroup13to24
	case tenure <= 48:
		return TenureGroup25to48
	case tenure <= 72:
		return TenureGroup49to72
	default:
		return TenureGroup73Plus
	}
}

// ChargeGroupFor returns the monthly charge bucket label.
// Bucket edges are right-closed at 25, 50, 75 and 100.
func ChargeGroupFor(monthlyCharges float64) string {
	switch {
	case monthlyCharges <= 25:
		return ChargeGroup0to25
	case monthlyCharges <= 50:
		return ChargeGroup26to50
	case monthlyCharges <= 75:
		return ChargeGroup51to75
	case monthlyCharges <= 100:
		return ChargeGroup76to100
	default:
		return ChargeGroup100Plus
	}
}

// median returns the median of values, averaging the two middle values
// for an even count
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
