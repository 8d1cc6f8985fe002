package stats

import (
	"fmt"
	"sort"

	"github.com/siherrmann/churner/model"
)

// TenureHistogram bins customers by tenure into numBins equal-width bins
// over [0, maxTenure], counting churned and retained customers per bin.
// Bins are left-closed, right-open, the last bin includes the maximum.
func TenureHistogram(customers []*model.Customer, numBins int) ([]model.HistogramBin, error) {
	if numBins <= 0 {
		return nil, fmt.Errorf("number of bins must be positive, got %d", numBins)
	}
	if len(customers) == 0 {
		return nil, nil
	}

	maxTenure := 0
	for _, customer := range customers {
		if customer.Tenure > maxTenure {
			maxTenure = customer.Tenure
		}
	}

	width := float64(maxTenure+1) / float64(numBins)
	bins := make([]model.HistogramBin, numBins)
	for i := range bins {
		bins[i].Low = float64(i) * width
		bins[i].High = float64(i+1) * width
	}

	for _, customer := range customers {
		idx := int(float64(customer.Tenure) / width)
		if idx >= numBins {
			idx = numBins - 1
		}
		if customer.Churn {
			bins[idx].Churned++
		} else {
			bins[idx].Retained++
		}
	}

	return bins, nil
}

// MonthlyChargesByChurn computes box stats of monthly charges for the
// churned and retained groups
func MonthlyChargesByChurn(customers []*model.Customer) (churned *model.BoxStats, retained *model.BoxStats) {
	var churnedCharges, retainedCharges []float64
	for _, customer := range customers {
		if customer.Churn {
			churnedCharges = append(churnedCharges, customer.MonthlyCharges)
		} else {
			retainedCharges = append(retainedCharges, customer.MonthlyCharges)
		}
	}

	return boxStats(churnedCharges), boxStats(retainedCharges)
}

// boxStats computes the five-number summary plus mean of values.
// Returns a zero-valued result for empty input.
func boxStats(values []float64) *model.BoxStats {
	stats := &model.BoxStats{Count: len(values)}
	if len(values) == 0 {
		return stats
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	stats.Min = sorted[0]
	stats.Q1 = quantile(sorted, 0.25)
	stats.Median = quantile(sorted, 0.5)
	stats.Q3 = quantile(sorted, 0.75)
	stats.Max = sorted[len(sorted)-1]
	stats.Mean = sum / float64(len(sorted))

	return stats
}
