package stats

import (
	"sort"

	"github.com/siherrmann/churner/model"
)

// KeyFunc extracts the grouping label from a customer
type KeyFunc func(*model.Customer) string

// GroupChurnRates cross-tabulates churn by the label returned by key.
// Groups are sorted by descending churn rate, ties by label.
// Only groups with at least one member are returned.
func GroupChurnRates(customers []*model.Customer, key KeyFunc) []model.GroupChurnRate {
	totals := make(map[string]int)
	churned := make(map[string]int)

	for _, customer := range customers {
		label := key(customer)
		totals[label]++
		if customer.Churn {
			churned[label]++
		}
	}

	groups := make([]model.GroupChurnRate, 0, len(totals))
	for label, total := range totals {
		groups = append(groups, model.GroupChurnRate{
			Label:     label,
			Total:     total,
			Churned:   churned[label],
			ChurnRate: float64(churned[label]) / float64(total),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].ChurnRate != groups[j].ChurnRate {
			return groups[i].ChurnRate > groups[j].ChurnRate
		}
		return groups[i].Label < groups[j].Label
	})

	return groups
}

// ByContract cross-tabulates churn by contract type
func ByContract(customers []*model.Customer) []model.GroupChurnRate {
	return GroupChurnRates(customers, func(c *model.Customer) string { return c.Contract })
}

// ByGender cross-tabulates churn by gender
func ByGender(customers []*model.Customer) []model.GroupChurnRate {
	return GroupChurnRates(customers, func(c *model.Customer) string { return c.Gender })
}

// ByInternetService cross-tabulates churn by internet service type
func ByInternetService(customers []*model.Customer) []model.GroupChurnRate {
	return GroupChurnRates(customers, func(c *model.Customer) string { return c.InternetService })
}

// ByPaymentMethod cross-tabulates churn by payment method
func ByPaymentMethod(customers []*model.Customer) []model.GroupChurnRate {
	return GroupChurnRates(customers, func(c *model.Customer) string { return c.PaymentMethod })
}

// ByTenureGroup cross-tabulates churn by the derived tenure bucket
func ByTenureGroup(customers []*model.Customer) []model.GroupChurnRate {
	return GroupChurnRates(customers, func(c *model.Customer) string { return c.TenureGroup })
}

// ByMonthlyChargesGroup cross-tabulates churn by the derived charge bucket
func ByMonthlyChargesGroup(customers []*model.Customer) []model.GroupChurnRate {
	return GroupChurnRates(customers, func(c *model.Customer) string { return c.MonthlyChargesGroup })
}

// BySeniorCitizen cross-tabulates churn by the senior citizen flag
func BySeniorCitizen(customers []*model.Customer) []model.GroupChurnRate {
	return GroupChurnRates(customers, func(c *model.Customer) string {
		if c.SeniorCitizen {
			return "Yes"
		}
		return "No"
	})
}
