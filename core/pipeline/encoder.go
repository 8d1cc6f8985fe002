package pipeline

import (
	"fmt"
	"math"

	"github.com/siherrmann/churner/model"
)

// FeatureDimension is the length of the feature vector produced by
// DefaultEncoder. The customers table stores vectors of this dimension.
const FeatureDimension = 21

// FeatureNames returns the feature vector layout of DefaultEncoder,
// index-aligned with the encoded values
func FeatureNames() []string {
	return []string{
		"tenure_z",
		"monthly_charges_z",
		"total_charges_z",
		"senior_citizen",
		"partner",
		"dependents",
		"gender_female",
		"phone_service",
		"paperless_billing",
		"multiple_lines_yes",
		"contract_month_to_month",
		"contract_one_year",
		"contract_two_year",
		"internet_dsl",
		"internet_fiber",
		"internet_none",
		"payment_bank_transfer",
		"payment_credit_card",
		"payment_electronic_check",
		"payment_mailed_check",
		"addon_ratio",
	}
}

// DefaultEncoder creates an encoder that writes a FeatureDimension-long
// vector per customer: z-scored numeric columns, binary flags, one-hot
// contract/internet/payment categories and the add-on subscription ratio.
// The z-score statistics are fitted over the batch being encoded.
func DefaultEncoder() EncodeFunc {
	return func(customers []*model.Customer) error {
		if len(customers) == 0 {
			return nil
		}

		for i, customer := range customers {
			if math.IsNaN(customer.TotalCharges) {
				return fmt.Errorf("customer %d has missing total charges, run the cleaner first", i)
			}
		}

		tenureMean, tenureStd := meanStd(customers, func(c *model.Customer) float64 { return float64(c.Tenure) })
		monthlyMean, monthlyStd := meanStd(customers, func(c *model.Customer) float64 { return c.MonthlyCharges })
		totalMean, totalStd := meanStd(customers, func(c *model.Customer) float64 { return c.TotalCharges })

		for _, customer := range customers {
			features := make([]float32, 0, FeatureDimension)

			features = append(features,
				zScore(float64(customer.Tenure), tenureMean, tenureStd),
				zScore(customer.MonthlyCharges, monthlyMean, monthlyStd),
				zScore(customer.TotalCharges, totalMean, totalStd),
				boolFeature(customer.SeniorCitizen),
				boolFeature(customer.Partner),
				boolFeature(customer.Dependents),
				boolFeature(customer.Gender == "Female"),
				boolFeature(customer.PhoneService),
				boolFeature(customer.PaperlessBilling),
				boolFeature(customer.MultipleLines == "Yes"),
				boolFeature(customer.Contract == model.ContractMonthToMonth),
				boolFeature(customer.Contract == model.ContractOneYear),
				boolFeature(customer.Contract == model.ContractTwoYear),
				boolFeature(customer.InternetService == model.InternetDSL),
				boolFeature(customer.InternetService == model.InternetFiber),
				boolFeature(customer.InternetService == model.InternetNone),
				boolFeature(customer.PaymentMethod == model.PaymentBankTransfer),
				boolFeature(customer.PaymentMethod == model.PaymentCreditCard),
				boolFeature(customer.PaymentMethod == model.PaymentElectronicCheck),
				boolFeature(customer.PaymentMethod == model.PaymentMailedCheck),
				addonRatio(customer),
			)

			customer.Features = features
		}

		return nil
	}
}

// addonRatio returns the share of the six add-on services the customer
// subscribed to
func addonRatio(customer *model.Customer) float32 {
	subscribed := 0
	addons := customer.AddonServices()
	for _, addon := range addons {
		if addon == "Yes" {
			subscribed++
		}
	}
	return float32(subscribed) / float32(len(addons))
}

func boolFeature(value bool) float32 {
	if value {
		return 1
	}
	return 0
}

// zScore standardizes a value, a zero standard deviation maps to 0
func zScore(value, mean, std float64) float32 {
	if std == 0 {
		return 0
	}
	return float32((value - mean) / std)
}

// meanStd computes mean and population standard deviation of a column
func meanStd(customers []*model.Customer, column func(*model.Customer) float64) (float64, float64) {
	var sum float64
	for _, customer := range customers {
		sum += column(customer)
	}
	mean := sum / float64(len(customers))

	var sumSq float64
	for _, customer := range customers {
		diff := column(customer) - mean
		sumSq += diff * diff
	}
	std := math.Sqrt(sumSq / float64(len(customers)))

	return mean, std
}
