package classify

import (
	"fmt"
	"sort"

	"github.com/siherrmann/churner/model"
)

// Evaluation holds the held-out metrics of a trained classifier.
// Predictions use a 0.5 decision threshold.
type Evaluation struct {
	TestSize       int     `json:"test_size"`
	TruePositives  int     `json:"true_positives"`
	TrueNegatives  int     `json:"true_negatives"`
	FalsePositives int     `json:"false_positives"`
	FalseNegatives int     `json:"false_negatives"`
	Accuracy       float64 `json:"accuracy"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1"`
	AUC            float64 `json:"auc"`
}

// Evaluate scores a classifier against labeled customers
func Evaluate(classifier *Classifier, customers []*model.Customer) (*Evaluation, error) {
	if len(customers) == 0 {
		return nil, fmt.Errorf("no customers to evaluate on")
	}

	evaluation := &Evaluation{TestSize: len(customers)}

	scores := make([]float64, len(customers))
	labels := make([]bool, len(customers))
	for i, customer := range customers {
		score, err := classifier.PredictCustomer(customer)
		if err != nil {
			return nil, err
		}
		scores[i] = score
		labels[i] = customer.Churn

		predicted := score >= 0.5
		switch {
		case predicted && customer.Churn:
			evaluation.TruePositives++
		case predicted && !customer.Churn:
			evaluation.FalsePositives++
		case !predicted && customer.Churn:
			evaluation.FalseNegatives++
		default:
			evaluation.TrueNegatives++
		}
	}

	evaluation.Accuracy = float64(evaluation.TruePositives+evaluation.TrueNegatives) / float64(evaluation.TestSize)
	if evaluation.TruePositives+evaluation.FalsePositives > 0 {
		evaluation.Precision = float64(evaluation.TruePositives) / float64(evaluation.TruePositives+evaluation.FalsePositives)
	}
	if evaluation.TruePositives+evaluation.FalseNegatives > 0 {
		evaluation.Recall = float64(evaluation.TruePositives) / float64(evaluation.TruePositives+evaluation.FalseNegatives)
	}
	if evaluation.Precision+evaluation.Recall > 0 {
		evaluation.F1 = 2 * evaluation.Precision * evaluation.Recall / (evaluation.Precision + evaluation.Recall)
	}
	evaluation.AUC = rocAUC(scores, labels)

	return evaluation, nil
}

// rocAUC computes the area under the ROC curve by the rank statistic:
// the probability that a churned customer scores higher than a retained
// one, with ties counted half. Returns 0 if only one class is present.
func rocAUC(scores []float64, labels []bool) float64 {
	type scored struct {
		score float64
		churn bool
	}

	ranked := make([]scored, len(scores))
	positives := 0
	for i, score := range scores {
		ranked[i] = scored{score: score, churn: labels[i]}
		if labels[i] {
			positives++
		}
	}
	negatives := len(scores) - positives
	if positives == 0 || negatives == 0 {
		return 0
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score < ranked[j].score })

	// Sum of positive ranks with midranks for tied scores
	var rankSum float64
	i := 0
	for i < len(ranked) {
		j := i
		for j < len(ranked) && ranked[j].score == ranked[i].score {
			j++
		}
		// Ranks are 1-based, tied scores share the average rank
		avgRank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if ranked[k].churn {
				rankSum += avgRank
			}
		}
		i = j
	}

	p := float64(positives)
	n := float64(negatives)
	return (rankSum - p*(p+1)/2) / (p * n)
}
