// Package classify fits and applies a logistic-regression churn
// classifier over encoded customer feature vectors.
package classify

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/siherrmann/churner/model"
)

// TrainConfig holds the hyperparameters for training
type TrainConfig struct {
	LearningRate float64 `json:"learning_rate"`
	Epochs       int     `json:"epochs"`
	L2           float64 `json:"l2"`            // L2 regularization strength
	TestFraction float64 `json:"test_fraction"` // Share of customers held out for evaluation
	Seed         int64   `json:"seed"`          // Seed for the shuffle split, training is deterministic per seed
}

// DefaultTrainConfig returns a sensible default configuration
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		LearningRate: 0.1,
		Epochs:       300,
		L2:           1e-4,
		TestFraction: 0.2,
		Seed:         42,
	}
}

// Classifier is a trained logistic-regression model over customer
// feature vectors
type Classifier struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Train fits a logistic-regression classifier on the feature vectors of
// the given customers using full-batch gradient descent. A TestFraction
// share of the shuffled customers is held out and used for evaluation,
// with a zero fraction the model is evaluated on the training set.
func Train(customers []*model.Customer, config TrainConfig) (*Classifier, *Evaluation, error) {
	if len(customers) == 0 {
		return nil, nil, fmt.Errorf("no customers to train on")
	}
	if config.Epochs <= 0 {
		return nil, nil, fmt.Errorf("epochs must be positive, got %d", config.Epochs)
	}
	if config.TestFraction < 0 || config.TestFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in [0, 1), got %v", config.TestFraction)
	}

	dim := len(customers[0].Features)
	if dim == 0 {
		return nil, nil, fmt.Errorf("customers have no feature vectors, run the pipeline first")
	}
	for i, customer := range customers {
		if len(customer.Features) != dim {
			return nil, nil, fmt.Errorf("customer %d has feature dimension %d, expected %d", i, len(customer.Features), dim)
		}
	}

	// Shuffle split
	rng := rand.New(rand.NewSource(config.Seed))
	shuffled := make([]*model.Customer, len(customers))
	copy(shuffled, customers)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	numTest := int(math.Round(config.TestFraction * float64(len(shuffled))))
	test := shuffled[:numTest]
	train := shuffled[numTest:]
	if len(train) == 0 {
		return nil, nil, fmt.Errorf("test fraction %v leaves no training customers", config.TestFraction)
	}

	churned := 0
	for _, customer := range train {
		if customer.Churn {
			churned++
		}
	}
	if churned == 0 || churned == len(train) {
		return nil, nil, fmt.Errorf("training data contains only one class")
	}

	classifier := &Classifier{
		Weights: make([]float64, dim),
	}

	// Full-batch gradient descent on the log loss
	gradients := make([]float64, dim)
	for range config.Epochs {
		for i := range gradients {
			gradients[i] = 0
		}
		var biasGradient float64

		for _, customer := range train {
			prediction := classifier.predict(customer.Features)
			residual := prediction - customer.ChurnFlag()
			for i, feature := range customer.Features {
				gradients[i] += residual * float64(feature)
			}
			biasGradient += residual
		}

		n := float64(len(train))
		for i := range classifier.Weights {
			classifier.Weights[i] -= config.LearningRate * (gradients[i]/n + config.L2*classifier.Weights[i])
		}
		classifier.Bias -= config.LearningRate * (biasGradient / n)
	}

	evalSet := test
	if len(evalSet) == 0 {
		evalSet = train
	}
	evaluation, err := Evaluate(classifier, evalSet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to evaluate classifier: %w", err)
	}

	return classifier, evaluation, nil
}

// Predict returns the churn probability for a feature vector
func (c *Classifier) Predict(features []float32) (float64, error) {
	if len(features) != len(c.Weights) {
		return 0, fmt.Errorf("feature dimension %d does not match model dimension %d", len(features), len(c.Weights))
	}
	return c.predict(features), nil
}

// PredictCustomer returns the churn probability for a customer
func (c *Classifier) PredictCustomer(customer *model.Customer) (float64, error) {
	if len(customer.Features) == 0 {
		return 0, fmt.Errorf("customer has no feature vector, run the pipeline first")
	}
	return c.Predict(customer.Features)
}

func (c *Classifier) predict(features []float32) float64 {
	z := c.Bias
	for i, feature := range features {
		z += c.Weights[i] * float64(feature)
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
