package pipeline

import (
	"errors"
	"testing"

	"github.com/siherrmann/churner/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock ParseFunc for testing
func mockParseFunc(content string) ([]*model.Customer, error) {
	if content == "" {
		return nil, errors.New("empty content")
	}

	return []*model.Customer{
		{CustomerNo: "0001-TEST", Tenure: 1, MonthlyCharges: 30},
		{CustomerNo: "0002-TEST", Tenure: 2, MonthlyCharges: 40},
	}, nil
}

// Mock CleanFunc for testing
func mockCleanFunc(customers []*model.Customer) error {
	for _, customer := range customers {
		customer.TenureGroup = "cleaned"
	}
	return nil
}

// Mock EncodeFunc for testing
func mockEncodeFunc(customers []*model.Customer) error {
	for _, customer := range customers {
		customer.Features = []float32{0.1, 0.2, 0.3}
	}
	return nil
}

// Mock EncodeFunc that returns an error
func mockEncodeFuncError(customers []*model.Customer) error {
	return errors.New("encoding error")
}

func TestNewPipeline(t *testing.T) {
	t.Run("Create new pipeline", func(t *testing.T) {
		pipeline := NewPipeline(mockParseFunc, mockCleanFunc, mockEncodeFunc)

		require.NotNil(t, pipeline, "Expected NewPipeline to return a non-nil instance")
		assert.NotNil(t, pipeline.Parser, "Expected pipeline to have a parser function")
		assert.NotNil(t, pipeline.Cleaner, "Expected pipeline to have a cleaner function")
		assert.NotNil(t, pipeline.Encoder, "Expected pipeline to have an encoder function")
	})

	t.Run("Create pipeline with nil functions", func(t *testing.T) {
		pipeline := NewPipeline(nil, nil, nil)

		require.NotNil(t, pipeline, "Expected NewPipeline to return a non-nil instance")
		assert.Nil(t, pipeline.Parser, "Expected parser to be nil")
		assert.Nil(t, pipeline.Cleaner, "Expected cleaner to be nil")
		assert.Nil(t, pipeline.Encoder, "Expected encoder to be nil")
	})
}

func TestPipelineProcess(t *testing.T) {
	t.Run("Process content successfully", func(t *testing.T) {
		pipeline := NewPipeline(mockParseFunc, mockCleanFunc, mockEncodeFunc)

		customers, err := pipeline.Process("some content")

		assert.NoError(t, err, "Expected Process to not return an error")
		require.Len(t, customers, 2, "Expected 2 customers")

		// Verify all stages ran
		assert.Equal(t, "0001-TEST", customers[0].CustomerNo, "Expected parsed customer number")
		assert.Equal(t, "cleaned", customers[0].TenureGroup, "Expected cleaner to have run")
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, customers[0].Features, "Expected encoder to have run")
	})

	t.Run("Process without parser errors", func(t *testing.T) {
		pipeline := NewPipeline(nil, mockCleanFunc, mockEncodeFunc)

		customers, err := pipeline.Process("some content")

		assert.Error(t, err, "Expected Process to return an error without a parser")
		assert.Nil(t, customers, "Expected customers to be nil on error")
		assert.Contains(t, err.Error(), "no parser", "Expected specific error message")
	})

	t.Run("Process with empty content", func(t *testing.T) {
		pipeline := NewPipeline(mockParseFunc, mockCleanFunc, mockEncodeFunc)

		customers, err := pipeline.Process("")

		assert.Error(t, err, "Expected Process to return an error for empty content")
		assert.Nil(t, customers, "Expected customers to be nil on error")
		assert.Contains(t, err.Error(), "empty content", "Expected specific error message")
	})

	t.Run("Process with encoding error", func(t *testing.T) {
		pipeline := NewPipeline(mockParseFunc, mockCleanFunc, mockEncodeFuncError)

		customers, err := pipeline.Process("some content")

		assert.Error(t, err, "Expected Process to return an error from encoder")
		assert.Nil(t, customers, "Expected customers to be nil on error")
		assert.Contains(t, err.Error(), "encoding error", "Expected encoding error message")
	})

	t.Run("Process without cleaner and encoder", func(t *testing.T) {
		pipeline := NewPipeline(mockParseFunc, nil, nil)

		customers, err := pipeline.Process("some content")

		assert.NoError(t, err, "Expected Process to not return an error with optional stages unset")
		require.Len(t, customers, 2, "Expected 2 customers")
		assert.Empty(t, customers[0].TenureGroup, "Expected cleaner to be skipped")
		assert.Nil(t, customers[0].Features, "Expected encoder to be skipped")
	})

	t.Run("Process with default stages end to end", func(t *testing.T) {
		pipeline := NewPipeline(DefaultParser(), DefaultCleaner(), DefaultEncoder())

		content := testHeader + "\n" + testRow
		customers, err := pipeline.Process(content)

		assert.NoError(t, err, "Expected Process to not return an error")
		require.Len(t, customers, 1, "Expected 1 customer")
		assert.Equal(t, TenureGroup0to12, customers[0].TenureGroup, "Expected derived tenure bucket")
		assert.Len(t, customers[0].Features, FeatureDimension, "Expected encoded feature vector")
	})
}
