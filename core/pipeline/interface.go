package pipeline

import (
	"fmt"

	"github.com/siherrmann/churner/model"
)

// ParseFunc is a function that parses raw file content into customer records
type ParseFunc func(content string) ([]*model.Customer, error)

// CleanFunc is a function that cleans a batch of parsed customers in place,
// e.g. imputing missing values and deriving bucket columns
type CleanFunc func(customers []*model.Customer) error

// EncodeFunc is a function that writes the Features vector of every
// customer in a batch. Encoders that standardize values fit their
// statistics over the batch they are given.
type EncodeFunc func(customers []*model.Customer) error

// Pipeline combines parsing, cleaning and feature encoding
type Pipeline struct {
	Parser  ParseFunc
	Cleaner CleanFunc
	Encoder EncodeFunc
}

// NewPipeline creates a new ingest pipeline
func NewPipeline(parser ParseFunc, cleaner CleanFunc, encoder EncodeFunc) *Pipeline {
	return &Pipeline{
		Parser:  parser,
		Cleaner: cleaner,
		Encoder: encoder,
	}
}

// Process runs content through the pipeline, returning cleaned customers
// with their feature vectors set. Cleaner and Encoder are optional.
func (p *Pipeline) Process(content string) ([]*model.Customer, error) {
	if p.Parser == nil {
		return nil, fmt.Errorf("pipeline has no parser")
	}

	customers, err := p.Parser(content)
	if err != nil {
		return nil, err
	}

	if p.Cleaner != nil {
		if err := p.Cleaner(customers); err != nil {
			return nil, err
		}
	}

	if p.Encoder != nil {
		if err := p.Encoder(customers); err != nil {
			return nil, err
		}
	}

	return customers, nil
}
