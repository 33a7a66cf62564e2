package kmeansgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kmeansgo/engine"
)

var (
	// ErrEmptyDataset is returned when Cluster is called with no points.
	// The degenerate k values are defined cases, an empty dataset is not:
	// there is no mean to compute.
	ErrEmptyDataset = errors.New("invalid input: empty dataset")

	// ErrDidNotConverge is returned together with a still-valid Result when
	// the iteration cap was reached before churn fell to the threshold.
	// Check with errors.Is; the Result's Termination field carries the same
	// information.
	ErrDidNotConverge = errors.New("clustering did not converge")
)

// ErrInvalidEngine indicates an Engine value outside the defined strategies.
type ErrInvalidEngine struct {
	Engine Engine
}

func (e *ErrInvalidEngine) Error() string {
	return fmt.Sprintf("invalid engine: %d", int(e.Engine))
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, engine.ErrEmptyDataset) {
		return ErrEmptyDataset
	}
	if errors.Is(err, engine.ErrMaxIterations) {
		return fmt.Errorf("%w: %w", ErrDidNotConverge, err)
	}

	return err
}
