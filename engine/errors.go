package engine

import "errors"

// ErrEmptyDataset is returned when Run is called with no points.
//
// This is an engine-layer sentinel used internally; the kmeansgo package
// translates it into its public error contract.
var ErrEmptyDataset = errors.New("empty dataset")

// ErrMaxIterations is returned together with a still-valid Solution when the
// iteration cap is reached before the churn threshold is met.
var ErrMaxIterations = errors.New("maximum iterations reached")

// ErrNilDevice is returned by the offload engine when no device is configured.
var ErrNilDevice = errors.New("offload engine requires a device")
