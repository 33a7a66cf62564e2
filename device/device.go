// Package device models the accelerator side of the offload engine: a
// synchronous offload region with explicit input and output transfers and a
// memory space separate from the host's.
//
// The Device interface deliberately exposes a single kernel, nearest-centroid
// reassignment, because that is the only O(n*k) step worth shipping out. The
// Sim implementation executes the kernel on host goroutines ("lanes") while
// enforcing device-like rules: buffers are copied across the boundary rather
// than shared, capacity is finite, and invocations never overlap.
package device

import (
	"context"
	"errors"
	"fmt"
)

// Info describes static device properties.
type Info struct {
	// Name identifies the device in logs and reports.
	Name string

	// Lanes is the number of work-item executors the kernel fans out over.
	Lanes int

	// MemoryBytes is the buffer capacity of the device. Zero means unlimited.
	MemoryBytes int64
}

// AssignInput is everything the reassignment kernel reads. Coordinates use a
// structure-of-arrays layout: PX[i], PY[i] form point i and CX[j], CY[j] form
// centroid j. Labels carries the current assignment of every point.
//
// All slices are copied into device memory on invocation; the kernel never
// aliases host memory.
type AssignInput struct {
	PX, PY []float64
	CX, CY []float64
	Labels []int32
}

// AssignOutput is what the kernel transfers back.
type AssignOutput struct {
	// Labels is a fresh host slice holding the nearest-centroid index of every
	// point, ties resolved toward the lowest index.
	Labels []int32

	// Changed is the number of positions where Labels differs from the input.
	Changed int
}

// Device executes reassignment kernels.
type Device interface {
	// Info returns static device properties.
	Info() Info

	// Assign runs one offload region: transfer the inputs in, classify every
	// point against the centroids, transfer the labels out. It blocks until
	// the region completes. Regions never overlap on the same device.
	Assign(ctx context.Context, in AssignInput) (AssignOutput, error)

	// Close releases the device. Assign calls after Close fail with ErrClosed.
	Close() error
}

var (
	// ErrClosed is returned by Assign after the device has been closed.
	ErrClosed = errors.New("device closed")
)

// ErrShapeMismatch indicates an AssignInput whose slices disagree in length.
type ErrShapeMismatch struct {
	Field string
	Want  int
	Got   int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("assign input %s: want length %d, got %d", e.Field, e.Want, e.Got)
}

// ErrOutOfMemory indicates that an offload region's buffers exceed the device
// capacity. The region is rejected as a whole; no partial state is left on
// the device.
type ErrOutOfMemory struct {
	Required int64
	Capacity int64
}

func (e *ErrOutOfMemory) Error() string {
	return fmt.Sprintf("device out of memory: region needs %d bytes, capacity %d", e.Required, e.Capacity)
}
