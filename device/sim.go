package device

import (
	"context"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/hupe1980/kmeansgo/distance"
	"github.com/hupe1980/kmeansgo/internal/chunk"
)

// SimOptions configure the simulated device.
type SimOptions struct {
	// Name identifies the device. Defaults to "sim".
	Name string

	// Lanes is the kernel fan-out width. Zero or negative selects
	// runtime.GOMAXPROCS(0).
	Lanes int

	// MemoryBytes caps the bytes an offload region may stage on the device.
	// Zero means unlimited.
	MemoryBytes int64

	// TransferBytesPerSec throttles host<->device copies to model interconnect
	// bandwidth. Zero means unthrottled.
	TransferBytesPerSec int64
}

// Sim is a host-simulated device. It is safe for concurrent use; concurrent
// Assign calls serialize, mirroring a single command queue.
type Sim struct {
	info Info

	invokeSem *semaphore.Weighted
	memSem    *semaphore.Weighted // nil if unlimited
	xfer      *rate.Limiter       // nil if unthrottled

	closed atomic.Bool

	invocations atomic.Int64
	workItems   atomic.Int64
	bytesIn     atomic.Int64
	bytesOut    atomic.Int64
}

var _ Device = (*Sim)(nil)

// NewSim creates a simulated device.
func NewSim(optFns ...func(*SimOptions)) *Sim {
	o := SimOptions{
		Name: "sim",
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.Lanes <= 0 {
		o.Lanes = runtime.GOMAXPROCS(0)
	}

	s := &Sim{
		info: Info{
			Name:        o.Name,
			Lanes:       o.Lanes,
			MemoryBytes: o.MemoryBytes,
		},
		invokeSem: semaphore.NewWeighted(1),
	}

	if o.MemoryBytes > 0 {
		s.memSem = semaphore.NewWeighted(o.MemoryBytes)
	}

	if o.TransferBytesPerSec > 0 {
		s.xfer = rate.NewLimiter(rate.Limit(o.TransferBytesPerSec), int(o.TransferBytesPerSec))
	}

	return s
}

// Info implements Device.
func (s *Sim) Info() Info {
	return s.info
}

// Close implements Device.
func (s *Sim) Close() error {
	s.closed.Store(true)
	return nil
}

// Stats is a snapshot of the device counters.
type Stats struct {
	Invocations int64
	WorkItems   int64
	BytesIn     int64
	BytesOut    int64
}

// Stats returns a snapshot of transfer and kernel counters.
func (s *Sim) Stats() Stats {
	return Stats{
		Invocations: s.invocations.Load(),
		WorkItems:   s.workItems.Load(),
		BytesIn:     s.bytesIn.Load(),
		BytesOut:    s.bytesOut.Load(),
	}
}

// Assign implements Device.
func (s *Sim) Assign(ctx context.Context, in AssignInput) (AssignOutput, error) {
	if s.closed.Load() {
		return AssignOutput{}, ErrClosed
	}

	n := len(in.PX)
	k := len(in.CX)
	if len(in.PY) != n {
		return AssignOutput{}, &ErrShapeMismatch{Field: "PY", Want: n, Got: len(in.PY)}
	}
	if len(in.Labels) != n {
		return AssignOutput{}, &ErrShapeMismatch{Field: "Labels", Want: n, Got: len(in.Labels)}
	}
	if len(in.CY) != k {
		return AssignOutput{}, &ErrShapeMismatch{Field: "CY", Want: k, Got: len(in.CY)}
	}

	// One command queue: offload regions never overlap.
	if err := s.invokeSem.Acquire(ctx, 1); err != nil {
		return AssignOutput{}, err
	}
	defer s.invokeSem.Release(1)

	// PX, PY (8 bytes each) and Labels (4) per point, CX, CY per centroid,
	// plus the result labels. Everything lives on the device for the whole
	// region.
	inBytes := int64(n)*20 + int64(k)*16
	outBytes := int64(n) * 4
	regionBytes := inBytes + outBytes

	// Device allocations either fit or fail. Nothing waits for memory to free
	// up because regions are serialized anyway.
	if s.memSem != nil {
		if !s.memSem.TryAcquire(regionBytes) {
			return AssignOutput{}, &ErrOutOfMemory{Required: regionBytes, Capacity: s.info.MemoryBytes}
		}
		defer s.memSem.Release(regionBytes)
	}

	// Host -> device.
	if err := s.transfer(ctx, inBytes); err != nil {
		return AssignOutput{}, err
	}
	px := slices.Clone(in.PX)
	py := slices.Clone(in.PY)
	cx := slices.Clone(in.CX)
	cy := slices.Clone(in.CY)
	labels := slices.Clone(in.Labels)
	out := make([]int32, n)

	// Kernel: one work-item per point, fanned out across lanes. Once launched
	// the region runs to completion; cancellation applies to queueing and
	// transfers, not to a kernel in flight.
	ranges := chunk.Ranges(n, s.info.Lanes)
	changedBy := make([]int, len(ranges))

	var wg sync.WaitGroup
	for lane, r := range ranges {
		wg.Add(1)
		go func() {
			defer wg.Done()
			changed := 0
			for i := r.Start; i < r.End; i++ {
				best := int32(distance.Nearest(px[i], py[i], cx, cy))
				out[i] = best
				if best != labels[i] {
					changed++
				}
			}
			changedBy[lane] = changed
		}()
	}
	wg.Wait()

	changed := 0
	for _, c := range changedBy {
		changed += c
	}

	// Device -> host. The region's buffers die here; only the copy survives.
	if err := s.transfer(ctx, outBytes); err != nil {
		return AssignOutput{}, err
	}
	result := slices.Clone(out)

	s.invocations.Add(1)
	s.workItems.Add(int64(n))
	s.bytesIn.Add(inBytes)
	s.bytesOut.Add(outBytes)

	return AssignOutput{Labels: result, Changed: changed}, nil
}

// transfer waits out the bandwidth budget for moving bytes across the
// boundary. Large transfers are split so a single copy may exceed the
// limiter's burst.
func (s *Sim) transfer(ctx context.Context, bytes int64) error {
	if s.xfer == nil {
		return nil
	}

	burst := int64(s.xfer.Burst())
	for bytes > 0 {
		n := min(bytes, burst)
		if err := s.xfer.WaitN(ctx, int(n)); err != nil {
			return err
		}
		bytes -= n
	}

	return nil
}
