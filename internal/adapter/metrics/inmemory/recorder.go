package inmemory

import (
	"sync"
)

type Counters struct {
	Success  uint64 `json:"success"`
	Conflict uint64 `json:"conflict"`
	Failure  uint64 `json:"failure"`
}

func (c Counters) Total() uint64 {
	return c.Success + c.Conflict + c.Failure
}

type Snapshot struct {
	OperationTotal    uint64              `json:"operation_total"`
	OperationSuccess  uint64              `json:"operation_success"`
	OperationConflict uint64              `json:"operation_conflict"`
	OperationFailure  uint64              `json:"operation_failure"`
	ByOperation       map[string]Counters `json:"by_operation"`
}

type Recorder struct {
	mu   sync.Mutex
	byOp map[string]Counters
}

func NewRecorder() *Recorder {
	return &Recorder{
		byOp: map[string]Counters{},
	}
}

func (r *Recorder) RecordSuccess(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.byOp[op]
	c.Success++
	r.byOp[op] = c
}

func (r *Recorder) RecordConflict(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.byOp[op]
	c.Conflict++
	r.byOp[op] = c
}

func (r *Recorder) RecordFailure(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.byOp[op]
	c.Failure++
	r.byOp[op] = c
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ByOperation: make(map[string]Counters, len(r.byOp)),
	}
	for op, c := range r.byOp {
		out.OperationSuccess += c.Success
		out.OperationConflict += c.Conflict
		out.OperationFailure += c.Failure
		out.ByOperation[op] = c
	}
	out.OperationTotal = out.OperationSuccess + out.OperationConflict + out.OperationFailure
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
