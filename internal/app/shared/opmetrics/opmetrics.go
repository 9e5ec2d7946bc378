package opmetrics

import (
	"errors"

	"dragonden/internal/app/ports"
	"dragonden/internal/errs"
)

func Record(m ports.OperationMetrics, op string, err error) {
	if m == nil {
		return
	}
	switch {
	case err == nil:
		m.RecordSuccess(op)
	case errors.Is(err, errs.ErrConflict):
		m.RecordConflict(op)
	default:
		m.RecordFailure(op)
	}
}
