package scanner

import "sync/atomic"

// DefaultProgressBatch bounds how often the progress callback fires.
const DefaultProgressBatch = 10

// Progress counts processed symbols for one run and reports batched
// percentages. Safe for concurrent Increment from many workers; discarded
// at run end.
type Progress struct {
	total     int64
	batch     int64
	processed atomic.Int64
	callback  func(pct int)
}

// NewProgress creates a tracker over total symbols. callback may be nil.
func NewProgress(total int, callback func(pct int)) *Progress {
	return &Progress{total: int64(total), batch: DefaultProgressBatch, callback: callback}
}

// Increment marks one symbol processed. The callback fires at most once per
// batch and always at 100%.
func (p *Progress) Increment() {
	n := p.processed.Add(1)
	if p.callback == nil || p.total <= 0 || n > p.total {
		return
	}
	if n%p.batch == 0 || n == p.total {
		p.callback(int(n * 100 / p.total))
	}
}

// Processed reports how many symbols have completed so far.
func (p *Progress) Processed() int {
	return int(p.processed.Load())
}
