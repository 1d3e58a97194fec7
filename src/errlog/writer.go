package errlog

import (
	"context"
	"sync/atomic"
	"time"

	logger "github.com/sirupsen/logrus"

	"schoolapi/src/model"
)

// Persister performs one durable insert per call. Implementations return
// an error result instead of panicking.
type Persister interface {
	Persist(ctx context.Context, rec *model.ErrorLog) error
}

// Notifier is told about fatal-class records after they were accepted for
// persistence. Implementations must not block for long and must not fail
// the pipeline.
type Notifier interface {
	NotifyFatal(ctx context.Context, rec *model.ErrorLog)
}

type entry struct {
	rec   *model.ErrorLog
	fatal bool
}

const persistTimeout = 5 * time.Second

// Writer drains a bounded queue of log records on a single background
// goroutine. When the queue is full the oldest pending record is dropped
// and counted; enqueueing never blocks request handling. Writes run on
// their own context, so a cancelled request does not cancel its log write.
type Writer struct {
	persister Persister
	fallback  *FallbackLog
	notifier  Notifier

	ch      chan entry
	done    chan struct{}
	dropped atomic.Uint64
}

func NewWriter(persister Persister, fallback *FallbackLog, notifier Notifier, queueSize int) *Writer {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Writer{
		persister: persister,
		fallback:  fallback,
		notifier:  notifier,
		ch:        make(chan entry, queueSize),
		done:      make(chan struct{}),
	}
}

// Start launches the drain loop. Call exactly once.
func (w *Writer) Start() {
	go w.run()
}

func (w *Writer) run() {
	defer close(w.done)
	for e := range w.ch {
		w.write(e)
	}
}

// Enqueue hands a record to the background worker. On overflow the oldest
// pending record is dropped with a warning.
func (w *Writer) Enqueue(rec *model.ErrorLog, fatal bool) {
	e := entry{rec: rec, fatal: fatal}
	select {
	case w.ch <- e:
		return
	default:
	}

	select {
	case old := <-w.ch:
		w.dropped.Add(1)
		logger.WithField("tracingId", old.rec.TracingID).
			Warn("error log queue full, dropped oldest pending record")
	default:
	}

	select {
	case w.ch <- e:
	default:
		w.dropped.Add(1)
		logger.WithField("tracingId", rec.TracingID).
			Warn("error log queue full, record dropped")
	}
}

// Dropped returns how many records were lost to queue overflow.
func (w *Writer) Dropped() uint64 {
	return w.dropped.Load()
}

// Close stops accepting records and waits up to timeout for the queue to
// drain.
func (w *Writer) Close(timeout time.Duration) {
	close(w.ch)
	select {
	case <-w.done:
	case <-time.After(timeout):
		logger.Warn("error log writer did not drain before shutdown")
	}
}

func (w *Writer) write(e entry) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := w.persister.Persist(ctx, e.rec); err != nil {
		w.fallback.Write(err, e.rec)
		return
	}

	if e.fatal && w.notifier != nil {
		w.notifier.NotifyFatal(ctx, e.rec)
	}
}
