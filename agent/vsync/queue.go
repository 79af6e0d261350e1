package vsync

import (
	"sync"

	"github.com/golang/glog"
	"github.com/lainio/err2"
)

// jobBuffer is a short performance buffer per vault queue.
const jobBuffer = 16

// queues runs one worker goroutine per vault id. Jobs enqueued for the same
// vault execute strictly one at a time in enqueue order; a failing job never
// stalls the ones queued behind it. Different vaults run independently.
type queues struct {
	m      map[string]chan func()
	l      sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

func newQueues() *queues {
	return &queues{m: make(map[string]chan func())}
}

// enqueue chains the job after the previous one for the same vault id. The
// worker is started lazily on the vault's first job. The send happens inside
// the critical section: close() cannot slip between the closed-check and the
// send, the channels are closed only under the same lock.
func (q *queues) enqueue(vaultID string, job func()) {
	q.l.Lock()
	defer q.l.Unlock()

	if q.closed {
		glog.Warningln("fold queue closed, dropping job for:", vaultID)
		return
	}
	ch, ok := q.m[vaultID]
	if !ok {
		ch = make(chan func(), jobBuffer)
		q.m[vaultID] = ch
		q.wg.Add(1)
		go q.work(vaultID, ch)
	}
	ch <- job
}

func (q *queues) work(vaultID string, ch chan func()) {
	defer q.wg.Done()

	glog.V(3).Infoln("fold worker started for:", vaultID)
	for job := range ch {
		q.run(job)
	}
	glog.V(3).Infoln("fold worker stopped for:", vaultID)
}

// run executes one job and keeps the worker alive whatever the job does.
func (q *queues) run(job func()) {
	defer err2.Catch(func(err error) error {
		glog.Error("fold job panic:", err)
		return nil
	})
	job()
}

// flush blocks until every job enqueued before the call has executed. After
// close it is a no-op, the workers have already drained their channels.
func (q *queues) flush() {
	q.l.Lock()
	if q.closed {
		q.l.Unlock()
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(q.m))
	for _, ch := range q.m {
		ch <- wg.Done
	}
	q.l.Unlock()

	wg.Wait()
}

// close stops all workers after their queued jobs have run.
func (q *queues) close() {
	q.l.Lock()
	if q.closed {
		q.l.Unlock()
		return
	}
	q.closed = true
	for _, ch := range q.m {
		close(ch)
	}
	q.l.Unlock()

	q.wg.Wait()
}
