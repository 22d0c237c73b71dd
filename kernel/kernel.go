package kernel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const maxTasks = 32

// TickPeriod is the duration of one kernel tick.
const TickPeriod = time.Millisecond

type TaskID uint8

// Priority is a dispatch rank: lower values run first.
type Priority uint8

// Task is a periodic unit of execution.
//
// Step runs one iteration of the task loop and normally ends with Context.Sleep.
// A task that returns without sleeping stays ready.
type Task interface {
	Step(*Context)
}

// TaskFunc adapts a function to Task.
type TaskFunc func(*Context)

func (f TaskFunc) Step(ctx *Context) { f(ctx) }

// Spec declares a task before the kernel starts.
type Spec struct {
	Name       string
	Priority   Priority
	StackBytes uint32
	Period     time.Duration
	Task       Task
}

// TickSource delivers increasing tick numbers, one per TickPeriod.
type TickSource interface {
	Ticks() <-chan uint64
}

// Logger receives kernel and task log lines.
type Logger interface {
	WriteLineString(s string)
}

var (
	ErrStarted           = errors.New("kernel: already started")
	ErrTooManyTasks      = errors.New("kernel: too many tasks")
	ErrNilTask           = errors.New("kernel: nil task")
	ErrDuplicatePriority = errors.New("kernel: duplicate priority")
	ErrTickStarted       = errors.New("kernel: tick source already started")
	ErrTickNotStarted    = errors.New("kernel: tick source not started")
	ErrTickClosed        = errors.New("kernel: tick source closed")
	ErrTaskFault         = errors.New("kernel: task fault")
)

type taskState struct {
	spec  Spec
	due   uint64
	stats TaskStats
}

// Kernel is a fixed-priority dispatcher over a static task set.
type Kernel struct {
	mu sync.Mutex

	tasks     [maxTasks]taskState
	taskCount TaskID
	order     []TaskID

	now     uint64
	ticks   <-chan uint64
	tickOn  bool
	running bool

	current atomic.Int32
	fault   error

	log Logger

	panicOnce    sync.Once
	panicActive  atomic.Bool
	panicHandler func(PanicInfo)
}

// New creates a kernel instance.
func New() *Kernel {
	k := &Kernel{}
	k.current.Store(-1)
	return k
}

// SetLogger installs the log sink. It must be called before Run.
func (k *Kernel) SetLogger(l Logger) {
	k.mu.Lock()
	k.log = l
	k.mu.Unlock()
}

// AddTask registers a task and returns its ID.
func (k *Kernel) AddTask(spec Spec) (TaskID, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.running {
		return 0, ErrStarted
	}
	if spec.Task == nil {
		return 0, fmt.Errorf("%w: %s", ErrNilTask, spec.Name)
	}
	if k.taskCount >= maxTasks {
		return 0, ErrTooManyTasks
	}
	for _, id := range k.order {
		if other := k.tasks[id].spec; other.Priority == spec.Priority {
			return 0, fmt.Errorf("%w: %s and %s both at %d", ErrDuplicatePriority, other.Name, spec.Name, spec.Priority)
		}
	}

	id := k.taskCount
	k.taskCount++
	k.tasks[id] = taskState{
		spec:  spec,
		due:   k.now,
		stats: TaskStats{Name: spec.Name, Priority: spec.Priority, Period: spec.Period, StackBytes: spec.StackBytes},
	}
	k.order = append(k.order, id)
	sort.Slice(k.order, func(i, j int) bool {
		return k.tasks[k.order[i]].spec.Priority < k.tasks[k.order[j]].spec.Priority
	})
	return id, nil
}

// StartTick binds the tick source. It runs once, before any task sleeps.
func (k *Kernel) StartTick(src TickSource) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.tickOn {
		return ErrTickStarted
	}
	if src != nil {
		k.ticks = src.Ticks()
	}
	k.tickOn = true
	k.logf("kernel: tick source started (%s per tick)", TickPeriod)
	return nil
}

// NowTick returns the current tick.
func (k *Kernel) NowTick() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.now
}

// TickTo advances the clock to seq. Older values are ignored.
func (k *Kernel) TickTo(seq uint64) {
	k.mu.Lock()
	if seq > k.now {
		k.now = seq
	}
	k.mu.Unlock()
}

// Tick advances the clock by one tick.
func (k *Kernel) Tick() {
	k.mu.Lock()
	k.now++
	k.mu.Unlock()
}

// Current returns the task being dispatched, if any.
func (k *Kernel) Current() (TaskID, bool) {
	v := k.current.Load()
	if v < 0 {
		return 0, false
	}
	return TaskID(v), true
}

// Fault returns the error that halted the kernel, if any.
func (k *Kernel) Fault() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.fault
}

// Step dispatches one iteration of the highest-priority ready task.
//
// It reports whether a task ran.
func (k *Kernel) Step() bool {
	k.mu.Lock()
	if k.fault != nil {
		k.mu.Unlock()
		return false
	}
	id, ok := k.pickLocked()
	if !ok {
		k.mu.Unlock()
		return false
	}
	st := &k.tasks[id]
	now := k.now
	if p := ticksFor(st.spec.Period); p > 0 && now-st.due > p {
		st.stats.Overruns++
	}
	st.stats.Dispatches++
	st.stats.LastDispatch = now
	task := st.spec.Task
	name := st.spec.Name
	k.current.Store(int32(id))
	k.mu.Unlock()

	ctx := &Context{k: k, taskID: id, name: name}
	k.dispatch(ctx, task)
	k.current.Store(-1)

	k.mu.Lock()
	if ctx.sleeping {
		st.due = k.now + ctx.sleepTicks
	}
	k.mu.Unlock()
	return true
}

func (k *Kernel) dispatch(ctx *Context, task Task) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ctx.sleeping = false
		k.triggerPanic(PanicInfo{TaskID: ctx.taskID, Task: ctx.name, Value: r})

		k.mu.Lock()
		k.fault = fmt.Errorf("%w: %s: %v", ErrTaskFault, ctx.name, r)
		k.logf("kernel: task %s faulted: %v", ctx.name, r)
		k.mu.Unlock()
	}()
	task.Step(ctx)
}

func (k *Kernel) pickLocked() (TaskID, bool) {
	for _, id := range k.order {
		if k.tasks[id].due <= k.now {
			return id, true
		}
	}
	return 0, false
}

// Run dispatches tasks until ctx is done or a task faults. It never returns nil.
func (k *Kernel) Run(ctx context.Context) error {
	k.mu.Lock()
	if !k.tickOn {
		k.mu.Unlock()
		return ErrTickNotStarted
	}
	if k.running {
		k.mu.Unlock()
		return ErrStarted
	}
	k.running = true
	ticks := k.ticks
	k.logf("kernel: running %d tasks", len(k.order))
	k.mu.Unlock()

	for {
		for k.Step() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := k.drainTicks(ticks); err != nil {
				return err
			}
		}
		if err := k.Fault(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case seq, ok := <-ticks:
			if !ok {
				return ErrTickClosed
			}
			k.TickTo(seq)
		}
	}
}

func (k *Kernel) drainTicks(ticks <-chan uint64) error {
	for {
		select {
		case seq, ok := <-ticks:
			if !ok {
				return ErrTickClosed
			}
			k.TickTo(seq)
		default:
			return nil
		}
	}
}

func (k *Kernel) logf(format string, args ...any) {
	if k.log == nil {
		return
	}
	k.log.WriteLineString(fmt.Sprintf(format, args...))
}

func ticksFor(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64((d + TickPeriod - 1) / TickPeriod)
}
