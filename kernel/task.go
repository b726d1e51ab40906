package kernel

// TaskState describes where a task is in its lifecycle.
type TaskState uint8

const (
	// TaskReady means the task could run if selected.
	TaskReady TaskState = iota
	// TaskRunning means the task currently owns the CPU. At most one
	// descriptor is in this state.
	TaskRunning
	// TaskWaiting means the task is blocked until one of the events in its
	// wait mask is posted.
	TaskWaiting
)

// TaskID indexes the task table.
type TaskID uint8

// EventMask is a set of per-task event bits.
type EventMask uint8

// ResourceMask is a set of system-wide resource bits.
type ResourceMask uint8

const (
	// EventNone is the empty event set.
	EventNone EventMask = 0
	// ResourceNone declares no resource interest.
	ResourceNone ResourceMask = 0
)

// TaskDescriptor is the static configuration and live state of one task.
// All descriptors are declared by the application and wired in at StartOS;
// none are created or destroyed afterwards.
type TaskDescriptor struct {
	// Anchor must remain the first field. The context-switch path locates a
	// task's saved flow through a bare descriptor reference.
	Anchor SavedContext

	// State of the task. Initial value must be TaskReady.
	State TaskState

	// Events currently set for this task.
	Events EventMask

	// WaitMask holds the events the task is waiting for.
	WaitMask EventMask

	// RequiredResources lists every resource this task may ever occupy.
	// The scheduler refuses to select the task while another task holds any
	// of these bits, which is what makes the ceiling protocol work. Immutable.
	RequiredResources ResourceMask

	// Priority of the task. Must be unique across the task table. Higher
	// values win. Immutable.
	Priority uint8

	// Entry is the task body. It must not return.
	Entry func(*TaskContext)

	// holding is the subset of resourcesOccupied this task acquired. It
	// exists only so the eligibility test can exempt a preempted holder
	// from its own ceiling; the scheduling input stays the global bitmap.
	holding ResourceMask
}

// StackAnchor returns the location of the task's saved context. It is
// reachable in O(1) from any task reference.
func (t *TaskDescriptor) StackAnchor() *SavedContext { return &t.Anchor }
