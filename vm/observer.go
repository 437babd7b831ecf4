package vm

// StepEvent describes the machine state just before an instruction executes.
type StepEvent struct {
	PC   int
	Word uint16
	A    int16
	D    int16
	Step int
}

// Observer receives execution events. This enables tracers and debuggers
// without modifying the machine.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast. Returning false halts execution.
type Observer interface {
	OnStep(event StepEvent) bool
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(event StepEvent) bool

// OnStep calls f(event).
func (f ObserverFunc) OnStep(event StepEvent) bool {
	return f(event)
}
