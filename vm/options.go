package vm

// Option is a configuration function for a Machine.
type Option func(*Machine)

// WithRAM sets an initial RAM value, applied on every reset. It may override
// the default pointer values (SP=256, LCL=300, ARG=400, THIS=3000, THAT=3010).
func WithRAM(addr int, value int16) Option {
	return func(m *Machine) {
		m.initial[addr&(RAMSize-1)] = value
	}
}

// WithStackBase sets the first stack cell. The initial SP is set to base.
func WithStackBase(base int) Option {
	return func(m *Machine) {
		m.base = base & (RAMSize - 1)
		m.initial[0] = int16(m.base)
	}
}

// WithMaxSteps sets the number of instructions after which Run gives up.
func WithMaxSteps(steps int) Option {
	return func(m *Machine) {
		m.maxSteps = steps
	}
}

// WithContextCheckInterval sets how often Run checks ctx.Done(), in
// instructions. A value of 0 disables the check.
func WithContextCheckInterval(interval int) Option {
	return func(m *Machine) {
		m.contextCheckInterval = interval
	}
}

// WithObserver sets an observer that is called before every instruction.
func WithObserver(observer Observer) Option {
	return func(m *Machine) {
		m.observer = observer
	}
}
