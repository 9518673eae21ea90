package segment

import "github.com/viant/grader/internal/shm"

// Control carries the pool-wide termination flag.
type Control struct {
	region *shm.Region
}

// CreateControl allocates a cleared control segment.
func CreateControl(factory shm.Factory, name string) (*Control, error) {
	region, err := create(factory, name, controlWords, controlMagic)
	if err != nil {
		return nil, err
	}
	return &Control{region: region}, nil
}

// AttachControl maps an existing control segment.
func AttachControl(factory shm.Factory, name string) (*Control, error) {
	region, err := attach(factory, name, controlWords, controlMagic)
	if err != nil {
		return nil, err
	}
	return &Control{region: region}, nil
}

// Terminate raises the termination flag on behalf of the worker ordinal.
// It returns true for the first caller only.
func (c *Control) Terminate(ordinal int) bool {
	if !c.region.CompareAndSwap(controlTerminated, 0, 1) {
		return false
	}
	c.region.Store(controlTerminatedBy, uint32(ordinal))
	return true
}

// Terminated reports whether the pool has been told to stop.
func (c *Control) Terminated() bool {
	return c.region.Load(controlTerminated) == 1
}

// TerminatedBy returns the ordinal of the worker that raised the flag.
func (c *Control) TerminatedBy() int {
	return int(c.region.Load(controlTerminatedBy))
}

// Close unmaps the segment.
func (c *Control) Close() error {
	return c.region.Close()
}
