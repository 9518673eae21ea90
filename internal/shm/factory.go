package shm

// Factory creates, attaches and unlinks named regions.
type Factory interface {
	Create(name string, words int) (*Region, error)
	Attach(name string, words int) (*Region, error)
	Unlink(name string) error
}

var _ Factory = (*Memory)(nil)
