package memory

// PhysFrame owns one physical frame obtained from AllocFrame. Release returns
// the frame to the host; a released PhysFrame owns nothing. A PhysFrame is not
// safe for concurrent use.
type PhysFrame struct {
	start PhysAddr
	owned bool
}

// AllocPhysFrame allocates a frame through the bound implementation. It
// reports false when the host is out of frames.
func AllocPhysFrame() (*PhysFrame, bool) {
	paddr, ok := AllocFrame()
	if !ok {
		return nil, false
	}
	return &PhysFrame{start: paddr, owned: true}, true
}

// StartPAddr returns the physical start address of the frame.
func (f *PhysFrame) StartPAddr() PhysAddr { return f.start }

// StartVAddr returns the frame start as seen through the host mapping.
func (f *PhysFrame) StartVAddr() VirtAddr { return PhysToVirt(f.start) }

// Owned reports whether the frame has not been released yet.
func (f *PhysFrame) Owned() bool { return f.owned }

// Release returns the frame with DeallocFrame. Further calls do nothing.
func (f *PhysFrame) Release() {
	if !f.owned {
		return
	}
	f.owned = false
	DeallocFrame(f.start)
}
