// Package addr defines the physical and virtual address types shared by the
// host API packages.
package addr

import "strconv"

// PageSize is the size of one physical frame in bytes.
const PageSize = 0x1000

// PhysAddr is a physical memory address.
type PhysAddr uintptr

// VirtAddr is a virtual memory address.
type VirtAddr uintptr

// Add returns a+off.
func (a PhysAddr) Add(off uintptr) PhysAddr { return a + PhysAddr(off) }

// AlignDown rounds a down to a multiple of align, which must be a power of two.
func (a PhysAddr) AlignDown(align uintptr) PhysAddr { return PhysAddr(alignDown(uintptr(a), align)) }

// AlignUp rounds a up to a multiple of align, which must be a power of two.
func (a PhysAddr) AlignUp(align uintptr) PhysAddr { return PhysAddr(alignUp(uintptr(a), align)) }

// IsAligned reports whether a is a multiple of align.
func (a PhysAddr) IsAligned(align uintptr) bool { return isAligned(uintptr(a), align) }

// String formats a as "PA:0x...".
func (a PhysAddr) String() string { return "PA:" + hex(uintptr(a)) }

// Add returns a+off.
func (a VirtAddr) Add(off uintptr) VirtAddr { return a + VirtAddr(off) }

// AlignDown rounds a down to a multiple of align, which must be a power of two.
func (a VirtAddr) AlignDown(align uintptr) VirtAddr { return VirtAddr(alignDown(uintptr(a), align)) }

// AlignUp rounds a up to a multiple of align, which must be a power of two.
func (a VirtAddr) AlignUp(align uintptr) VirtAddr { return VirtAddr(alignUp(uintptr(a), align)) }

// IsAligned reports whether a is a multiple of align.
func (a VirtAddr) IsAligned(align uintptr) bool { return isAligned(uintptr(a), align) }

// String formats a as "VA:0x...".
func (a VirtAddr) String() string { return "VA:" + hex(uintptr(a)) }

func alignDown(v, align uintptr) uintptr { return v &^ (align - 1) }

func alignUp(v, align uintptr) uintptr { return (v + align - 1) &^ (align - 1) }

func isAligned(v, align uintptr) bool { return v&(align-1) == 0 }

func hex(v uintptr) string { return "0x" + strconv.FormatUint(uint64(v), 16) }
