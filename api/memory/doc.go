// Package memory is the memory capability interface of the host: frame
// allocation and physical/virtual address translation.
//
// Components call the package functions directly:
//
//	paddr, ok := memory.AllocFrame()
//	if !ok {
//		return errOutOfMemory
//	}
//	defer memory.DeallocFrame(paddr)
//
// The host binds exactly one implementation at startup with MustBind. Calling
// any function before that panics with a *capi.ConfigurationError.
package memory

//go:generate go run github.com/sghaida/hostapi/cmd/apigen -spec memory.api.yaml
