// Package timer is the time and timer capability interface of the host.
//
// TimeValue is measured from a host-defined epoch, usually boot. Callbacks
// registered with RegisterTimer run on a host goroutine and must not block.
package timer

//go:generate go run github.com/sghaida/hostapi/cmd/apigen -spec timer.api.json
