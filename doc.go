// Package hostapi lets low-level components call capabilities supplied by the
// host that embeds them, without importing the host.
//
// A component declares a capability interface (a set of function signatures)
// and calls plain package-level functions. The host binds exactly one
// implementation to every interface at startup. Calls forward to that binding
// with no allocation and no argument rewriting.
//
// Layout:
//   - capi: the runtime (descriptors, registry, binding validation, proxies)
//   - cmd/apigen: generates a capability interface package from a
//     declaration file (*.api.json, *.api.yaml, *.api.hcl)
//   - api/addr, api/memory, api/timer: stock interfaces for frame allocation
//     and timers
//   - examples/storage, examples/host: a key/value interface and a host
//     binding everything and calling through the proxies
//
// Start with the capi package documentation and examples/host for the end to
// end flow.
package hostapi
