// Command apigen generates capability interface packages for the capi runtime.
//
// A low-level component describes the capabilities it needs from its host in
// a declaration file next to its sources and adds a go:generate line:
//
//	//go:generate go run github.com/sghaida/hostapi/cmd/apigen -spec memory.api.yaml
//
// apigen then writes memory_api.gen.go containing:
//
//   - type aliases, re-exports and constants listed in the file
//   - InterfaceID and API, the interface descriptor declared in capi.Default()
//   - one plain function per capability function that forwards to the bound
//     implementation, so callers never see the proxy machinery
//   - Implementation, a Go interface listing every function, and Bind/MustBind,
//     so a host binding is checked by the compiler as well as by capi
//
// Declaration files
//
// JSON (*.api.json) and YAML (*.api.yaml, *.api.yml) use the same schema:
//
//	package: memory
//	doc: Memory-related API
//	imports:
//	  - path: github.com/sghaida/hostapi/api/addr
//	reexports:
//	  - type: addr.PhysAddr
//	functions:
//	  - name: AllocFrame
//	    doc: allocates one physical frame.
//	    results:
//	      - type: PhysAddr
//	      - type: bool
//
// HCL (*.api.hcl) spells lists as labelled blocks:
//
//	package = "storage"
//
//	function "Read" {
//	  param "key" { type = "[]byte" }
//	  result { type = "[]byte" }
//	  result { type = "bool" }
//	}
//
// A variadic last parameter is written with a leading "..." in its type.
// When id is omitted it defaults to the import path of the output directory,
// computed from the nearest go.mod.
//
// Modes
//
//	apigen -spec f.api.yaml [-out f_api.gen.go]   one file
//	apigen -dir ./api [-j 4]                       every declaration file under a tree
//	apigen -dir ./api -watch                       regenerate on change until interrupted
//
// Configuration
//
// Flags fall back to environment variables: APIGEN_CAPI_IMPORT (capi runtime
// import path), APIGEN_LOG_LEVEL (debug|info|warn|error), APIGEN_DEBOUNCE
// (watch quiet period) and APIGEN_JOBS (-dir concurrency).
//
// Generated files start with "Code generated by apigen; DO NOT EDIT." and
// record the declaration file name and its SHA-256.
package main
