// Package compiler orchestrates the full pipeline spec.md §1 describes:
// read, parse ([go.jacobcolvin.com/avdl/internal/grammar]), walk
// ([go.jacobcolvin.com/avdl/walker]), recursively resolve imports
// ([go.jacobcolvin.com/avdl/importer]), register and bind every named
// reference ([go.jacobcolvin.com/avdl/registry]), and finally hand the
// resulting model to [go.jacobcolvin.com/avdl/serialize].
//
// Compile (for a protocol) and CompileSchema (for a standalone schema) are
// the two entry points `cmd/idl` drives; CompileSchemata, which `cmd/idl2schemata`
// drives, compiles a protocol or a bag of named schemas on its own and returns
// every named schema in the registry for one-file-per-type output. Every entry point takes a fresh [importer.Context] per call, so
// two independent compiles in the same process never share cycle-detection
// state (SPEC_FULL's supplemented-feature note on this).
package compiler
