/*
Package ports defines the driven ports (interfaces) of the lattice orchestrator.

These interfaces decouple the executor from process spawning, persistence and
configuration sources, so the core can be tested with fakes and wired to
different backends.

# Key Interfaces

  - CommandRunner: executes one shell command line (e.g., the process adapter).
  - RunStore: persists run records (memory, file or Redis).
  - MatrixLoader: reads a test-matrix descriptor from a source (e.g., a YAML latticefile).
  - DistributedLocker: serializes runs of the same environment across processes.
  - MatrixInspector: the read-only view used by the HTTP and MCP adapters.
*/
package ports
