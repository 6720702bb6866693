/*
Package domain contains the core models of the lattice test orchestrator.

It describes the test matrix (axes, environment list, test groups, packaging
modes), the resolution of an environment selector into an executable Plan, and
the records produced by running a plan. The package is pure: it performs no I/O,
spawns no processes and knows nothing about YAML or HTTP.

# Key Entities

  - Selector: an environment address of the form {interpreter}-{group}-{variant}-{mode}.
  - TestGroup: a named bundle of dependencies and ordered commands. Composite groups
    concatenate the commands of other groups.
  - Matrix: the axes, environment list, group catalog and packaging modes.
  - Plan: the fully resolved install steps, setup steps and test commands of one environment.
  - RunRecord: the outcome of executing a Plan.
  - LintRule: include/exclude globs and suppressed diagnostic codes for static analysis.
*/
package domain
