/*
Package lattice runs a project's test matrix: every combination of
interpreter, test group, variant and packaging mode declared in a
latticefile.

A selector such as "py36-unit-default-dev" names one environment. Resolving
it yields a plan of install, setup and test steps; running the plan executes
each step through a shell, stopping at the first failure, and records the
outcome in an optional run store.

# Latticefile

	envlist:
	  - "{py36,py37}-{flakes,unit,all_recommended}-default-{dev,pkg}"
	groups:
	  flakes:
	    deps: flake8
	    commands: flake8
	  unit:
	    deps: pytest
	    passenv: TRAVIS TRAVIS_*
	    commands: pytest {posargs}
	  all_recommended:
	    compose: [flakes, unit]
	lint:
	  exclude: .git,build
	  ignore: E,W

Composite groups concatenate their members' commands in declared order.

# Usage

	eng, err := lattice.New("lattice.yaml", lattice.WithOutput(os.Stdout))
	if err != nil {
		log.Fatal(err)
	}
	rec, err := eng.Run(ctx, "py36-unit-default-dev", nil)

The same engine backs the lattice CLI, the read-only HTTP API and the MCP server.
*/
package lattice
