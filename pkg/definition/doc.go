// Package definition loads transition tables from YAML.
//
// A definition names the initial state, the fail-fast policy and, for every
// source state, its targets. A target is either "allow" or a mapping naming a
// guard hook that is resolved through a Registry:
//
//	initial: default
//	fail_fast: true
//	states:
//	  default:
//	    next: allow
//	    last: { guard: must_be_ready }
//	  next:
//	    last: allow
//	  last: {}
//
// Hooks are Go code, so the file only references them by name:
//
//	def, err := definition.LoadFile("machine.yaml")
//	m, err := def.NewMachine(definition.Registry{"must_be_ready": checkReady}, statemachine.WithLogger(log))
package definition
