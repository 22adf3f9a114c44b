// Package harness runs end-to-end story scenarios described in YAML.
//
// A scenario fixes everything that is random or external in production:
// the roll (a scripted die order and faces, or a seed), the wall clock, the
// request IDs and the model answers. Run executes the real pipeline
// (dice, prompt, store, document) in a temporary working directory against
// the fixture catalog, then evaluates the scenario's assertions.
//
// Example scenario:
//
//	name: krimi_spiegel
//	description: Krimi story titled from the first answer line
//	genre: Krimi
//	roll:
//	  dice: [9, 8, 7, 6, 5, 4, 3, 2, 1]
//	  faces: [1, 2, 3, 4, 5, 6, 1, 2, 3]
//	answers:
//	  - "### Der Spiegel (Krimi)\nEs war..."
//	assertions:
//	  - type: title
//	    value: Der Spiegel
//	  - type: thema_headers
//	    count: 3
//
// The pipeline log is captured as the trace; trace_order and trace_count
// assertions match log messages such as "dice rolled" or "story published".
//
// Golden files compare the first rendered document:
//
//	go test ./internal/harness -update
package harness
