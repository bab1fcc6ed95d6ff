// Package harness runs lottery evaluation scenarios as executable tests.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: risk_aversion
//	description: "A concave utility prefers the sure thing"
//	catalogs:
//	  - lotteries.cue
//	lotteries:
//	  - name: sure
//	    events: [{prob: 1, out: 45}]
//	utility:
//	  name: crra
//	  params: {r: 0.5}
//	bounds: {min: 0, max: 100}
//	assertions:
//	  - type: expected_value
//	    lottery: sure
//	    value: 45
//	  - type: choice
//	    lotteries: [sure, gamble]
//	    index: 0
//
// Catalog paths are relative to the scenario file. Inline lotteries and
// catalog lotteries share one namespace.
//
// # Assertion Types
//
//   - valid: the lottery passes deep validation (or not, with valid: false)
//   - reduces_to: the lottery reduces to the same distribution as events
//   - expected_value, expected_utility, certainty_equivalent, risk_premium:
//     the computed number is within tolerance of value
//   - choice: the best lottery under the utility is at index
//
// Any numeric assertion may instead name the error code it expects, e.g.
// error: SEARCH_DIVERGENCE.
//
// # Golden Reports
//
// Run records one report line per assertion. RunWithGolden compares the
// report against testdata/golden/{scenario.Name}.golden.
package harness
