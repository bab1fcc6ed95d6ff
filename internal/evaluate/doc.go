// Package evaluate computes expected values, expected utilities, certainty
// equivalents and risk premia of lotteries.
//
// Data flow:
//  1. Entry points validate the whole lottery tree (lottery.ValidateDeep)
//  2. The lottery is reduced to a flat distribution (lottery.Reduce)
//  3. Probability-weighted sums are taken over the flat distribution
//  4. The certainty-equivalent solver inverts the utility function by
//     bisection on a caller-supplied interval
//
// Validation at entry is a hardening over plain reduction: malformed input
// fails with an INVALID_LOTTERY error instead of producing a numerically
// wrong result.
//
// Everything here is synchronous and pure. Nothing is printed or logged;
// results are returned to the caller. Errors from the utility function are
// returned untouched.
//
// The solver assumes the utility function is monotone increasing on the
// search interval. That precondition is not checked; a violated precondition
// (or a target utility outside [u(min), u(max)]) ends in a
// SEARCH_DIVERGENCE error once the iteration cap is reached.
package evaluate
