// Package lottery provides the data model for probability-weighted outcome
// structures and the two operations every other package builds on: validation
// and reduction.
//
// A Lottery is an ordered sequence of Events. Each Event pairs a probability
// with an Outcome, which is either a Payoff or a nested SubLottery. Nesting is
// a finite tree; a lottery never (transitively) contains itself.
//
// Key design constraints:
//   - Outcome is sealed - only Payoff and SubLottery implement it
//   - Lotteries are values; no operation mutates its input
//   - Reduce never validates (callers validate first, see ValidateDeep)
//   - Only the multiset of (probability, payoff) pairs produced by Reduce is
//     a contract; event order is an artifact of pass-by-pass expansion
//   - This package never logs, prints or formats for display
package lottery
