// Package universe tracks the set of symbols the collector gathers data
// for.
//
// The tracked set is seeded from the account's brokerage watchlists and
// reconciled on an interval, so edits made in the vendor UI propagate
// without a restart. Consumers read the current set via Symbols() or
// subscribe to Updates() for resubscription.
package universe
