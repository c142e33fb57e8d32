// Package ballotbox records resolution and election ballots and publishes
// tallies. Each member casts at most one ballot per agenda item and per
// election position; resolution percentages are computed over expressed
// votes only (abstentions excluded), and an election position with a tied
// top count yields no winner.
package ballotbox
