// Package expenseapproval runs the co-signature workflow for financial
// transactions. Every required officer role must sign before a transaction
// is released; each role signs at most once, and a fully approved
// transaction is immutable.
package expenseapproval
