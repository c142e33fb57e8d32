// Package membershiplifecycle derives a member's current standing (pending,
// active, lapsed, expelled) from dues-payment and disciplinary history inside
// the governance context.
//
// Status is never stored as a mutable fact: EvaluateStatus recomputes it from
// records on every call, and PersistStatus writes the result through as an
// auditable cached projection. Every other governance module that needs
// "is this member active" consumes this evaluator through a port.
package membershiplifecycle
