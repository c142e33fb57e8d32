// Package assemblycompliance holds the bylaws deadline predicates: assembly
// notice lead, agenda proposal lead, extraordinary quorum, result
// publication delay, dues grace, and executive seat vacancy. Each rule is
// one named predicate over the policy table, so the bylaws-to-code mapping
// stays traceable.
package assemblycompliance
