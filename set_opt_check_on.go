//go:build chainset_check

package chainset

// enableInvariantChecks wires the consistency checker into the mutation
// paths. A panic from the checker indicates a hash function that is
// inconsistent with equality.
const enableInvariantChecks = true
