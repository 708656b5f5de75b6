//go:build !chainset_check

package chainset

// enableInvariantChecks wires the consistency checker into the mutation
// paths. Enable it with the `chainset_check` build tag during development;
// a panic from the checker indicates a hash function that is inconsistent
// with equality.
const enableInvariantChecks = false
