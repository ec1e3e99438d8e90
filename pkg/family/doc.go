// Package family defines the kinship records consumed by heritage.
//
// A [Member] is one flat record keyed by its serial number (serNo). Records
// reference each other only by serNo: a member lists its children in
// [Member.ChildrenSerNos], optionally points at its father and mother, and
// optionally names a spouse. Nothing here guarantees that the references are
// consistent; the portal's data is hand-maintained and routinely contains
// dangling ids, one-sided spouse links and mismatched generation levels.
//
// [RecordSet] indexes a slice of members by serNo and is the single
// read-only resource shared between concurrent tree builds and exports.
// [RecordSet.Validate] reports soft-invariant violations as [Finding] values
// without rejecting the data.
package family
