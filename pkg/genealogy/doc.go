// Package genealogy reconstructs family trees from flat kinship records.
//
// # Overview
//
// A [Graph] wraps a read-only [family.RecordSet] and answers three questions:
//
//   - [Graph.BuildTree]: the descendant tree rooted at a member
//   - [Graph.Parents]: a member's father and mother records
//   - [Graph.Children]: a member's resolvable children, in recorded order
//
// # Descent
//
// Descent follows ChildrenSerNos only. Spouse links and father/mother
// pointers are never used to descend, so a marriage between relatives can
// not create a loop in the tree.
//
// # Damaged Data
//
// Records are hand-maintained and the builder tolerates damage instead of
// failing:
//
//   - a child id with no record is skipped ([WarnMissingChild])
//   - a child id that is already on the path from the root is not expanded
//     again ([WarnCycle]); its siblings still are
//   - a member reachable through two different parents appears once, at its
//     first pre-order position ([WarnDuplicate])
//   - a spouse id with no record leaves the spouse attributes empty
//     ([WarnMissingSpouse])
//
// Warnings are returned with the tree and logged at warn level. Only a
// missing root is an error (NOT_FOUND), and then no tree is returned.
//
// # Lifetime
//
// Every BuildTree call produces a fresh [Tree]. Trees are not mutated after
// they are returned and nothing is cached between calls, so concurrent
// builds over the same Graph are safe.
package genealogy
