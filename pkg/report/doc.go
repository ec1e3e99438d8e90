// Package report renders family trees and member records as text.
//
// # Tree Report
//
// [BuildTextReport] produces a header, a statistics block, and an indented
// pre-order dump with one line per member:
//
//	Ramesh (#1) - Male [K1] (Spouse: Sita)
//	  Mahesh (#2) - Male [K1]
//	    Asha (#5)
//
// Each depth level indents by exactly two spaces. The dump sits between
// [OutlineStart] and [OutlineEnd] markers, and [ParseOutline] recovers the
// parent/child adjacency from it, so a report can be checked against (or
// rebuilt into) the tree it came from.
//
// # Member Profile
//
// [BuildMemberProfile] prints one record in three fixed sections: Basic
// Info, Family Info, and Biography. The biography is word-wrapped at
// [ProfileWidth] columns.
//
// # Other Formats
//
// [WriteDOCX] writes the tree report as a Word document and [ProfileHTML]
// renders a profile page with the biography treated as Markdown.
package report
