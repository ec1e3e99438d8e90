package family

import (
	"fmt"
	"slices"

	"github.com/matzehuels/heritage/pkg/errors"
)

// RecordSet is an immutable index of members by serNo.
//
// The zero value is an empty set. A RecordSet is safe for concurrent reads;
// accessors hand out copies so callers cannot mutate the shared records.
type RecordSet struct {
	byID  map[int]Member
	order []int
}

// NewRecordSet indexes members by serNo, preserving input order.
// It fails with INVALID_INPUT when a serNo is not positive or appears twice.
func NewRecordSet(members []Member) (*RecordSet, error) {
	s := &RecordSet{
		byID:  make(map[int]Member, len(members)),
		order: make([]int, 0, len(members)),
	}
	for _, m := range members {
		if err := errors.ValidateSerNo(m.SerNo); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "member %q", m.Name)
		}
		if _, dup := s.byID[m.SerNo]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate serNo %d", m.SerNo)
		}
		s.byID[m.SerNo] = m.Clone()
		s.order = append(s.order, m.SerNo)
	}
	return s, nil
}

// Len returns the number of members.
func (s *RecordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Get returns a copy of the member with the given serNo.
func (s *RecordSet) Get(serNo int) (Member, bool) {
	if s == nil {
		return Member{}, false
	}
	m, ok := s.byID[serNo]
	if !ok {
		return Member{}, false
	}
	return m.Clone(), true
}

// Has reports whether serNo is present.
func (s *RecordSet) Has(serNo int) bool {
	if s == nil {
		return false
	}
	_, ok := s.byID[serNo]
	return ok
}

// Members returns copies of all members in input order.
func (s *RecordSet) Members() []Member {
	if s == nil {
		return nil
	}
	out := make([]Member, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id].Clone()
	}
	return out
}

// SerNos returns all serial numbers in ascending order.
func (s *RecordSet) SerNos() []int {
	if s == nil {
		return nil
	}
	ids := slices.Clone(s.order)
	slices.Sort(ids)
	return ids
}

// FindingKind classifies a soft-invariant violation.
type FindingKind string

const (
	FindingDanglingChild        FindingKind = "dangling_child"
	FindingDanglingParent       FindingKind = "dangling_parent"
	FindingDanglingSpouse       FindingKind = "dangling_spouse"
	FindingAsymmetricSpouse     FindingKind = "asymmetric_spouse"
	FindingMissingBackReference FindingKind = "missing_back_reference"
	FindingLevelMismatch        FindingKind = "level_mismatch"
)

// Finding describes one inconsistency between records.
type Finding struct {
	Kind  FindingKind
	SerNo int // record the finding is about
	Ref   int // referenced serNo
	Msg   string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s #%d -> #%d: %s", f.Kind, f.SerNo, f.Ref, f.Msg)
}

// Validate reports soft-invariant violations. It never fails: inconsistent
// records are still usable by the tree builder, which tolerates them.
// Findings are ordered by serNo, then by the order checks run.
func (s *RecordSet) Validate() []Finding {
	var out []Finding
	for _, id := range s.SerNos() {
		m := s.byID[id]

		for _, c := range m.ChildrenSerNos {
			child, ok := s.byID[c]
			if !ok {
				out = append(out, Finding{FindingDanglingChild, id, c, "child record not found"})
				continue
			}
			if !isParentOf(id, child) {
				out = append(out, Finding{FindingMissingBackReference, id, c, "child does not name this member as father or mother"})
			}
			if m.Level > 0 && child.Level > 0 && child.Level != m.Level+1 {
				out = append(out, Finding{FindingLevelMismatch, id, c,
					fmt.Sprintf("child level %d, expected %d", child.Level, m.Level+1)})
			}
		}

		for _, p := range []*int{m.FatherSerNo, m.MotherSerNo} {
			if p != nil && !s.Has(*p) {
				out = append(out, Finding{FindingDanglingParent, id, *p, "parent record not found"})
			}
		}

		if m.Spouse != nil && m.Spouse.SerNo != 0 {
			sp, ok := s.byID[m.Spouse.SerNo]
			switch {
			case !ok:
				out = append(out, Finding{FindingDanglingSpouse, id, m.Spouse.SerNo, "spouse record not found"})
			case sp.Spouse == nil || sp.Spouse.SerNo != id:
				out = append(out, Finding{FindingAsymmetricSpouse, id, m.Spouse.SerNo, "spouse does not point back"})
			}
		}
	}
	return out
}

func isParentOf(parent int, child Member) bool {
	return (child.FatherSerNo != nil && *child.FatherSerNo == parent) ||
		(child.MotherSerNo != nil && *child.MotherSerNo == parent)
}
