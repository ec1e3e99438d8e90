package genealogy

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/family"
)

// Graph resolves kinship relations over a record set.
// It holds no mutable state and is safe for concurrent use.
type Graph struct {
	records *family.RecordSet
	logger  *log.Logger
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger that receives build warnings.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Graph over records.
func New(records *family.RecordSet, opts ...Option) *Graph {
	g := &Graph{
		records: records,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Records returns the underlying record set.
func (g *Graph) Records() *family.RecordSet { return g.records }

// Member returns the record for serNo or a NOT_FOUND error.
func (g *Graph) Member(serNo int) (family.Member, error) {
	m, ok := g.records.Get(serNo)
	if !ok {
		return family.Member{}, errors.New(errors.ErrCodeNotFound, "member #%d not found", serNo)
	}
	return m, nil
}

// BuildTree expands the descendants of rootSerNo in pre-order.
//
// It fails with NOT_FOUND when the root has no record. Every other problem
// is recorded as a [Warning] on the returned tree; see the package
// documentation for the rules. The number of nodes equals the number of
// distinct serNos reachable from the root over ChildrenSerNos.
func (g *Graph) BuildTree(rootSerNo int) (*Tree, error) {
	root, err := g.Member(rootSerNo)
	if err != nil {
		return nil, err
	}

	b := &builder{
		g:        g,
		onPath:   map[int]bool{},
		emitted:  map[int]bool{},
		warnings: nil,
	}
	tree := &Tree{Root: b.expand(root)}
	tree.Warnings = b.warnings

	g.logger.Debug("built tree", "root", rootSerNo, "nodes", len(b.emitted), "warnings", len(b.warnings))
	return tree, nil
}

type builder struct {
	g        *Graph
	onPath   map[int]bool // serNos currently being expanded, root to here
	emitted  map[int]bool
	warnings []Warning
}

func (b *builder) warn(w Warning) {
	w.Message = w.describe()
	b.warnings = append(b.warnings, w)
	b.g.logger.Warn(w.Message, "kind", w.Kind, "serNo", w.SerNo, "parent", w.ParentSerNo)
}

func (b *builder) expand(m family.Member) *TreeNode {
	b.onPath[m.SerNo] = true
	b.emitted[m.SerNo] = true
	defer delete(b.onPath, m.SerNo)

	node := &TreeNode{
		Name:       m.Name,
		Attributes: b.attributes(m),
	}

	for _, id := range m.ChildrenSerNos {
		switch {
		case b.onPath[id]:
			b.warn(Warning{Kind: WarnCycle, SerNo: id, ParentSerNo: m.SerNo})
			continue
		case b.emitted[id]:
			b.warn(Warning{Kind: WarnDuplicate, SerNo: id, ParentSerNo: m.SerNo})
			continue
		}
		child, ok := b.g.records.Get(id)
		if !ok {
			b.warn(Warning{Kind: WarnMissingChild, SerNo: id, ParentSerNo: m.SerNo})
			continue
		}
		node.Children = append(node.Children, b.expand(child))
	}
	return node
}

func (b *builder) attributes(m family.Member) Attributes {
	a := Attributes{
		SerNo:            m.SerNo,
		Gender:           m.EffectiveGender(),
		Vansh:            m.Vansh,
		Level:            m.Level,
		SonDaughterCount: m.SonDaughterCount,
		Biography:        m.Biography,
		Occupation:       m.Occupation,
		DateOfBirth:      m.DateOfBirth,
	}
	if m.Spouse == nil || m.Spouse.SerNo == 0 {
		return a
	}
	// Whatever record sits at the spouse's serNo is used, even when it
	// names someone else as its spouse.
	spouse, ok := b.g.records.Get(m.Spouse.SerNo)
	if !ok {
		b.warn(Warning{Kind: WarnMissingSpouse, SerNo: m.Spouse.SerNo, ParentSerNo: m.SerNo})
		return a
	}
	a.SpouseName = spouse.Name
	a.SpouseSerNo = spouse.SerNo
	return a
}

// Parents holds a member's resolved parents. Either may be nil.
type Parents struct {
	Father *family.Member
	Mother *family.Member
}

// Parents looks up the father and mother records of serNo. A parent whose
// reference is absent or dangling is nil. It fails with NOT_FOUND only when
// serNo itself has no record.
func (g *Graph) Parents(serNo int) (Parents, error) {
	m, err := g.Member(serNo)
	if err != nil {
		return Parents{}, err
	}
	var p Parents
	if m.FatherSerNo != nil {
		if f, ok := g.records.Get(*m.FatherSerNo); ok {
			p.Father = &f
		}
	}
	if m.MotherSerNo != nil {
		if mo, ok := g.records.Get(*m.MotherSerNo); ok {
			p.Mother = &mo
		}
	}
	return p, nil
}

// Children resolves serNo's ChildrenSerNos in recorded order, omitting ids
// without a record.
func (g *Graph) Children(serNo int) ([]family.Member, error) {
	m, err := g.Member(serNo)
	if err != nil {
		return nil, err
	}
	out := make([]family.Member, 0, len(m.ChildrenSerNos))
	for _, id := range m.ChildrenSerNos {
		if c, ok := g.records.Get(id); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Spouse resolves the record at serNo's spouse reference.
// The boolean is false when there is no spouse or the record is missing.
func (g *Graph) Spouse(serNo int) (family.Member, bool) {
	m, ok := g.records.Get(serNo)
	if !ok || m.Spouse == nil || m.Spouse.SerNo == 0 {
		return family.Member{}, false
	}
	return g.records.Get(m.Spouse.SerNo)
}

// Reachable counts the distinct serNos reachable from rootSerNo over
// ChildrenSerNos edges with a breadth-first walk, root included. Ids without
// a record are not counted. It returns 0 when the root is absent.
func (g *Graph) Reachable(rootSerNo int) int {
	if !g.records.Has(rootSerNo) {
		return 0
	}
	seen := map[int]bool{rootSerNo: true}
	queue := []int{rootSerNo}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		m, _ := g.records.Get(id)
		for _, c := range m.ChildrenSerNos {
			if seen[c] || !g.records.Has(c) {
				continue
			}
			seen[c] = true
			queue = append(queue, c)
		}
	}
	return len(seen)
}

// Roots returns members that have no resolvable father or mother and are not
// listed as anyone's child, ordered by serNo. These are the natural starting
// points for a tree.
func (g *Graph) Roots() []family.Member {
	listed := map[int]bool{}
	for _, m := range g.records.Members() {
		for _, c := range m.ChildrenSerNos {
			listed[c] = true
		}
	}

	var out []family.Member
	for _, id := range g.records.SerNos() {
		m, _ := g.records.Get(id)
		if listed[id] {
			continue
		}
		if m.FatherSerNo != nil && g.records.Has(*m.FatherSerNo) {
			continue
		}
		if m.MotherSerNo != nil && g.records.Has(*m.MotherSerNo) {
			continue
		}
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b family.Member) int { return a.SerNo - b.SerNo })
	return out
}
