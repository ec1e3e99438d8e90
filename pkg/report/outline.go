package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/family"
)

// OutlineEntry is one parsed dump line.
type OutlineEntry struct {
	SerNo       int
	Name        string
	Depth       int
	ParentSerNo int // 0 for the root
	Gender      family.Gender
	Vansh       string
	SpouseName  string
}

// lineRe matches an indented dump line. The indent is taken in pairs of
// spaces so an empty name, written as " (#n)", still parses at its depth.
var lineRe = regexp.MustCompile(`^((?:  )*)(.*) \(#(\d+)\)(?: - (Male|Female))?(?: \[(.*)\])?(?: \(Spouse: (.*)\))?$`)

// ParseOutline reads the dump section of a text report. If the markers are
// missing the whole input is treated as the dump.
func ParseOutline(text string) ([]OutlineEntry, error) {
	body := text
	if i := strings.Index(body, OutlineStart+"\n"); i >= 0 {
		body = body[i+len(OutlineStart)+1:]
		if j := strings.Index(body, OutlineEnd); j >= 0 {
			body = body[:j]
		}
	}

	var (
		out   []OutlineEntry
		stack []int // serNo per depth on the current path
	)
	for n, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			trimmed := strings.TrimLeft(line, " ")
			if indent := len(line) - len(trimmed); indent%2 != 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: odd indentation %d", n+1, indent)
			}
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: unrecognised entry %q", n+1, trimmed)
		}
		if strings.HasPrefix(m[2], " ") {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: odd indentation %d", n+1, len(m[1])+1)
		}
		depth := len(m[1]) / 2
		if depth > len(stack) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: depth %d skips a level", n+1, depth)
		}
		if depth == 0 && len(out) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: second root", n+1)
		}
		serNo, err := strconv.Atoi(m[3])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: bad serNo", n+1)
		}

		e := OutlineEntry{
			SerNo:      serNo,
			Name:       m[2],
			Depth:      depth,
			Gender:     family.GenderUnknown,
			Vansh:      m[5],
			SpouseName: m[6],
		}
		if m[4] != "" {
			e.Gender = family.Gender(m[4])
		}
		stack = stack[:depth]
		if depth > 0 {
			e.ParentSerNo = stack[depth-1]
		}
		stack = append(stack, serNo)
		out = append(out, e)
	}
	return out, nil
}
