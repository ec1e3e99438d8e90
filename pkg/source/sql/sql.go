// Package sql loads records from a relational table.
//
// Two drivers are registered: modernc.org/sqlite for sqlite:// URIs and
// pgx for postgres:// URIs. The table has one row per member:
//
//	ser_no INTEGER PRIMARY KEY, name TEXT, gender TEXT, vansh TEXT,
//	level INTEGER, son_daughter_count INTEGER, spouse_name TEXT,
//	spouse_ser_no INTEGER, father_ser_no INTEGER, mother_ser_no INTEGER,
//	children TEXT, biography TEXT, occupation TEXT, date_of_birth TEXT,
//	place TEXT
//
// children is a comma-separated list of serial numbers in display order.
// Every column except ser_no and name may be NULL.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"

	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/family"
)

// DefaultTable is read when the URI has no table parameter.
const DefaultTable = "members"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Target is a parsed SQL source URI.
type Target struct {
	Driver string // "sqlite" or "pgx"
	DSN    string
	Table  string
}

// ParseURI maps sqlite:// and postgres:// URIs onto a driver and DSN.
func ParseURI(uri string) (Target, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Target{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse sql uri")
	}
	q := u.Query()
	t := Target{Table: q.Get("table")}
	if t.Table == "" {
		t.Table = DefaultTable
	}
	if !identRe.MatchString(t.Table) {
		return Target{}, errors.New(errors.ErrCodeInvalidConfig, "invalid table name %q", t.Table)
	}
	q.Del("table")
	u.RawQuery = q.Encode()

	switch u.Scheme {
	case "sqlite":
		t.Driver = "sqlite"
		t.DSN = u.Host + u.Path
		if u.RawQuery != "" {
			t.DSN += "?" + u.RawQuery
		}
	case "postgres", "postgresql":
		t.Driver = "pgx"
		t.DSN = u.String()
	default:
		return Target{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported sql scheme %q", u.Scheme)
	}
	if t.DSN == "" {
		return Target{}, errors.New(errors.ErrCodeInvalidConfig, "empty sql dsn in %q", uri)
	}
	return t, nil
}

// Source reads one table.
type Source struct {
	db    *sql.DB
	table string
}

// Open opens the database named by uri. The connection is lazy.
func Open(uri string) (*Source, error) {
	t, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(t.Driver, t.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", t.Driver, err)
	}
	return &Source{db: db, table: t.Table}, nil
}

// New wraps an existing handle.
func New(db *sql.DB, table string) *Source {
	return &Source{db: db, table: table}
}

const columns = `ser_no, name, gender, vansh, level, son_daughter_count, spouse_name,
	spouse_ser_no, father_ser_no, mother_ser_no, children, biography, occupation,
	date_of_birth, place`

func (s *Source) Load(ctx context.Context) (*family.RecordSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+columns+` FROM `+s.table+` ORDER BY ser_no`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "select %s", s.table)
	}
	defer func() { _ = rows.Close() }()

	var members []family.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", s.table)
	}
	return family.NewRecordSet(members)
}

func scanMember(rows *sql.Rows) (family.Member, error) {
	var (
		m                                       family.Member
		gender, vansh, spouseName, children     sql.NullString
		bio, occupation, dob, place             sql.NullString
		level, sdc, spouseSerNo, father, mother sql.NullInt64
	)
	if err := rows.Scan(&m.SerNo, &m.Name, &gender, &vansh, &level, &sdc, &spouseName,
		&spouseSerNo, &father, &mother, &children, &bio, &occupation, &dob, &place); err != nil {
		return family.Member{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "scan member")
	}
	m.Gender = family.ParseGender(gender.String)
	m.Vansh = vansh.String
	m.Level = int(level.Int64)
	m.SonDaughterCount = int(sdc.Int64)
	if spouseName.String != "" || spouseSerNo.Int64 != 0 {
		m.Spouse = &family.SpouseRef{Name: spouseName.String, SerNo: int(spouseSerNo.Int64)}
	}
	if father.Valid {
		m.FatherSerNo = family.Ref(int(father.Int64))
	}
	if mother.Valid {
		m.MotherSerNo = family.Ref(int(mother.Int64))
	}
	ids, err := ParseChildren(children.String)
	if err != nil {
		return family.Member{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "member #%d children", m.SerNo)
	}
	m.ChildrenSerNos = ids
	m.Biography = bio.String
	m.Occupation = occupation.String
	m.DateOfBirth = dob.String
	m.Place = place.String
	return m, nil
}

// ParseChildren parses a comma-separated serNo list. Blank input is empty.
func ParseChildren(s string) ([]int, error) {
	ids := []int{}
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		ids = append(ids, n)
	}
	return ids, nil
}

func (s *Source) Close() error { return s.db.Close() }
