package sql

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/family"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri  string
		want Target
	}{
		{"sqlite:///var/lib/heritage.db", Target{"sqlite", "/var/lib/heritage.db", "members"}},
		{"sqlite://records.db?table=people", Target{"sqlite", "records.db", "people"}},
		{"postgres://u:p@db:5432/heritage?sslmode=disable&table=kin", Target{"pgx", "postgres://u:p@db:5432/heritage?sslmode=disable", "kin"}},
	}
	for _, tt := range tests {
		got, err := ParseURI(tt.uri)
		if err != nil {
			t.Fatalf("ParseURI(%q): %v", tt.uri, err)
		}
		if got != tt.want {
			t.Errorf("ParseURI(%q) = %+v, want %+v", tt.uri, got, tt.want)
		}
	}
}

func TestParseURIErrors(t *testing.T) {
	for _, uri := range []string{
		"sqlite://x.db?table=members;drop",
		"mysql://host/db",
	} {
		if _, err := ParseURI(uri); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("ParseURI(%q) err = %v, want INVALID_CONFIG", uri, err)
		}
	}
}

func TestParseChildren(t *testing.T) {
	tests := map[string][]int{
		"":        {},
		"2":       {2},
		"2, 3 ,4": {2, 3, 4},
		"5,,6":    {5, 6},
	}
	for in, want := range tests {
		got, err := ParseChildren(in)
		if err != nil {
			t.Fatalf("ParseChildren(%q): %v", in, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ParseChildren(%q) (-want +got):\n%s", in, diff)
		}
	}
	if _, err := ParseChildren("1,x"); err == nil {
		t.Error("ParseChildren(1,x) should fail")
	}
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE members (
			ser_no INTEGER PRIMARY KEY, name TEXT NOT NULL, gender TEXT, vansh TEXT,
			level INTEGER, son_daughter_count INTEGER, spouse_name TEXT, spouse_ser_no INTEGER,
			father_ser_no INTEGER, mother_ser_no INTEGER, children TEXT, biography TEXT,
			occupation TEXT, date_of_birth TEXT, place TEXT)`,
		`INSERT INTO members (ser_no, name, gender, level, son_daughter_count, spouse_name, spouse_ser_no, children)
			VALUES (1, 'Ram', 'male', 1, 2, 'Sita', 4, '2,3')`,
		`INSERT INTO members (ser_no, name, gender, level, father_ser_no, children)
			VALUES (2, 'Lav', 'Male', 2, 1, '')`,
		`INSERT INTO members (ser_no, name, level, father_ser_no, occupation)
			VALUES (3, 'Kush', 2, 1, 'Farmer')`,
		`INSERT INTO members (ser_no, name, gender, spouse_ser_no)
			VALUES (4, 'Sita', 'F', 1)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec: %v", err)
		}
	}

	rs, err := New(db, "members").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rs.Len() != 4 {
		t.Fatalf("Len = %d, want 4", rs.Len())
	}

	ram, _ := rs.Get(1)
	want := family.Member{
		SerNo:            1,
		Name:             "Ram",
		Gender:           family.GenderMale,
		Level:            1,
		SonDaughterCount: 2,
		Spouse:           &family.SpouseRef{Name: "Sita", SerNo: 4},
		ChildrenSerNos:   []int{2, 3},
	}
	if diff := cmp.Diff(want, ram); diff != "" {
		t.Errorf("member 1 (-want +got):\n%s", diff)
	}

	kush, _ := rs.Get(3)
	if kush.Gender != family.GenderUnknown || kush.Occupation != "Farmer" || *kush.FatherSerNo != 1 {
		t.Errorf("member 3 = %+v", kush)
	}
	if kush.MotherSerNo != nil {
		t.Errorf("member 3 mother = %v, want nil", *kush.MotherSerNo)
	}
	sita, _ := rs.Get(4)
	if sita.Gender != family.GenderFemale || sita.Spouse == nil || sita.Spouse.SerNo != 1 {
		t.Errorf("member 4 = %+v", sita)
	}
}

func TestLoadMissingTable(t *testing.T) {
	src, err := Open("sqlite://" + filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if _, err := src.Load(context.Background()); err == nil {
		t.Error("Load from missing table should fail")
	}
}
