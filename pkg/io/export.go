package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/heritage/pkg/family"
)

// WriteRecords encodes a record set and writes it to w.
// JSON output is a bare, indented array; it can be re-imported with [ReadRecords].
func WriteRecords(s *family.RecordSet, w io.Writer, format Format) error {
	members := s.Members()
	if members == nil {
		members = []family.Member{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(members); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(members); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

// ExportRecords writes a record set to path.
// The format is chosen from the file extension.
func ExportRecords(s *family.RecordSet, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteRecords(s, f, format)
}
