package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/family"
)

// Format identifies a record serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported record file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

type envelope struct {
	Members []family.Member `json:"members" yaml:"members"`
}

// ReadRecords decodes records from r in the given format.
//
// The returned RecordSet is independent of r. ReadRecords does not close r.
func ReadRecords(r io.Reader, format Format) (*family.RecordSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	members, err := decodeMembers(data, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s records", format)
	}
	return family.NewRecordSet(members)
}

func decodeMembers(data []byte, format Format) ([]family.Member, error) {
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var members []family.Member
			err := json.Unmarshal(trimmed, &members)
			return members, err
		}
		var env envelope
		err := json.Unmarshal(trimmed, &env)
		return env.Members, err
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			var members []family.Member
			err := node.Content[0].Decode(&members)
			return members, err
		}
		var env envelope
		err := node.Decode(&env)
		return env.Members, err
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ImportRecords reads the record file at path.
// The format is chosen from the file extension.
func ImportRecords(path string) (*family.RecordSet, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRecords(f, format)
}
