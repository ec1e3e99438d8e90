package cli

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/heritage/pkg/errors"
)

// outputFiles stages files next to their targets and moves them into place
// together, so a failed export leaves no partial or orphaned outputs.
type outputFiles struct {
	staged []stagedFile
}

type stagedFile struct {
	tmp, path string
}

// add writes data to a temp file in path's directory.
func (o *outputFiles) add(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".heritage-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	o.staged = append(o.staged, stagedFile{tmp: tmp.Name(), path: path})

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(0o644)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// commit renames every staged file onto its target. Files not yet moved
// are removed on failure.
func (o *outputFiles) commit() error {
	for i, f := range o.staged {
		if err := os.Rename(f.tmp, f.path); err != nil {
			o.staged = o.staged[i:]
			o.discard()
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", f.path)
		}
	}
	o.staged = nil
	return nil
}

// discard removes staged temp files.
func (o *outputFiles) discard() {
	for _, f := range o.staged {
		_ = os.Remove(f.tmp)
	}
	o.staged = nil
}

// writeFile writes one file through a temp file and rename.
func writeFile(path string, data []byte) error {
	var o outputFiles
	if err := o.add(path, data); err != nil {
		o.discard()
		return err
	}
	return o.commit()
}
