package report

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/pomkit/pom-test-harness/framework/webtest"
)

// DirAttacher writes attachments as files under a directory, one subdirectory per test.
type DirAttacher struct {
	fs  afero.Fs
	dir string
	seq sequence
}

// NewDirAttacher writes under dir on the OS filesystem.
func NewDirAttacher(dir string) *DirAttacher {
	return NewDirAttacherFs(afero.NewOsFs(), dir)
}

func NewDirAttacherFs(fs afero.Fs, dir string) *DirAttacher {
	return &DirAttacher{fs: fs, dir: dir}
}

func (d *DirAttacher) Attach(id webtest.TestID, name, mimeType string, data []byte) (webtest.Attachment, error) {
	rel := objectName(id, name, mimeType, d.seq.next(id, name))
	target := filepath.Join(d.dir, filepath.FromSlash(rel))
	if err := d.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return webtest.Attachment{}, fmt.Errorf("creating attachment directory: %w", err)
	}
	if err := afero.WriteFile(d.fs, target, data, os.FileMode(0o644)); err != nil {
		return webtest.Attachment{}, fmt.Errorf("writing attachment %s: %w", path.Base(rel), err)
	}
	return webtest.Attachment{Name: name, MimeType: mimeType, Location: target, Size: len(data)}, nil
}
