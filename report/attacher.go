// Package report stores test attachments, such as failure screenshots, and describes where they
// went so that the test loggers can link to them.
package report

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/pomkit/pom-test-harness/framework/webtest"
)

// Attacher stores one piece of content for a test.
type Attacher interface {
	Attach(id webtest.TestID, name, mimeType string, data []byte) (webtest.Attachment, error)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`) //nolint:gochecknoglobals

var extensions = map[string]string{ //nolint:gochecknoglobals
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"text/plain": ".txt",
	"text/html":  ".html",
}

func extensionFor(mimeType string) string {
	if ext, ok := extensions[strings.ToLower(mimeType)]; ok {
		return ext
	}
	return ".bin"
}

// objectName builds a relative, filesystem-safe path for the n'th attachment called name.
func objectName(id webtest.TestID, name, mimeType string, n int) string {
	parts := make([]string, 0, len(id)+1)
	for _, p := range id {
		if s := strings.Trim(unsafeChars.ReplaceAllString(p, "_"), "_"); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "root")
	}
	file := strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_")
	if file == "" {
		file = "attachment"
	}
	if n > 1 {
		file = fmt.Sprintf("%s-%d", file, n)
	}
	parts = append(parts, file+extensionFor(mimeType))
	return strings.Join(parts, "/")
}

// sequence numbers attachments that share a test and a name.
type sequence struct {
	lock   sync.Mutex
	counts map[string]int
}

func (s *sequence) next(id webtest.TestID, name string) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	key := id.String() + "\x00" + name
	s.counts[key]++
	return s.counts[key]
}

// MultiAttacher stores each attachment with every one of its attachers. The returned Attachment
// is the first successful one; the error joins every failure.
type MultiAttacher []Attacher

func (m MultiAttacher) Attach(id webtest.TestID, name, mimeType string, data []byte) (webtest.Attachment, error) {
	var first *webtest.Attachment
	var errs []string
	for _, a := range m {
		att, err := a.Attach(id, name, mimeType, data)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if first == nil {
			first = &att
		}
	}
	if len(errs) > 0 {
		err := fmt.Errorf("attaching %s to %s: %s", name, id, strings.Join(errs, "; "))
		if first == nil {
			return webtest.Attachment{}, err
		}
		return *first, err
	}
	if first == nil {
		return webtest.Attachment{}, fmt.Errorf("attaching %s to %s: no attachers configured", name, id)
	}
	return *first, nil
}

// Stored is one attachment kept by a MemoryAttacher.
type Stored struct {
	TestID   webtest.TestID
	Name     string
	MimeType string
	Data     []byte
}

// MemoryAttacher keeps attachments in memory. It is used by dry runs and tests.
type MemoryAttacher struct {
	lock   sync.Mutex
	stored []Stored
	seq    sequence
}

func (m *MemoryAttacher) Attach(id webtest.TestID, name, mimeType string, data []byte) (webtest.Attachment, error) {
	n := m.seq.next(id, name)
	m.lock.Lock()
	m.stored = append(m.stored, Stored{TestID: id, Name: name, MimeType: mimeType, Data: append([]byte(nil), data...)})
	m.lock.Unlock()
	return webtest.Attachment{
		Name:     name,
		MimeType: mimeType,
		Location: "memory:" + objectName(id, name, mimeType, n),
		Size:     len(data),
	}, nil
}

// Stored returns everything attached so far.
func (m *MemoryAttacher) Stored() []Stored {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]Stored(nil), m.stored...)
}

// For returns what was attached to one test.
func (m *MemoryAttacher) For(id webtest.TestID) []Stored {
	var ret []Stored
	for _, s := range m.Stored() {
		if s.TestID.String() == id.String() {
			ret = append(ret, s)
		}
	}
	return ret
}
