package files

import (
	"fmt"
	"os"
	"strings"

	"github.com/postudio/postudio-terminal/pkg/models"
	"github.com/postudio/postudio-terminal/pkg/po"
)

// FileFormatError reports a catalog that is missing, unreadable or not a PO file.
type FileFormatError struct {
	Path string
	Err  error
}

func (e *FileFormatError) Error() string {
	return fmt.Sprintf("invalid catalog %s: %v", e.Path, e.Err)
}

func (e *FileFormatError) Unwrap() error { return e.Err }

// PersistenceError reports a catalog that could not be written back.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save catalog %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Catalog is a PO file on disk. Obsolete entries and the header are kept for
// writing but are not exposed as editable entries.
type Catalog struct {
	path  string
	file  *po.File
	index []int // editable position -> position in file.Entries
	perm  os.FileMode
}

// LoadCatalog reads and parses the catalog at path.
func LoadCatalog(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &FileFormatError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &FileFormatError{Path: path, Err: fmt.Errorf("is a directory")}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileFormatError{Path: path, Err: err}
	}

	file, err := po.ParseBytes(content)
	if err != nil {
		return nil, &FileFormatError{Path: path, Err: err}
	}

	c := &Catalog{path: path, file: file, perm: info.Mode().Perm()}
	for i, e := range file.Entries {
		if !e.Obsolete {
			c.index = append(c.index, i)
		}
	}
	return c, nil
}

// Path returns the file the catalog was loaded from.
func (c *Catalog) Path() string {
	return c.path
}

// Language returns the Language header field, if any.
func (c *Catalog) Language() string {
	return c.file.HeaderField("Language")
}

// Entries returns the editable entries in file order.
func (c *Catalog) Entries() []models.Entry {
	entries := make([]models.Entry, 0, len(c.index))
	for _, i := range c.index {
		e := c.file.Entries[i]
		entries = append(entries, models.Entry{
			Source:      e.MsgID,
			Translation: e.Translation(),
			Fuzzy:       e.IsFuzzy(),
			Context:     e.MsgCtxt,
			Comment:     strings.Join(append(append([]string{}, e.ExtractedComments...), e.TranslatorComments...), "\n"),
			Flags:       otherFlags(e.Flags),
			References:  append([]string(nil), e.References...),
			Plural:      e.MsgIDPlural != "",
		})
	}
	return entries
}

// Save writes translations and fuzzy flags back to disk. entries must be
// aligned with Entries.
func (c *Catalog) Save(entries []models.Entry) error {
	if len(entries) != len(c.index) {
		return &PersistenceError{
			Path: c.path,
			Err:  fmt.Errorf("entry count mismatch: have %d, catalog has %d", len(entries), len(c.index)),
		}
	}

	for pos, i := range c.index {
		e := c.file.Entries[i]
		e.SetTranslation(entries[pos].Translation)
		e.SetFuzzy(entries[pos].Fuzzy)
	}

	perm := c.perm
	if perm == 0 {
		perm = 0644
	}
	if err := WriteFileAtomic(c.path, c.file.Bytes(), perm); err != nil {
		return &PersistenceError{Path: c.path, Err: err}
	}
	return nil
}

func otherFlags(flags []string) []string {
	var out []string
	for _, f := range flags {
		if f != po.FlagFuzzy {
			out = append(out, f)
		}
	}
	return out
}
