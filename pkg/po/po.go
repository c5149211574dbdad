// Package po reads and writes GNU gettext PO catalogs.
//
// Parsing is strict: every non-blank line must be a comment, a keyword line
// (msgctxt, msgid, msgid_plural, msgstr, msgstr[N]) or a string continuation.
// Anything else is reported as a *SyntaxError so callers can refuse files that
// are not catalogs. Writing preserves entry order exactly as parsed, and
// fields or comment groups that were not modified since parsing are written
// back with their original line split.
package po

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FlagFuzzy marks an entry whose translation needs review.
const FlagFuzzy = "fuzzy"

// Entry is a single message of a catalog.
type Entry struct {
	TranslatorComments []string
	ExtractedComments  []string
	References         []string
	Flags              []string
	// Previous holds the "#|" lines verbatim, without the marker.
	Previous []string

	MsgCtxt      string
	MsgID        string
	MsgIDPlural  string
	MsgStr       string
	MsgStrPlural map[int]string

	Obsolete bool

	raw *rawEntry
}

// PreviousField decodes a previous field ("msgctxt", "msgid" or
// "msgid_plural") from the "#|" lines, joining its continuations.
func (e *Entry) PreviousField(keyword string) string {
	var (
		value  strings.Builder
		active bool
	)
	for _, line := range e.Previous {
		switch {
		case strings.HasPrefix(line, `"`):
			if !active {
				continue
			}
		case strings.HasPrefix(line, keyword+" "):
			active = true
			line = strings.TrimSpace(line[len(keyword)+1:])
		default:
			active = false
			continue
		}
		if s, err := unquote(line); err == nil {
			value.WriteString(s)
		}
	}
	return value.String()
}

// IsFuzzy reports whether the entry carries the fuzzy flag.
func (e *Entry) IsFuzzy() bool {
	return e.HasFlag(FlagFuzzy)
}

// HasFlag checks if a specific flag is present.
func (e *Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// SetFuzzy adds or removes the fuzzy flag. Other flags keep their order.
func (e *Entry) SetFuzzy(fuzzy bool) {
	if fuzzy {
		if !e.IsFuzzy() {
			e.Flags = append(e.Flags, FlagFuzzy)
		}
		return
	}
	filtered := make([]string, 0, len(e.Flags))
	for _, f := range e.Flags {
		if f != FlagFuzzy {
			filtered = append(filtered, f)
		}
	}
	e.Flags = filtered
}

// Translation returns the singular translation, or msgstr[0] for plural entries.
func (e *Entry) Translation() string {
	if e.MsgIDPlural != "" {
		return e.MsgStrPlural[0]
	}
	return e.MsgStr
}

// SetTranslation sets the singular translation, or msgstr[0] for plural entries.
func (e *Entry) SetTranslation(text string) {
	if e.MsgIDPlural != "" {
		if e.MsgStrPlural == nil {
			e.MsgStrPlural = make(map[int]string)
		}
		e.MsgStrPlural[0] = text
		return
	}
	e.MsgStr = text
}

// File is a parsed catalog.
type File struct {
	// Header is the metadata entry (msgid ""), nil if the file has none.
	Header  *Entry
	Entries []*Entry
}

// HeaderField returns a header field value by name.
func (f *File) HeaderField(name string) string {
	if f.Header == nil {
		return ""
	}
	for _, line := range strings.Split(f.Header.MsgStr, "\n") {
		if idx := strings.Index(line, ":"); idx > 0 {
			if strings.EqualFold(strings.TrimSpace(line[:idx]), name) {
				return strings.TrimSpace(line[idx+1:])
			}
		}
	}
	return ""
}

// SyntaxError describes the first line that could not be parsed.
type SyntaxError struct {
	Line int
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

type field int

const (
	fieldNone field = iota
	fieldCtxt
	fieldID
	fieldIDPlural
	fieldStr
	fieldStrPlural
)

// Parse reads a catalog from r.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		current   *Entry
		last      field
		lastKey   string
		pluralIdx int
		hasMsgID  bool
		lineNum   int
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		if !hasMsgID {
			if last != fieldNone {
				return &SyntaxError{Line: lineNum, Msg: "entry without msgid"}
			}
			// comment-only block
			current = nil
			return nil
		}
		current.raw.snapshot(current)
		if current.MsgID == "" && !current.Obsolete && f.Header == nil && len(f.Entries) == 0 {
			f.Header = current
		} else {
			f.Entries = append(f.Entries, current)
		}
		current = nil
		last = fieldNone
		hasMsgID = false
		return nil
	}

	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		if lineNum == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		if !utf8.ValidString(raw) {
			return nil, &SyntaxError{Line: lineNum, Text: raw, Msg: "invalid UTF-8"}
		}
		line := strings.TrimSpace(raw)

		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}

		obsolete := false
		if strings.HasPrefix(line, "#~") {
			obsolete = true
			line = strings.TrimSpace(line[2:])
			if line == "" {
				continue
			}
			// "#~|" is a previous-string line of an obsolete entry.
			if strings.HasPrefix(line, "|") {
				line = "#" + line
			}
		}

		// A comment after a complete entry starts the next one.
		if strings.HasPrefix(line, "#") && hasMsgID && last >= fieldStr {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		// A new msgid/msgctxt after a msgstr starts the next entry as well.
		if (strings.HasPrefix(line, "msgid ") || strings.HasPrefix(line, "msgctxt ")) && hasMsgID && last >= fieldStr {
			if err := flush(); err != nil {
				return nil, err
			}
		}

		if current == nil {
			current = &Entry{}
		}
		if obsolete {
			current.Obsolete = true
		}

		switch {
		case strings.HasPrefix(line, "#"):
			parseComment(current, line)
			continue

		case strings.HasPrefix(line, "msgctxt "):
			s, token, err := unquoteField(line, "msgctxt", lineNum)
			if err != nil {
				return nil, err
			}
			current.MsgCtxt = s
			last, lastKey = fieldCtxt, "msgctxt"
			current.keep(lastKey, token, s, false)

		case strings.HasPrefix(line, "msgid_plural "):
			s, token, err := unquoteField(line, "msgid_plural", lineNum)
			if err != nil {
				return nil, err
			}
			current.MsgIDPlural = s
			last, lastKey = fieldIDPlural, "msgid_plural"
			current.keep(lastKey, token, s, false)

		case strings.HasPrefix(line, "msgid "):
			s, token, err := unquoteField(line, "msgid", lineNum)
			if err != nil {
				return nil, err
			}
			current.MsgID = s
			hasMsgID = true
			last, lastKey = fieldID, "msgid"
			current.keep(lastKey, token, s, false)

		case strings.HasPrefix(line, "msgstr["):
			end := strings.Index(line, "]")
			if end < 0 {
				return nil, &SyntaxError{Line: lineNum, Text: raw, Msg: "unterminated msgstr index"}
			}
			idx, err := strconv.Atoi(line[len("msgstr["):end])
			if err != nil || idx < 0 {
				return nil, &SyntaxError{Line: lineNum, Text: raw, Msg: "invalid msgstr index"}
			}
			s, token, err := unquoteField(line, line[:end+1], lineNum)
			if err != nil {
				return nil, err
			}
			if current.MsgStrPlural == nil {
				current.MsgStrPlural = make(map[int]string)
			}
			current.MsgStrPlural[idx] = s
			pluralIdx = idx
			last, lastKey = fieldStrPlural, pluralKey(idx)
			current.keep(lastKey, token, s, false)

		case strings.HasPrefix(line, "msgstr "):
			s, token, err := unquoteField(line, "msgstr", lineNum)
			if err != nil {
				return nil, err
			}
			current.MsgStr = s
			last, lastKey = fieldStr, "msgstr"
			current.keep(lastKey, token, s, false)

		case strings.HasPrefix(line, `"`):
			s, err := unquote(line)
			if err != nil {
				return nil, &SyntaxError{Line: lineNum, Text: raw, Msg: err.Error()}
			}
			switch last {
			case fieldCtxt:
				current.MsgCtxt += s
			case fieldID:
				current.MsgID += s
			case fieldIDPlural:
				current.MsgIDPlural += s
			case fieldStr:
				current.MsgStr += s
			case fieldStrPlural:
				current.MsgStrPlural[pluralIdx] += s
			default:
				return nil, &SyntaxError{Line: lineNum, Text: raw, Msg: "string continuation without keyword"}
			}
			current.keep(lastKey, line, s, true)

		default:
			return nil, &SyntaxError{Line: lineNum, Text: raw, Msg: "unexpected content"}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return f, nil
}

// ParseBytes is Parse over an in-memory catalog.
func ParseBytes(data []byte) (*File, error) {
	return Parse(bytes.NewReader(data))
}

func parseComment(e *Entry, line string) {
	switch {
	case strings.HasPrefix(line, "#:"):
		for _, ref := range strings.Fields(line[2:]) {
			e.References = append(e.References, ref)
		}
		e.keepComment(commentReference, line)
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" && !e.HasFlag(flag) {
				e.Flags = append(e.Flags, flag)
			}
		}
		e.keepComment(commentFlag, line)
	case strings.HasPrefix(line, "#."):
		e.ExtractedComments = append(e.ExtractedComments, strings.TrimSpace(line[2:]))
		e.keepComment(commentExtracted, line)
	case strings.HasPrefix(line, "#|"):
		e.Previous = append(e.Previous, strings.TrimSpace(line[2:]))
	default:
		e.TranslatorComments = append(e.TranslatorComments, strings.TrimPrefix(line[1:], " "))
		e.keepComment(commentTranslator, line)
	}
}

type commentKind int

const (
	commentTranslator commentKind = iota
	commentExtracted
	commentReference
	commentFlag
	commentKinds
)

// rawField is a field as it appeared in the file: the quoted strings of the
// keyword line and its continuations, and the value they decode to.
type rawField struct {
	lines []string
	value string
}

// rawEntry remembers the source lines of a parsed entry so that unmodified
// parts are written back unchanged.
type rawEntry struct {
	fields   map[string]*rawField
	comments [commentKinds][]string
	parsed   [commentKinds][]string
}

func (e *Entry) keep(key, token, value string, continuation bool) {
	if e.raw == nil {
		e.raw = &rawEntry{}
	}
	if e.raw.fields == nil {
		e.raw.fields = make(map[string]*rawField)
	}
	rf := e.raw.fields[key]
	if rf == nil || !continuation {
		rf = &rawField{}
		e.raw.fields[key] = rf
	}
	rf.lines = append(rf.lines, token)
	rf.value += value
}

func (e *Entry) keepComment(kind commentKind, line string) {
	if e.raw == nil {
		e.raw = &rawEntry{}
	}
	e.raw.comments[kind] = append(e.raw.comments[kind], line)
}

// snapshot records the parsed comment values the raw lines stand for.
func (r *rawEntry) snapshot(e *Entry) {
	if r == nil {
		return
	}
	r.parsed[commentTranslator] = slices.Clone(e.TranslatorComments)
	r.parsed[commentExtracted] = slices.Clone(e.ExtractedComments)
	r.parsed[commentReference] = slices.Clone(e.References)
	r.parsed[commentFlag] = slices.Clone(e.Flags)
}

func (r *rawField) unchanged(value string) bool {
	return r != nil && len(r.lines) > 0 && r.value == value
}

func (r *rawEntry) field(key string) *rawField {
	if r == nil {
		return nil
	}
	return r.fields[key]
}

// commentLines returns the original lines of a comment group, or false when
// the group was modified or never parsed.
func (r *rawEntry) commentLines(kind commentKind, current []string) ([]string, bool) {
	if r == nil || r.comments[kind] == nil {
		return nil, false
	}
	if !slices.Equal(r.parsed[kind], current) {
		return nil, false
	}
	return r.comments[kind], true
}

func pluralKey(idx int) string {
	return fmt.Sprintf("msgstr[%d]", idx)
}

func unquoteField(line, keyword string, lineNum int) (value, token string, err error) {
	token = strings.TrimSpace(strings.TrimPrefix(line, keyword))
	value, err = unquote(token)
	if err != nil {
		return "", "", &SyntaxError{Line: lineNum, Text: line, Msg: err.Error()}
	}
	return value, token, nil
}

// unquote decodes a C string literal. Unknown escapes are kept as written.
func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("expected quoted string")
	}
	s = s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("dangling escape")
		}
		i++
		switch s[i] {
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '\\', '"', '\'', '?':
			b.WriteByte(s[i])
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v, n := 0, 0
			for n < 3 && i+n < len(s) && s[i+n] >= '0' && s[i+n] <= '7' {
				v = v*8 + int(s[i+n]-'0')
				n++
			}
			b.WriteByte(byte(v))
			i += n - 1
		case 'x':
			v, n := 0, 0
			for n < 2 && i+1+n < len(s) && isHex(s[i+1+n]) {
				v = v*16 + hexValue(s[i+1+n])
				n++
			}
			if n == 0 {
				b.WriteString(`\x`)
				continue
			}
			b.WriteByte(byte(v))
			i += n
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) int {
	switch {
	case c >= 'a':
		return int(c-'a') + 10
	case c >= 'A':
		return int(c-'A') + 10
	}
	return int(c - '0')
}

// quote encodes s as a C string literal. Control characters without a short
// escape and bytes that are not valid UTF-8 are written in octal.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&b, `\%03o`, s[i])
		case r == '\\':
			b.WriteString(`\\`)
		case r == '"':
			b.WriteString(`\"`)
		case r == '\a':
			b.WriteString(`\a`)
		case r == '\b':
			b.WriteString(`\b`)
		case r == '\f':
			b.WriteString(`\f`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\v':
			b.WriteString(`\v`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\%03o`, r)
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	b.WriteByte('"')
	return b.String()
}

// Write serialises the catalog to w.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	first := true
	if f.Header != nil {
		writeEntry(bw, f.Header)
		first = false
	}
	for _, e := range f.Entries {
		if !first {
			bw.WriteString("\n")
		}
		writeEntry(bw, e)
		first = false
	}
	return bw.Flush()
}

// Bytes returns the serialised catalog.
func (f *File) Bytes() []byte {
	var buf bytes.Buffer
	_ = f.Write(&buf)
	return buf.Bytes()
}

func writeEntry(w *bufio.Writer, e *Entry) {
	prefix, previous := "", "#| "
	if e.Obsolete {
		prefix, previous = "#~ ", "#~| "
	}

	writeComments(w, e.raw, commentTranslator, e.TranslatorComments, func(c string) string {
		if c == "" {
			return "#"
		}
		return "# " + c
	})
	writeComments(w, e.raw, commentExtracted, e.ExtractedComments, func(c string) string {
		return "#. " + c
	})
	writeComments(w, e.raw, commentReference, e.References, func(ref string) string {
		return "#: " + ref
	})
	if lines, ok := e.raw.commentLines(commentFlag, e.Flags); ok {
		writeLines(w, lines)
	} else if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}
	for _, line := range e.Previous {
		fmt.Fprintf(w, "%s%s\n", previous, line)
	}

	if e.MsgCtxt != "" || e.raw.field("msgctxt") != nil {
		writeQuotedField(w, prefix, "msgctxt", e.MsgCtxt, e.raw.field("msgctxt"))
	}
	writeQuotedField(w, prefix, "msgid", e.MsgID, e.raw.field("msgid"))
	if e.MsgIDPlural != "" {
		writeQuotedField(w, prefix, "msgid_plural", e.MsgIDPlural, e.raw.field("msgid_plural"))
		indices := make([]int, 0, len(e.MsgStrPlural))
		for idx := range e.MsgStrPlural {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		if len(indices) == 0 {
			indices = append(indices, 0)
		}
		for _, idx := range indices {
			key := pluralKey(idx)
			writeQuotedField(w, prefix, key, e.MsgStrPlural[idx], e.raw.field(key))
		}
		return
	}
	writeQuotedField(w, prefix, "msgstr", e.MsgStr, e.raw.field("msgstr"))
}

func writeComments(w *bufio.Writer, raw *rawEntry, kind commentKind, values []string, format func(string) string) {
	if lines, ok := raw.commentLines(kind, values); ok {
		writeLines(w, lines)
		return
	}
	for _, v := range values {
		w.WriteString(format(v) + "\n")
	}
}

func writeLines(w *bufio.Writer, lines []string) {
	for _, line := range lines {
		w.WriteString(line + "\n")
	}
}

// writeQuotedField writes a field. An unmodified field keeps its original
// line split; a new value is split after each \n.
func writeQuotedField(w *bufio.Writer, prefix, key, value string, raw *rawField) {
	if raw.unchanged(value) {
		fmt.Fprintf(w, "%s%s %s\n", prefix, key, raw.lines[0])
		for _, line := range raw.lines[1:] {
			fmt.Fprintf(w, "%s%s\n", prefix, line)
		}
		return
	}
	if !strings.Contains(value, "\n") || value == "\n" {
		fmt.Fprintf(w, "%s%s %s\n", prefix, key, quote(value))
		return
	}
	fmt.Fprintf(w, "%s%s \"\"\n", prefix, key)
	for _, part := range strings.SplitAfter(value, "\n") {
		if part == "" {
			continue
		}
		fmt.Fprintf(w, "%s%s\n", prefix, quote(part))
	}
}
