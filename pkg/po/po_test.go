package po

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `msgid ""
msgstr ""
"Language: tr\n"
"Content-Type: text/plain; charset=UTF-8\n"

# greeting shown on start
#. main window
#: src/app.c:10
#: src/app.c:42
#, fuzzy, c-format
msgid "Hello %s"
msgstr "Merhaba %s"

msgctxt "menu"
msgid "Open"
msgstr ""

msgid "Open"
msgstr "Aç"

msgid "One file"
msgid_plural "%d files"
msgstr[0] "%d dosya"
msgstr[1] "%d dosya"

msgid ""
"First line\n"
"Second line"
msgstr ""

#~ msgid "Removed"
#~ msgstr "Kaldırıldı"
`

func TestParse(t *testing.T) {
	f, err := ParseBytes([]byte(sampleCatalog))
	require.NoError(t, err)

	require.NotNil(t, f.Header)
	assert.Equal(t, "tr", f.HeaderField("Language"))
	assert.Equal(t, "", f.HeaderField("Missing"))

	require.Len(t, f.Entries, 6)

	first := f.Entries[0]
	assert.Equal(t, "Hello %s", first.MsgID)
	assert.Equal(t, "Merhaba %s", first.MsgStr)
	assert.True(t, first.IsFuzzy())
	assert.True(t, first.HasFlag("c-format"))
	assert.Equal(t, []string{"greeting shown on start"}, first.TranslatorComments)
	assert.Equal(t, []string{"main window"}, first.ExtractedComments)
	assert.Equal(t, []string{"src/app.c:10", "src/app.c:42"}, first.References)

	assert.Equal(t, "menu", f.Entries[1].MsgCtxt)
	assert.Equal(t, "Open", f.Entries[1].MsgID)
	assert.Equal(t, "Open", f.Entries[2].MsgID)
	assert.Equal(t, "Aç", f.Entries[2].MsgStr)

	plural := f.Entries[3]
	assert.Equal(t, "%d files", plural.MsgIDPlural)
	assert.Equal(t, "%d dosya", plural.Translation())

	assert.Equal(t, "First line\nSecond line", f.Entries[4].MsgID)

	assert.True(t, f.Entries[5].Obsolete)
	assert.Equal(t, "Removed", f.Entries[5].MsgID)
}

func TestWriteRoundTrip(t *testing.T) {
	f, err := ParseBytes([]byte(sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, sampleCatalog, string(f.Bytes()))
}

func TestWritePreservesOrderAfterEdit(t *testing.T) {
	f, err := ParseBytes([]byte(sampleCatalog))
	require.NoError(t, err)

	f.Entries[0].SetFuzzy(false)
	f.Entries[1].SetTranslation("Aç")
	f.Entries[3].SetTranslation("Bir dosya")

	again, err := ParseBytes(f.Bytes())
	require.NoError(t, err)
	require.Len(t, again.Entries, len(f.Entries))

	for i := range f.Entries {
		assert.Equal(t, f.Entries[i].MsgID, again.Entries[i].MsgID, "entry %d", i)
	}
	assert.False(t, again.Entries[0].IsFuzzy())
	assert.True(t, again.Entries[0].HasFlag("c-format"))
	assert.Equal(t, "Aç", again.Entries[1].MsgStr)
	assert.Equal(t, "Bir dosya", again.Entries[3].MsgStrPlural[0])
	assert.Equal(t, "%d dosya", again.Entries[3].MsgStrPlural[1])
}

func TestSetFuzzyIdempotent(t *testing.T) {
	e := &Entry{Flags: []string{"c-format"}}

	e.SetFuzzy(true)
	e.SetFuzzy(true)
	assert.Equal(t, []string{"c-format", "fuzzy"}, e.Flags)

	e.SetFuzzy(false)
	e.SetFuzzy(false)
	assert.Equal(t, []string{"c-format"}, e.Flags)
}

func TestParseEscapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "quotes and tab", in: `"Say \"hi\"\tnow\\"`, want: "Say \"hi\"\tnow\\"},
		{name: "bell and vertical tab", in: `"bell\a tab\v"`, want: "bell\a tab\v"},
		{name: "backspace and form feed", in: `"\b\f"`, want: "\b\f"},
		{name: "octal", in: `"\101\0x"`, want: "A\x00x"},
		{name: "hex", in: `"\x41\x7e!"`, want: "A~!"},
		{name: "question mark and apostrophe", in: `"\?\'"`, want: "?'"},
		{name: "unknown escape kept", in: `"\q"`, want: `\q`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseBytes([]byte("msgid " + tt.in + "\nmsgstr \"\"\n"))
			require.NoError(t, err)
			require.Len(t, f.Entries, 1)
			assert.Equal(t, tt.want, f.Entries[0].MsgID)
		})
	}
}

func TestQuoteDecodesBack(t *testing.T) {
	values := []string{
		"bell\a tab\v",
		"\b\f\r\n\t",
		"nul\x00 esc\x1b del\x7f",
		"Türkçe \"quoted\" \\",
		"bad \xff byte",
	}
	for _, v := range values {
		got, err := unquote(quote(v))
		require.NoError(t, err)
		assert.Equal(t, v, got, "quote(%q) = %s", v, quote(v))
	}
}

func TestEditedFieldKeepsEscapes(t *testing.T) {
	data := "msgid \"bell\\a tab\\v\"\nmsgstr \"\"\n"
	f, err := ParseBytes([]byte(data))
	require.NoError(t, err)

	f.Entries[0].SetTranslation("zil\a sekme\v")
	out := string(f.Bytes())
	assert.Contains(t, out, `msgid "bell\a tab\v"`)
	assert.Contains(t, out, `msgstr "zil\a sekme\v"`)
}

func TestParseBOMAndTrailingComments(t *testing.T) {
	data := "\ufeffmsgid \"A\"\nmsgstr \"B\"\n\n# trailing note\n"
	f, err := ParseBytes([]byte(data))
	require.NoError(t, err)
	require.Len(t, f.Entries, 1)
	assert.Equal(t, "A", f.Entries[0].MsgID)
}

func TestParseWithoutBlankLines(t *testing.T) {
	data := "msgid \"A\"\nmsgstr \"1\"\nmsgid \"B\"\nmsgstr \"2\"\n#, fuzzy\nmsgid \"C\"\nmsgstr \"3\"\n"
	f, err := ParseBytes([]byte(data))
	require.NoError(t, err)
	require.Len(t, f.Entries, 3)
	assert.Equal(t, "B", f.Entries[1].MsgID)
	assert.True(t, f.Entries[2].IsFuzzy())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		line int
	}{
		{
			name: "plain text",
			data: "this is not a catalog\n",
			line: 1,
		},
		{
			name: "unterminated string",
			data: "msgid \"Hello\nmsgstr \"\"\n",
			line: 1,
		},
		{
			name: "continuation without keyword",
			data: "\"dangling\"\n",
			line: 1,
		},
		{
			name: "msgstr without msgid",
			data: "msgstr \"orphan\"\n\n",
			line: 2,
		},
		{
			name: "bad plural index",
			data: "msgid \"a\"\nmsgid_plural \"b\"\nmsgstr[x] \"c\"\n",
			line: 3,
		},
		{
			name: "invalid utf-8",
			data: "msgid \"\xff\"\n",
			line: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.data))
			require.Error(t, err)

			var syn *SyntaxError
			require.True(t, errors.As(err, &syn), "expected *SyntaxError, got %T", err)
			assert.Equal(t, tt.line, syn.Line)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	f, err := ParseBytes(nil)
	require.NoError(t, err)
	assert.Nil(t, f.Header)
	assert.Empty(t, f.Entries)
}

// Fixtures in the layout msgmerge and xgettext produce.
var gettextCatalogs = []struct {
	name string
	data string
}{
	{
		name: "wrapped strings",
		data: `# Turkish translation.
#
msgid ""
msgstr ""
"Project-Id-Version: demo 1.0\n"
"Language: tr\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

#. TRANSLATORS: keep the placeholder
#: src/main.c:12 src/main.c:40
#: src/dialog.c:7
#, c-format
msgid ""
"This is a long message that xgettext wrapped at the column limit without "
"any embedded newline %s"
msgstr ""
"Bu, xgettext tarafından sütun sınırında bölünmüş uzun bir ileti "
"%s"
`,
	},
	{
		name: "previous strings",
		data: `#, fuzzy
#| msgctxt "menu"
#| msgid ""
#| "Hello "
#| "world"
msgid "Hello there"
msgstr ""

#, fuzzy
#| msgid "One file"
#| msgid_plural "%d files"
msgid "One item"
msgid_plural "%d items"
msgstr[0] "%d öge"
msgstr[1] "%d öge"
`,
	},
	{
		name: "obsolete previous strings",
		data: `msgid "a"
msgstr "b"

#, fuzzy
#~| msgid "old"
#~ msgid "gone"
#~ msgstr "x"

#~ msgid ""
#~ "wrapped "
#~ "obsolete"
#~ msgstr "eski"
`,
	},
	{
		name: "c escapes",
		data: `msgctxt "tty"
msgid "bell\a tab\v feed\f back\b"
msgstr "zil\a sekme\v"

msgid "octal \033[1m and hex \x1b"
msgstr ""
`,
	},
}

func TestGettextCatalogsRoundTrip(t *testing.T) {
	for _, tt := range gettextCatalogs {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseBytes([]byte(tt.data))
			require.NoError(t, err)

			assert.Equal(t, tt.data, string(f.Bytes()))

			again, err := ParseBytes(f.Bytes())
			require.NoError(t, err)
			assert.Equal(t, f.Header == nil, again.Header == nil)
			require.Len(t, again.Entries, len(f.Entries))
			for i, e := range f.Entries {
				got := again.Entries[i]
				assert.Equal(t, e.MsgCtxt, got.MsgCtxt, "entry %d", i)
				assert.Equal(t, e.MsgID, got.MsgID, "entry %d", i)
				assert.Equal(t, e.MsgIDPlural, got.MsgIDPlural, "entry %d", i)
				assert.Equal(t, e.MsgStr, got.MsgStr, "entry %d", i)
				assert.Equal(t, e.MsgStrPlural, got.MsgStrPlural, "entry %d", i)
				assert.Equal(t, e.Flags, got.Flags, "entry %d", i)
				assert.Equal(t, e.References, got.References, "entry %d", i)
				assert.Equal(t, e.Previous, got.Previous, "entry %d", i)
				assert.Equal(t, e.Obsolete, got.Obsolete, "entry %d", i)
			}
		})
	}
}

func TestGettextCatalogEditTouchesOnlyEditedEntry(t *testing.T) {
	data := gettextCatalogs[0].data
	f, err := ParseBytes([]byte(data))
	require.NoError(t, err)
	require.Len(t, f.Entries, 1)

	f.Entries[0].SetTranslation("Yeni çeviri %s")
	out := string(f.Bytes())

	header := data[:strings.Index(data, "#. TRANSLATORS")]
	assert.True(t, strings.HasPrefix(out, header), "header rewritten:\n%s", out)
	assert.Contains(t, out, "#: src/main.c:12 src/main.c:40\n#: src/dialog.c:7\n")
	assert.Contains(t, out, "msgid \"\"\n\"This is a long message that xgettext wrapped at the column limit without \"\n")
	assert.Contains(t, out, "msgstr \"Yeni çeviri %s\"\n")
}

func TestObsoletePreviousStrings(t *testing.T) {
	f, err := ParseBytes([]byte(gettextCatalogs[2].data))
	require.NoError(t, err)
	require.Len(t, f.Entries, 3)

	gone := f.Entries[1]
	assert.True(t, gone.Obsolete)
	assert.Equal(t, "gone", gone.MsgID)
	assert.Equal(t, []string{`msgid "old"`}, gone.Previous)
	assert.Equal(t, "old", gone.PreviousField("msgid"))
	assert.Equal(t, "wrapped obsolete", f.Entries[2].MsgID)
}

func TestPreviousFields(t *testing.T) {
	f, err := ParseBytes([]byte(gettextCatalogs[1].data))
	require.NoError(t, err)
	require.Len(t, f.Entries, 2)

	hello := f.Entries[0]
	assert.Equal(t, "menu", hello.PreviousField("msgctxt"))
	assert.Equal(t, "Hello world", hello.PreviousField("msgid"))
	assert.Equal(t, "", hello.PreviousField("msgid_plural"))

	items := f.Entries[1]
	assert.Equal(t, "One file", items.PreviousField("msgid"))
	assert.Equal(t, "%d files", items.PreviousField("msgid_plural"))

	// Clearing fuzzy rewrites the flag line only; the previous strings stay.
	hello.SetFuzzy(false)
	hello.SetTranslation("Merhaba")
	again, err := ParseBytes(f.Bytes())
	require.NoError(t, err)
	assert.False(t, again.Entries[0].IsFuzzy())
	assert.Equal(t, hello.Previous, again.Entries[0].Previous)
	assert.Equal(t, "Hello world", again.Entries[0].PreviousField("msgid"))
}
