package pls

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	sectionPlaylist = "playlist"

	keyVersion         = "Version"
	keyNumberOfEntries = "NumberOfEntries"
	keyFile            = "File"
	keyTitle           = "Title"
	keyLength          = "Length"

	// SupportedVersion is the only PLS version understood by this package.
	SupportedVersion = 2
)

var utf8BOM = []byte("\ufeff")

// countKeys lists the accepted spellings of the entry count key, in order of
// preference. Some major radio stations publish the non-canonical ones.
var countKeys = []string{
	keyNumberOfEntries,
	"numberofentries",
	"NumberOfEvents",
}

// ParseOpt configures [Parse].
type ParseOpt func(*parseOptions)

type parseOptions struct {
	maxEntries     uint64
	requireVersion bool
}

// WithRequireVersion makes a missing Version key an error.
func WithRequireVersion() ParseOpt {
	return func(o *parseOptions) {
		o.requireVersion = true
	}
}

// WithMaxEntries rejects playlists declaring more than n entries.
// Zero means no limit.
func WithMaxEntries(n uint64) ParseOpt {
	return func(o *parseOptions) {
		o.maxEntries = n
	}
}

// Parse reads a playlist from r.
//
// The parser is lenient and accepts anything, as long as the [playlist]
// section, the entry count and each File# key are present.
func Parse(r io.Reader, opts ...ParseOpt) ([]Element, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}

	return Unmarshal(data, opts...)
}

// Unmarshal parses a playlist from data. See [Parse].
func Unmarshal(data []byte, opts ...ParseOpt) ([]Element, error) {
	po := &parseOptions{}
	for _, opt := range opts {
		opt(po)
	}

	f, err := load(data)
	if err != nil {
		return nil, &SyntaxError{Err: err}
	}

	sec, err := f.GetSection(sectionPlaylist)
	if err != nil {
		return nil, ErrMissingPlaylistSection
	}

	err = checkVersion(sec, po.requireVersion)
	if err != nil {
		return nil, err
	}

	count, err := entryCount(sec, po.maxEntries)
	if err != nil {
		return nil, err
	}

	// Never trust the declared count for allocation: every entry needs at
	// least one key, so the section size is an upper bound.
	elems := make([]Element, 0, min(count, uint64(len(sec.Keys()))))
	for i := uint64(1); i <= count; i++ {
		e, err := parseElement(sec, i)
		if err != nil {
			return nil, err
		}

		elems = append(elems, e)
	}

	return elems, nil
}

// load reads data into an [ini.File]. Lines are split on the first '=' and
// values are stored as written, minus surrounding whitespace. Quotes,
// backticks and comment characters inside values carry no meaning, so any
// value the writer emits reads back unchanged. Lines starting with ';' or '#'
// are comments.
func load(data []byte) (*ini.File, error) {
	f := ini.Empty()
	sec := f.Section("")
	n := 0

	for raw := range bytes.Lines(bytes.TrimPrefix(data, utf8BOM)) {
		n++

		line := strings.TrimSpace(string(raw))
		switch {
		case line == "", line[0] == ';', line[0] == '#':
			continue

		case line[0] == '[':
			name, ok := strings.CutSuffix(line[1:], "]")
			if !ok {
				return nil, fmt.Errorf("line %d: unclosed section header %q", n, line)
			}

			var err error

			sec, err = f.NewSection(strings.TrimSpace(name))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}

			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: key-value delimiter not found: %q", n, line)
		}

		_, err := sec.NewKey(strings.TrimSpace(key), strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}

	return f, nil
}

func checkVersion(sec *ini.Section, required bool) error {
	if !sec.HasKey(keyVersion) {
		if required {
			return &KeyError{Key: keyVersion}
		}

		return nil
	}

	v, err := parseUint(sec, keyVersion)
	if err != nil {
		return err
	}
	if v != SupportedVersion {
		return &VersionError{Version: v}
	}

	return nil
}

func entryCount(sec *ini.Section, maxEntries uint64) (uint64, error) {
	for _, key := range countKeys {
		if !sec.HasKey(key) {
			continue
		}

		n, err := parseUint(sec, key)
		if err != nil {
			return 0, err
		}
		if maxEntries > 0 && n > maxEntries {
			return 0, &IntegerError{
				Key:   key,
				Value: sec.Key(key).Value(),
				Err: &strconv.NumError{
					Func: "ParseUint",
					Num:  sec.Key(key).Value(),
					Err:  strconv.ErrRange,
				},
			}
		}

		return n, nil
	}

	return 0, &KeyError{Key: keyNumberOfEntries}
}

func parseElement(sec *ini.Section, i uint64) (Element, error) {
	fileKey := indexedKey(keyFile, i)
	if !sec.HasKey(fileKey) {
		return Element{}, &KeyError{Key: fileKey}
	}

	e := Element{Path: sec.Key(fileKey).Value()}

	titleKey := indexedKey(keyTitle, i)
	if sec.HasKey(titleKey) {
		title := sec.Key(titleKey).Value()
		e.Title = &title
	}

	lengthKey := indexedKey(keyLength, i)
	if sec.HasKey(lengthKey) {
		value := sec.Key(lengthKey).Value()

		l, err := ParseLength(value)
		if err != nil {
			return Element{}, &IntegerError{Key: lengthKey, Value: value, Err: err}
		}

		e.Length = l
	}

	return e, nil
}

func parseUint(sec *ini.Section, key string) (uint64, error) {
	value := sec.Key(key).Value()

	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, &IntegerError{Key: key, Value: value, Err: err}
	}

	return n, nil
}

func indexedKey(prefix string, i uint64) string {
	return prefix + strconv.FormatUint(i, 10)
}
