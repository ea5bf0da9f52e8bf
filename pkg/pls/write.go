package pls

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Write writes elements to w as a version 2 playlist.
//
// Titles are written only when non-nil and lengths only when known. Values
// containing line breaks cannot be represented and are rejected before
// anything is written.
func Write(w io.Writer, elements []Element) error {
	err := checkWritable(elements)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	writeLine(bw, "[", sectionPlaylist, "]")

	for i, e := range elements {
		n := uint64(i) + 1 //nolint:gosec // G115: slice index is non-negative.

		writeLine(bw, indexedKey(keyFile, n), "=", e.Path)

		if e.Title != nil {
			writeLine(bw, indexedKey(keyTitle, n), "=", *e.Title)
		}

		if secs, ok := e.Length.Seconds(); ok {
			writeLine(bw, indexedKey(keyLength, n), "=", strconv.FormatUint(secs, 10))
		}

		writeLine(bw)
	}

	writeLine(bw, keyNumberOfEntries, "=", strconv.Itoa(len(elements)))
	writeLine(bw, keyVersion, "=", strconv.Itoa(SupportedVersion))

	err = bw.Flush()
	if err != nil {
		return fmt.Errorf("write playlist: %w", err)
	}

	return nil
}

// Marshal returns the playlist encoding of elements. See [Write].
func Marshal(elements []Element) ([]byte, error) {
	var buf bytes.Buffer

	err := Write(&buf, elements)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writeLine writes the parts followed by a newline. Errors are sticky in
// [bufio.Writer] and surface on Flush.
func writeLine(bw *bufio.Writer, parts ...string) {
	for _, p := range parts {
		_, _ = bw.WriteString(p)
	}

	_ = bw.WriteByte('\n')
}

func checkWritable(elements []Element) error {
	for i, e := range elements {
		if hasLineBreak(e.Path) {
			return &ValueError{Index: i + 1, Key: keyFile, Value: e.Path}
		}
		if e.Title != nil && hasLineBreak(*e.Title) {
			return &ValueError{Index: i + 1, Key: keyTitle, Value: *e.Title}
		}
	}

	return nil
}

func hasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}
