package pls

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/bits"
	"slices"
	"strconv"
	"time"

	"github.com/invopop/jsonschema"
)

const maxDurationSeconds = uint64(math.MaxInt64 / int64(time.Second))

// Element is a single entry of a playlist.
type Element struct {
	// Path is the value of the File# key. It may be a local path or a URL.
	Path string `json:"path" yaml:"path" jsonschema:"title=Path"`
	// Title is the value of the Title# key, or nil when the key is omitted.
	Title *string `json:"title,omitempty" yaml:"title,omitempty" jsonschema:"title=Title"`
	// Length is the value of the Length# key.
	Length Length `json:"length" yaml:"length" jsonschema:"title=Length"`
}

// NewElement creates an [Element] with an unknown length and no title.
func NewElement(path string, opts ...ElementOpt) Element {
	e := Element{Path: path}
	for _, opt := range opts {
		opt(&e)
	}

	return e
}

// ElementOpt configures an [Element] created by [NewElement].
type ElementOpt func(*Element)

// WithTitle sets the element title.
func WithTitle(title string) ElementOpt {
	return func(e *Element) {
		e.Title = &title
	}
}

// WithLength sets the element length.
func WithLength(l Length) ElementOpt {
	return func(e *Element) {
		e.Length = l
	}
}

// TitleOrEmpty returns the title, or "" when there is none.
func (e Element) TitleOrEmpty() string {
	if e.Title == nil {
		return ""
	}

	return *e.Title
}

// Length is the length of an [Element]. The zero value is unknown.
type Length struct {
	seconds uint64
	known   bool
}

// UnknownLength is used when the Length# key is omitted or set to -1.
var UnknownLength = Length{}

const unknownLengthText = "-1"

// Seconds returns a known [Length] of s seconds.
func Seconds(s uint64) Length {
	return Length{seconds: s, known: true}
}

// Seconds returns the number of seconds and whether the length is known.
func (l Length) Seconds() (uint64, bool) {
	return l.seconds, l.known
}

// IsUnknown reports whether the length is unknown.
func (l Length) IsUnknown() bool {
	return !l.known
}

// Duration returns the length as a [time.Duration]. Unknown lengths return
// 0. Lengths beyond the range of a [time.Duration] saturate at its maximum.
func (l Length) Duration() time.Duration {
	if !l.known {
		return 0
	}
	if l.seconds > maxDurationSeconds {
		return math.MaxInt64
	}

	return time.Duration(l.seconds) * time.Second //nolint:gosec // G115: bounds checked above.
}

// String returns the PLS text form: decimal seconds, or "-1" when unknown.
func (l Length) String() string {
	if !l.known {
		return unknownLengthText
	}

	return strconv.FormatUint(l.seconds, 10)
}

// Int64 returns the length in seconds, or -1 when unknown. Lengths above
// [math.MaxInt64] are clamped.
func (l Length) Int64() int64 {
	if !l.known {
		return -1
	}
	if l.seconds > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(l.seconds)
}

// ParseLength parses the PLS text form of a [Length].
func ParseLength(s string) (Length, error) {
	if s == unknownLengthText {
		return UnknownLength, nil
	}

	secs, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return UnknownLength, err //nolint:wrapcheck // Callers wrap with the key name.
	}

	return Seconds(secs), nil
}

// JSONSchemaExtend keeps length optional. An omitted length is unknown, as
// in PLS.
func (Element) JSONSchemaExtend(s *jsonschema.Schema) {
	s.Required = slices.DeleteFunc(s.Required, func(name string) bool {
		return name == "length"
	})
}

// JSONSchema describes the serialized form of a [Length].
func (Length) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "integer",
		Minimum:     json.Number(unknownLengthText),
		Description: "Length in seconds, or -1 when unknown.",
	}
}

// MarshalJSON implements [json.Marshaler].
func (l Length) MarshalJSON() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (l *Length) UnmarshalJSON(b []byte) error {
	return l.unmarshalText(b)
}

// MarshalYAML implements the goccy/go-yaml BytesMarshaler interface.
func (l Length) MarshalYAML() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalYAML implements the goccy/go-yaml BytesUnmarshaler interface.
func (l *Length) UnmarshalYAML(b []byte) error {
	return l.unmarshalText(b)
}

func (l *Length) unmarshalText(b []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(b), `"'`))
	if s == "" || s == "null" || s == "~" {
		*l = UnknownLength
		return nil
	}

	parsed, err := ParseLength(s)
	if err != nil {
		return fmt.Errorf("%w: length %q: %w", ErrInvalidInteger, s, err)
	}

	*l = parsed

	return nil
}

// Duration returns the total length of all elements. The boolean is false
// when at least one element has an unknown length, in which case the
// duration only covers the known lengths. The total saturates at the maximum
// [time.Duration].
func Duration(elements []Element) (time.Duration, bool) {
	var (
		total time.Duration
		known = true
	)

	for _, e := range elements {
		if e.Length.IsUnknown() {
			known = false
			continue
		}

		d := e.Length.Duration()
		if total > math.MaxInt64-d {
			total = math.MaxInt64
			continue
		}

		total += d
	}

	return total, known
}

// TotalSeconds returns the sum of all lengths in seconds, saturating at
// [math.MaxUint64]. The boolean is false when any length is unknown.
func TotalSeconds(elements []Element) (uint64, bool) {
	var total uint64

	for _, e := range elements {
		secs, ok := e.Length.Seconds()
		if !ok {
			return 0, false
		}

		sum, carry := bits.Add64(total, secs, 0)
		if carry != 0 {
			sum = math.MaxUint64
		}

		total = sum
	}

	return total, true
}
