package pls_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/pls/pkg/pls"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := pls.Write(&buf, []pls.Element{
		{Path: pathStronger},
		{Path: pathTrap, Length: pls.Seconds(79)},
		{Path: pathKingdom, Title: ptr("A-F-R-O - Animal Kingdom"), Length: pls.Seconds(124)},
		{Path: pathCode, Title: ptr("A-F-R-O - CODE 829")},
	})
	require.NoError(t, err)

	assert.Equal(t, "[playlist]\n"+
		"File1="+pathStronger+"\n"+
		"\n"+
		"File2="+pathTrap+"\n"+
		"Length2=79\n"+
		"\n"+
		"File3="+pathKingdom+"\n"+
		"Title3=A-F-R-O - Animal Kingdom\n"+
		"Length3=124\n"+
		"\n"+
		"File4="+pathCode+"\n"+
		"Title4=A-F-R-O - CODE 829\n"+
		"\n"+
		"NumberOfEntries=4\n"+
		"Version=2\n", buf.String())
}

func TestWrite_Empty(t *testing.T) {
	t.Parallel()

	b, err := pls.Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "[playlist]\nNumberOfEntries=0\nVersion=2\n", string(b))

	got, err := pls.Unmarshal(b)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWrite_InvalidValue(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		wantKey  string
		elements []pls.Element
		wantIdx  int
	}{
		"newline in path": {
			elements: []pls.Element{{Path: "a.mp3"}, {Path: "b\n.mp3"}},
			wantKey:  "File",
			wantIdx:  2,
		},
		"carriage return in title": {
			elements: []pls.Element{{Path: "a.mp3", Title: ptr("A\rB")}},
			wantKey:  "Title",
			wantIdx:  1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			err := pls.Write(&buf, tc.elements)
			require.ErrorIs(t, err, pls.ErrInvalidValue)

			var verr *pls.ValueError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantKey, verr.Key)
			assert.Equal(t, tc.wantIdx, verr.Index)
			assert.Zero(t, buf.Len(), "nothing should be written")
		})
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWrite_WriterError(t *testing.T) {
	t.Parallel()

	err := pls.Write(failWriter{}, []pls.Element{{Path: "a.mp3"}})
	require.ErrorContains(t, err, "disk full")
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tcs := map[string][]pls.Element{
		"single": {
			pls.NewElement("a.mp3"),
		},
		"mixed": {
			pls.NewElement("a.mp3", pls.WithTitle("A"), pls.WithLength(pls.Seconds(1))),
			pls.NewElement("http://stream.example.com:8000/live", pls.WithTitle("")),
			pls.NewElement("c.ogg", pls.WithLength(pls.Seconds(0))),
			pls.NewElement("d.flac", pls.WithLength(pls.Seconds(18446744073709551615))),
		},
		"unicode": {
			pls.NewElement("/música/Ünïcödé.mp3", pls.WithTitle("日本語のタイトル")),
		},
		"quoting characters": {
			pls.NewElement("`weird`.mp3", pls.WithTitle("`Live` at Wembley")),
			pls.NewElement(`"""b""".mp3`, pls.WithTitle(`"Quoted"`)),
			pls.NewElement("[not a section]", pls.WithTitle("; not a comment")),
			pls.NewElement("#1.mp3", pls.WithTitle("a=b")),
		},
	}

	for name, want := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b, err := pls.Marshal(want)
			require.NoError(t, err)

			got, err := pls.Unmarshal(b)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add("a.mp3", "A", true, uint64(10), true)
	f.Add("`weird`.mp3", "`Live` at Wembley", true, uint64(0), false)
	f.Add(`"""x`, `"`, true, uint64(18446744073709551615), true)
	f.Add("[playlist]", "", false, uint64(1), true)

	f.Fuzz(func(t *testing.T, path, title string, hasTitle bool, secs uint64, known bool) {
		for _, v := range []string{path, title} {
			if strings.ContainsAny(v, "\r\n") || strings.TrimSpace(v) != v {
				t.Skip()
			}
		}

		opts := []pls.ElementOpt{}
		if hasTitle {
			opts = append(opts, pls.WithTitle(title))
		}
		if known {
			opts = append(opts, pls.WithLength(pls.Seconds(secs)))
		}

		want := []pls.Element{
			pls.NewElement(path, opts...),
			pls.NewElement("next.mp3", pls.WithTitle("Next"), pls.WithLength(pls.Seconds(1))),
		}

		b, err := pls.Marshal(want)
		require.NoError(t, err)

		got, err := pls.Unmarshal(b)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
