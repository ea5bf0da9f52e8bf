package pls_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/pls/pkg/pls"
)

func TestLength(t *testing.T) {
	t.Parallel()

	secs, ok := pls.UnknownLength.Seconds()
	assert.False(t, ok)
	assert.Zero(t, secs)
	assert.True(t, pls.UnknownLength.IsUnknown())
	assert.Equal(t, "-1", pls.UnknownLength.String())
	assert.Equal(t, int64(-1), pls.UnknownLength.Int64())
	assert.Zero(t, pls.UnknownLength.Duration())

	l := pls.Seconds(90)
	secs, ok = l.Seconds()
	assert.True(t, ok)
	assert.Equal(t, uint64(90), secs)
	assert.Equal(t, "90", l.String())
	assert.Equal(t, 90*time.Second, l.Duration())

	assert.Equal(t, time.Duration(math.MaxInt64), pls.Seconds(1<<63).Duration())
	assert.Equal(t, time.Duration(math.MaxInt64), pls.Seconds(math.MaxUint64).Duration())
}

func TestParseLength(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want    pls.Length
		wantErr bool
	}{
		"-1":  {want: pls.UnknownLength},
		"0":   {want: pls.Seconds(0)},
		"420": {want: pls.Seconds(420)},
		"-2":  {wantErr: true},
		"1.5": {wantErr: true},
		"":    {wantErr: true},
		"abc": {wantErr: true},
	}

	for in, tc := range tcs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			got, err := pls.ParseLength(in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestElement_Encoding(t *testing.T) {
	t.Parallel()

	elems := []pls.Element{
		pls.NewElement("a.mp3", pls.WithTitle("A"), pls.WithLength(pls.Seconds(60))),
		pls.NewElement("b.mp3"),
	}

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(elems)
		require.NoError(t, err)
		assert.JSONEq(t,
			`[{"path":"a.mp3","title":"A","length":60},{"path":"b.mp3","length":-1}]`,
			string(b))

		var got []pls.Element
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, elems, got)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		b, err := yaml.Marshal(elems)
		require.NoError(t, err)

		var got []pls.Element
		require.NoError(t, yaml.Unmarshal(b, &got))
		assert.Equal(t, elems, got)
	})

	t.Run("invalid json length", func(t *testing.T) {
		t.Parallel()

		var got pls.Element

		err := json.Unmarshal([]byte(`{"path":"a","length":-5}`), &got)
		require.ErrorIs(t, err, pls.ErrInvalidInteger)
	})
}

func TestDuration(t *testing.T) {
	t.Parallel()

	total, known := pls.Duration([]pls.Element{
		{Path: "a", Length: pls.Seconds(60)},
		{Path: "b", Length: pls.Seconds(30)},
	})
	assert.True(t, known)
	assert.Equal(t, 90*time.Second, total)

	total, known = pls.Duration([]pls.Element{
		{Path: "a", Length: pls.Seconds(60)},
		{Path: "b"},
	})
	assert.False(t, known)
	assert.Equal(t, time.Minute, total)

	total, known = pls.Duration(nil)
	assert.True(t, known)
	assert.Zero(t, total)
}

func TestDuration_Saturates(t *testing.T) {
	t.Parallel()

	near := uint64(math.MaxInt64/int64(time.Second)) - 1

	tcs := map[string][]pls.Element{
		"single huge length": {
			{Path: "a", Length: pls.Seconds(math.MaxUint64)},
		},
		"sum overflows": {
			{Path: "a", Length: pls.Seconds(near)},
			{Path: "b", Length: pls.Seconds(near)},
		},
		"overflow then more": {
			{Path: "a", Length: pls.Seconds(near)},
			{Path: "b", Length: pls.Seconds(near)},
			{Path: "c", Length: pls.Seconds(1)},
		},
	}

	for name, elements := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			total, known := pls.Duration(elements)
			assert.True(t, known)
			assert.Equal(t, time.Duration(math.MaxInt64), total)
		})
	}
}

func TestTotalSeconds(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		elements  []pls.Element
		want      uint64
		wantKnown bool
	}{
		"empty": {
			want:      0,
			wantKnown: true,
		},
		"known": {
			elements:  []pls.Element{{Length: pls.Seconds(60)}, {Length: pls.Seconds(30)}},
			want:      90,
			wantKnown: true,
		},
		"unknown": {
			elements: []pls.Element{{Length: pls.Seconds(60)}, {}},
		},
		"saturates": {
			elements:  []pls.Element{{Length: pls.Seconds(math.MaxUint64)}, {Length: pls.Seconds(1)}},
			want:      math.MaxUint64,
			wantKnown: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, known := pls.TotalSeconds(tc.elements)
			assert.Equal(t, tc.wantKnown, known)
			assert.Equal(t, tc.want, got)
		})
	}
}
