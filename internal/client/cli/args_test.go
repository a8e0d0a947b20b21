package cli

import (
	"testing"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "plain", line: "job get  j1", want: []string{"job", "get", "j1"}},
		{name: "double quotes", line: `title="Mural Artist" x`, want: []string{"title=Mural Artist", "x"}},
		{name: "single quotes keep backslash", line: `a='b\c'`, want: []string{`a=b\c`}},
		{name: "escaped quote", line: `about="say \"hi\""`, want: []string{`about=say "hi"`}},
		{name: "empty quoted value", line: `website=""`, want: []string{"website="}},
		{name: "blank", line: "   ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := splitArgs(`title="open`)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestParseKV(t *testing.T) {
	got, err := parseKV([]string{"a=1", "b=", "c=x=y", "a=2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "2", "b": "", "c": "x=y"}, got)

	_, err = parseKV([]string{"novalue"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = parseKV([]string{"=v"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestParseJobArgs(t *testing.T) {
	got, err := parseJobArgs([]string{"title=T", "postedDate=2024-03-01", "requirements=a, b,,c", "featured=true", "version=2"})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", got.postedDate)
	assert.Equal(t, "T", *got.patch.Title)
	assert.Equal(t, []string{"a", "b", "c"}, *got.patch.Requirements)
	assert.True(t, *got.patch.Featured)
	assert.Equal(t, int64(2), *got.patch.ExpectedVersion)

	for _, bad := range []string{"featured=maybe", "version=x", "colour=red"} {
		_, err := parseJobArgs([]string{bad})
		assert.ErrorIs(t, err, common.ErrValidation, bad)
	}
}
