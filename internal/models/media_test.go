package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStringSliceString(t *testing.T) {
	assert.Equal(t, `["Heat","The Insider"]`, JSONStringSlice{"Heat", "The Insider"}.String())

	var j JSONStringSlice
	assert.Equal(t, "[]", j.String())
}

func TestParseJSONStringSlice(t *testing.T) {
	in := JSONStringSlice{"Heat", "The Insider"}
	out, err := ParseJSONStringSlice(in.String())
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out, err = ParseJSONStringSlice("")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = ParseJSONStringSlice("[")
	assert.Error(t, err)
}
