package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Nil(t, nullIfEmpty("   "))

	got := nullIfEmpty("  hello ")
	require.NotNil(t, got)
	assert.Equal(t, "hello", *got)
}

func TestJoinSplitCategories(t *testing.T) {
	assert.Equal(t, "Antibiotics,Supplements", joinCategories([]string{" Antibiotics", "", "Supplements "}))
	assert.Equal(t, "", joinCategories(nil))

	assert.Equal(t, []string{"Antibiotics", "Supplements"}, splitCategories("Antibiotics, Supplements"))
	assert.Equal(t, []string{}, splitCategories(""))
	assert.Equal(t, []string{}, splitCategories("  "))
	assert.Equal(t, []string{"Other"}, splitCategories(",Other,"))
}
