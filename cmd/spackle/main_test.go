package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeFlags(t *testing.T) {
	assert.Equal(t, "long", mergeFlags("long", "short"), "Long form should win")
	assert.Equal(t, "short", mergeFlags("", "short"), "Short form should fill in")
	assert.Equal(t, "", mergeFlags("", ""), "Both empty stays empty")
}

func TestTakeName(t *testing.T) {
	name, rest := takeName([]string{"build-box", "--json"})
	assert.Equal(t, "build-box", name, "Leading positional should be the name")
	assert.Equal(t, []string{"--json"}, rest, "Flags should remain")

	name, rest = takeName([]string{"--json"})
	assert.Equal(t, "", name, "A flag is not a name")
	assert.Equal(t, []string{"--json"}, rest, "Args should be untouched")

	name, rest = takeName(nil)
	assert.Equal(t, "", name)
	assert.Empty(t, rest)
}
