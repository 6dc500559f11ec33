package shape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFragmentsCentersOnTermOccurrence(t *testing.T) {
	content := strings.Repeat("x", 200) + "NEEDLE" + strings.Repeat("y", 200)
	frags := fragments(content, []string{"NEEDLE"}, 3, 100)
	assert.Len(t, frags, 1)
	assert.Contains(t, frags[0], "NEEDLE")
	assert.LessOrEqual(t, len(frags[0]), 100)
}

func TestFragmentsCapsAtMaxFragments(t *testing.T) {
	content := "alpha " + strings.Repeat("z", 150) + " beta " + strings.Repeat("z", 150) + " gamma " + strings.Repeat("z", 150) + " delta"
	frags := fragments(content, []string{"alpha", "beta", "gamma", "delta"}, 3, 50)
	assert.LessOrEqual(t, len(frags), 3)
}

func TestFragmentsFallsBackToLeadingSliceWhenNoTermMatches(t *testing.T) {
	content := "no matches here at all"
	frags := fragments(content, []string{"absent"}, 3, 10)
	assert.Len(t, frags, 1)
	assert.Equal(t, "no matches", frags[0])
}

func TestFragmentsEmptyContentReturnsNil(t *testing.T) {
	assert.Nil(t, fragments("", []string{"x"}, 3, 100))
}
