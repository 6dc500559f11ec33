package textindex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codeengine/internal/analysis"
)

func TestBuildMappingSucceeds(t *testing.T) {
	im, err := BuildMapping(analysis.LoadDefaultSynonyms(), true)
	require.NoError(t, err)
	require.NotNil(t, im)
	require.Equal(t, analysis.CodeAnalyzerName, im.DefaultAnalyzer)
}

func TestBuildMappingWithoutSynonyms(t *testing.T) {
	im, err := BuildMapping(nil, false)
	require.NoError(t, err)
	require.NotNil(t, im)
}
