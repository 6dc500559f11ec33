package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineComposesFactorsMultiplicatively(t *testing.T) {
	pipeline := NewPipeline(
		func(DocFields, Context) float64 { return 2.0 },
		func(DocFields, Context) float64 { return 3.0 },
	)
	score := pipeline.Score(1.0, DocFields{}, Context{})
	assert.InDelta(t, 6.0, score, 1e-9)
}

func TestPipelineClampsToPositiveRange(t *testing.T) {
	pipeline := NewPipeline(func(DocFields, Context) float64 { return 0 })
	score := pipeline.Score(1.0, DocFields{}, Context{})
	assert.Greater(t, score, 0.0)

	huge := NewPipeline(func(DocFields, Context) float64 { return 1e12 })
	assert.LessOrEqual(t, huge.Score(1.0, DocFields{}, Context{}), maxScore)
}

func TestDefaultFactorsForcesTypeDefinitionToTop(t *testing.T) {
	pipeline := NewPipeline(DefaultFactors()...)
	now := time.Now()

	ctx := NewContext("IWriter", now)
	typeDefHit := DocFields{
		Path:     "internal/io/writer.go",
		Filename: "writer.go",
		TypeDef:  []string{"implements iwriter"},
	}
	plainHit := DocFields{
		Path:     "internal/io/other.go",
		Filename: "other.go",
	}

	require.Greater(t, pipeline.Score(1.0, typeDefHit, ctx), pipeline.Score(1.0, plainHit, ctx))
}
