package shape

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codeengine/internal/plan"
)

type fakeContent struct {
	byPath map[string]string
}

func (f fakeContent) StoredField(ctx context.Context, path, field string) ([]byte, bool, error) {
	body, ok := f.byPath[path]
	if !ok {
		return nil, false, nil
	}
	return []byte(body), true, nil
}

type fakeDetailStore struct {
	puts map[uint64][]ShapedHit
}

func newFakeDetailStore() *fakeDetailStore { return &fakeDetailStore{puts: map[uint64][]ShapedHit{}} }

func (f *fakeDetailStore) Put(handle uint64, hits []ShapedHit, ttl time.Duration) {
	f.puts[handle] = hits
}

func TestShapeReturnsFullWhenUnderBudget(t *testing.T) {
	content := fakeContent{byPath: map[string]string{"a.go": "package a\nfunc Handler() {}"}}
	s := New(content, nil, Config{})

	result := plan.CompositeResult{Hits: []plan.Hit{
		{Path: "a.go", Score: 1, Tier: plan.TierScored, Locations: map[string][]string{"content": {"Handler"}}},
	}}

	resp, err := s.Shape(context.Background(), result, Options{TokenBudget: 10000, Mode: ModeAuto})
	require.NoError(t, err)
	assert.Equal(t, ModeFull, resp.Mode)
	assert.False(t, resp.AutoSwitched)
	assert.Nil(t, resp.DetailHandle)
	require.Len(t, resp.Hits, 1)
	assert.Contains(t, resp.Hits[0].Snippets[0], "Handler")
}

func TestShapeDowngradesToSummaryOverBudget(t *testing.T) {
	big := strings.Repeat("word ", 5000)
	content := fakeContent{byPath: map[string]string{"a.go": big}}
	store := newFakeDetailStore()
	s := New(content, store, Config{})

	result := plan.CompositeResult{Hits: []plan.Hit{
		{Path: "a.go", Score: 1, Tier: plan.TierScored, Locations: map[string][]string{"content": {"word"}}},
	}}

	resp, err := s.Shape(context.Background(), result, Options{TokenBudget: 10, Mode: ModeAuto, SnapshotID: 2, Query: "word"})
	require.NoError(t, err)
	assert.Equal(t, ModeSummary, resp.Mode)
	assert.True(t, resp.AutoSwitched)
	require.NotNil(t, resp.DetailHandle)
	assert.Len(t, store.puts, 1)
}

func TestShapeExplicitSummaryNeverFlagsAutoSwitched(t *testing.T) {
	content := fakeContent{byPath: map[string]string{"a.go": "small content"}}
	s := New(content, nil, Config{})

	result := plan.CompositeResult{Hits: []plan.Hit{{Path: "a.go", Score: 1, Tier: plan.TierScored}}}
	resp, err := s.Shape(context.Background(), result, Options{TokenBudget: 10000, Mode: ModeSummary})
	require.NoError(t, err)
	assert.Equal(t, ModeSummary, resp.Mode)
	assert.False(t, resp.AutoSwitched)
}

func TestShapeFallsBackToSignatureSnippetForExactTierHits(t *testing.T) {
	s := New(nil, nil, Config{})
	result := plan.CompositeResult{Hits: []plan.Hit{
		{Path: "a.go", Tier: plan.TierExact, Fields: map[string]interface{}{"signature": "func Handler()"}},
	}}
	resp, err := s.Shape(context.Background(), result, Options{TokenBudget: 10000})
	require.NoError(t, err)
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, []string{"func Handler()"}, resp.Hits[0].Snippets)
}

func TestResolveDetailSlicesOneBasedInclusiveRange(t *testing.T) {
	hits := []ShapedHit{{Path: "a"}, {Path: "b"}, {Path: "c"}}
	got := ResolveDetail(hits, 2, 3)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Path)
	assert.Equal(t, "c", got[1].Path)
}
