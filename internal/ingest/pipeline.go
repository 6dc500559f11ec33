// Package ingest implements the dual-write pipeline (spec.md §4.6): the
// single path by which a file's bytes become both canonical symbol-store
// rows and an inverted-index document, kept consistent under crash
// recovery.
//
// Grounded on the teacher's internal/index/coordinator.go Coordinator:
// the same Lstat-before-read symlink skip, size-cap skip, and binary skip
// sequence (now delegated to internal/extract.Pool, which already applies
// the size/binary rules), generalized from the teacher's single coarse
// c.mu sync.Mutex to a per-path striped mutex so unrelated files ingest in
// parallel (spec.md §4.6 "different paths may run in parallel").
package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/standardbeagle/codeengine/internal/engineerr"
	"github.com/standardbeagle/codeengine/internal/extract"
	"github.com/standardbeagle/codeengine/internal/symbolstore"
	"github.com/standardbeagle/codeengine/internal/textindex"
)

// extractionCacheSize bounds the LRU of cached extraction output consulted
// during crash recovery (spec.md §4.6 "re-runs step 5 using cached
// extraction output if available"), grounded on the teacher's
// internal/scanner/scanner.go gitignore-matcher LRU sizing.
const extractionCacheSize = 512

// Config controls a Pipeline's size limits and failure-handling policy.
type Config struct {
	// MaxFileSize overrides the extractor pool's default size cap. Zero
	// keeps the pool's own default.
	MaxFileSize int64
	// CircuitMaxFailures is the consecutive-failure count after which a
	// path is quarantined (spec.md §4.6 "after the cap the file is
	// quarantined"). Default 5, matching engineerr.DefaultRetryConfig's
	// MaxRetries.
	CircuitMaxFailures int
	// CircuitResetTimeout is how long a quarantined path stays closed to
	// new attempts before one probe is allowed through. Default 1 minute.
	CircuitResetTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.CircuitMaxFailures <= 0 {
		c.CircuitMaxFailures = 5
	}
	if c.CircuitResetTimeout <= 0 {
		c.CircuitResetTimeout = time.Minute
	}
	return c
}

// Pipeline orchestrates extraction, symbol-store upsert, and index update
// for one workspace, atomically per file (spec.md §4.6).
type Pipeline struct {
	extractor  *extract.Pool
	store      *symbolstore.Store
	storeBatch *symbolstore.BatchWriter
	index      *textindex.Index
	indexBatch *textindex.BatchWriter
	log        *slog.Logger
	cfg        Config

	cache *lru.Cache[string, extract.Result]

	pathLocks sync.Map // string path -> *sync.Mutex

	breakersMu sync.Mutex
	breakers   map[string]*engineerr.CircuitBreaker
}

// New builds a Pipeline wired to store and index, sharing their
// BatchWriters as the pipeline's own commit path (spec.md §4.6 step 7).
func New(extractor *extract.Pool, store *symbolstore.Store, storeBatch *symbolstore.BatchWriter,
	index *textindex.Index, indexBatch *textindex.BatchWriter, log *slog.Logger, cfg Config) (*Pipeline, error) {
	if log == nil {
		log = slog.Default()
	}
	cache, err := lru.New[string, extract.Result](extractionCacheSize)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.CodeIO, err)
	}
	return &Pipeline{
		extractor:  extractor,
		store:      store,
		storeBatch: storeBatch,
		index:      index,
		indexBatch: indexBatch,
		log:        log,
		cfg:        cfg.withDefaults(),
		cache:      cache,
		breakers:   make(map[string]*engineerr.CircuitBreaker),
	}, nil
}

// lockFor returns the mutex guarding serialized updates to path, creating
// one on first use. Different paths receive different mutexes, so
// unrelated files ingest concurrently up to the extractor pool's width.
func (p *Pipeline) lockFor(path string) *sync.Mutex {
	actual, _ := p.pathLocks.LoadOrStore(path, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// breakerFor returns the circuit breaker quarantining repeated failures
// for path, creating one on first use (spec.md §4.6 failure semantics).
func (p *Pipeline) breakerFor(path string) *engineerr.CircuitBreaker {
	p.breakersMu.Lock()
	defer p.breakersMu.Unlock()
	cb, ok := p.breakers[path]
	if !ok {
		cb = engineerr.NewCircuitBreaker(p.cfg.CircuitMaxFailures, p.cfg.CircuitResetTimeout)
		p.breakers[path] = cb
	}
	return cb
}

// Quarantined reports whether path is currently quarantined after
// exhausting its retry cap (spec.md §4.6).
func (p *Pipeline) Quarantined(path string) bool {
	p.breakersMu.Lock()
	cb, ok := p.breakers[path]
	p.breakersMu.Unlock()
	return ok && cb.Quarantined()
}

// Flush commits any pending batched writes to both the symbol store and
// the index immediately, bypassing their timers.
func (p *Pipeline) Flush(ctx context.Context) error {
	if err := p.storeBatch.Flush(ctx); err != nil {
		return err
	}
	return p.indexBatch.Flush(ctx)
}

// Close flushes both batch writers' pending work.
func (p *Pipeline) Close(ctx context.Context) error {
	if err := p.storeBatch.Close(ctx); err != nil {
		return err
	}
	return p.indexBatch.Close(ctx)
}
