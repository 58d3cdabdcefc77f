// Package compiler sequences the compilation pipeline: source text is
// tokenized, macro-expanded into the execution-path graph, and
// committed into a Merkle tree under an injected hash capability. The
// whole pipeline is a pure function of (source, hasher); the first
// stage error aborts compilation and no partial Program is ever
// returned.
package compiler

import (
	"errors"
	"time"

	"github.com/zkasm/zkasm/asm"
	"github.com/zkasm/zkasm/log"
	"github.com/zkasm/zkasm/merkle"
	"github.com/zkasm/zkasm/metrics"
)

// ErrNilHasher is returned when no hash capability is supplied. The
// capability is explicit; there is no process-wide default to fall
// back to.
var ErrNilHasher = errors.New("compiler: nil hash capability")

type config struct {
	build       asm.Config
	parallelism int
	logger      *log.Logger
	metrics     *metrics.Compilation
}

// Option tunes a single compilation.
type Option func(*config)

// WithMaxPaths caps the execution-path count (default 32768).
func WithMaxPaths(n int) Option {
	return func(c *config) { c.build.MaxPaths = n }
}

// WithCycleAlign sets the leaf block cycle alignment (default 16).
func WithCycleAlign(n int) Option {
	return func(c *config) { c.build.CycleAlign = n }
}

// WithParallelism sets the leaf-hashing worker count (default 1,
// sequential). Leaf ordering is preserved regardless.
func WithParallelism(n int) Option {
	return func(c *config) { c.parallelism = n }
}

// WithLogger routes stage diagnostics to l instead of the package
// default logger.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMetrics records run counts, leaf counts and hashing time into m.
// Recording is observation only; it never alters the compiled output.
func WithMetrics(m *metrics.Compilation) Option {
	return func(c *config) { c.metrics = m }
}

// Compile assembles source into a committed Program under the hash
// capability h. Identical (source, h) inputs always produce
// bit-identical Programs.
func Compile(source string, h merkle.Hasher, opts ...Option) (*Program, error) {
	if h == nil {
		return nil, ErrNilHasher
	}
	cfg := config{
		build:       asm.DefaultConfig(),
		parallelism: 1,
		logger:      log.Default().Module("compiler"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	tokens, err := asm.Tokenize(source)
	if err != nil {
		cfg.metrics.RecordFailure()
		return nil, err
	}
	cfg.logger.Debug("tokenized", "tokens", len(tokens))

	graph, err := asm.BuildGraph(tokens, cfg.build)
	if err != nil {
		cfg.metrics.RecordFailure()
		return nil, err
	}
	cfg.logger.Debug("graph built",
		"leaves", graph.LeafCount(), "depth", graph.Depth())

	hashStart := time.Now()
	tree, err := merkle.Build(graph, h, cfg.parallelism)
	if err != nil {
		cfg.metrics.RecordFailure()
		return nil, err
	}
	hashTime := time.Since(hashStart)
	cfg.logger.Debug("committed",
		"hash", h.Name(),
		"root", tree.Root().Hex(),
		"elapsed", hashTime)

	cfg.metrics.RecordRun(graph.LeafCount(), hashTime)
	return &Program{graph: graph, tree: tree}, nil
}
