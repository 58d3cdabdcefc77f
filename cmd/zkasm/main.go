// Command zkasm compiles assembly source for the field VM into a
// Merkle-committed program and prints the commitment.
//
// Usage:
//
//	zkasm [flags] <source-file>
//
// Flags:
//
//	--hash         Hash scheme: blake2b, sha3, keccak (default: blake2b)
//	--max-paths    Execution path ceiling (default: 32768)
//	--align        Leaf block cycle alignment (default: 16)
//	--parallelism  Leaf hashing workers (default: 1)
//	--leaf         Dump the instruction listing of one leaf index
//	--proof        Print the Merkle proof for one leaf index
//	--verbosity    Log level 0-3 (default: 1)
//	--version      Print version and exit
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/zkasm/zkasm/compiler"
	"github.com/zkasm/zkasm/log"
	"github.com/zkasm/zkasm/merkle"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run is the actual entry point, returning an exit code. It accepts
// CLI arguments (without the program name) and an output writer so it
// can be tested in isolation.
func run(args []string, out io.Writer) int {
	cfg, exit, code := parseFlags(args, out)
	if exit {
		return code
	}

	log.SetDefault(log.New(log.VerbosityToLevel(cfg.Verbosity)))
	logger := log.Default().Module("cli")

	source, err := os.ReadFile(cfg.SourcePath)
	if err != nil {
		logger.Error("cannot read source", "path", cfg.SourcePath, "err", err)
		return 1
	}

	hasher, err := merkle.New(cfg.Hash)
	if err != nil {
		logger.Error("unknown hash scheme", "hash", cfg.Hash)
		return 1
	}

	program, err := compiler.Compile(string(source), hasher,
		compiler.WithMaxPaths(cfg.MaxPaths),
		compiler.WithCycleAlign(cfg.Align),
		compiler.WithParallelism(cfg.Parallelism),
	)
	if err != nil {
		var aerr compiler.AssemblyError
		if ok := asAssemblyError(err, &aerr); ok && aerr.Position() >= 0 {
			logger.Error("compilation failed", "err", err, "token", aerr.Position())
		} else {
			logger.Error("compilation failed", "err", err)
		}
		return 1
	}

	fmt.Fprintf(out, "hash:   %s\n", program.HashName())
	fmt.Fprintf(out, "root:   %s\n", program.Root().Hex())
	fmt.Fprintf(out, "leaves: %d\n", program.LeafCount())
	fmt.Fprintf(out, "depth:  %d\n", program.Depth())

	if cfg.Leaf >= 0 {
		if cfg.Leaf >= program.LeafCount() {
			logger.Error("leaf index out of range", "leaf", cfg.Leaf, "leaves", program.LeafCount())
			return 1
		}
		fmt.Fprintf(out, "leaf %d:\n", cfg.Leaf)
		for _, in := range program.Leaf(cfg.Leaf) {
			fmt.Fprintf(out, "  %s\n", in)
		}
	}

	if cfg.Proof >= 0 {
		proof, err := program.Proof(cfg.Proof)
		if err != nil {
			logger.Error("cannot build proof", "leaf", cfg.Proof, "err", err)
			return 1
		}
		fmt.Fprintf(out, "proof %d (leaf %s):\n", cfg.Proof, program.LeafDigest(cfg.Proof).Hex())
		for i, sib := range proof {
			fmt.Fprintf(out, "  level %d: %s\n", i, sib.Hex())
		}
	}
	return 0
}
