package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// cliConfig holds the resolved command-line configuration.
type cliConfig struct {
	SourcePath  string
	Hash        string
	MaxPaths    int
	Align       int
	Parallelism int
	Leaf        int
	Proof       int
	Verbosity   int
}

// asAssemblyError is errors.As with a concrete signature, kept here so
// main.go reads cleanly.
func asAssemblyError(err error, target any) bool {
	return errors.As(err, target)
}

// parseFlags parses args into a cliConfig. When exit is true the
// caller should terminate immediately with the returned code (help,
// version, or a usage error).
func parseFlags(args []string, out io.Writer) (cfg cliConfig, exit bool, code int) {
	fs := flag.NewFlagSet("zkasm", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVar(&cfg.Hash, "hash", "blake2b", "hash scheme: blake2b, sha3, keccak")
	fs.IntVar(&cfg.MaxPaths, "max-paths", 32768, "execution path ceiling")
	fs.IntVar(&cfg.Align, "align", 16, "leaf block cycle alignment")
	fs.IntVar(&cfg.Parallelism, "parallelism", 1, "leaf hashing workers")
	fs.IntVar(&cfg.Leaf, "leaf", -1, "dump the instruction listing of this leaf index")
	fs.IntVar(&cfg.Proof, "proof", -1, "print the Merkle proof for this leaf index")
	fs.IntVar(&cfg.Verbosity, "verbosity", 1, "log level 0-3")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, true, 0
		}
		return cfg, true, 2
	}

	if *showVersion {
		fmt.Fprintf(out, "zkasm %s (%s)\n", version, commit)
		return cfg, true, 0
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(out, "usage: zkasm [flags] <source-file>")
		fs.PrintDefaults()
		return cfg, true, 2
	}
	cfg.SourcePath = fs.Arg(0)
	return cfg, false, 0
}
