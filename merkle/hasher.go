// Package merkle canonically encodes execution-path leaves, hashes
// them through an injected hash capability, and folds the digests into
// the Merkle tree whose root is the program commitment.
package merkle

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Digest is a 32-byte hash output.
type Digest [32]byte

// Hex returns the digest as lowercase hex.
func (d Digest) Hex() string {
	return fmt.Sprintf("%x", d[:])
}

// Hasher is the hash capability injected into compilation. It is
// always passed explicitly; the package keeps no process-wide default,
// so the same build can commit under different schemes without
// re-derivation risk.
type Hasher interface {
	// Name identifies the scheme; it is recorded in the Program
	// metadata so consumers can replicate leaf digests.
	Name() string

	// Sum hashes data to a digest.
	Sum(data []byte) (Digest, error)
}

// HashError wraps a failure (error return or panic) from the injected
// hash capability. It is propagated unchanged and never retried.
type HashError struct {
	Hash string
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("merkle: hash %q failed: %v", e.Hash, e.Err)
}

func (e *HashError) Unwrap() error { return e.Err }

// Position returns -1: hash failures have no source location.
func (e *HashError) Position() int { return -1 }

type blake2bHasher struct{}

func (blake2bHasher) Name() string { return "blake2b-256" }
func (blake2bHasher) Sum(data []byte) (Digest, error) {
	return blake2b.Sum256(data), nil
}

// Blake2b returns the BLAKE2b-256 hash capability.
func Blake2b() Hasher { return blake2bHasher{} }

type sha3Hasher struct{}

func (sha3Hasher) Name() string { return "sha3-256" }
func (sha3Hasher) Sum(data []byte) (Digest, error) {
	return sha3.Sum256(data), nil
}

// Sha3 returns the SHA3-256 hash capability.
func Sha3() Hasher { return sha3Hasher{} }

type keccakHasher struct{}

func (keccakHasher) Name() string { return "keccak256" }
func (keccakHasher) Sum(data []byte) (Digest, error) {
	return Digest(crypto.Keccak256Hash(data)), nil
}

// Keccak returns the legacy Keccak-256 hash capability.
func Keccak() Hasher { return keccakHasher{} }

// New returns the named hash capability: "blake2b-256" (or "blake2b"),
// "sha3-256" (or "sha3"), "keccak256" (or "keccak").
func New(name string) (Hasher, error) {
	switch name {
	case "blake2b-256", "blake2b":
		return Blake2b(), nil
	case "sha3-256", "sha3":
		return Sha3(), nil
	case "keccak256", "keccak":
		return Keccak(), nil
	}
	return nil, fmt.Errorf("merkle: unknown hash scheme %q", name)
}
