// Package field implements arithmetic in the prime field GF(p) with
// p = 2^128 - 45*2^40 + 1. Every immediate value in a compiled program
// is an element of this field, and the fixed-width leaf encoding hashed
// into the program commitment serializes elements with Bytes16.
//
// Elements are backed by uint256.Int; since p < 2^128, modular
// reduction with AddMod/MulMod never overflows the 256-bit workspace.
package field

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// ModulusDecimal is the decimal form of the field modulus
// 2^128 - 45*2^40 + 1.
const ModulusDecimal = "340282366920938463463374557953744961537"

var modulus = func() *uint256.Int {
	m, err := uint256.FromDecimal(ModulusDecimal)
	if err != nil {
		panic("field: bad modulus literal: " + err.Error())
	}
	return m
}()

// Modulus returns a copy of the field modulus as a big.Int.
func Modulus() *big.Int {
	return modulus.ToBig()
}

// Element is a value in GF(p). The zero value is the field's zero.
// Elements are immutable; all operations return new values.
type Element struct {
	v uint256.Int
}

// Zero returns the additive identity.
func Zero() Element {
	return Element{}
}

// One returns the multiplicative identity.
func One() Element {
	return FromUint64(1)
}

// FromUint64 returns the element congruent to x. Every uint64 is
// already a canonical residue because p > 2^64.
func FromUint64(x uint64) Element {
	var e Element
	e.v.SetUint64(x)
	return e
}

// FromDecimal parses an unsigned decimal literal of any length and
// reduces it modulo p. Oversized literals are never rejected; they
// wrap, matching field-arithmetic semantics.
func FromDecimal(s string) (Element, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return Element{}, fmt.Errorf("field: invalid decimal literal %q", s)
	}
	n.Mod(n, modulus.ToBig())
	var e Element
	e.v.SetFromBig(n)
	return e, nil
}

// Add returns e + o mod p.
func (e Element) Add(o Element) Element {
	var r Element
	r.v.AddMod(&e.v, &o.v, modulus)
	return r
}

// Sub returns e - o mod p.
func (e Element) Sub(o Element) Element {
	var r Element
	if e.v.Lt(&o.v) {
		r.v.Add(&e.v, modulus)
		r.v.Sub(&r.v, &o.v)
		return r
	}
	r.v.Sub(&e.v, &o.v)
	return r
}

// Mul returns e * o mod p.
func (e Element) Mul(o Element) Element {
	var r Element
	r.v.MulMod(&e.v, &o.v, modulus)
	return r
}

// Equal reports whether two elements are the same residue.
func (e Element) Equal(o Element) bool {
	return e.v.Eq(&o.v)
}

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool {
	return e.v.IsZero()
}

// Bytes16 returns the canonical fixed-width encoding: 16 bytes,
// little-endian. This is the form concatenated into hashed leaf
// encodings, so it must never change.
func (e Element) Bytes16() [16]byte {
	be := e.v.Bytes32()
	var out [16]byte
	for i := 0; i < 16; i++ {
		out[i] = be[31-i]
	}
	return out
}

// Uint64 returns the low 64 bits of the canonical residue.
func (e Element) Uint64() uint64 {
	return e.v.Uint64()
}

// String returns the canonical residue in decimal.
func (e Element) String() string {
	return e.v.Dec()
}
