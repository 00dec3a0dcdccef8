// Package fixed implements the Q-format arithmetic used for every score in the
// search. Values are signed 32-bit integers with Bits fractional bits, so a
// search produces the same numbers on every platform.
package fixed

import (
	"fmt"
	"math"
	"math/bits"
)

// Q is a fixed-point number with Bits fractional bits.
type Q int32

const Bits = 8

const (
	One  Q = 1 << Bits
	Half Q = 1 << (Bits - 1)
	Zero Q = 0

	// Max compares greater than any score the search can produce.
	Max Q = math.MaxInt32
)

// ln2 in Q format, used to turn Log2 into a natural logarithm.
const ln2 Q = 177

// logIterations bounds the bisection in Log2.
const logIterations = 20

func FromInt(n int) Q {
	return Q(n << Bits)
}

// Int truncates towards zero.
func (q Q) Int() int {
	return int(q) / int(One)
}

func (q Q) String() string {
	whole := int64(q) >> Bits
	frac := int64(q) & int64(One-1)
	return fmt.Sprintf("%d+%d/%d", whole, frac, One)
}

// Float is for logging and reports only; nothing in the search reads it.
func (q Q) Float() float64 {
	return float64(q) / float64(One)
}

func Mul(a, b Q) Q {
	return Q((int64(a) * int64(b)) >> Bits)
}

// Div divides a by b rounding to the nearest representable value. The dividend
// is scaled into 64 bits before half the divisor is added. b must not be zero.
func Div(a, b Q) Q {
	if b == 0 {
		panic("fixed: division by zero")
	}
	temp := int64(a) << Bits
	temp += int64(b) / 2
	return Q(temp / int64(b))
}

// Sqrt computes the square root with the digit-by-digit method on the raw
// integer and shifts the result by Bits/2. Values at or below One are returned
// unchanged. Negative input is a caller error.
func Sqrt(x Q) Q {
	if x <= One {
		return x
	}
	return Q(isqrt(uint64(x)) << (Bits / 2))
}

func sqrt64(x int64) int64 {
	if x <= int64(One) {
		return x
	}
	return int64(isqrt(uint64(x)) << (Bits / 2))
}

func isqrt(x uint64) uint64 {
	var z uint64
	m := uint64(1) << ((63 - bits.LeadingZeros64(x)) &^ 1)
	for ; m != 0; m >>= 2 {
		b := z + m
		z >>= 1
		if x >= b {
			x -= b
			z += m
		}
	}
	return z
}

// Log2 returns the base-2 logarithm of n. The power-of-two bracket around n is
// refined by bisection, each step moving one bound to the geometric mean of
// both. Log2(0) and Log2(1) are 0.
func Log2(n int) Q {
	if n <= 1 {
		return 0
	}

	y := int64(n) << Bits
	msb := 63 - bits.LeadingZeros64(uint64(y))
	lo, hi := int64(1)<<msb, int64(1)<<(msb+1)
	loLog := Q((msb - Bits) << Bits)
	hiLog := loLog + One

	var log Q
	for i := 1; i < logIterations; i++ {
		if y == lo {
			return loLog
		} else if y == hi {
			return hiLog
		}
		log = Div(loLog+hiLog, 2*One)

		mean := sqrt64((lo * hi) >> Bits)
		if y >= mean {
			lo = mean
			loLog = log
		} else {
			hi = mean
			hiLog = log
		}
	}
	return log
}

// Log returns the natural logarithm of n, with Log(0) == Log(1) == 0.
func Log(n int) Q {
	return Mul(Log2(n), ln2)
}
