package wsv

import "github.com/pkg/errors"

// Mintability is the state machine governing whether an asset definition
// may still be minted: Infinitely is stable, Once transitions to Not on
// the first non-zero mint, Not is terminal.
type Mintability int

const (
	MintInfinitely Mintability = iota
	MintOnce
	MintNot
)

// NumericSpec declares the precision of a numeric asset value: Integer()
// rejects any fractional part, Fractional(n) allows up to n decimal
// digits.
type NumericSpec struct {
	Fractional int // -1 means integer-only
}

func IntegerSpec() NumericSpec        { return NumericSpec{Fractional: -1} }
func FractionalSpec(n int) NumericSpec { return NumericSpec{Fractional: n} }

func (s NumericSpec) String() string {
	if s.Fractional < 0 {
		return "integer"
	}
	return "fractional"
}

// Numeric is a fixed-point value represented as mantissa * 10^-scale, so
// that precision is exact (no floating point drift) and comparable.
type Numeric struct {
	Mantissa int64
	Scale    int // number of decimal digits; 0 for a whole number
}

func IntegerValue(v int64) Numeric { return Numeric{Mantissa: v, Scale: 0} }

// Precision returns the number of significant fractional digits, i.e. the
// scale with trailing zeros of the mantissa trimmed (150 at scale 2 has
// precision 1).
func (n Numeric) Precision() int {
	if n.Mantissa == 0 {
		return 0
	}
	m := n.Mantissa
	scale := n.Scale
	for scale > 0 && m%10 == 0 {
		m /= 10
		scale--
	}
	return scale
}

func (n Numeric) IsZero() bool { return n.Mantissa == 0 }

func (n Numeric) IsNegative() bool { return n.Mantissa < 0 }

// rescale returns n expressed at the given scale, or false if that would
// lose precision (scale < n.Precision()).
func (n Numeric) rescale(scale int) (Numeric, bool) {
	if scale < n.Precision() {
		return Numeric{}, false
	}
	m := n.Mantissa
	for s := n.Scale; s < scale; s++ {
		m *= 10
	}
	return Numeric{Mantissa: m, Scale: scale}, true
}

var ErrMath = errors.New("wsv: math error")

// Add sums two numerics at a common scale, erroring on overflow.
func Add(a, b Numeric) (Numeric, error) {
	scale := a.Scale
	if b.Scale > scale {
		scale = b.Scale
	}
	ra, _ := a.rescale(scale)
	rb, _ := b.rescale(scale)
	sum := ra.Mantissa + rb.Mantissa
	if (rb.Mantissa > 0 && sum < ra.Mantissa) || (rb.Mantissa < 0 && sum > ra.Mantissa) {
		return Numeric{}, errors.Wrap(ErrMath, "overflow")
	}
	return Numeric{Mantissa: sum, Scale: scale}, nil
}

// Sub subtracts b from a, erroring if the result would be negative
// (insufficient balance) or would overflow.
func Sub(a, b Numeric) (Numeric, error) {
	scale := a.Scale
	if b.Scale > scale {
		scale = b.Scale
	}
	ra, _ := a.rescale(scale)
	rb, _ := b.rescale(scale)
	diff := ra.Mantissa - rb.Mantissa
	if diff < 0 {
		return Numeric{}, errors.Wrap(ErrMath, "insufficient balance")
	}
	return Numeric{Mantissa: diff, Scale: scale}, nil
}

// AssetValueKind distinguishes a numeric asset from a key-value store
// asset.
type AssetValueKind int

const (
	AssetValueNumeric AssetValueKind = iota
	AssetValueStore
)

// AssetDefinition declares the shape and mintability of an asset kind.
type AssetDefinition struct {
	Id          AssetDefinitionId
	ValueKind   AssetValueKind
	NumericSpec NumericSpec
	Mintability Mintability
	Owner       AccountId
	Metadata    *Metadata
}

// TypeError reports a value-type mismatch against an asset definition.
type TypeError struct {
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return "wsv: type mismatch: expected " + e.Expected + ", actual " + e.Actual
}

// MintabilityError reports an illegal mint against a definition's
// mintability state.
type MintabilityError struct {
	Reason string
}

func (e *MintabilityError) Error() string { return "wsv: mintability: " + e.Reason }

// CheckValue validates value against the definition's declared type and
// precision, per spec §4.E "Numeric type check".
func (d *AssetDefinition) CheckValue(value Numeric) error {
	if d.ValueKind != AssetValueNumeric {
		return &TypeError{Expected: "store", Actual: "numeric"}
	}
	if d.NumericSpec.Fractional >= 0 && value.Precision() > d.NumericSpec.Fractional {
		return &TypeError{Expected: d.NumericSpec.String(), Actual: "fractional"}
	}
	if d.NumericSpec.Fractional < 0 && value.Precision() > 0 {
		return &TypeError{Expected: "integer", Actual: "fractional"}
	}
	return nil
}

// Asset is a numeric balance or key-value store owned by one account. A
// numeric asset that reaches zero is purged from the account's map by the
// owning logic in account.go — Asset itself never represents "absence".
type Asset struct {
	Id    AssetId
	Value AssetValue
}

// AssetValue is a tagged union of the two possible asset representations.
type AssetValue struct {
	Kind    AssetValueKind
	Numeric Numeric
	Store   *Metadata
}
