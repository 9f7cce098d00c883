package price

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/govalues/decimal"
)

// Price type represents an immutable reading of a non-negative asset price.
// The zero value is a zero price with an exponent of 0.
// It is designed to be safe for concurrent use by multiple goroutines.
//
// A price type is a struct with four parameters:
//
//   - Mantissa: an unsigned integer magnitude of the price.
//   - Confidence: an unsigned integer, the absolute uncertainty around the
//     mantissa, expressed at the same exponent.
//   - Exponent: a non-negative power-of-ten scale, such that the numeric
//     value of the price is Mantissa * 10^Exponent.
//   - Publish Time: an unsigned logical timestamp of the observation.
//
// One important aspect of the price is that it carries no sign.
// A negative price or a negative true difference between two prices is not
// representable, and operations that would produce one return an error.
type Price struct {
	mant fint   // the mantissa of the price
	conf fint   // the confidence interval around the mantissa
	time uint64 // the publish time of the observation
	expo uint8  // the power-of-ten exponent
}

const (
	// PDExpo is the exponent of the fixed-point normalization constant.
	PDExpo = 9
	// PDScale is the fixed-point normalization constant, equal to 10^PDExpo.
	// [Price.Mul] and [Price.Quo] assume their operand mantissas are
	// pre-scaled by this constant and divide it back out of the result.
	PDScale = 1_000_000_000
	// MaxExpo is the maximum exponent of a price.
	MaxExpo = 18
	// MaxMantissaBits is the width, in bits, of the largest mantissa or
	// confidence accepted by [Price.Mul] and [Price.Quo].
	MaxMantissaBits = 28

	// maxPDVal is the largest operand magnitude accepted by Mul and Quo.
	// Operands below 2^28 keep every intermediate product below 2^59,
	// so plain uint64 arithmetic cannot wrap.
	maxPDVal = 1<<MaxMantissaBits - 1
)

// Errors returned by price operations.
// Callers can match them with [errors.Is] to translate failures into
// their own reporting.
var (
	ErrExponentRange     = errors.New("exponent out of range")
	ErrExponentMismatch  = errors.New("exponent mismatch")
	ErrExponentOverflow  = errors.New("exponent overflow")
	ErrExponentUnderflow = errors.New("exponent underflow")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrMantissaOverflow  = errors.New("mantissa overflow")
	ErrNegativePrice     = errors.New("negative price")
)

func newPrice(mant, conf fint, expo int, time uint64) (Price, error) {
	if expo < 0 || expo > MaxExpo {
		return Price{}, ErrExponentRange
	}
	return Price{mant: mant, conf: conf, expo: uint8(expo), time: time}, nil
}

// New returns a price equal to mantissa * 10^expo with a confidence interval
// of conf * 10^expo, published at publishTime.
//
// New returns an error if expo is less than 0 or greater than [MaxExpo].
func New(mantissa, conf uint64, expo int, publishTime uint64) (Price, error) {
	return newPrice(fint(mantissa), fint(conf), expo, publishTime)
}

// Mantissa returns the mantissa of the price.
func (p Price) Mantissa() uint64 {
	return uint64(p.mant)
}

// Conf returns the confidence interval of the price, expressed at the same
// exponent as the mantissa.
func (p Price) Conf() uint64 {
	return uint64(p.conf)
}

// Expo returns the power-of-ten exponent of the price.
func (p Price) Expo() int {
	return int(p.expo)
}

// PublishTime returns the logical timestamp at which the price was observed.
func (p Price) PublishTime() uint64 {
	return p.time
}

// Zero returns a price with a value of 0 but the same exponent and
// publish time as p.
func (p Price) Zero() Price {
	return Price{expo: p.expo, time: p.time}
}

// IsZero returns true if the mantissa of p is 0.
func (p Price) IsZero() bool {
	return p.mant == 0
}

// Scale rescales a bare mantissa from one power-of-ten exponent to another:
//
//   - if fromExpo is less than toExpo, the mantissa is divided by
//     10^(toExpo - fromExpo), truncating towards zero;
//   - if fromExpo is greater than toExpo, the mantissa is multiplied by
//     10^(fromExpo - toExpo);
//   - if the exponents are equal, the mantissa is returned unchanged.
//
// Downscaling silently discards the low digits, it never rounds.
//
// Scale returns an error if either exponent is outside [0, [MaxExpo]] or
// if upscaling overflows an unsigned 64-bit mantissa.
func Scale(mantissa uint64, fromExpo, toExpo int) (uint64, error) {
	if fromExpo < 0 || fromExpo > MaxExpo || toExpo < 0 || toExpo > MaxExpo {
		return 0, ErrExponentRange
	}
	m := fint(mantissa)
	switch {
	case fromExpo < toExpo:
		m = m.rshDown(toExpo - fromExpo)
	case fromExpo > toExpo:
		var ok bool
		m, ok = m.lsh(fromExpo - toExpo)
		if !ok {
			return 0, ErrMantissaOverflow
		}
	}
	return uint64(m), nil
}

// Rescale returns a price equal to p expressed at the given exponent.
// Both the mantissa and the confidence interval are rescaled, using the
// same truncating rules as [Scale].
// Rescaling to a larger exponent loses precision.
//
// Rescale returns an error if expo is outside [0, [MaxExpo]] or if
// rescaling to a smaller exponent overflows the mantissa or the confidence.
func (p Price) Rescale(expo int) (Price, error) {
	mant, err := Scale(uint64(p.mant), int(p.expo), expo)
	if err != nil {
		return Price{}, err
	}
	conf, err := Scale(uint64(p.conf), int(p.expo), expo)
	if err != nil {
		return Price{}, err
	}
	return Price{mant: fint(mant), conf: fint(conf), expo: uint8(expo), time: p.time}, nil
}

// Add returns the sum of prices p and q.
// The mantissas add, the confidence intervals add (uncertainties are
// treated as independent and additive), and the publish time of the result
// is the later of the two publish times.
//
// Add returns an error:
//   - if the exponents of p and q differ
//     (rescale the operands to a common exponent first);
//   - if the sum of the mantissas or of the confidence intervals
//     overflows an unsigned 64-bit integer.
func (p Price) Add(q Price) (Price, error) {
	if p.expo != q.expo {
		return Price{}, ErrExponentMismatch
	}
	mant, ok := p.mant.add(q.mant)
	if !ok {
		return Price{}, ErrMantissaOverflow
	}
	conf, ok := p.conf.add(q.conf)
	if !ok {
		return Price{}, ErrMantissaOverflow
	}
	return Price{mant: mant, conf: conf, expo: p.expo, time: max(p.time, q.time)}, nil
}

// Sub returns the difference of prices p and q.
// The confidence intervals still add, errors compound regardless of the
// direction of the operation, and the publish time of the result is the
// later of the two publish times.
//
// Sub returns an error:
//   - if the exponents of p and q differ;
//   - if the mantissa of q exceeds the mantissa of p, as a negative price
//     is not representable;
//   - if the sum of the confidence intervals overflows.
func (p Price) Sub(q Price) (Price, error) {
	if p.expo != q.expo {
		return Price{}, ErrExponentMismatch
	}
	mant, ok := p.mant.sub(q.mant)
	if !ok {
		return Price{}, ErrNegativePrice
	}
	conf, ok := p.conf.add(q.conf)
	if !ok {
		return Price{}, ErrMantissaOverflow
	}
	return Price{mant: mant, conf: conf, expo: p.expo, time: max(p.time, q.time)}, nil
}

// Mul returns the product of prices p and q.
// The exponent of the result is the sum of the operand exponents.
// The mantissa is (p.mant * q.mant) / [PDScale], truncating towards zero,
// which assumes both operand mantissas are pre-scaled by [PDScale];
// operands that are not pre-scaled collapse towards zero.
// The confidence interval is propagated with the first-order product rule
//
//	(p.conf*q.mant + q.conf*p.mant) / PDScale
//
// omitting the second-order p.conf*q.conf term as negligible.
// The publish time of the result is the later of the two publish times.
//
// Mul returns an error:
//   - if the sum of the exponents exceeds [MaxExpo];
//   - if any operand mantissa or confidence does not fit in
//     [MaxMantissaBits] bits.
func (p Price) Mul(q Price) (Price, error) {
	expo := int(p.expo) + int(q.expo)
	if expo > MaxExpo {
		return Price{}, ErrExponentOverflow
	}
	if !p.fitsPD() || !q.fitsPD() {
		return Price{}, ErrMantissaOverflow
	}
	mant := p.mant * q.mant / PDScale
	conf := (p.conf*q.mant + q.conf*p.mant) / PDScale
	return Price{mant: mant, conf: conf, expo: uint8(expo), time: max(p.time, q.time)}, nil
}

// Quo returns the quotient of prices p and q.
// The exponent of the result is the difference of the operand exponents.
// The mantissa is (p.mant * [PDScale]) / q.mant, truncating towards zero.
// The confidence interval is propagated with the first-order quotient rule
//
//	(p.conf*PDScale + q.conf*p.mant) / q.mant
//
// omitting higher-order terms.
// The publish time of the result is the later of the two publish times.
//
// Quo returns an error:
//   - if the mantissa of q is 0;
//   - if the exponent of q exceeds the exponent of p, as the exponent is
//     unsigned and a negative result exponent is not representable
//     (rescale the dividend to a larger exponent first);
//   - if any operand mantissa or confidence does not fit in
//     [MaxMantissaBits] bits.
func (p Price) Quo(q Price) (Price, error) {
	if q.mant == 0 {
		return Price{}, ErrDivisionByZero
	}
	if q.expo > p.expo {
		return Price{}, ErrExponentUnderflow
	}
	if !p.fitsPD() || !q.fitsPD() {
		return Price{}, ErrMantissaOverflow
	}
	mant := p.mant * PDScale / q.mant
	conf := (p.conf*PDScale + q.conf*p.mant) / q.mant
	return Price{mant: mant, conf: conf, expo: p.expo - q.expo, time: max(p.time, q.time)}, nil
}

// Convert expresses the price p in units of the price q, where both are
// quoted in a shared quote currency.
// Dividing the two quotes cancels the shared unit: given BTC/USD and
// ETH/USD, Convert returns BTC/ETH.
// It is a semantic alias for [Price.Quo].
func (p Price) Convert(q Price) (Price, error) {
	return p.Quo(q)
}

// fitsPD reports whether both magnitudes of p are accepted by Mul and Quo.
func (p Price) fitsPD() bool {
	return p.mant <= maxPDVal && p.conf <= maxPDVal
}

// Float64 returns the nearest binary floating-point number to
// the value of the price, ignoring the confidence interval.
func (p Price) Float64() float64 {
	return float64(p.mant) * math.Pow10(int(p.expo))
}

// Decimal returns the exact value of the price, mantissa * 10^expo,
// as a [decimal.Decimal].
//
// Decimal returns an error if the value does not fit in 19 digits.
func (p Price) Decimal() (decimal.Decimal, error) {
	return toDecimal(p.mant, int(p.expo))
}

// DecimalConf returns the exact confidence interval of the price,
// conf * 10^expo, as a [decimal.Decimal].
//
// DecimalConf returns an error if the interval does not fit in 19 digits.
func (p Price) DecimalConf() (decimal.Decimal, error) {
	return toDecimal(p.conf, int(p.expo))
}

func toDecimal(m fint, expo int) (decimal.Decimal, error) {
	z, ok := m.lsh(expo)
	if !ok || z > math.MaxInt64 {
		return decimal.Decimal{}, ErrMantissaOverflow
	}
	return decimal.New(int64(z), 0)
}

// String method implements the [fmt.Stringer] interface and returns
// a string representation of the price in the form
//
//	<mantissa>±<confidence>e<exponent>@<publish time>
//
// For example, a price with a mantissa of 150000000, a confidence of
// 1000000, an exponent of 8, and a publish time of 100 is rendered
// as "150000000±1000000e8@100".
func (p Price) String() string {
	b := make([]byte, 0, 40)
	b = strconv.AppendUint(b, uint64(p.mant), 10)
	b = append(b, "±"...)
	b = strconv.AppendUint(b, uint64(p.conf), 10)
	b = append(b, 'e')
	b = strconv.AppendUint(b, uint64(p.expo), 10)
	b = append(b, '@')
	b = strconv.AppendUint(b, p.time, 10)
	return string(b)
}

// priceJSON mirrors the wire form of an oracle price update, with the
// 64-bit magnitudes carried as decimal strings.
type priceJSON struct {
	Price       string `json:"price"`
	Conf        string `json:"conf"`
	Expo        int    `json:"expo"`
	PublishTime uint64 `json:"publish_time"`
}

// MarshalJSON implements the [json.Marshaler] interface.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(priceJSON{
		Price:       strconv.FormatUint(uint64(p.mant), 10),
		Conf:        strconv.FormatUint(uint64(p.conf), 10),
		Expo:        int(p.expo),
		PublishTime: p.time,
	})
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// UnmarshalJSON returns an error if the mantissa or confidence string is
// not a valid unsigned decimal integer, or if the exponent is outside
// [0, [MaxExpo]].
func (p *Price) UnmarshalJSON(data []byte) error {
	var v priceJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Price{}, err)
	}
	mant, err := strconv.ParseUint(v.Price, 10, 64)
	if err != nil {
		return fmt.Errorf("unmarshaling mantissa %q: %w", v.Price, err)
	}
	conf, err := strconv.ParseUint(v.Conf, 10, 64)
	if err != nil {
		return fmt.Errorf("unmarshaling confidence %q: %w", v.Conf, err)
	}
	q, err := New(mant, conf, v.Expo, v.PublishTime)
	if err != nil {
		return err
	}
	*p = q
	return nil
}
