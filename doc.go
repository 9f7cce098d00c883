/*
Package price implements immutable fixed-point price readings with
confidence intervals.
It is specifically designed for oracle-style pipelines, where each reading
carries the uncertainty of the observation and the time it was published.

# Representation

[Price] is a struct with four fields:

  - Mantissa: an unsigned integer magnitude of the price.
  - Confidence: an unsigned integer, the absolute uncertainty around the
    mantissa, expressed at the same exponent.
  - Exponent: a non-negative integer power-of-ten scale, such that the
    numeric value of the price is Mantissa * 10^Exponent.
    The range of allowed values for the exponent is from 0 to 18.
  - Publish Time: an unsigned logical timestamp of the observation.

In this approach, the same numeric value can have multiple representations.
For example, mantissa 1500 with exponent 0 and mantissa 15 with exponent 2
both represent the value 1500, but only prices with identical exponents can
be added or subtracted directly.

# Constraints

Prices carry no sign.
Negative prices, negative confidence intervals, and negative exponents are
not representable.
Consequently, subtraction fails when the subtrahend mantissa exceeds the
minuend mantissa, and division fails when the divisor exponent exceeds the
dividend exponent.

Multiplication and division additionally require every operand mantissa and
confidence to fit in [MaxMantissaBits] bits.
Together with the [PDScale] normalization constant, this bound keeps every
intermediate product below 2^59, so operations never wrap silently.

# Operations

[Price.Add] and [Price.Sub] require both operands to share the same
exponent; mixing exponents is a usage error, not something that is silently
corrected.
Use [Scale] or [Price.Rescale] to bring operands to a common exponent first.
Confidence intervals are treated as independent and additive: they are
summed for both addition and subtraction.

[Price.Mul] and [Price.Quo] assume their operand mantissas are pre-scaled
by [PDScale] and divide that constant back out of the result, truncating
towards zero.
Confidence intervals are propagated with the first-order product and
quotient rules, omitting higher-order terms as negligible.
[Price.Convert] is a semantic alias for [Price.Quo]: dividing two prices
quoted in a shared currency cancels the shared unit, expressing one asset
in units of the other.

For every operation, the publish time of the result is the later of the two
operand publish times: the freshness of a combined reading is that of the
more recent contributing observation.

All operations are pure.
They read their value arguments, allocate a fresh result, and touch no
shared state, so any number of goroutines may invoke them concurrently.

# Rounding

There is no rounding anywhere in this package.
Downscaling a mantissa and dividing out [PDScale] both truncate towards
zero, silently discarding the low digits.
This behavior is part of the observable contract: callers relying on the
exact low digits of a downscaled mantissa must not assume round-half-even
or any other rounding mode.

# Conversions

The package provides methods for converting prices:

  - to float64: [Price.Float64].
  - to decimal: [Price.Decimal], [Price.DecimalConf].
  - from/to JSON: [Price.MarshalJSON], [Price.UnmarshalJSON].

The JSON form mirrors the oracle wire tuple, with the 64-bit magnitudes
carried as decimal strings:

	{"price": "150000000", "conf": "1000000", "expo": 8, "publish_time": 100}

Parsing of human-entered decimal strings is deliberately out of scope;
it belongs to the callers that produce mantissas and exponents.

# Errors

All methods are panic-free and pure.
Preconditions are checked eagerly and failures are reported as errors,
never as silently wrapped or truncated values:

  - [ErrExponentMismatch] - addition or subtraction with differing exponents.
  - [ErrExponentOverflow] - multiplication whose combined exponent exceeds [MaxExpo].
  - [ErrExponentUnderflow] - division whose combined exponent would be negative.
  - [ErrDivisionByZero] - division by a zero mantissa.
  - [ErrMantissaOverflow] - an operand or intermediate value outside the representable range.
  - [ErrNegativePrice] - subtraction whose true result would be negative.
  - [ErrExponentRange] - a requested exponent outside [0, [MaxExpo]].

Nothing is retried or recovered internally; recovery, if any, is the
caller's responsibility.
*/
package price
