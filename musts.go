package price

import "fmt"

// MustNew is like [New] but panics if the price cannot be constructed.
// It simplifies safe initialization of global variables holding prices.
func MustNew(mantissa, conf uint64, expo int, publishTime uint64) Price {
	p, err := New(mantissa, conf, expo, publishTime)
	if err != nil {
		panic(fmt.Sprintf("MustNew(%v, %v, %v, %v) failed: %v", mantissa, conf, expo, publishTime, err))
	}
	return p
}

// MustAdd is like [Price.Add] but panics if computing error.
func (p Price) MustAdd(q Price) Price {
	r, err := p.Add(q)
	if err != nil {
		panic(fmt.Sprintf("MustAdd(%v) failed: %v", q, err))
	}
	return r
}

// MustSub is like [Price.Sub] but panics if computing error.
func (p Price) MustSub(q Price) Price {
	r, err := p.Sub(q)
	if err != nil {
		panic(fmt.Sprintf("MustSub(%v) failed: %v", q, err))
	}
	return r
}

// MustMul is like [Price.Mul] but panics if computing error.
func (p Price) MustMul(q Price) Price {
	r, err := p.Mul(q)
	if err != nil {
		panic(fmt.Sprintf("MustMul(%v) failed: %v", q, err))
	}
	return r
}

// MustQuo is like [Price.Quo] but panics if computing error.
func (p Price) MustQuo(q Price) Price {
	r, err := p.Quo(q)
	if err != nil {
		panic(fmt.Sprintf("MustQuo(%v) failed: %v", q, err))
	}
	return r
}
