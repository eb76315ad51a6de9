package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedExpression is returned by Parse for input that is neither
// dice notation nor an integer literal. Callers match it with errors.Is.
var ErrMalformedExpression = errors.New("malformed dice expression")

// Expression represents a parsed dice expression ready to be rolled.
//
// Invariant after a successful Parse: Count >= 1 and Sides >= 1, or
// Sides == 0 for a fixed-value literal (Count == 0, Modifier carries the
// value).
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice; 0 for a fixed-value literal
	Sides    int    // faces per die; 0 for a fixed-value literal
	Modifier int    // flat modifier (may be negative)
}

// IsLiteral reports whether the expression is a fixed integer with no dice.
func (e Expression) IsLiteral() bool {
	return e.Count == 0
}

// Min returns the lowest total Roll can produce for this expression.
func (e Expression) Min() int {
	return e.Count + e.Modifier
}

// Max returns the highest total Roll can produce for this expression.
func (e Expression) Max() int {
	return e.Count*e.Sides + e.Modifier
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2". A plain signed integer
// ("7", "-2") parses as a fixed-value literal, supporting decisions that
// declare a flat value instead of a die.
//
// Postcondition: returns a valid Expression or an error wrapping
// ErrMalformedExpression; count and sides are both >= 1 for non-literal
// expressions.
func Parse(expr string) (Expression, error) {
	raw := expr
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("%w: empty expression", ErrMalformedExpression)
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		// No 'd': accept a plain integer literal.
		v, err := strconv.Atoi(s)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: %q is neither dice notation nor an integer: %v", ErrMalformedExpression, raw, err)
		}
		return Expression{Raw: raw, Modifier: v}, nil
	}

	// Count before the 'd'; defaults to 1 when omitted.
	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: invalid die count in %q: %v", ErrMalformedExpression, raw, err)
		}
		if count <= 0 {
			return Expression{}, fmt.Errorf("%w: invalid die count in %q: must be >= 1", ErrMalformedExpression, raw)
		}
	}

	// Sides and optional trailing signed modifier after the 'd'.
	rest := s[dIdx+1:]
	modOffset := -1
	for i := 1; i < len(rest); i++ {
		if rest[i] == '+' || rest[i] == '-' {
			modOffset = i
			break
		}
	}

	sidesStr, modStr := rest, ""
	if modOffset >= 0 {
		sidesStr, modStr = rest[:modOffset], rest[modOffset:]
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("%w: invalid die sides in %q: %v", ErrMalformedExpression, raw, err)
	}
	if sides < 1 {
		return Expression{}, fmt.Errorf("%w: invalid die sides in %q: must be >= 1", ErrMalformedExpression, raw)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: invalid modifier in %q: %v", ErrMalformedExpression, raw, err)
		}
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: modifier}, nil
}

// MustParse parses expr and panics on error. Useful for package-level
// constants and catalog defaults that are known valid.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
