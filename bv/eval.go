package bv

import "fmt"

// Eval returns the value of e, given the value of its variables.
// Values of env are truncated to the width of the associated variables.
// Division by zero follows the SMT-LIB conventions: x/0 has all bits set and x%0 is x.
// Expressions wider than 64 bits cannot be evaluated.
func Eval(e Expr, env map[string]uint64) (uint64, error) {
	if err := Check(e); err != nil {
		return 0, err
	}
	return eval(e, env)
}

func eval(e Expr, env map[string]uint64) (uint64, error) {
	w := e.Width()
	if w > 64 {
		return 0, fmt.Errorf("cannot evaluate %d-bit expression %s", w, e)
	}
	mask := Mask(w)
	switch e := e.(type) {
	case Variable:
		val, ok := env[e.Name]
		if !ok {
			return 0, fmt.Errorf("no value for variable %s", e.Name)
		}
		return val & mask, nil
	case Constant:
		return e.Value & mask, nil
	case Unary:
		x, err := eval(e.X, env)
		if err != nil {
			return 0, err
		}
		if e.Op == OpNeg {
			return -x & mask, nil
		}
		return ^x & mask, nil
	case Binary:
		x, err := eval(e.X, env)
		if err != nil {
			return 0, err
		}
		y, err := eval(e.Y, env)
		if err != nil {
			return 0, err
		}
		if e.Op == OpConcat {
			return (x<<uint(e.Y.Width()) | y) & mask, nil
		}
		return binary(e.Op, x, y, e.X.Width()) & mask, nil
	case Slice:
		x, err := eval(e.X, env)
		if err != nil {
			return 0, err
		}
		return (x >> uint(e.Lo)) & mask, nil
	case Extension:
		x, err := eval(e.X, env)
		if err != nil {
			return 0, err
		}
		if e.Op == OpSext {
			return signExtend(x, e.X.Width()) & mask, nil
		}
		return x, nil
	case Cond:
		c, err := eval(e.Cond, env)
		if err != nil {
			return 0, err
		}
		if c == 1 {
			return eval(e.Then, env)
		}
		return eval(e.Else, env)
	default:
		return 0, fmt.Errorf("cannot evaluate expression %s of type %T", e, e)
	}
}

// binary applies op to x and y, both being w bits wide.
// The result may have bits set above w.
func binary(op Op, x, y uint64, w int) uint64 {
	mask := Mask(w)
	switch op {
	case OpAnd:
		return x & y
	case OpOr:
		return x | y
	case OpXor:
		return x ^ y
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpUdiv:
		return udiv(x, y, mask)
	case OpUrem:
		return urem(x, y)
	case OpSdiv:
		nx, ny := isNeg(x, w), isNeg(y, w)
		ax, ay := x, y
		if nx {
			ax = -x & mask
		}
		if ny {
			ay = -y & mask
		}
		q := udiv(ax, ay, mask)
		if nx != ny {
			return -q
		}
		return q
	case OpSrem:
		nx, ny := isNeg(x, w), isNeg(y, w)
		ax, ay := x, y
		if nx {
			ax = -x & mask
		}
		if ny {
			ay = -y & mask
		}
		r := urem(ax, ay)
		if nx {
			return -r
		}
		return r
	case OpShl:
		if y >= uint64(w) {
			return 0
		}
		return x << y
	case OpLshr:
		if y >= uint64(w) {
			return 0
		}
		return x >> y
	case OpAshr:
		sx := signExtend(x, w)
		if y >= uint64(w) {
			y = uint64(w - 1)
		}
		return uint64(int64(sx) >> y)
	case OpRol:
		k := uint(y % uint64(w))
		if k == 0 {
			return x
		}
		return x<<k | x>>(uint(w)-k)
	case OpRor:
		k := uint(y % uint64(w))
		if k == 0 {
			return x
		}
		return x>>k | x<<(uint(w)-k)
	case OpEq:
		return b2u(x == y)
	case OpUlt:
		return b2u(x < y)
	case OpUle:
		return b2u(x <= y)
	case OpSlt:
		return b2u(int64(signExtend(x, w)) < int64(signExtend(y, w)))
	case OpSle:
		return b2u(int64(signExtend(x, w)) <= int64(signExtend(y, w)))
	default:
		panic(fmt.Errorf("invalid binary operator %s", op))
	}
}

func udiv(x, y, mask uint64) uint64 {
	if y == 0 {
		return mask
	}
	return x / y
}

func urem(x, y uint64) uint64 {
	if y == 0 {
		return x
	}
	return x % y
}

// isNeg is true iff the sign bit of the w-bit value x is set.
func isNeg(x uint64, w int) bool {
	return x>>uint(w-1)&1 == 1
}

// signExtend copies the sign bit of the w-bit value x on all 64 bits.
func signExtend(x uint64, w int) uint64 {
	if w >= 64 || !isNeg(x, w) {
		return x
	}
	return x | ^Mask(w)
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
