package jsonfmt

// Value is a node of a parsed JSON document. The concrete types are Null,
// Bool, Number, String, Array and Object.
type Value interface {
	isValue()
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number in canonical text form.
type Number struct {
	// Text is the canonical representation written by the formatter.
	Text string

	// Integer is true when the source literal had no fraction or exponent.
	// Integer literals are kept digit-for-digit regardless of magnitude.
	Integer bool
}

// String is a JSON string (already unescaped).
type String string

// Array is a JSON array.
type Array []Value

// Member is a single object member.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object with members in source order. Duplicate keys are
// kept as they appear.
type Object []Member

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}
func (Array) isValue()  {}
func (Object) isValue() {}

// Equal reports whether a and b are structurally equal: same types, same
// canonical numbers, same strings, same array elements and same object
// members in the same order.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av.Text == bv.Text
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Key != bv[i].Key || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
