package event

// Results collects handler return values from one Fire call, in handler
// registration order. Nil returns are recorded so Cancelled can see an
// explicit false among them, but the value accessors skip them.
type Results struct {
	values []any
}

// Cancelled reports whether any handler returned exactly false. Firing
// sites treat that as "default action vetoed" where their contract says
// so; the bus itself never short-circuits on it.
func (r Results) Cancelled() bool {
	for _, v := range r.values {
		if b, ok := v.(bool); ok && !b {
			return true
		}
	}
	return false
}

// First returns the first non-nil handler return, or nil.
func (r Results) First() any {
	for _, v := range r.values {
		if v != nil {
			return v
		}
	}
	return nil
}

// Last returns the last non-nil handler return, or nil.
func (r Results) Last() any {
	for i := len(r.values) - 1; i >= 0; i-- {
		if r.values[i] != nil {
			return r.values[i]
		}
	}
	return nil
}

// FirstString returns the first string-typed handler return.
func (r Results) FirstString() (string, bool) {
	for _, v := range r.values {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// LastString returns the last string-typed handler return.
func (r Results) LastString() (string, bool) {
	for i := len(r.values) - 1; i >= 0; i-- {
		if s, ok := r.values[i].(string); ok {
			return s, true
		}
	}
	return "", false
}

// Len returns the number of handlers that ran.
func (r Results) Len() int {
	return len(r.values)
}
