package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// CoalesceDate returns the first non-zero date from vals.
func CoalesceDate(vals ...Date) Date {
	for _, v := range vals {
		if !v.IsZero() {
			return v
		}
	}
	return Date{}
}

// FirstDecimal returns the first non-nil amount, or nil.
func FirstDecimal(ptrs ...*Decimal) *Decimal {
	for _, p := range ptrs {
		if p != nil {
			return p
		}
	}
	return nil
}

// CoalesceID returns the first non-empty id from vals.
func CoalesceID(vals ...ID) ID {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
