package boundary

// Result is the tagged outcome of one render call: either a success handle
// that still owns its native string, or an application error. The zero
// value is neither and is rejected by every accessor.
type Result struct {
	value *OwnedString
	err   error
}

// Success builds an Ok result. A nil handle violates the contract.
func Success(v *OwnedString) Result {
	if v == nil {
		panic("boundary: success result requires a handle")
	}
	return Result{value: v}
}

// Failure builds an Err result. A nil error violates the contract.
func Failure(err error) Result {
	if err == nil {
		panic("boundary: failure result requires an error")
	}
	return Result{err: err}
}

// IsOk reports whether the result carries a success handle.
func (r Result) IsOk() bool { return r.value != nil && r.err == nil }

// Value returns the success handle, or nil for failures.
func (r Result) Value() *OwnedString {
	if r.err != nil {
		return nil
	}
	return r.value
}

// Err returns the failure, or nil for successes.
func (r Result) Err() error { return r.err }

// Take decodes and releases the success payload, or returns the failure.
func (r Result) Take() (string, error) {
	switch {
	case r.err != nil:
		return "", r.err
	case r.value == nil:
		return "", integrityf("take result", "empty result")
	default:
		return r.value.Take()
	}
}

// Consume converts a native result wrapper into a Result. The wrapper is
// released on every path. An error payload always wins over a success
// payload; when both are present the success string is released here and
// never surfaced. The returned error is non-nil only for integrity failures.
func Consume(n Native, raw *RawResult) (Result, error) {
	if n == nil {
		return Result{}, integrityf("consume result", "native component is nil")
	}
	if raw == nil {
		return Result{}, integrityf("consume result", "null result wrapper")
	}

	// The wrapper does not own its payloads, so it can go as soon as the
	// pointers are copied out.
	errPtr, kind, okPtr := raw.ErrorMessage, raw.ErrorKind, raw.Success
	n.FreeResult(raw)

	var success *OwnedString
	if !okPtr.IsNull() {
		success = Own(n, okPtr)
	}

	if !errPtr.IsNull() {
		text, takeErr := TakeString(n, errPtr)
		releaseErr := success.Release()
		if takeErr != nil {
			return Result{}, takeErr
		}
		if releaseErr != nil {
			return Result{}, releaseErr
		}
		return Failure(DecodeError(text, kind)), nil
	}

	if success == nil {
		return Result{}, integrityf("consume result", "result carries neither error nor success")
	}
	return Success(success), nil
}

// TakeResult consumes raw and decodes its success payload in one step.
// Application failures are returned as *ApplicationError.
func TakeResult(n Native, raw *RawResult) (string, error) {
	res, err := Consume(n, raw)
	if err != nil {
		return "", err
	}
	return res.Take()
}
