package boundary

import "unicode/utf8"

// TakeString copies the native string at p into Go memory and releases the
// native allocation. The release runs on every path, including decode
// failures, and a refused release is reported as an integrity error.
func TakeString(n Native, p Pointer) (text string, err error) {
	if n == nil {
		return "", integrityf("take string", "native component is nil")
	}
	if p.IsNull() {
		return "", integrityf("take string", "null string pointer")
	}
	defer func() {
		if !n.FreeString(p) && err == nil {
			err = integrityf("take string", "native refused to free string %#x", uintptr(p))
		}
	}()

	raw, err := n.ReadString(p)
	if err != nil {
		return "", integrityf("take string", "read %#x: %v", uintptr(p), err)
	}
	if !utf8.Valid(raw) {
		return "", integrityf("take string", "string %#x is not valid UTF-8", uintptr(p))
	}
	return string(raw), nil
}

// OwnedString is a native string the caller has taken ownership of but not
// yet decoded. Exactly one of Take or Release frees it; later calls are
// no-ops so both can sit behind a defer.
type OwnedString struct {
	native   Native
	ptr      Pointer
	released bool
}

// Own wraps p so it can be released through the returned handle.
func Own(n Native, p Pointer) *OwnedString {
	return &OwnedString{native: n, ptr: p}
}

// Pointer returns the wrapped address, or null once released.
func (s *OwnedString) Pointer() Pointer {
	if s == nil || s.released {
		return 0
	}
	return s.ptr
}

// Take decodes the string and releases it.
func (s *OwnedString) Take() (string, error) {
	if s == nil {
		return "", integrityf("take owned string", "nil handle")
	}
	if s.released {
		return "", integrityf("take owned string", "string %#x already released", uintptr(s.ptr))
	}
	s.released = true
	return TakeString(s.native, s.ptr)
}

// Release frees the string without decoding it.
func (s *OwnedString) Release() error {
	if s == nil || s.released {
		return nil
	}
	s.released = true
	if !s.native.FreeString(s.ptr) {
		return integrityf("release owned string", "native refused to free string %#x", uintptr(s.ptr))
	}
	return nil
}
