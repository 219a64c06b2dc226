// Package engine is an in-process implementation of the native render
// component. It owns its string allocations the way a foreign library
// would: every string and result wrapper it hands out lives in a handle
// table until the caller frees it, so the boundary package can be driven
// end to end without cgo.
package engine
