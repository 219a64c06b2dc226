// Package invoker is the typed entry point to the native renderer. It
// validates arguments locally, resolves the render configuration against
// the native defaults, performs the call and converts the tagged result into
// a Go string or error.
package invoker
