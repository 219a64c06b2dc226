// Package boundary implements the caller side of the native render contract.
// Every string that crosses the boundary goes through TakeString, which copies
// the bytes into Go memory and releases the native allocation exactly once.
// Render calls return a RawResult wrapper that Consume turns into a tagged
// Result, releasing the wrapper and any payload it does not hand back.
package boundary
