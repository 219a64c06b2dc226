// Package boundarytest provides an allocation-counting Native for tests.
package boundarytest

import (
	"fmt"
	"sync"

	"github.com/jjfiv/quizdown/pkg/boundary"
)

// Call records the arguments of one RenderQuiz invocation.
type Call struct {
	Input  string
	Name   string
	Format string
	Config string
}

// Responder builds the wrapper returned for a RenderQuiz call. Payload
// strings must be allocated through the fake so they can be tracked.
type Responder func(f *Fake, call Call) *boundary.RawResult

// Fake implements boundary.Native on top of a counted allocation table.
type Fake struct {
	Themes   string
	Defaults string
	Respond  Responder

	mu      sync.Mutex
	next    boundary.Pointer
	strs    map[boundary.Pointer][]byte
	results map[*boundary.RawResult]struct{}
	calls   []Call

	allocs          int
	stringFrees     int
	resultFrees     int
	refusedFrees    int
	doubleResults   int
	defaultsFetched int
}

var _ boundary.Native = (*Fake)(nil)

// New returns a fake with a small theme list and default configuration.
func New() *Fake {
	return &Fake{
		Themes:   "github\tmonokai\tdracula",
		Defaults: `{"syntax":{"theme":"github","default_lang":"text"}}`,
		strs:     make(map[boundary.Pointer][]byte),
		results:  make(map[*boundary.RawResult]struct{}),
	}
}

// Alloc stores s as a native string.
func (f *Fake) Alloc(s string) boundary.Pointer {
	return f.AllocBytes([]byte(s))
}

// AllocBytes stores raw bytes, which need not be valid UTF-8.
func (f *Fake) AllocBytes(b []byte) boundary.Pointer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.strs[f.next] = append([]byte(nil), b...)
	f.allocs++
	return f.next
}

// OK responds with a success payload.
func OK(text string) Responder {
	return func(f *Fake, _ Call) *boundary.RawResult {
		return &boundary.RawResult{Success: f.Alloc(text)}
	}
}

// Fail responds with an error payload of the given kind.
func Fail(text string, kind boundary.ErrorKind) Responder {
	return func(f *Fake, _ Call) *boundary.RawResult {
		return &boundary.RawResult{ErrorMessage: f.Alloc(text), ErrorKind: kind}
	}
}

func (f *Fake) AvailableThemes() boundary.Pointer {
	return f.Alloc(f.Themes)
}

func (f *Fake) DefaultConfig() boundary.Pointer {
	f.mu.Lock()
	f.defaultsFetched++
	f.mu.Unlock()
	return f.Alloc(f.Defaults)
}

func (f *Fake) RenderQuiz(input, name, format, config []byte) *boundary.RawResult {
	call := Call{Input: string(input), Name: string(name), Format: string(format), Config: string(config)}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	respond := f.Respond
	f.mu.Unlock()

	if respond == nil {
		respond = OK(call.Input)
	}
	return f.Track(respond(f, call))
}

// Track registers a wrapper built outside RenderQuiz so FreeResult accepts it.
func (f *Fake) Track(raw *boundary.RawResult) *boundary.RawResult {
	if raw == nil {
		return nil
	}
	f.mu.Lock()
	f.results[raw] = struct{}{}
	f.mu.Unlock()
	return raw
}

func (f *Fake) ReadString(p boundary.Pointer) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.strs[p]
	if !ok {
		return nil, fmt.Errorf("boundarytest: read of unknown pointer %#x", uintptr(p))
	}
	return append([]byte(nil), b...), nil
}

func (f *Fake) FreeString(p boundary.Pointer) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.strs[p]; !ok {
		f.refusedFrees++
		return false
	}
	delete(f.strs, p)
	f.stringFrees++
	return true
}

func (f *Fake) FreeResult(r *boundary.RawResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.results[r]; !ok {
		f.doubleResults++
		return
	}
	delete(f.results, r)
	f.resultFrees++
}

// Calls returns the recorded RenderQuiz invocations.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Stats is a snapshot of allocation counters.
type Stats struct {
	Allocs          int
	LiveStrings     int
	LiveResults     int
	StringFrees     int
	ResultFrees     int
	RefusedFrees    int
	DoubleResults   int
	DefaultsFetched int
}

// Stats returns the current counters.
func (f *Fake) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Stats{
		Allocs:          f.allocs,
		LiveStrings:     len(f.strs),
		LiveResults:     len(f.results),
		StringFrees:     f.stringFrees,
		ResultFrees:     f.resultFrees,
		RefusedFrees:    f.refusedFrees,
		DoubleResults:   f.doubleResults,
		DefaultsFetched: f.defaultsFetched,
	}
}
