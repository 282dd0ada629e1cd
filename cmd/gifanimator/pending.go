// Dialog result hand-off for GIF Animator.
package main

import "sync"

// pendingPath hands a file path from a dialog goroutine to the render loop.
// Dialogs run off the main thread while SDL window operations must stay on
// it, so results are queued here and drained once per frame.
type pendingPath struct {
	mu   sync.Mutex
	path string
}

// Set queues a path, replacing any not-yet-consumed one.
func (p *pendingPath) Set(path string) {
	p.mu.Lock()
	p.path = path
	p.mu.Unlock()
}

// Take returns the queued path and clears it, or "" when nothing is queued.
func (p *pendingPath) Take() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	path := p.path
	p.path = ""
	return path
}
