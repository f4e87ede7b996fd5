// FILE: lixenwraith/cosima/timing.go
package cosima

import "time"

// Timing constants of the source file watcher.
const (
	MinDebounce     = 10 * time.Millisecond  // Hard floor for change coalescence
	DefaultDebounce = 250 * time.Millisecond // Editor save bursts settle within this
)

const DefaultMaxWatchers = 16 // Subscribers per watcher
