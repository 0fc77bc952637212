// Package automation hosts the background pollers that watch the client's
// matchmaking and champ-select state machines and react to transient state
// transitions with one-shot commands.
package automation

import (
	"time"

	"draftpilot/internal/lcu"
)

// Requester is the slice of the LCU client the pollers need.
type Requester interface {
	Request(method, path string, body any) (*lcu.Response, error)
}

// ChampionResolver is the name-resolution surface the champ-select poller
// drives its backup chain with.
type ChampionResolver interface {
	Resolve(name string) int
	IsBanned(id int) bool
	IDs() []int
	Len() int
	Refresh() bool
}

// stopJoinTimeout bounds how long Stop waits for a poller goroutine. A poller
// mid-request will not observe the stop flag until that call returns.
const stopJoinTimeout = 2 * time.Second
