// Package collector implements the transient collector: spawned per
// multi-key read (mget) to fan out single-key gets and join the responses
// into one ordered vector. The shape is a "collect N, then flush" batcher,
// adapted here from a recurring flush-on-interval loop to a one-shot
// collect-then-deliver goroutine.
package collector

import (
	"time"

	"redigo/internal/actor"
	"redigo/internal/proto"
)

// Request parameterizes one collector run: the keys to read, the payload
// whose client/node the joined result is delivered to, a way to route a
// per-key get through the directory, and an optional bounded deadline.
type Request struct {
	Keys    []string
	Reply   *proto.Payload
	Route   func(*proto.Payload)
	Timeout time.Duration
}

// Start spawns the collector goroutine. The canonical design never times
// out; upstream actors are trusted to always reply. An optional deadline
// is supported: once Timeout elapses, still-missing entries are replied
// nil rather than hanging forever. Gated behind Timeout > 0 so the default
// stays unbounded.
func Start(req Request) {
	go run(req)
}

func run(req Request) {
	if len(req.Keys) == 0 {
		actor.Deliver(req.Reply, []string{})
		return
	}

	replies := make(chan proto.Response, len(req.Keys))
	for _, k := range req.Keys {
		req.Route(&proto.Payload{Command: "get", Key: k, ToNode: replies})
	}

	values := make(map[string]any, len(req.Keys))
	remaining := len(req.Keys)

	var deadline <-chan time.Time
	if req.Timeout > 0 {
		deadline = time.After(req.Timeout)
	}

	for remaining > 0 {
		select {
		case resp := <-replies:
			values[resp.Key] = resp.Value
			remaining--
		case <-deadline:
			remaining = 0
		}
	}

	out := make([]any, len(req.Keys))
	for i, k := range req.Keys {
		out[i] = values[k]
	}
	actor.Deliver(req.Reply, out)
}
