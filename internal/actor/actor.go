// Package actor implements the shared value-actor contract: a
// goroutine-per-key mailbox loop, the reply-delivery rules, and the Router
// seam value actors use to reroute commands back through the directory
// (rpoplpush, smove, setex, ...) without importing the directory package
// directly, since the directory imports every kind package to spawn actors.
package actor

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"redigo/internal/proto"
	"redigo/internal/redigoerr"
)

// Message is what travels over a value actor's mailbox: either the "del"
// control token (stop self, no reply) or an ordinary payload to dispatch.
type Message struct {
	Del     bool
	Payload *proto.Payload
}

// Runner is implemented by each type-specialized actor (string/hash/list/
// set). Dispatch executes payload.Command against the actor's own state and
// returns the reply to deliver. Returning NoReply means the implementation
// already delivered the reply itself (used by commands that reply more
// than once, or hand off to another actor) and the mailbox loop must not
// deliver again.
type Runner interface {
	Dispatch(p *proto.Payload) any
}

// Router lets a value actor reroute a command back through the directory,
// e.g. LIST's rpoplpush rewriting itself into an lpush against another
// key, or STRING's setex requesting an expire.
type Router interface {
	Route(p *proto.Payload)
}

// NoReply is the sentinel Dispatch returns when it already delivered the
// reply inline.
type NoReply struct{}

// Run is the actor's mailbox loop: strictly serial, one message at a time.
// It never returns except on the "del" control message, at which point the
// actor stops processing for good.
func Run(mailbox <-chan Message, runner Runner) {
	for msg := range mailbox {
		if msg.Del {
			return
		}
		reply := safeDispatch(runner, msg.Payload)
		Deliver(msg.Payload, reply)
	}
}

// safeDispatch recovers from a panicking Dispatch and maps it to the
// "error" wire response. A value actor must never die on a user command.
func safeDispatch(runner Runner, p *proto.Payload) (reply any) {
	defer func() {
		if r := recover(); r != nil {
			reply = "error"
		}
	}()
	return runner.Dispatch(p)
}

// Deliver applies the reply-delivery rules and is exported so kind
// packages can call it directly when they reply out of band (LIST draining
// its blocked FIFO, a rerouted command's eventual reply).
func Deliver(p *proto.Payload, reply any) {
	if p == nil {
		return
	}
	if _, suppressed := reply.(NoReply); suppressed {
		return
	}
	text := Render(reply)
	if p.ToClient != nil {
		io.WriteString(p.ToClient, text+"\n")
	}
	if p.ToNode != nil {
		p.ToNode <- proto.Response{Value: reply, Key: p.Key}
	}
}

// Render renders a single reply value to its wire text: iterables join
// with newline, booleans become "1"/"0", nil becomes "nil", everything else
// is its textual form.
func Render(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "1"
		}
		return "0"
	case []string:
		if len(val) == 0 {
			return ""
		}
		return strings.Join(val, "\n")
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = Render(e)
		}
		return strings.Join(parts, "\n")
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	case error:
		return redigoerr.Render(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
