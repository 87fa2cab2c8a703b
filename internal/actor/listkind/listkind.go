// Package listkind implements the LIST value actor, including its blocking
// commands. Blocking is realized as "continuation as data": a blocked
// payload is parked in a FIFO and a time.AfterFunc timer delivers its own
// expiry back onto the actor's own mailbox as an ordinary message, so the
// actor's single-threaded dispatch loop is the only thing that ever
// touches the blocked FIFO or the list.
package listkind

import (
	"container/list"
	"strconv"
	"time"

	"redigo/internal/actor"
	"redigo/internal/proto"
	"redigo/internal/redigoerr"
)

// unblockTimeout is the synthetic command a blocked payload's timer sends
// back onto the owning actor's own mailbox when it fires.
const unblockTimeout = "__unblock_timeout__"

type blockedItem struct {
	id      uint64
	payload *proto.Payload
}

type Actor struct {
	v       []string
	blocked *list.List // of *blockedItem, oldest at Front
	nextID  uint64
	key     string
	router  actor.Router
	self    chan<- actor.Message
	fallback time.Duration
}

// New constructs a LIST actor. self is the actor's own mailbox, used so a
// blocking command's timer can deliver its timeout back through the
// ordinary dispatch loop instead of touching state from another goroutine.
// fallback is used when the caller's timeout argument is unparsable or
// zero.
func New(key string, router actor.Router, self chan<- actor.Message, fallback time.Duration) *Actor {
	return &Actor{blocked: list.New(), key: key, router: router, self: self, fallback: fallback}
}

func (a *Actor) Dispatch(p *proto.Payload) any {
	switch p.Command {
	case "lpush":
		a.v = append(append([]string{}, reverse(p.Args)...), a.v...)
		a.drain()
		return len(a.v)
	case "rpush":
		a.v = append(a.v, p.Args...)
		a.drain()
		return len(a.v)
	case "lpushx":
		a.v = append(append([]string{}, reverse(p.Args)...), a.v...)
		a.drain()
		return len(a.v)
	case "rpushx":
		a.v = append(a.v, p.Args...)
		a.drain()
		return len(a.v)

	case "lpop":
		return a.pop(true)
	case "rpop":
		return a.pop(false)

	case "lindex":
		return a.lindex(p.Args)
	case "lset":
		return a.lset(p.Args)
	case "lrem":
		return a.lrem(p.Args)
	case "lrange":
		return a.lrange(p.Args)
	case "ltrim":
		return a.ltrim(p.Args)
	case "llen":
		return len(a.v)
	case "linsert":
		r := a.linsert(p.Args)
		a.drain()
		return r

	case "rpoplpush":
		return a.rpoplpush(p.Args[0])

	case "blpop", "brpop", "brpoplpush":
		return a.block(p)

	case unblockTimeout:
		a.fireTimeout(p.Args[0])
		return actor.NoReply{}

	case "sort":
		return redigoerr.ErrNotImplemented

	default:
		return redigoerr.ErrUnknownCommand
	}
}

func reverse(xs []string) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x
	}
	return out
}

func (a *Actor) pop(left bool) any {
	if len(a.v) == 0 {
		return nil
	}
	var x string
	if left {
		x, a.v = a.v[0], a.v[1:]
	} else {
		x, a.v = a.v[len(a.v)-1], a.v[:len(a.v)-1]
	}
	return x
}

func (a *Actor) lindex(args []string) any {
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 || i >= len(a.v) {
		return nil
	}
	return a.v[i]
}

func (a *Actor) lset(args []string) any {
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 || i >= len(a.v) {
		return redigoerr.ErrExecution
	}
	a.v[i] = args[1]
	return "OK"
}

func (a *Actor) lrem(args []string) any {
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 || i >= len(a.v) {
		return 0
	}
	a.v = append(a.v[:i], a.v[i+1:]...)
	return 1
}

func (a *Actor) lrange(args []string) any {
	i, err1 := strconv.Atoi(args[0])
	j, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return []string{}
	}
	if i < 0 {
		i = 0
	}
	if j > len(a.v) {
		j = len(a.v)
	}
	if i >= j || i >= len(a.v) {
		return []string{}
	}
	out := make([]string, j-i)
	copy(out, a.v[i:j])
	return out
}

func (a *Actor) ltrim(args []string) any {
	trimmed := a.lrange(args).([]string)
	a.v = trimmed
	return "OK"
}

func (a *Actor) linsert(args []string) any {
	where, pivot, value := args[0], args[1], args[2]
	idx := -1
	for i, x := range a.v {
		if x == pivot {
			idx = i
			break
		}
	}
	if idx == -1 {
		return -1
	}
	pos := idx
	if where == "AFTER" || where == "after" {
		pos = idx + 1
	}
	a.v = append(a.v[:pos], append([]string{value}, a.v[pos:]...)...)
	return len(a.v)
}

// rpoplpush pops the right of self and routes an lpush onto dst through the
// directory. It is also the non-blocking form brpoplpush falls back to once
// unblocked.
func (a *Actor) rpoplpush(dst string) any {
	if len(a.v) == 0 {
		return nil
	}
	x := a.v[len(a.v)-1]
	a.v = a.v[:len(a.v)-1]
	if a.router != nil {
		a.router.Route(&proto.Payload{Command: "lpush", Key: dst, Args: []string{x}})
	}
	return x
}

// block implements the shared blpop/brpop/brpoplpush routine.
func (a *Actor) block(p *proto.Payload) any {
	if len(a.v) > 0 {
		return a.execImmediate(p)
	}

	a.nextID++
	id := a.nextID
	item := &blockedItem{id: id, payload: p}
	a.blocked.PushBack(item)

	timeout := a.fallback
	if len(p.Args) > 0 {
		if secs, err := strconv.ParseFloat(p.Args[len(p.Args)-1], 64); err == nil && secs > 0 {
			timeout = time.Duration(secs * float64(time.Second))
		}
	}
	if timeout <= 0 {
		timeout = a.fallback
	}

	idStr := strconv.FormatUint(id, 10)
	mailbox := a.self
	time.AfterFunc(timeout, func() {
		if mailbox == nil {
			return
		}
		mailbox <- actor.Message{Payload: &proto.Payload{Command: unblockTimeout, Key: a.key, Args: []string{idStr}}}
	})

	return actor.NoReply{}
}

// execImmediate runs the non-blocking equivalent of a blocking command
// against a non-empty list.
func (a *Actor) execImmediate(p *proto.Payload) any {
	switch p.Command {
	case "blpop":
		return a.pop(true)
	case "brpop":
		return a.pop(false)
	case "brpoplpush":
		return a.rpoplpush(p.Args[0])
	}
	return redigoerr.ErrUnknownCommand
}

// fireTimeout handles a timer firing for a blocked payload: if it is still
// in the FIFO (not already served by drain), remove it and deliver nil. A
// timer that fires after the payload was served is a no-op.
func (a *Actor) fireTimeout(idStr string) {
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return
	}
	for e := a.blocked.Front(); e != nil; e = e.Next() {
		item := e.Value.(*blockedItem)
		if item.id == id {
			a.blocked.Remove(e)
			actor.Deliver(item.payload, nil)
			return
		}
	}
}

// drain implements first-come-first-served wake-up: after any command that
// can enlarge the list, serve blocked payloads in FIFO order while the
// list is non-empty and someone is waiting.
func (a *Actor) drain() {
	for len(a.v) > 0 && a.blocked.Len() > 0 {
		e := a.blocked.Front()
		a.blocked.Remove(e)
		item := e.Value.(*blockedItem)
		reply := a.execImmediate(item.payload)
		actor.Deliver(item.payload, reply)
	}
}
