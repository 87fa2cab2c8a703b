// Package stringkind implements the STRING value actor: a single string,
// reached only through its own mailbox goroutine.
package stringkind

import (
	"math/bits"
	"strconv"
	"strings"

	"redigo/internal/actor"
	"redigo/internal/proto"
	"redigo/internal/redigoerr"
	"redigo/pkg/utils"
)

// Actor owns one STRING key's value. It is never touched from outside its
// own mailbox loop (internal/actor.Run).
type Actor struct {
	v      string
	key    string
	router actor.Router
}

// New constructs a STRING actor. router is used only by setex/psetex to
// request an expire on this same key through the directory.
func New(key string, router actor.Router) *Actor {
	return &Actor{key: key, router: router}
}

// valueOrZero treats a missing/empty value as "0" for the increment family.
func valueOrZero(v string) string {
	if v == "" {
		return "0"
	}
	return v
}

func (a *Actor) Dispatch(p *proto.Payload) any {
	switch p.Command {
	case "get":
		return a.v

	case "set", "setnx":
		a.v = p.Args[0]
		return "OK"

	case "getset":
		old := a.v
		a.v = p.Args[0]
		return old

	case "append":
		a.v += p.Args[0]
		return a.v

	case "getrange":
		return a.getrange(p.Args)

	case "setrange":
		return a.setrange(p.Args)

	case "strlen":
		return len(a.v)

	case "incr":
		return a.addInt(1)
	case "decr":
		return a.addInt(-1)
	case "incrby":
		n, err := utils.FromStringToInt64(p.Args[0])
		if err != nil {
			return redigoerr.ErrExecution
		}
		return a.addInt(n)
	case "decrby":
		n, err := utils.FromStringToInt64(p.Args[0])
		if err != nil {
			return redigoerr.ErrExecution
		}
		return a.addInt(-n)

	case "incrbyfloat":
		return a.addFloat(p.Args[0])

	case "bitcount":
		return bitcount(a.v)

	case "setex", "psetex":
		return a.setex(p)

	case "bitop", "bitpos", "getbit", "setbit":
		return redigoerr.ErrNotImplemented

	default:
		return redigoerr.ErrUnknownCommand
	}
}

func (a *Actor) addInt(delta int64) any {
	n, err := utils.FromStringToInt64(valueOrZero(a.v))
	if err != nil {
		return redigoerr.ErrExecution
	}
	n += delta
	a.v = strconv.FormatInt(n, 10)
	return a.v
}

func (a *Actor) addFloat(argDelta string) any {
	base, err := strconv.ParseFloat(valueOrZero(a.v), 64)
	if err != nil {
		return redigoerr.ErrExecution
	}
	delta, err := strconv.ParseFloat(argDelta, 64)
	if err != nil {
		return redigoerr.ErrExecution
	}
	a.v = strconv.FormatFloat(base+delta, 'f', -1, 64)
	return a.v
}

func (a *Actor) getrange(args []string) any {
	i, err1 := strconv.Atoi(args[0])
	j, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return redigoerr.ErrExecution
	}
	n := len(a.v)
	if i < 0 {
		i = 0
	}
	if j > n {
		j = n
	}
	if i >= j || i >= n {
		return ""
	}
	return a.v[i:j]
}

// setrange overlays s at offset i, replacing at most one character; see
// DESIGN.md for why this one-char patch is kept rather than widened.
func (a *Actor) setrange(args []string) any {
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return redigoerr.ErrExecution
	}
	s := args[1]
	for len(a.v) < i {
		a.v += "\x00"
	}
	var b strings.Builder
	b.WriteString(a.v[:i])
	b.WriteString(s)
	if i+1 < len(a.v) {
		b.WriteString(a.v[i+1:])
	}
	a.v = b.String()
	return len(a.v)
}

func bitcount(v string) any {
	count := 0
	for i := 0; i < len(v); i++ {
		count += bits.OnesCount8(v[i])
	}
	return count
}

// setex/psetex: set the value, then request an expire through the
// directory's Router seam. The reply is "OK", returned exactly as "set"
// would, since the expire side-effect has no reply of its own that the
// client should see.
func (a *Actor) setex(p *proto.Payload) any {
	seconds := p.Args[0]
	a.v = p.Args[1]
	cmd := "expire"
	if p.Command == "psetex" {
		cmd = "pexpire"
	}
	if a.router != nil {
		a.router.Route(&proto.Payload{Command: cmd, Key: a.key, Args: []string{seconds}})
	}
	return "OK"
}
