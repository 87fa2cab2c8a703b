// Package hashkind implements the HASH value actor: a field/value map,
// following stringkind's shape of one small Dispatch switch per actor with
// no external state.
package hashkind

import (
	"sort"
	"strconv"

	"redigo/internal/actor"
	"redigo/internal/proto"
	"redigo/internal/redigoerr"
	"redigo/pkg/utils"
)

type Actor struct {
	fields map[string]string
	key    string
	router actor.Router
}

func New(key string, router actor.Router) *Actor {
	return &Actor{fields: make(map[string]string), key: key, router: router}
}

func (a *Actor) Dispatch(p *proto.Payload) any {
	switch p.Command {
	case "hget":
		v, ok := a.fields[p.Args[0]]
		if !ok {
			return nil
		}
		return v

	case "hset":
		_, existed := a.fields[p.Args[0]]
		a.fields[p.Args[0]] = p.Args[1]
		if existed {
			return 0
		}
		return 1

	case "hsetnx":
		if _, existed := a.fields[p.Args[0]]; existed {
			return 0
		}
		a.fields[p.Args[0]] = p.Args[1]
		return 1

	case "hdel":
		removed := 0
		for _, f := range p.Args {
			if _, ok := a.fields[f]; ok {
				delete(a.fields, f)
				removed++
			}
		}
		return removed

	case "hexists":
		_, ok := a.fields[p.Args[0]]
		return ok

	case "hlen":
		return len(a.fields)

	case "hkeys":
		return a.sortedFields()

	case "hvals":
		keys := a.sortedFields()
		vals := make([]string, len(keys))
		for i, f := range keys {
			vals[i] = a.fields[f]
		}
		return vals

	case "hgetall":
		keys := a.sortedFields()
		out := make([]string, 0, len(keys)*2)
		for _, f := range keys {
			out = append(out, f, a.fields[f])
		}
		return out

	case "hmget":
		out := make([]string, len(p.Args))
		for i, f := range p.Args {
			if v, ok := a.fields[f]; ok {
				out[i] = v
			} else {
				out[i] = "nil"
			}
		}
		return out

	case "hmset":
		for i := 0; i+1 < len(p.Args); i += 2 {
			a.fields[p.Args[i]] = p.Args[i+1]
		}
		return "OK"

	case "hincrby":
		return a.hincrby(p.Args[0], p.Args[1])

	case "hincrbyfloat":
		return a.hincrbyfloat(p.Args[0], p.Args[1])

	case "hscan":
		return a.hscan(p.Args)

	default:
		return redigoerr.ErrUnknownCommand
	}
}

func (a *Actor) sortedFields() []string {
	keys := make([]string, 0, len(a.fields))
	for f := range a.fields {
		keys = append(keys, f)
	}
	sort.Strings(keys)
	return keys
}

// hincrby/hincrbyfloat treat a missing field as "0".
func (a *Actor) hincrby(field, argDelta string) any {
	base := a.fields[field]
	if base == "" {
		base = "0"
	}
	n, err := utils.FromStringToInt64(base)
	if err != nil {
		return redigoerr.ErrExecution
	}
	delta, err := utils.FromStringToInt64(argDelta)
	if err != nil {
		return redigoerr.ErrExecution
	}
	result := n + delta
	a.fields[field] = utils.ValueToString(result)
	return a.fields[field]
}

func (a *Actor) hincrbyfloat(field, argDelta string) any {
	base := a.fields[field]
	if base == "" {
		base = "0"
	}
	baseF, err := strconv.ParseFloat(base, 64)
	if err != nil {
		return redigoerr.ErrExecution
	}
	deltaF, err := strconv.ParseFloat(argDelta, 64)
	if err != nil {
		return redigoerr.ErrExecution
	}
	a.fields[field] = strconv.FormatFloat(baseF+deltaF, 'f', -1, 64)
	return a.fields[field]
}

func (a *Actor) hscan(args []string) any {
	result, err := actor.ScanPage(a.sortedFields(), args)
	if err != nil {
		return redigoerr.ErrExecution
	}
	return result
}
