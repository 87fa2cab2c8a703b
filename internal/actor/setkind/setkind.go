// Package setkind implements the SET value actor, including the multi-set
// operators (sdiff/sinter/sunion and their *store variants), which are the
// one place a value actor suspends its own goroutine waiting on other
// actors. The wait is bounded and synchronous (select + time.After): a
// one-shot fan-out/join.
package setkind

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"redigo/internal/actor"
	"redigo/internal/proto"
	"redigo/internal/redigoerr"
)

type Actor struct {
	members       map[string]struct{}
	key           string
	router        actor.Router
	fanoutTimeout time.Duration
}

func New(key string, router actor.Router, fanoutTimeout time.Duration) *Actor {
	return &Actor{members: make(map[string]struct{}), key: key, router: router, fanoutTimeout: fanoutTimeout}
}

func (a *Actor) Dispatch(p *proto.Payload) any {
	switch p.Command {
	case "sadd":
		added := 0
		for _, m := range p.Args {
			if _, ok := a.members[m]; !ok {
				a.members[m] = struct{}{}
				added++
			}
		}
		return added

	case "srem":
		removed := 0
		for _, m := range p.Args {
			if _, ok := a.members[m]; ok {
				delete(a.members, m)
				removed++
			}
		}
		return removed

	case "scard":
		return len(a.members)

	case "sismember":
		_, ok := a.members[p.Args[0]]
		return ok

	case "smembers":
		return a.sorted()

	case "srandmember":
		return a.randMember()

	case "spop":
		return a.pop()

	case "sscan":
		return a.scan(p.Args)

	case "sdiff":
		return a.reduce(diff, p.Args)
	case "sinter":
		return a.reduce(inter, p.Args)
	case "sunion":
		return a.reduce(union, p.Args)

	case "sdiffstore":
		return a.reduceStore(diff, p.Args)
	case "sinterstore":
		return a.reduceStore(inter, p.Args)
	case "sunionstore":
		return a.reduceStore(union, p.Args)

	case "smove":
		return a.smove(p.Args)

	default:
		return redigoerr.ErrUnknownCommand
	}
}

func (a *Actor) sorted() []string {
	out := make([]string, 0, len(a.members))
	for m := range a.members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func (a *Actor) randMember() any {
	members := a.sorted()
	if len(members) == 0 {
		return nil
	}
	return members[0]
}

func (a *Actor) pop() any {
	members := a.sorted()
	if len(members) == 0 {
		return nil
	}
	chosen := members[0]
	delete(a.members, chosen)
	return chosen
}

func (a *Actor) scan(args []string) any {
	result, err := actor.ScanPage(a.sorted(), args)
	if err != nil {
		return redigoerr.ErrExecution
	}
	return result
}

type setOp func(self []string, others [][]string) []string

func diff(self []string, others [][]string) []string {
	var excluded []string
	for _, o := range others {
		excluded = append(excluded, o...)
	}
	return lo.Without(self, excluded...)
}

func inter(self []string, others [][]string) []string {
	result := self
	for _, o := range others {
		result = lo.Intersect(result, o)
	}
	return result
}

func union(self []string, others [][]string) []string {
	all := append([][]string{self}, others...)
	return lo.Union(all...)
}

// reduce implements the non-store multi-set operators: fan out smembers to
// the other keys via the directory, join with a bounded wait, and combine
// with op over self ∪ {others...}.
func (a *Actor) reduce(op setOp, otherKeys []string) any {
	others, err := a.fanout(otherKeys)
	if err != nil {
		return redigoerr.ErrExecution
	}
	return op(a.sorted(), others)
}

// reduceStore implements the *store multi-set operators. Unlike reduce, the
// destination (this actor) is never itself an operand: the directory routes
// "sinterstore c a b" to the fresh-or-existing actor at c with otherKeys =
// [a, b], so the reduction must fold over the fetched source keys alone and
// then overwrite the destination with the result.
func (a *Actor) reduceStore(op setOp, otherKeys []string) any {
	if len(otherKeys) == 0 {
		a.members = make(map[string]struct{})
		return 0
	}
	sources, err := a.fanout(otherKeys)
	if err != nil {
		return redigoerr.ErrExecution
	}
	result := op(sources[0], sources[1:])
	a.members = make(map[string]struct{}, len(result))
	for _, m := range result {
		a.members[m] = struct{}{}
	}
	return len(a.members)
}

// fanout requests smembers from every other key in parallel through the
// directory and joins with a bounded wait. This is the one designed
// suspension point inside a value actor's goroutine: it blocks this
// actor's own mailbox loop but never another actor's, so per-key
// serialization is preserved at the cost of head-of-line blocking.
func (a *Actor) fanout(otherKeys []string) ([][]string, error) {
	if len(otherKeys) == 0 {
		return nil, nil
	}
	if a.router == nil {
		return nil, redigoerr.ErrExecution
	}

	replies := make(chan proto.Response, len(otherKeys))
	for _, k := range otherKeys {
		a.router.Route(&proto.Payload{Command: "smembers", Key: k, ToNode: replies})
	}

	byKey := make(map[string][]string, len(otherKeys))
	deadline := time.After(a.fanoutTimeout)
	for i := 0; i < len(otherKeys); i++ {
		select {
		case resp := <-replies:
			byKey[resp.Key] = toStrings(resp.Value)
		case <-deadline:
			return nil, redigoerr.ErrExecution
		}
	}

	out := make([][]string, len(otherKeys))
	for i, k := range otherKeys {
		out[i] = byKey[k]
	}
	return out, nil
}

func toStrings(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case nil:
		return nil
	default:
		return nil
	}
}

// smove checks membership under this actor and, if present, removes it and
// routes a sadd onto dst through the directory.
func (a *Actor) smove(args []string) any {
	dst, member := args[0], args[1]
	if _, ok := a.members[member]; !ok {
		return false
	}
	delete(a.members, member)
	if a.router != nil {
		a.router.Route(&proto.Payload{Command: "sadd", Key: dst, Args: []string{member}})
	}
	return true
}
