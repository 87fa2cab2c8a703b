// Package directory implements the Directory Actor: the sole routing
// authority, owning the key table exclusively from its own goroutine
// (message-passing, not a mutex-guarded map).
package directory

import (
	"math/rand"
	"sort"
	"time"

	"redigo/internal/actor"
	"redigo/internal/actor/hashkind"
	"redigo/internal/actor/listkind"
	"redigo/internal/actor/setkind"
	"redigo/internal/actor/stringkind"
	"redigo/internal/collector"
	"redigo/internal/proto"
	"redigo/internal/redigoerr"
	"redigo/internal/registry"
	"redigo/pkg/utils"
)

// expiryState groups a key's expiry deadline with its live timer, so
// replacing or cancelling one always replaces both: a new expiry must
// cancel the prior timer before overwriting the deadline.
type expiryState struct {
	deadline time.Time
	timer    *time.Timer
}

type entry struct {
	mailbox chan actor.Message
	kind    registry.Kind
	expiry  *expiryState
}

// Config carries the tunables every spawned actor and fan-out needs, from
// envs.Envs.
type Config struct {
	ActorMailboxSize     int
	BlockTimeoutFallback time.Duration
	SetFanoutTimeout     time.Duration
	CollectorTimeout     time.Duration
}

const expireFire = "__expire_fire__"

// Directory is the Directory Actor. Its table is read and written only
// from the goroutine running its own mailbox loop (actor.Run), so it is
// deliberately unguarded by a mutex.
type Directory struct {
	table   map[string]*entry
	mailbox chan actor.Message
	cfg     Config
}

// New constructs a Directory. Start its goroutine with Run.
func New(cfg Config) *Directory {
	return &Directory{
		table:   make(map[string]*entry),
		mailbox: make(chan actor.Message, cfg.ActorMailboxSize),
		cfg:     cfg,
	}
}

// Mailbox is the channel the connection handler sends client payloads on.
func (d *Directory) Mailbox() chan<- actor.Message { return d.mailbox }

// Run starts the directory's single goroutine. Call once at process init,
// before accepting connections.
func (d *Directory) Run() { actor.Run(d.mailbox, d) }

// Route implements actor.Router: value actors reroute commands (rpoplpush,
// smove, setex, multi-set fan-out's smembers requests) by enqueuing them
// back onto the directory's own mailbox, processed like any client payload.
func (d *Directory) Route(p *proto.Payload) {
	d.mailbox <- actor.Message{Payload: p}
}

// Dispatch implements actor.Runner, fanning out to the unrouted algorithm
// or to the directory-local keys-category commands.
func (d *Directory) Dispatch(p *proto.Payload) any {
	if kind, ok := registry.KindOf(p.Command); ok && kind == registry.KindKeys {
		return d.keysCommand(p)
	}
	if p.Command == expireFire {
		d.fireExpiry(p.Key)
		return actor.NoReply{}
	}
	return d.unrouted(p)
}

// unrouted implements the routing/typing/creation algorithm for every
// command not owned by the directory itself: check the type gate, then
// forward to an existing actor or spawn one and forward, falling back to a
// registered default reply when the key is missing and the command can't
// create it. Two commands deviate from the ordinary "always forward /
// always create" shape: setnx must not touch an already-existing key
// (replies 0 without forwarding), and lpushx/rpushx must not create a
// missing one (replies 0 without spawning) but do forward into an
// already-existing list.
func (d *Directory) unrouted(p *proto.Payload) any {
	spec, ok := registry.Lookup(p.Command)
	if !ok {
		return redigoerr.ErrUnknownCommand
	}
	if p.Key == "" {
		return redigoerr.ErrMissingKey
	}

	e, exists := d.table[p.Key]
	cantCreate := p.Command == "lpushx" || p.Command == "rpushx"
	cantModify := p.Command == "setnx"
	invalid := exists && e.kind != spec.Kind

	switch {
	case invalid:
		return redigoerr.TypeMismatch(p.Command, e.kind.String())
	case exists:
		if cantModify {
			return 0
		}
		e.mailbox <- actor.Message{Payload: p}
		return actor.NoReply{}
	default:
		if def, has := registry.Default(p.Command, p.Args); has {
			return def
		}
		if cantCreate {
			return 0
		}
		mailbox := d.spawn(p.Key, spec.Kind)
		mailbox <- actor.Message{Payload: p}
		return actor.NoReply{}
	}
}

func (d *Directory) spawn(key string, kind registry.Kind) chan actor.Message {
	mailbox := make(chan actor.Message, d.cfg.ActorMailboxSize)
	d.table[key] = &entry{mailbox: mailbox, kind: kind}

	var runner actor.Runner
	switch kind {
	case registry.KindString:
		runner = stringkind.New(key, d)
	case registry.KindHash:
		runner = hashkind.New(key, d)
	case registry.KindList:
		runner = listkind.New(key, d, mailbox, d.cfg.BlockTimeoutFallback)
	case registry.KindSet:
		runner = setkind.New(key, d, d.cfg.SetFanoutTimeout)
	}
	go actor.Run(mailbox, runner)
	return mailbox
}

// keysCommand implements the commands that execute on the directory
// itself, reading or writing the table directly.
func (d *Directory) keysCommand(p *proto.Payload) any {
	switch p.Command {
	case "exists":
		if _, ok := d.table[p.Args[0]]; ok {
			return 1
		}
		return 0

	case "type":
		if e, ok := d.table[p.Args[0]]; ok {
			return e.kind.String()
		}
		return "nil"

	case "randomkey":
		return d.randomKey()

	case "keys":
		return d.keys(p.Args[0])

	case "scan":
		return d.scan(p.Args)

	case "ttl":
		return d.ttl(p.Args[0], time.Second)
	case "pttl":
		return d.ttl(p.Args[0], time.Millisecond)

	case "expire":
		return d.setExpiry(p.Args[0], durationFromSeconds(p.Args[1]))
	case "pexpire":
		return d.setExpiry(p.Args[0], durationFromMillis(p.Args[1]))
	case "expireat":
		return d.setExpiryAt(p.Args[0], unixSecondsToTime(p.Args[1]))
	case "pexpireat":
		return d.setExpiryAt(p.Args[0], unixMillisToTime(p.Args[1]))

	case "persist":
		return d.persist(p.Args[0])

	case "rename":
		return d.rename(p.Args[0], p.Args[1], false)
	case "renamenx":
		return d.rename(p.Args[0], p.Args[1], true)

	case "del":
		return d.del(p.Args)

	case "mget":
		collector.Start(collector.Request{
			Keys:     p.Args,
			Reply:    p,
			Route:    d.Route,
			Timeout:  d.cfg.CollectorTimeout,
		})
		return actor.NoReply{}

	case "mset":
		return d.mset(p.Args, false)
	case "msetnx":
		return d.mset(p.Args, true)

	default:
		return redigoerr.ErrUnknownCommand
	}
}

func (d *Directory) randomKey() any {
	if len(d.table) == 0 {
		return nil
	}
	keys := d.keyList()
	return keys[rand.Intn(len(keys))]
}

func (d *Directory) keyList() []string {
	keys := make([]string, 0, len(d.table))
	for k := range d.table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *Directory) keys(pattern string) any {
	matcher, err := utils.CompileGlob(pattern)
	if err != nil {
		return []string{}
	}
	out := make([]string, 0)
	for _, k := range d.keyList() {
		if matcher.MatchString(k) {
			out = append(out, k)
		}
	}
	return out
}

func (d *Directory) scan(args []string) any {
	result, err := actor.ScanPage(d.keyList(), args)
	if err != nil {
		return redigoerr.ErrExecution
	}
	return result
}

func (d *Directory) ttl(key string, unit time.Duration) any {
	e, ok := d.table[key]
	if !ok {
		return -2
	}
	if e.expiry == nil {
		return -1
	}
	remaining := time.Until(e.expiry.deadline)
	if remaining < 0 {
		remaining = 0
	}
	return int64(remaining / unit)
}

func durationFromSeconds(s string) time.Duration {
	n, err := utils.FromStringToInt64(s)
	if err != nil {
		return 0
	}
	return time.Duration(n) * time.Second
}

func durationFromMillis(s string) time.Duration {
	n, err := utils.FromStringToInt64(s)
	if err != nil {
		return 0
	}
	return time.Duration(n) * time.Millisecond
}

func unixSecondsToTime(s string) time.Time {
	n, err := utils.FromStringToInt64(s)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(n, 0)
}

func unixMillisToTime(s string) time.Time {
	n, err := utils.FromStringToInt64(s)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(n)
}

func (d *Directory) setExpiry(key string, ttl time.Duration) any {
	return d.setExpiryAt(key, time.Now().Add(ttl))
}

// setExpiryAt installs an absolute deadline on key, cancelling any prior
// timer first. The timer fires by sending a synthetic payload back onto
// the directory's own mailbox, never touching the table from another
// goroutine.
func (d *Directory) setExpiryAt(key string, deadline time.Time) any {
	e, ok := d.table[key]
	if !ok {
		return 0
	}
	if e.expiry != nil {
		e.expiry.timer.Stop()
	}
	mailbox := d.mailbox
	timer := time.AfterFunc(time.Until(deadline), func() {
		mailbox <- actor.Message{Payload: &proto.Payload{Command: expireFire, Key: key}}
	})
	e.expiry = &expiryState{deadline: deadline, timer: timer}
	return 1
}

func (d *Directory) persist(key string) any {
	e, ok := d.table[key]
	if !ok {
		return 0
	}
	if e.expiry != nil {
		e.expiry.timer.Stop()
		e.expiry = nil
	}
	return 1
}

// fireExpiry is the directory-side handler for an expiry timer firing: it
// stops the corresponding value actor and removes the table entry.
func (d *Directory) fireExpiry(key string) {
	e, ok := d.table[key]
	if !ok {
		return
	}
	e.mailbox <- actor.Message{Del: true}
	delete(d.table, key)
}

func (d *Directory) rename(a, b string, refuseIfExists bool) any {
	if a == b {
		return "error"
	}
	srcEntry, ok := d.table[a]
	if !ok {
		return "error"
	}
	if dstEntry, ok := d.table[b]; ok {
		if refuseIfExists {
			return 0
		}
		dstEntry.mailbox <- actor.Message{Del: true}
		if dstEntry.expiry != nil {
			dstEntry.expiry.timer.Stop()
		}
	}
	d.table[b] = srcEntry
	delete(d.table, a)
	if srcEntry.expiry != nil {
		d.setExpiryAt(b, srcEntry.expiry.deadline)
	}
	if refuseIfExists {
		return 1
	}
	return "OK"
}

func (d *Directory) del(keys []string) any {
	removed := 0
	for _, k := range keys {
		e, ok := d.table[k]
		if !ok {
			continue
		}
		if e.expiry != nil {
			e.expiry.timer.Stop()
		}
		e.mailbox <- actor.Message{Del: true}
		delete(d.table, k)
		removed++
	}
	return removed
}

// mset reroutes each pair as a set through self. msetnx aborts (returning
// 0) if any target key already exists, checked before any pair is applied.
func (d *Directory) mset(args []string, nx bool) any {
	if nx {
		for i := 0; i+1 < len(args); i += 2 {
			if _, exists := d.table[args[i]]; exists {
				return 0
			}
		}
	}
	for i := 0; i+1 < len(args); i += 2 {
		d.unrouted(&proto.Payload{Command: "set", Key: args[i], Args: []string{args[i+1]}})
	}
	if nx {
		return 1
	}
	return "OK"
}
