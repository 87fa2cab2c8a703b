// Package registry is the static command table: for every command name it
// records which value-actor kind owns it, its arity rule, and the reply to
// use when the target key doesn't exist and the command is non-creating.
// It is pure data plus a handful of accessors; no dispatch logic lives
// here.
package registry

import "strings"

// Kind is the owning type of a command: which value-actor flavor handles
// it, or Keys for directory-level commands.
type Kind int

const (
	KindString Kind = iota
	KindHash
	KindList
	KindSet
	KindKeys
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindHash:
		return "hash"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindKeys:
		return "keys"
	default:
		return "unknown"
	}
}

type arityMode int

const (
	modeFixed arityMode = iota
	modeRange
	modeMany
	modeEvens
)

// Arity is a command's argument-count rule: a fixed count, an inclusive
// range, "many" (a minimum, unbounded above), or "evens" (an even count of
// at least a minimum, used by the *mset/hmset family).
type Arity struct {
	mode   arityMode
	lo, hi int
}

func Fixed(n int) Arity            { return Arity{mode: modeFixed, lo: n, hi: n} }
func RangeArity(lo, hi int) Arity  { return Arity{mode: modeRange, lo: lo, hi: hi} }
func Many(min int) Arity           { return Arity{mode: modeMany, lo: min} }
func Evens(min int) Arity          { return Arity{mode: modeEvens, lo: min} }

// InRange reports whether args satisfies this arity rule.
func (a Arity) InRange(args []string) bool {
	n := len(args)
	switch a.mode {
	case modeFixed:
		return n == a.lo
	case modeRange:
		return n >= a.lo && n <= a.hi
	case modeMany:
		return n >= a.lo
	case modeEvens:
		return n >= a.lo && n%2 == 0
	default:
		return false
	}
}

// DefaultFunc computes the reply for a non-creating command against a
// missing key. A nil DefaultFunc means "create the key".
type DefaultFunc func(args []string) any

// CommandSpec is one row of the registry.
type CommandSpec struct {
	Kind    Kind
	Arity   Arity
	Default DefaultFunc
}

func emptySeq(_ []string) any { return []string{} }
func zero(_ []string) any     { return 0 }
func nilReply(_ []string) any { return nil }
func falseReply(_ []string) any { return false }
func scanDefault(_ []string) any { return []string{"0", ""} }

var table = map[string]CommandSpec{
	// STRING
	"get":          {Kind: KindString, Arity: Fixed(0), Default: nilReply},
	"set":          {Kind: KindString, Arity: RangeArity(1, 2)},
	"setnx":        {Kind: KindString, Arity: Fixed(1)},
	"getset":       {Kind: KindString, Arity: Fixed(1)},
	"append":       {Kind: KindString, Arity: Fixed(1)},
	"getrange":     {Kind: KindString, Arity: Fixed(2), Default: func(_ []string) any { return "" }},
	"setrange":     {Kind: KindString, Arity: Fixed(2)},
	"strlen":       {Kind: KindString, Arity: Fixed(0), Default: zero},
	"incr":         {Kind: KindString, Arity: Fixed(0)},
	"decr":         {Kind: KindString, Arity: Fixed(0)},
	"incrby":       {Kind: KindString, Arity: Fixed(1)},
	"decrby":       {Kind: KindString, Arity: Fixed(1)},
	"incrbyfloat":  {Kind: KindString, Arity: Fixed(1)},
	"bitcount":     {Kind: KindString, Arity: RangeArity(0, 2)},
	"setex":        {Kind: KindString, Arity: Fixed(2)},
	"psetex":       {Kind: KindString, Arity: Fixed(2)},
	"bitop":        {Kind: KindString, Arity: Many(0)},
	"bitpos":       {Kind: KindString, Arity: Many(0)},
	"getbit":       {Kind: KindString, Arity: Many(0)},
	"setbit":       {Kind: KindString, Arity: Many(0)},

	// HASH
	"hget":         {Kind: KindHash, Arity: Fixed(1), Default: nilReply},
	"hset":         {Kind: KindHash, Arity: Fixed(2)},
	"hsetnx":       {Kind: KindHash, Arity: Fixed(2)},
	"hdel":         {Kind: KindHash, Arity: Many(1), Default: zero},
	"hexists":      {Kind: KindHash, Arity: Fixed(1), Default: falseReply},
	"hlen":         {Kind: KindHash, Arity: Fixed(0), Default: zero},
	"hkeys":        {Kind: KindHash, Arity: Fixed(0), Default: emptySeq},
	"hvals":        {Kind: KindHash, Arity: Fixed(0), Default: emptySeq},
	"hgetall":      {Kind: KindHash, Arity: Fixed(0), Default: emptySeq},
	"hmget":        {Kind: KindHash, Arity: Many(1), Default: func(args []string) any {
		out := make([]string, len(args))
		for i := range out {
			out[i] = "nil"
		}
		return out
	}},
	"hmset":        {Kind: KindHash, Arity: Evens(2)},
	"hincrby":      {Kind: KindHash, Arity: Fixed(2)},
	"hincrbyfloat": {Kind: KindHash, Arity: Fixed(2)},
	"hscan":        {Kind: KindHash, Arity: RangeArity(0, 3), Default: scanDefault},

	// LIST
	"lpush":      {Kind: KindList, Arity: Many(1)},
	"rpush":      {Kind: KindList, Arity: Many(1)},
	"lpushx":     {Kind: KindList, Arity: Many(1), Default: zero},
	"rpushx":     {Kind: KindList, Arity: Many(1), Default: zero},
	"lpop":       {Kind: KindList, Arity: Fixed(0), Default: nilReply},
	"rpop":       {Kind: KindList, Arity: Fixed(0), Default: nilReply},
	"lindex":     {Kind: KindList, Arity: Fixed(1), Default: nilReply},
	"lset":       {Kind: KindList, Arity: Fixed(2), Default: func(_ []string) any { return "error" }},
	"lrem":       {Kind: KindList, Arity: Fixed(1), Default: zero},
	"lrange":     {Kind: KindList, Arity: Fixed(2), Default: emptySeq},
	"ltrim":      {Kind: KindList, Arity: Fixed(2), Default: func(_ []string) any { return "OK" }},
	"llen":       {Kind: KindList, Arity: Fixed(0), Default: zero},
	"linsert":    {Kind: KindList, Arity: Fixed(3), Default: func(_ []string) any { return -1 }},
	"rpoplpush":  {Kind: KindList, Arity: Fixed(1), Default: nilReply},
	"blpop":      {Kind: KindList, Arity: Fixed(1)},
	"brpop":      {Kind: KindList, Arity: Fixed(1)},
	"brpoplpush": {Kind: KindList, Arity: Fixed(2)},
	"sort":       {Kind: KindList, Arity: Many(0)},

	// SET
	"sadd":         {Kind: KindSet, Arity: Many(1)},
	"srem":         {Kind: KindSet, Arity: Many(1), Default: zero},
	"scard":        {Kind: KindSet, Arity: Fixed(0), Default: zero},
	"sismember":    {Kind: KindSet, Arity: Fixed(1), Default: falseReply},
	"smembers":     {Kind: KindSet, Arity: Fixed(0), Default: emptySeq},
	"srandmember":  {Kind: KindSet, Arity: Fixed(0), Default: nilReply},
	"spop":         {Kind: KindSet, Arity: Fixed(0), Default: nilReply},
	"sscan":        {Kind: KindSet, Arity: RangeArity(0, 3), Default: scanDefault},
	"sdiff":        {Kind: KindSet, Arity: Many(1)},
	"sinter":       {Kind: KindSet, Arity: Many(1)},
	"sunion":       {Kind: KindSet, Arity: Many(1)},
	"sdiffstore":   {Kind: KindSet, Arity: Many(1)},
	"sinterstore":  {Kind: KindSet, Arity: Many(1)},
	"sunionstore":  {Kind: KindSet, Arity: Many(1)},
	"smove":        {Kind: KindSet, Arity: Fixed(2), Default: falseReply},

	// KEYS (directory)
	"exists":     {Kind: KindKeys, Arity: Fixed(1)},
	"type":       {Kind: KindKeys, Arity: Fixed(1)},
	"randomkey":  {Kind: KindKeys, Arity: Fixed(0)},
	"keys":       {Kind: KindKeys, Arity: Fixed(1)},
	"scan":       {Kind: KindKeys, Arity: RangeArity(0, 3)},
	"ttl":        {Kind: KindKeys, Arity: Fixed(1)},
	"pttl":       {Kind: KindKeys, Arity: Fixed(1)},
	"expire":     {Kind: KindKeys, Arity: Fixed(2)},
	"pexpire":    {Kind: KindKeys, Arity: Fixed(2)},
	"expireat":   {Kind: KindKeys, Arity: Fixed(2)},
	"pexpireat":  {Kind: KindKeys, Arity: Fixed(2)},
	"persist":    {Kind: KindKeys, Arity: Fixed(1)},
	"rename":     {Kind: KindKeys, Arity: Fixed(2)},
	"renamenx":   {Kind: KindKeys, Arity: Fixed(2)},
	"del":        {Kind: KindKeys, Arity: Many(1)},
	"mget":       {Kind: KindKeys, Arity: Many(1)},
	"mset":       {Kind: KindKeys, Arity: Evens(2)},
	"msetnx":     {Kind: KindKeys, Arity: Evens(2)},
}

// Lookup returns the registry row for a command name (already lowercased).
func Lookup(cmd string) (CommandSpec, bool) {
	spec, ok := table[strings.ToLower(cmd)]
	return spec, ok
}

// KindOf returns the owning type of a command.
func KindOf(cmd string) (Kind, bool) {
	spec, ok := Lookup(cmd)
	return spec.Kind, ok
}

// Default computes the registered default reply for cmd against args, and
// whether one is registered at all. A false second return means "create
// the key".
func Default(cmd string, args []string) (any, bool) {
	spec, ok := Lookup(cmd)
	if !ok || spec.Default == nil {
		return nil, false
	}
	return spec.Default(args), true
}

// InRange validates cmd's argument count against its registered arity.
func InRange(cmd string, args []string) bool {
	spec, ok := Lookup(cmd)
	if !ok {
		return false
	}
	return spec.Arity.InRange(args)
}
