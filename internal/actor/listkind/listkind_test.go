package listkind

import (
	"reflect"
	"testing"
	"time"

	"redigo/internal/actor"
	"redigo/internal/proto"
)

func dispatch(a *Actor, cmd string, args ...string) any {
	return a.Dispatch(&proto.Payload{Command: cmd, Key: a.key, Args: args})
}

func TestPushPop(t *testing.T) {
	a := New("k", nil, nil, time.Second)
	dispatch(a, "rpush", "a", "b", "c")
	if got := dispatch(a, "llen"); got != 3 {
		t.Fatalf("llen: got %v", got)
	}
	if got := dispatch(a, "lpop"); got != "a" {
		t.Fatalf("lpop: got %v", got)
	}
	if got := dispatch(a, "rpop"); got != "c" {
		t.Fatalf("rpop: got %v", got)
	}
}

func TestLrangeAndLtrim(t *testing.T) {
	a := New("k", nil, nil, time.Second)
	dispatch(a, "rpush", "a", "b", "c", "d")
	got := dispatch(a, "lrange", "1", "3")
	if !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("lrange: got %v", got)
	}
	dispatch(a, "ltrim", "1", "3")
	if got := dispatch(a, "lrange", "0", "10"); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("ltrim: got %v", got)
	}
}

func TestLinsert(t *testing.T) {
	a := New("k", nil, nil, time.Second)
	dispatch(a, "rpush", "a", "c")
	if got := dispatch(a, "linsert", "BEFORE", "c", "b"); got != 3 {
		t.Fatalf("linsert: got %v", got)
	}
	if got := dispatch(a, "lrange", "0", "10"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("linsert order: got %v", got)
	}
	if got := dispatch(a, "linsert", "AFTER", "missing", "x"); got != -1 {
		t.Fatalf("linsert missing pivot: got %v", got)
	}
}

func TestBlpopImmediateWhenNonEmpty(t *testing.T) {
	a := New("k", nil, nil, time.Second)
	dispatch(a, "rpush", "a")
	if got := dispatch(a, "blpop", "5"); got != "a" {
		t.Fatalf("blpop immediate: got %v", got)
	}
}

func TestBlpopWakesOnPush(t *testing.T) {
	a := New("k", nil, nil, time.Second)
	mailbox := make(chan actor.Message, 4)
	a.self = mailbox

	p := &proto.Payload{Command: "blpop", Key: "k", Args: []string{"5"}}
	reply := a.Dispatch(p)
	if _, ok := reply.(actor.NoReply); !ok {
		t.Fatalf("expected blpop to suppress its reply while blocked, got %v", reply)
	}
	if a.blocked.Len() != 1 {
		t.Fatalf("expected one blocked payload, got %d", a.blocked.Len())
	}

	// simulate delivery: rpush should drain the blocked FIFO and serve it.
	dispatch(a, "rpush", "x")
	if a.blocked.Len() != 0 {
		t.Fatalf("rpush should have drained the blocked payload")
	}
}

func TestBlpopTimeoutFiresOnce(t *testing.T) {
	a := New("k", nil, nil, time.Second)
	p := &proto.Payload{Command: "blpop", Key: "k", Args: []string{"5"}}
	a.Dispatch(p)
	if a.blocked.Len() != 1 {
		t.Fatalf("expected one blocked entry")
	}

	a.fireTimeout("1")
	if a.blocked.Len() != 0 {
		t.Fatalf("timeout should remove the blocked entry")
	}

	// firing again for an id that is no longer present must be a no-op.
	a.fireTimeout("1")
	if a.blocked.Len() != 0 {
		t.Fatalf("double timeout must not panic or resurrect an entry")
	}
}

func TestRpoplpushRoutesLpush(t *testing.T) {
	router := &recordingRouter{}
	a := New("src", router, nil, time.Second)
	dispatch(a, "rpush", "a", "b")
	if got := dispatch(a, "rpoplpush", "dst"); got != "b" {
		t.Fatalf("rpoplpush reply: got %v", got)
	}
	if router.routed == nil || router.routed.Command != "lpush" || router.routed.Key != "dst" {
		t.Fatalf("rpoplpush did not route lpush to dst: %+v", router.routed)
	}
}

type recordingRouter struct {
	routed *proto.Payload
}

func (r *recordingRouter) Route(p *proto.Payload) { r.routed = p }
