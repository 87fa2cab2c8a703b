package setkind

import (
	"reflect"
	"testing"
	"time"

	"redigo/internal/proto"
)

func dispatch(a *Actor, cmd string, args ...string) any {
	return a.Dispatch(&proto.Payload{Command: cmd, Key: a.key, Args: args})
}

func TestSaddSrem(t *testing.T) {
	a := New("k", nil, time.Second)
	if got := dispatch(a, "sadd", "a", "b", "a"); got != 2 {
		t.Fatalf("sadd new count: got %v", got)
	}
	if got := dispatch(a, "scard"); got != 2 {
		t.Fatalf("scard: got %v", got)
	}
	if got := dispatch(a, "srem", "a", "missing"); got != 1 {
		t.Fatalf("srem: got %v", got)
	}
}

func TestSismemberAndSmembers(t *testing.T) {
	a := New("k", nil, time.Second)
	dispatch(a, "sadd", "b", "a")
	if got := dispatch(a, "sismember", "a"); got != true {
		t.Fatalf("sismember: got %v", got)
	}
	got := dispatch(a, "smembers")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("smembers order: got %v", got)
	}
}

func TestSpopRemoves(t *testing.T) {
	a := New("k", nil, time.Second)
	dispatch(a, "sadd", "a")
	got := dispatch(a, "spop")
	if got != "a" {
		t.Fatalf("spop: got %v", got)
	}
	if got := dispatch(a, "scard"); got != 0 {
		t.Fatalf("spop should remove member: got %v", got)
	}
}

// routingStub answers smembers fanout requests synchronously, as a
// directory stand-in, simulating other keys' member sets.
type routingStub struct {
	members map[string][]string
}

func (r *routingStub) Route(p *proto.Payload) {
	if p.ToNode == nil {
		return
	}
	p.ToNode <- proto.Response{Value: r.members[p.Key], Key: p.Key}
}

func TestSdiffAcrossKeys(t *testing.T) {
	router := &routingStub{members: map[string][]string{
		"other": {"b", "c"},
	}}
	a := New("k", router, time.Second)
	dispatch(a, "sadd", "a", "b")
	got := dispatch(a, "sdiff", "other")
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("sdiff: got %v", got)
	}
}

func TestSinterstoreReplacesSelf(t *testing.T) {
	router := &routingStub{members: map[string][]string{
		"other": {"a", "b"},
	}}
	a := New("k", router, time.Second)
	dispatch(a, "sadd", "a", "b", "c")
	if got := dispatch(a, "sinterstore", "other"); got != 2 {
		t.Fatalf("sinterstore count: got %v", got)
	}
	got := dispatch(a, "smembers")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("sinterstore did not replace self: got %v", got)
	}
}

func TestSinterstoreFreshDestination(t *testing.T) {
	router := &routingStub{members: map[string][]string{
		"a": {"1", "2", "3"},
		"b": {"2", "3", "4"},
	}}
	dst := New("c", router, time.Second)
	if got := dispatch(dst, "sinterstore", "a", "b"); got != 2 {
		t.Fatalf("sinterstore count: got %v", got)
	}
	got := dispatch(dst, "smembers")
	if !reflect.DeepEqual(got, []string{"2", "3"}) {
		t.Fatalf("sinterstore into fresh destination: got %v", got)
	}
}

func TestSdiffstoreFreshDestination(t *testing.T) {
	router := &routingStub{members: map[string][]string{
		"a": {"1", "2", "3"},
		"b": {"2"},
	}}
	dst := New("c", router, time.Second)
	if got := dispatch(dst, "sdiffstore", "a", "b"); got != 2 {
		t.Fatalf("sdiffstore count: got %v", got)
	}
	got := dispatch(dst, "smembers")
	if !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Fatalf("sdiffstore into fresh destination: got %v", got)
	}
}

func TestSmoveMovesMember(t *testing.T) {
	router := &routingStub{}
	a := New("src", router, time.Second)
	dispatch(a, "sadd", "x")
	if got := dispatch(a, "smove", "dst", "x"); got != true {
		t.Fatalf("smove: got %v", got)
	}
	if got := dispatch(a, "sismember", "x"); got != false {
		t.Fatalf("smove should remove from source: got %v", got)
	}
	if got := dispatch(a, "smove", "dst", "missing"); got != false {
		t.Fatalf("smove of absent member: got %v", got)
	}
}

func TestFanoutTimeoutErrors(t *testing.T) {
	a := New("k", &silentRouter{}, 10*time.Millisecond)
	dispatch(a, "sadd", "a")
	if err, ok := dispatch(a, "sunion", "other").(error); !ok || err == nil {
		t.Fatalf("expected timeout error, got %v", dispatch(a, "sunion", "other"))
	}
}

type silentRouter struct{}

func (silentRouter) Route(p *proto.Payload) {}
