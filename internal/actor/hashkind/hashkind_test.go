package hashkind

import (
	"reflect"
	"testing"

	"redigo/internal/proto"
)

func dispatch(a *Actor, cmd string, args ...string) any {
	return a.Dispatch(&proto.Payload{Command: cmd, Key: a.key, Args: args})
}

func TestHsetNewAndExisting(t *testing.T) {
	a := New("k", nil)
	if got := dispatch(a, "hset", "f", "v1"); got != 1 {
		t.Fatalf("hset new field: got %v", got)
	}
	if got := dispatch(a, "hset", "f", "v2"); got != 0 {
		t.Fatalf("hset existing field: got %v", got)
	}
	if got := dispatch(a, "hget", "f"); got != "v2" {
		t.Fatalf("hget: got %v", got)
	}
}

func TestHsetnxNoOpWhenPresent(t *testing.T) {
	a := New("k", nil)
	dispatch(a, "hset", "f", "v1")
	if got := dispatch(a, "hsetnx", "f", "v2"); got != 0 {
		t.Fatalf("hsetnx should no-op: got %v", got)
	}
	if got := dispatch(a, "hget", "f"); got != "v1" {
		t.Fatalf("hsetnx must not overwrite: got %v", got)
	}
}

func TestHdelAndHexists(t *testing.T) {
	a := New("k", nil)
	dispatch(a, "hset", "a", "1")
	dispatch(a, "hset", "b", "2")
	if got := dispatch(a, "hdel", "a", "missing"); got != 1 {
		t.Fatalf("hdel count: got %v", got)
	}
	if got := dispatch(a, "hexists", "a"); got != false {
		t.Fatalf("hexists after hdel: got %v", got)
	}
	if got := dispatch(a, "hexists", "b"); got != true {
		t.Fatalf("hexists remaining field: got %v", got)
	}
}

func TestHgetallOrdering(t *testing.T) {
	a := New("k", nil)
	dispatch(a, "hset", "b", "2")
	dispatch(a, "hset", "a", "1")
	got := dispatch(a, "hgetall")
	want := []string{"a", "1", "b", "2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("hgetall: got %v, want %v", got, want)
	}
}

func TestHmgetMissingField(t *testing.T) {
	a := New("k", nil)
	dispatch(a, "hset", "a", "1")
	got := dispatch(a, "hmget", "a", "missing")
	want := []string{"1", "nil"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("hmget: got %v, want %v", got, want)
	}
}

func TestHincrbyMissingFieldIsZero(t *testing.T) {
	a := New("k", nil)
	if got := dispatch(a, "hincrby", "counter", "5"); got != "5" {
		t.Fatalf("hincrby on missing field: got %v", got)
	}
	if got := dispatch(a, "hincrby", "counter", "-2"); got != "3" {
		t.Fatalf("hincrby accumulation: got %v", got)
	}
}

func TestHscanPagination(t *testing.T) {
	a := New("k", nil)
	for _, f := range []string{"a", "b", "c"} {
		dispatch(a, "hset", f, "v")
	}
	got, ok := dispatch(a, "hscan", "0", "", "2").([]string)
	if !ok {
		t.Fatalf("hscan returned non-[]string")
	}
	if got[0] != "2" {
		t.Fatalf("hscan next cursor: got %v", got[0])
	}
	if len(got) != 3 {
		t.Fatalf("hscan page: got %v", got)
	}
}
