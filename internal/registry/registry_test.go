package registry

import "testing"

func TestLookupUnknownCommand(t *testing.T) {
	if _, ok := Lookup("frobnicate"); ok {
		t.Fatal("expected frobnicate to be absent from the registry")
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		cmd  string
		want Kind
	}{
		{"get", KindString},
		{"hget", KindHash},
		{"lpush", KindList},
		{"sadd", KindSet},
		{"expire", KindKeys},
	}
	for _, c := range cases {
		got, ok := KindOf(c.cmd)
		if !ok {
			t.Fatalf("%s: expected command to be registered", c.cmd)
		}
		if got != c.want {
			t.Errorf("%s: got kind %v, want %v", c.cmd, got, c.want)
		}
	}
}

func TestDefaultVsCreateDichotomy(t *testing.T) {
	if _, has := Default("get", nil); !has {
		t.Error("get should have a registered default")
	}
	if _, has := Default("set", []string{"v"}); has {
		t.Error("set should have no default (creates the key)")
	}
	if _, has := Default("blpop", []string{"1"}); has {
		t.Error("blpop should have no default (must register the block)")
	}
}

func TestArityInRange(t *testing.T) {
	if InRange("hmset", []string{"f1"}) {
		t.Error("hmset with an odd arg count should fail arity")
	}
	if !InRange("hmset", []string{"f1", "v1", "f2", "v2"}) {
		t.Error("hmset with 4 args should pass arity")
	}
	if InRange("get", []string{"extra"}) {
		t.Error("get takes no args beyond the key")
	}
	if !InRange("mget", []string{"a"}) {
		t.Error("mget needs at least one key")
	}
	if InRange("mget", nil) {
		t.Error("mget needs at least one key")
	}
}
