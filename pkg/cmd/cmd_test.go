package cmd

import (
	"context"
	"testing"
)

type echo struct{ name string }

func (e echo) Name() string        { return e.name }
func (e echo) Description() string { return "echoes" }
func (e echo) Usage() string       { return e.name + " <text>" }
func (e echo) Run(ctx context.Context, inv *Invocation) error {
	inv.Data = inv.Args
	return nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(echo{"beta"}, echo{"alpha"})

	if err := r.Register(echo{"ALPHA"}); err == nil {
		t.Fatal("duplicate name accepted")
	}
	if err := r.Register(echo{" "}); err == nil {
		t.Fatal("empty name accepted")
	}
	if r.Get("Beta") == nil {
		t.Fatal("lookup should ignore case")
	}

	all := r.All()
	if len(all) != 2 || all[0].Name() != "alpha" {
		t.Fatalf("unexpected order %v", all)
	}
}

func TestApplyOrderAndRoot(t *testing.T) {
	var order []string
	mw := func(tag string) Middleware {
		return func(c Command) Command {
			return Wrap(c, func(ctx context.Context, inv *Invocation) error {
				order = append(order, tag)
				return c.Run(ctx, inv)
			})
		}
	}

	base := echo{"e"}
	c := Apply(base, mw("inner"), mw("outer"))
	if err := c.Run(context.Background(), &Invocation{}); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Fatalf("unexpected order %v", order)
	}
	if Root(c) != Command(base) {
		t.Fatal("Root did not unwrap to the base command")
	}
	if UsageOf(c) != "e <text>" {
		t.Fatalf("usage lost through wrappers: %q", UsageOf(c))
	}
	if c.Name() != "e" {
		t.Fatal("wrapper changed the name")
	}
}
