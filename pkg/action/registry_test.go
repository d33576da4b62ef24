package action_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstructure/pkg/action"
	"github.com/goliatone/go-formstructure/pkg/form"
	"github.com/goliatone/go-formstructure/pkg/resource"
	"github.com/goliatone/go-formstructure/pkg/testsupport"
)

type namedHandler struct {
	name  string
	calls int
}

func (h *namedHandler) ActionType() string { return h.name }

func (h *namedHandler) Submit(_ context.Context, container *resource.Resource, _ map[string]any) (*resource.Resource, error) {
	h.calls++
	return container, nil
}

func TestRegistryRegister(t *testing.T) {
	reg := action.NewRegistry()

	if err := reg.Register(nil); !errors.Is(err, action.ErrInvalidHandler) {
		t.Fatalf("expected ErrInvalidHandler for nil handler, got %v", err)
	}
	if err := reg.Register(&namedHandler{name: " "}); !errors.Is(err, action.ErrInvalidHandler) {
		t.Fatalf("expected ErrInvalidHandler for empty action type, got %v", err)
	}
	reg.MustRegister(&namedHandler{name: "b"})
	reg.MustRegister(&namedHandler{name: "a"})
	err := reg.Register(&namedHandler{name: "a"})
	if !errors.Is(err, action.ErrDuplicateAction) || !strings.HasSuffix(err.Error(), ": a") {
		t.Fatalf("expected ErrDuplicateAction naming the type, got %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	_, err = reg.Get("missing")
	if !errors.Is(err, action.ErrUnknownAction) || !strings.HasSuffix(err.Error(), ": missing") {
		t.Fatalf("expected ErrUnknownAction naming the type, got %v", err)
	}
	if handler, err := reg.Get(" b "); err != nil || handler.ActionType() != "b" {
		t.Fatalf("lookup should ignore surrounding space: %v", err)
	}
}

func TestRegistryDispatch(t *testing.T) {
	tree := testsupport.LoadTree(t)
	helper := form.New(tree)
	mail := &namedHandler{name: "foundation/components/form/actions/mail"}
	reg := action.DefaultRegistry(helper, action.WithNameGenerator(func() string { return "entry" }))
	reg.MustRegister(mail)
	ctx := context.Background()

	container := testsupport.MustResource(t, tree, testsupport.DemoForm)
	if _, err := reg.Dispatch(ctx, container, nil); !errors.Is(err, action.ErrNoActionType) {
		t.Fatalf("expected ErrNoActionType, got %v", err)
	}
	if _, err := reg.Dispatch(ctx, nil, nil); !errors.Is(err, action.ErrNotForm) {
		t.Fatalf("expected ErrNotForm, got %v", err)
	}

	container.ValueMap().Set(form.PropActionType, "custom/unknown")
	if _, err := reg.Dispatch(ctx, container, nil); !errors.Is(err, action.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}

	container.ValueMap().Set(form.PropActionType, mail.name)
	if _, err := reg.Dispatch(ctx, container, nil); err != nil || mail.calls != 1 {
		t.Fatalf("mail dispatch: err=%v calls=%d", err, mail.calls)
	}

	container.ValueMap().Delete(form.PropActionType)
	if err := helper.UpdateFormStructure(ctx, container); err != nil {
		t.Fatalf("update: %v", err)
	}
	entry, err := reg.Dispatch(ctx, container, map[string]any{"text": "hi", "comment": "<p>ok</p>"})
	if err != nil {
		t.Fatalf("store dispatch: %v", err)
	}
	if entry.Name() != "entry" || entry.ValueMap().GetString("comment") != "ok" {
		t.Fatalf("unexpected stored entry %s: %v", entry.Path(), entry.ValueMap().Map())
	}
}
