package action_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstructure/pkg/action"
	"github.com/goliatone/go-formstructure/pkg/form"
	"github.com/goliatone/go-formstructure/pkg/resource"
	"github.com/goliatone/go-formstructure/pkg/testsupport"
)

var fixedNow = time.UnixMilli(1700000000000)

const contactTarget = "/content/usergenerated/we-retail/contact/cq-gen1700000000000"

func newStore(t *testing.T, treeOptions ...resource.Option) (*action.StoreHandler, *form.StructureHelper, *resource.Tree) {
	t.Helper()
	tree := testsupport.LoadTree(t, treeOptions...)
	helper := form.New(tree, form.WithClock(func() time.Time { return fixedNow }))
	store := action.NewStoreHandler(helper,
		action.WithNameGenerator(func() string { return "entry-1" }),
		action.WithStoreClock(func() time.Time { return fixedNow }),
	)
	return store, helper, tree
}

func TestStoreSubmit(t *testing.T) {
	store, _, tree := newStore(t)
	container := testsupport.MustResource(t, tree, testsupport.ContactForm)

	entry, err := store.Submit(context.Background(), container, map[string]any{
		"fullname": "<i>Ada</i> Lovelace",
		"topic":    "support",
		"message":  "  ",
		"submit":   "Send",
		"extra":    "dropped",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := entry.Path(); got != contactTarget+"/entry-1" {
		t.Fatalf("entry path = %q", got)
	}

	want := map[string]any{
		"fullname":               "Ada Lovelace",
		"topic":                  "support",
		resource.PropPrimaryType: resource.DefaultPrimaryType,
		action.PropFormPath:      testsupport.ContactForm,
		action.PropCreated:       fixedNow.UTC().Format(time.RFC3339),
	}
	if diff := cmp.Diff(want, entry.ValueMap().Map()); diff != "" {
		t.Fatalf("stored properties mismatch (-want +got):\n%s", diff)
	}

	props := container.ValueMap()
	if got := props.GetString(form.PropActionType); got != form.DefaultActionType {
		t.Fatalf("actionType = %q", got)
	}
	if got := props.GetString(form.PropAction); got != contactTarget+"/" {
		t.Fatalf("action = %q", got)
	}
	if folder := tree.GetResource(contactTarget); folder.ResourceType() != resource.FolderType {
		t.Fatalf("target folder type = %q", folder.ResourceType())
	}
	if tree.HasChanges() {
		t.Fatalf("submission must be committed")
	}
}

func TestStoreSubmitRejectsInvalidValues(t *testing.T) {
	store, _, tree := newStore(t)
	container := testsupport.MustResource(t, tree, testsupport.ContactForm)

	_, err := store.Submit(context.Background(), container, map[string]any{
		"fullname": strings.Repeat("a", 50),
	})
	var validationErr *action.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	var fields []string
	for _, issue := range validationErr.Issues {
		fields = append(fields, issue.Field)
	}
	if diff := cmp.Diff([]string{"fullname", "topic"}, fields); diff != "" {
		t.Fatalf("issue fields mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(validationErr.Error(), testsupport.ContactForm) {
		t.Fatalf("error should name the form: %v", validationErr)
	}
	if tree.GetResource(contactTarget) != nil {
		t.Fatalf("rejected submission must not create resources")
	}
}

func TestStoreSubmitValidatesSanitizedValues(t *testing.T) {
	t.Run("markup only required value", func(t *testing.T) {
		store, _, tree := newStore(t)
		container := testsupport.MustResource(t, tree, testsupport.ContactForm)

		_, err := store.Submit(context.Background(), container, map[string]any{
			"fullname": "<b></b>",
			"topic":    "sales",
		})
		var validationErr *action.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(validationErr.Issues) != 1 || validationErr.Issues[0].Field != "fullname" {
			t.Fatalf("unexpected issues %+v", validationErr.Issues)
		}
		if tree.GetResource(contactTarget) != nil {
			t.Fatalf("rejected submission must not create resources")
		}
	})

	t.Run("entities are stored as text within maxlength", func(t *testing.T) {
		store, _, tree := newStore(t)
		container := testsupport.MustResource(t, tree, testsupport.ContactForm)

		entry, err := store.Submit(context.Background(), container, map[string]any{
			"fullname": strings.Repeat("&", 40),
			"topic":    "sales",
			"message":  "Tom & Jerry",
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		props := entry.ValueMap()
		if got := props.GetString("fullname"); got != strings.Repeat("&", 40) {
			t.Fatalf("fullname stored as %q (len %d)", got, len(got))
		}
		if got := props.GetString("message"); got != "Tom & Jerry" {
			t.Fatalf("message stored as %q", got)
		}
	})

	t.Run("length is checked after stripping markup", func(t *testing.T) {
		store, _, tree := newStore(t)
		container := testsupport.MustResource(t, tree, testsupport.ContactForm)

		_, err := store.Submit(context.Background(), container, map[string]any{
			"fullname": "<i>" + strings.Repeat("&", 41) + "</i>",
			"topic":    "sales",
		})
		var validationErr *action.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if validationErr.Issues[0].Field != "fullname" {
			t.Fatalf("unexpected issues %+v", validationErr.Issues)
		}
	})
}

func TestSubmitForm(t *testing.T) {
	_, helper, tree := newStore(t)
	reg := action.DefaultRegistry(helper,
		action.WithNameGenerator(func() string { return "entry-1" }),
		action.WithStoreClock(func() time.Time { return fixedNow }),
	)
	ctx := context.Background()

	field := testsupport.MustResource(t, tree, testsupport.ContactForm+"/message")
	entry, err := action.SubmitForm(ctx, helper, reg, field, map[string]any{"fullname": "Ada", "topic": "support"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := entry.Path(); got != contactTarget+"/entry-1" {
		t.Fatalf("entry path = %q", got)
	}

	container := testsupport.MustResource(t, tree, testsupport.ContactForm)
	container.ValueMap().Set(form.PropAction, "/content/usergenerated/custom/")
	second, err := action.SubmitForm(ctx, helper, reg, container, map[string]any{"fullname": "Bob", "topic": "sales"})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if got := second.Path(); got != "/content/usergenerated/custom/entry-1" {
		t.Fatalf("second entry path = %q", got)
	}
	if got := container.ValueMap().GetString(form.PropAction); got != "/content/usergenerated/custom/" {
		t.Fatalf("existing action overwritten: %q", got)
	}

	grid := testsupport.MustResource(t, tree, testsupport.DemoGrid)
	if _, err := action.SubmitForm(ctx, helper, reg, grid, nil); !errors.Is(err, action.ErrNotForm) {
		t.Fatalf("expected ErrNotForm, got %v", err)
	}
}

func TestStoreSubmitRequiresForm(t *testing.T) {
	store, _, tree := newStore(t)

	for _, res := range []*resource.Resource{nil, testsupport.MustResource(t, tree, testsupport.DemoGrid)} {
		if _, err := store.Submit(context.Background(), res, nil); !errors.Is(err, action.ErrNotForm) {
			t.Fatalf("expected ErrNotForm, got %v", err)
		}
	}
}

func TestStoreSubmitRevertsOnCommitFailure(t *testing.T) {
	failing := errors.New("quota exceeded")
	store, helper, tree := newStore(t, resource.WithCommitHook(func(_ context.Context, paths []string) error {
		for _, path := range paths {
			if strings.HasSuffix(path, "/entry-1") {
				return failing
			}
		}
		return nil
	}))
	container := testsupport.MustResource(t, tree, testsupport.DemoForm)
	if err := helper.UpdateFormStructure(context.Background(), container); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, err := store.Submit(context.Background(), container, map[string]any{"text": "hello"})
	if !errors.Is(err, failing) {
		t.Fatalf("expected commit failure, got %v", err)
	}
	if tree.HasChanges() {
		t.Fatalf("failed submission must be reverted")
	}
	if tree.GetResource("/content/usergenerated") != nil {
		t.Fatalf("created folders must be removed")
	}
	if got := container.ValueMap().GetString(form.PropActionType); got != form.DefaultActionType {
		t.Fatalf("committed structure lost: %q", got)
	}
}
