package submission_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstructure/pkg/form"
	"github.com/goliatone/go-formstructure/pkg/submission"
	"github.com/goliatone/go-formstructure/pkg/testsupport"
)

func contactFields(t *testing.T) []submission.Field {
	t.Helper()
	tree := testsupport.LoadTree(t)
	helper := form.New(tree)
	contact := testsupport.MustResource(t, tree, testsupport.ContactForm)
	return submission.Fields(tree, helper.GetFormElements(contact))
}

func TestFields(t *testing.T) {
	got := contactFields(t)
	want := []submission.Field{
		{
			Name:         "fullname",
			Path:         testsupport.ContactForm + "/fullname",
			ResourceType: "core/wcm/components/form/text/v2/text",
			Required:     true,
			MaxLength:    40,
		},
		{
			Name:         "topic",
			Path:         testsupport.ContactForm + "/topic",
			ResourceType: "weretail/components/form/options",
			Required:     true,
			Options:      []string{"sales", "support"},
		},
		{
			Name:         "message",
			Path:         testsupport.ContactForm + "/message",
			ResourceType: "core/wcm/components/form/text/v2/text",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldsSkipButtons(t *testing.T) {
	tree := testsupport.LoadTree(t)
	helper := form.New(tree)
	demo := testsupport.MustResource(t, tree, testsupport.DemoForm)

	var names []string
	for _, field := range submission.Fields(tree, helper.GetFormElements(demo)) {
		names = append(names, field.Name)
	}
	if diff := cmp.Diff([]string{"text", "hidden", "comment"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if submission.Fields(nil, helper.GetFormElements(demo)) != nil {
		t.Fatalf("nil resolver should yield no fields")
	}
}

func TestSchema(t *testing.T) {
	schema := submission.Schema(contactFields(t))

	if diff := cmp.Diff([]string{"fullname", "topic"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if len(schema.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(schema.Properties))
	}
	fullname := schema.Properties["fullname"].Value
	if fullname.MaxLength == nil || *fullname.MaxLength != 40 {
		t.Fatalf("fullname maxLength not set: %v", fullname.MaxLength)
	}
	if diff := cmp.Diff([]any{"sales", "support"}, schema.Properties["topic"].Value.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	fields := contactFields(t)
	schema := submission.Schema(fields)

	cases := []struct {
		name       string
		values     map[string]any
		wantFields []string
	}{
		{
			name:   "valid",
			values: map[string]any{"fullname": "Ada", "topic": "sales", "message": "hello", "extra": "ignored"},
		},
		{
			name:       "blank required values",
			values:     map[string]any{"fullname": "   ", "message": "hello"},
			wantFields: []string{"fullname", "topic"},
		},
		{
			name:       "too long and unknown option",
			values:     map[string]any{"fullname": strings.Repeat("x", 41), "topic": "billing"},
			wantFields: []string{"fullname", "topic"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := submission.Validate(schema, submission.Normalize(fields, tc.values))
			if result.Valid != (len(tc.wantFields) == 0) {
				t.Fatalf("valid = %v, issues = %v", result.Valid, result.Issues)
			}
			var got []string
			for _, issue := range result.Issues {
				if issue.Message == "" {
					t.Fatalf("issue without message: %+v", issue)
				}
				got = append(got, issue.Field)
			}
			if diff := cmp.Diff(tc.wantFields, got); diff != "" {
				t.Fatalf("issue fields mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if result := submission.Validate(nil, nil); !result.Valid {
		t.Fatalf("nil schema should accept anything")
	}
}

func TestNormalize(t *testing.T) {
	fields := []submission.Field{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}}
	got := submission.Normalize(fields, map[string]any{
		"a":     " x ",
		"b":     []string{"first", "second"},
		"c":     42,
		"d":     "",
		"other": "dropped",
	})
	want := map[string]any{"a": "x", "b": "first", "c": "42"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitize(t *testing.T) {
	got := submission.Sanitize(map[string]any{
		"fullname": "<b>Ada</b> Lovelace",
		"message":  "<script>alert(1)</script>hello",
		"count":    3,
	})
	want := map[string]any{"fullname": "Ada Lovelace", "message": "hello", "count": 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sanitize mismatch (-want +got):\n%s", diff)
	}
	if submission.Sanitize(nil) != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ampersand kept", in: "Tom & Jerry", want: "Tom & Jerry"},
		{name: "only ampersands", in: strings.Repeat("&", 5), want: "&&&&&"},
		{name: "quotes kept", in: `say "hi" it's`, want: `say "hi" it's`},
		{name: "empty markup", in: "<b></b>", want: ""},
		{name: "entity encoded tags", in: "&lt;b&gt;bold&lt;/b&gt;", want: "bold"},
		{name: "less than", in: "a < b", want: "a < b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := submission.PlainText(tt.in); got != tt.want {
				t.Fatalf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
