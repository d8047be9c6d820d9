package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringSet_ToggleTwiceRestoresSet(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		start StringSet
		value string
	}{
		{name: "absent value", start: StringSet{"Vegetarian"}, value: "Halal"},
		{name: "present value", start: StringSet{"Vegetarian", "Halal", "Kosher"}, value: "Halal"},
		{name: "empty set", start: StringSet{}, value: "Vegan"},
		{name: "nil set", start: nil, value: "Vegan"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := tc.start.Toggle(tc.value).Toggle(tc.value)
			if !got.Equal(tc.start) {
				t.Fatalf("toggle twice=%v, want %v", got, tc.start)
			}
		})
	}
}

func TestStringSet_ToggleDoesNotAlias(t *testing.T) {
	t.Parallel()

	base := make(StringSet, 1, 4)
	base[0] = "a"
	added := base.Toggle("b")
	if base.Contains("b") {
		t.Fatalf("Toggle mutated receiver: %v", base)
	}
	if diff := cmp.Diff(StringSet{"a", "b"}, added); diff != "" {
		t.Fatalf("added mismatch (-want +got):\n%s", diff)
	}
}

func TestNewStringSet_TrimsAndDedupes(t *testing.T) {
	t.Parallel()

	got := NewStringSet(" Vegan ", "", "Vegan", "Halal")
	if diff := cmp.Diff(StringSet{"Vegan", "Halal"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
