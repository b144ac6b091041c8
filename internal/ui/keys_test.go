package ui

import (
	"reflect"
	"testing"

	"protein/internal/config"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name   string
		custom string
		want   []string
	}{
		{"empty uses defaults", "", []string{"a", "b"}},
		{"blank uses defaults", "  ", []string{"a", "b"}},
		{"single", "x", []string{"x"}},
		{"list with spaces", "x, y ,z", []string{"x", "y", "z"}},
		{"space alias", "space,t", []string{" ", "t"}},
		{"drops empties", "x,,y", []string{"x", "y"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseKeys(tc.custom, "a", "b"); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("parseKeys(%q) = %q, want %q", tc.custom, got, tc.want)
			}
		})
	}
}

func TestNewKeyMap_Defaults(t *testing.T) {
	km := NewKeyMap(nil)

	if got := km.Toggle.Keys(); !reflect.DeepEqual(got, []string{" ", "enter", "d"}) {
		t.Errorf("Toggle keys = %q", got)
	}
	if got := km.Quit.Keys(); !reflect.DeepEqual(got, []string{"q", "ctrl+c"}) {
		t.Errorf("Quit keys = %q", got)
	}
	if len(km.ShortHelp()) != 3 {
		t.Errorf("ShortHelp() has %d bindings, want 3", len(km.ShortHelp()))
	}
}

func TestNewKeyMap_Custom(t *testing.T) {
	km := NewKeyMap(&config.KeysConfig{Toggle: "t", Help: "h"})

	if got := km.Toggle.Keys(); !reflect.DeepEqual(got, []string{"t"}) {
		t.Errorf("Toggle keys = %q, want [t]", got)
	}
	if got := km.Help.Keys(); !reflect.DeepEqual(got, []string{"h"}) {
		t.Errorf("Help keys = %q, want [h]", got)
	}
}
