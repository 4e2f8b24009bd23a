package config

import (
	"os"
	"testing"
)

func TestSplitKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single key", "abc", []string{"abc"}},
		{"multiple keys", "k1,k2,k3", []string{"k1", "k2", "k3"}},
		{"whitespace trimmed", " k1 , k2 ", []string{"k1", "k2"}},
		{"blank entries dropped", "k1,,k2,", []string{"k1", "k2"}},
		{"all blank", " , ,", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := splitKeys(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("splitKeys(%q) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("key %d = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	os.Setenv("TEST_CONFIG_SET", "value")
	defer os.Unsetenv("TEST_CONFIG_SET")

	if got := getEnvOrDefault("TEST_CONFIG_SET", "fallback"); got != "value" {
		t.Errorf("set variable returned %q", got)
	}
	if got := getEnvOrDefault("TEST_CONFIG_UNSET", "fallback"); got != "fallback" {
		t.Errorf("unset variable returned %q", got)
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	os.Setenv("TEST_CONFIG_INT", "42")
	os.Setenv("TEST_CONFIG_BAD_INT", "not-a-number")
	defer os.Unsetenv("TEST_CONFIG_INT")
	defer os.Unsetenv("TEST_CONFIG_BAD_INT")

	if got := getEnvAsIntOrDefault("TEST_CONFIG_INT", 7); got != 42 {
		t.Errorf("numeric variable returned %d", got)
	}
	if got := getEnvAsIntOrDefault("TEST_CONFIG_BAD_INT", 7); got != 7 {
		t.Errorf("invalid value should fall back, returned %d", got)
	}
	if got := getEnvAsIntOrDefault("TEST_CONFIG_INT_UNSET", 7); got != 7 {
		t.Errorf("unset variable returned %d", got)
	}
}

func TestMustGetEnvPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("mustGetEnv should panic on a missing variable")
		}
	}()
	mustGetEnv("TEST_CONFIG_DEFINITELY_UNSET")
}
