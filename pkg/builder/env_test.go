package builder

import "testing"

func TestEnvHelpers(t *testing.T) {
	cases := []struct {
		name  string
		value string
		check func() bool
	}{
		{"unset string", "", func() bool { return EnvOr("TISTIM_TEST_ENV", "daq1") == "daq1" }},
		{"quoted string", `"  Dev2  "`, func() bool { return EnvOr("TISTIM_TEST_ENV", "daq1") == "Dev2" }},
		{"int", "12", func() bool { return EnvIntOr("TISTIM_TEST_ENV", 7) == 12 }},
		{"bad int", "twelve", func() bool { return EnvIntOr("TISTIM_TEST_ENV", 7) == 7 }},
		{"float", "2.5", func() bool { return EnvFloatOr("TISTIM_TEST_ENV", 1) == 2.5 }},
		{"bool", "false", func() bool { return !EnvBoolOr("TISTIM_TEST_ENV", true) }},
		{"bad bool", "maybe", func() bool { return EnvBoolOr("TISTIM_TEST_ENV", true) }},
	}
	for _, tc := range cases {
		t.Setenv("TISTIM_TEST_ENV", tc.value)
		if !tc.check() {
			t.Fatalf("%s: unexpected result for %q", tc.name, tc.value)
		}
	}
}
