package util

import "testing"

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"valentina@staffdesk.test", "v…@s….test"},
		{"  Bruno.Paz@Empresa.com.ar ", "b…@e….com.ar"},
		{"a@b.c", "a@b.c"},
		{"", ""},
		{"xy", "***"},
		{"no-es-un-email", "n…l"},
	}
	for _, c := range cases {
		if got := MaskEmail(c.in); got != c.want {
			t.Errorf("MaskEmail(%q) = %q, esperaba %q", c.in, got, c.want)
		}
	}
}
