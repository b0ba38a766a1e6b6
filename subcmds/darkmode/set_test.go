// Copyright (c) 2025 BVK Chaitanya

package darkmode

import "testing"

func TestParseSwitch(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"on", true},
		{"off", false},
		{"true", true},
		{"0", false},
	}
	for _, test := range tests {
		got, err := parseSwitch(test.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Fatalf("%s: want %t, got %t", test.in, test.want, got)
		}
	}
	if _, err := parseSwitch("dark"); err == nil {
		t.Fatalf("want error for an invalid value")
	}
}
