package version

import "testing"

func TestGet(t *testing.T) {
	if Get() == "" {
		t.Fatal("embedded version is empty")
	}

	old := Override
	defer func() { Override = old }()

	Override = " 9.9.9\n"
	if got := Get(); got != "9.9.9" {
		t.Errorf("Get() = %q, want 9.9.9", got)
	}
	if got := UserAgent(); got != "reportqc/9.9.9" {
		t.Errorf("UserAgent() = %q", got)
	}
}
