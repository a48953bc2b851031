package alignerr

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("file missing")
	err := Wrap(ErrInput, "subtext", "parse", "source stream", cause)

	if !errors.Is(err, ErrInput) {
		t.Error("wrapped error must match its marker")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error must match its cause")
	}
	for _, part := range []string{"subtext", "parse", "source stream", "file missing"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("error %q missing %q", err.Error(), part)
		}
	}
}

func TestWrapNilMarker(t *testing.T) {
	err := Wrap(nil, "x", "", "", nil)
	if !errors.Is(err, ErrInput) {
		t.Error("nil marker defaults to ErrInput")
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrDegenerate, "", "", "", nil)
	if !strings.Contains(err.Error(), "alignment failure") {
		t.Errorf("error %q missing generic detail", err.Error())
	}
}

func TestFatal(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{Wrap(ErrInput, "a", "b", "", nil), true},
		{Wrap(ErrConfiguration, "a", "b", "", nil), true},
		{Wrap(ErrDegenerate, "a", "b", "", nil), false},
		{Wrap(ErrExternalTool, "a", "b", "", nil), false},
		{errors.New("plain"), false},
	}
	for _, tc := range tests {
		if got := Fatal(tc.err); got != tc.want {
			t.Errorf("Fatal(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
