package fserrors

import (
	"fmt"
	"testing"
)

func TestErrorCodeString(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want string
	}{
		{ErrNotFound, "NotFound"},
		{ErrAlreadyExists, "AlreadyExists"},
		{ErrNotAFile, "NotAFile"},
		{ErrNotADirectory, "NotADirectory"},
		{ErrNotEmpty, "NotEmpty"},
		{ErrParentMissing, "ParentMissing"},
		{ErrRecursionRequired, "RecursionRequired"},
		{ErrUnsupportedDataType, "UnsupportedDataType"},
		{ErrorCode(99), "Unknown(99)"},
	}
	for _, tc := range cases {
		if got := tc.code.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewNotFound("/a/b")
	want := "NotFound: no such file or directory (path: /a/b)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	noPath := NewUnsupportedDataType("latin1")
	if noPath.Path != "" {
		t.Errorf("expected empty path, got %q", noPath.Path)
	}
}

func TestCodeOfUnwraps(t *testing.T) {
	inner := NewNotEmpty("/dir")
	wrapped := fmt.Errorf("removing: %w", inner)

	if CodeOf(wrapped) != ErrNotEmpty {
		t.Errorf("CodeOf(wrapped) = %v, want ErrNotEmpty", CodeOf(wrapped))
	}
	if !Is(wrapped, ErrNotEmpty) {
		t.Error("Is(wrapped, ErrNotEmpty) = false")
	}
	if Is(wrapped, ErrNotFound) {
		t.Error("Is(wrapped, ErrNotFound) = true")
	}
	if CodeOf(fmt.Errorf("plain")) != 0 {
		t.Error("CodeOf(plain error) != 0")
	}
}
