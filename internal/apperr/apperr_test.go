package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatus_KindMapping(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{401, KindAuth},
		{404, KindNotFound},
		{409, KindConflict},
		{500, KindNetwork},
		{400, KindNetwork},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := Status("op", tt.status, "x").Kind; got != tt.want {
				t.Errorf("Status(%d).Kind = %s, want %s", tt.status, got, tt.want)
			}
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	base := Network("list connections", errors.New("connection refused"))
	wrapped := fmt.Errorf("resolve: %w", base)

	if KindOf(wrapped) != KindNetwork {
		t.Fatalf("expected NETWORK through wrapping, got %s", KindOf(wrapped))
	}
	if !Is(wrapped, KindNetwork) {
		t.Fatal("Is should match wrapped kind")
	}
	if Is(nil, KindNetwork) {
		t.Fatal("nil error must not match any kind")
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatal("foreign errors are UNKNOWN")
	}
}

func TestError_Message(t *testing.T) {
	err := Status("get profile", 404, "プロフィールが見つかりません")
	want := "get profile: NOT_FOUND (status 404): プロフィールが見つかりません"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	cause := errors.New("dial tcp: refused")
	nerr := Network("list connections", cause)
	if !errors.Is(nerr, cause) {
		t.Error("Network error should unwrap to its cause")
	}
}
