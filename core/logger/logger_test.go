package logger

import (
	"testing"
	"time"
)

func TestBuildRID(t *testing.T) {
	if rid := BuildRID(42, 7, 9); rid != "42:7:9" {
		t.Fatalf("rid = %q, expected 42:7:9", rid)
	}
}

func TestContextMetaRoundTrip(t *testing.T) {
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 11, 22, 33)
	ctx = WithHandler(ctx, "registration")

	if got := RIDFrom(ctx); got != "rid-123" {
		t.Fatalf("rid = %q", got)
	}
	if got := UpdateIDFrom(ctx); got != 11 {
		t.Fatalf("update_id = %d", got)
	}
	if got := UserIDFrom(ctx); got != 22 {
		t.Fatalf("user_id = %d", got)
	}
	if got := ChatIDFrom(ctx); got != 33 {
		t.Fatalf("chat_id = %d", got)
	}
	if got := HandlerFrom(ctx); got != "registration" {
		t.Fatalf("handler = %q", got)
	}
}

func TestContextMetaAbsent(t *testing.T) {
	if RIDFrom(nil) != "" || UserIDFrom(nil) != 0 || HandlerFrom(nil) != "" {
		t.Fatal("nil context must yield zero values")
	}
	ctx := Background()
	if RIDFrom(ctx) != "" || UserIDFrom(ctx) != 0 {
		t.Fatal("empty context must yield zero values")
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "abc\x00def\tghi"
	if got := Sanitize(in); got != "abcdef\tghi" {
		t.Fatalf("sanitize = %q", got)
	}
	if got := SanitizeLimit("abcdef", 3); got != "abc" {
		t.Fatalf("sanitize limit = %q", got)
	}
	if got := SanitizeLimit("abc", 0); got != "" {
		t.Fatalf("zero limit = %q", got)
	}
}

func TestStatusAndRoundMS(t *testing.T) {
	if Status(nil) != "ok" {
		t.Fatal("nil error should map to ok")
	}
	if got := RoundMS(1500 * time.Microsecond); got != 2*time.Millisecond {
		t.Fatalf("round = %v", got)
	}
	if got := RoundMS(-time.Second); got != 0 {
		t.Fatalf("negative duration = %v", got)
	}
}
