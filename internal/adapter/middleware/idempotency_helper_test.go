package middleware

import (
	"context"
	"strings"
	"testing"
	"time"
)

func Test_fingerprint(t *testing.T) {
	a := fingerprint([]byte(`{"amount":"300.00"}`))
	if len(a) != 64 {
		t.Fatalf("fingerprint length = %d, want 64", len(a))
	}
	if a != fingerprint([]byte(`{"amount":"300.00"}`)) {
		t.Fatalf("fingerprint not stable")
	}
	if a == fingerprint([]byte(`{"amount":"300.01"}`)) {
		t.Fatalf("different bodies share a fingerprint")
	}
}

func Test_requestKey(t *testing.T) {
	k := requestKey("POST", "/individual-loans/:loan_id/payments", 42, strings.Repeat("a", 32))
	want := "idemp:ledger:post:/individual-loans/:loan_id/payments:42:" + strings.Repeat("a", 32)
	if k != want {
		t.Fatalf("requestKey = %q, want %q", k, want)
	}
	if requestKey("POST", "/payments", 1, "x") == requestKey("POST", "/payments", 2, "x") {
		t.Fatalf("keys for different actors collide")
	}
}

func Test_validRequestID(t *testing.T) {
	cases := map[string]bool{
		strings.Repeat("0", 32):                true,
		"0123456789abcdef0123456789abcdef":     true,
		"550e8400-e29b-41d4-a716-446655440000": true,
		"550E8400-E29B-41D4-A716-446655440000": false, // upper case
		"0123456789ABCDEF0123456789ABCDEF":     false,
		"0123456789abcdef":                     false,
		"550e8400e29b41d4a716446655440000x":    false,
		"550e8400-e29b-01d4-a716-446655440000": false, // version 0
		"":                                     false,
	}
	for id, want := range cases {
		if got := validRequestID(id); got != want {
			t.Errorf("validRequestID(%q) = %v, want %v", id, got, want)
		}
	}
}

func Test_parseRequestAt(t *testing.T) {
	ref := time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)
	cases := []struct {
		raw  string
		want time.Time
		err  error
	}{
		{raw: "1705287600", want: ref},
		{raw: " 1705287600000 ", want: ref},
		{raw: "2024-01-15T03:00:00Z", want: ref},
		{raw: "2024-01-15T10:00:00+07:00", want: ref},
		{raw: "2024-01-15T03:00:00.250Z", want: ref.Add(250 * time.Millisecond)},
		{raw: "", err: errRequestAtMissing},
		{raw: "2024-01-15T03:00:00", err: errRequestAtFormat},
		{raw: "2024-01-15 03:00:00Z", err: errRequestAtFormat},
		{raw: "yesterday", err: errRequestAtFormat},
	}
	for _, tc := range cases {
		got, err := parseRequestAt(tc.raw)
		if err != tc.err {
			t.Errorf("parseRequestAt(%q) err = %v, want %v", tc.raw, err, tc.err)
			continue
		}
		if err == nil && !got.Equal(tc.want) {
			t.Errorf("parseRequestAt(%q) = %v, want %v", tc.raw, got, tc.want)
		}
		if err == nil && got.Location() != time.UTC {
			t.Errorf("parseRequestAt(%q) not UTC", tc.raw)
		}
	}
}

func Test_withinSkew(t *testing.T) {
	now := time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)
	if !withinSkew(now.Add(-maxClockSkew), now, maxClockSkew) || !withinSkew(now.Add(maxClockSkew), now, maxClockSkew) {
		t.Fatalf("edges of the window must be accepted")
	}
	if withinSkew(now.Add(maxClockSkew+time.Second), now, maxClockSkew) || withinSkew(now.Add(-maxClockSkew-time.Second), now, maxClockSkew) {
		t.Fatalf("outside the window must be rejected")
	}
}

func Test_responseStore(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	ctx := context.Background()
	store := responseStore{rdb: rdb, pendingTTL: pendingTTL, ttl: 5 * time.Second}
	key := requestKey("POST", "/payments", 10, strings.Repeat("a", 32))

	if got, err := store.load(ctx, key); err != nil || got.Fingerprint != "" {
		t.Fatalf("load of a missing key = %+v, %v", got, err)
	}

	r := storedResponse{Fingerprint: fingerprint([]byte(`{}`)), RequestID: strings.Repeat("a", 32)}
	if ok, err := store.reserve(ctx, key, r); err != nil || !ok {
		t.Fatalf("first reserve: ok=%v err=%v", ok, err)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > pendingTTL {
		t.Fatalf("pending ttl = %v", ttl)
	}
	if ok, err := store.reserve(ctx, key, r); err != nil || ok {
		t.Fatalf("second reserve: ok=%v err=%v", ok, err)
	}
	pending, err := store.load(ctx, key)
	if err != nil || !pending.Pending || pending.replayable() {
		t.Fatalf("pending entry = %+v, %v", pending, err)
	}

	r.Status = 201
	r.Body = []byte(`{"ok":true}`)
	if err := store.commit(ctx, key, r); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > 5*time.Second {
		t.Fatalf("final ttl = %v", ttl)
	}
	done, err := store.load(ctx, key)
	if err != nil || done.Pending || !done.replayable() || string(done.Body) != `{"ok":true}` {
		t.Fatalf("final entry = %+v, %v", done, err)
	}

	if err := store.release(ctx, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if mr.Exists(key) {
		t.Fatalf("key still present after release")
	}
}
