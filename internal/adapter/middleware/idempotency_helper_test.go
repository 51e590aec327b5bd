package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	callerA     = strings.Repeat("a", 32)
	callerB     = strings.Repeat("b", 32)
	sampleReqID = "3f9a6a1b3d544fbe8b3a6b3e8d6b2c88"
)

func Test_buildKey_ScopedByCaller(t *testing.T) {
	a := buildKey("POST", "/insurance/payouts", callerA, sampleReqID)
	b := buildKey("POST", "/insurance/payouts", callerB, sampleReqID)
	if a == b {
		t.Fatalf("same request id from two callers must not share a key: %q", a)
	}
	if want := "idemp:ax:post:/insurance/payouts:" + callerA + ":" + sampleReqID; a != want {
		t.Fatalf("buildKey = %q, want %q", a, want)
	}
	if buildKey("post", "/loans", callerA, sampleReqID) != buildKey("POST", "/loans", callerA, sampleReqID) {
		t.Fatalf("method case must not change the key")
	}
}

func Test_validReqID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88", true},
		{sampleReqID, true},
		{"  " + sampleReqID + "\t", true},
		{"", false},
		// ids are compared verbatim in the key, so uppercase is not folded
		{strings.ToUpper(sampleReqID), false},
		{"3F9A6A1B-3D54-4FBE-8B3A-6B3E8D6B2C88", false},
		{"3f9a6a1b-3d54-9fbe-8b3a-6b3e8d6b2c88", false},
		{sampleReqID[:31], false},
		{sampleReqID + "0", false},
	}
	for _, tc := range cases {
		if got := validReqID(tc.id); got != tc.want {
			t.Errorf("validReqID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func Test_parseAxRequestAt(t *testing.T) {
	sec := int64(1757041200) // 2025-09-05T03:00:00Z
	want := time.Unix(sec, 0).UTC()
	for _, raw := range []string{
		strconv.FormatInt(sec, 10),
		strconv.FormatInt(sec*1000, 10),
		"2025-09-05T10:00:00+07:00",
		"2025-09-05T03:00:00Z",
		" 2025-09-05T03:00:00.000Z ",
	} {
		got, err := parseAxRequestAt(raw)
		if err != nil {
			t.Fatalf("parseAxRequestAt(%q): %v", raw, err)
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Fatalf("parseAxRequestAt(%q) = %v, want %v", raw, got, want)
		}
	}
	for _, raw := range []string{"", "not-a-time", "2025-09-05T10:00:00", "1736123456abc"} {
		if _, err := parseAxRequestAt(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func Test_provisionalThenFinal(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	ctx := context.Background()
	key := buildKey("POST", "/loans", callerA, sampleReqID)

	entry := idempEntry{InProgress: true, BodySHA256: bodyHash([]byte(`{}`)), RequestID: sampleReqID, CreatedAt: nowUTC()}
	if ok, err := provisionalSet(ctx, rdb, key, entry); err != nil || !ok {
		t.Fatalf("first provisionalSet: ok=%v err=%v", ok, err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > provisionalLockTTL {
		t.Fatalf("provisional TTL = %v", ttl)
	}
	if ok, err := provisionalSet(ctx, rdb, key, entry); err != nil || ok {
		t.Fatalf("second provisionalSet must lose: ok=%v err=%v", ok, err)
	}
	// another caller reusing the id takes its own lock
	if ok, err := provisionalSet(ctx, rdb, buildKey("POST", "/loans", callerB, sampleReqID), entry); err != nil || !ok {
		t.Fatalf("other caller provisionalSet: ok=%v err=%v", ok, err)
	}

	entry.InProgress = false
	entry.Code = 201
	entry.Body = []byte(`{"tx_id":"1"}`)
	if err := saveFinal(ctx, rdb, key, entry, 10*time.Minute); err != nil {
		t.Fatalf("saveFinal: %v", err)
	}
	got, err := loadEntry(ctx, rdb, key)
	if err != nil {
		t.Fatalf("loadEntry: %v", err)
	}
	if got.InProgress || got.Code != 201 || string(got.Body) != `{"tx_id":"1"}` {
		t.Fatalf("final entry = %+v", got)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= provisionalLockTTL || ttl > 10*time.Minute {
		t.Fatalf("final TTL = %v", ttl)
	}
}

func Test_loadEntry_Errors(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	ctx := context.Background()

	if _, err := loadEntry(ctx, rdb, "idemp:ax:missing"); !errors.Is(err, redis.Nil) {
		t.Fatalf("missing key: want redis.Nil, got %v", err)
	}

	if err := mr.Set("idemp:ax:corrupt", "{not json"); err != nil {
		t.Fatal(err)
	}
	if _, err := loadEntry(ctx, rdb, "idemp:ax:corrupt"); err == nil {
		t.Fatalf("corrupt entry must surface a decode error")
	}
}
