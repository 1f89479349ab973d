package main

import (
	"strings"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/harunoki/guildctl/model"
)

func TestCacheApplyReplacesWholesale(t *testing.T) {
	r := newRefData()
	r.gen = 1
	r.channels[snowflake.ID(1)] = model.Channel{ID: 1, Name: "old"}

	ok := r.apply(cacheMsg{gen: 1, kind: refChannels, channels: []model.Channel{
		{ID: 2, Name: "general"},
	}})
	if !ok {
		t.Fatalf("apply rejected a current-generation result")
	}
	if _, stale := r.channels[snowflake.ID(1)]; stale {
		t.Fatalf("old entry survived a wholesale replace")
	}
	if got := r.displayName(refChannels, snowflake.ID(2)); got != "#general" {
		t.Fatalf("expected #general, got %q", got)
	}
}

func TestCacheDisplayNameFallback(t *testing.T) {
	r := newRefData()
	got := r.displayName(refChannels, snowflake.ID(424242))
	if !strings.Contains(got, "424242") {
		t.Fatalf("fallback must embed the raw id, got %q", got)
	}
	got = r.displayName(refUsers, snowflake.ID(7))
	if !strings.Contains(got, "7") {
		t.Fatalf("user fallback must embed the raw id, got %q", got)
	}
}

func TestCacheDiscardsStaleGeneration(t *testing.T) {
	r := newRefData()
	r.gen = 2 // server switched while a fetch for gen 1 was in flight

	ok := r.apply(cacheMsg{gen: 1, kind: refUsers, users: []model.Member{
		{ID: 9, Username: "ghost"},
	}})
	if ok {
		t.Fatalf("stale generation result was applied")
	}
	if len(r.users) != 0 {
		t.Fatalf("stale fetch mutated the cache: %v", r.users)
	}
}

func TestCachePartialFailureKeepsOtherSlices(t *testing.T) {
	r := newRefData()
	r.gen = 1

	r.apply(cacheMsg{gen: 1, kind: refRoles, roles: []model.Role{{ID: 3, Name: "mod"}}})
	r.apply(cacheMsg{gen: 1, kind: refChannels, err: errFake})

	if got := r.displayName(refRoles, snowflake.ID(3)); got != "@mod" {
		t.Fatalf("successful slice lost after sibling failure, got %q", got)
	}
}

var errFake = &fakeErr{}

type fakeErr struct{}

func (*fakeErr) Error() string { return "boom" }
