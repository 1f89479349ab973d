package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/harunoki/guildctl/model"
)

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.Me(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestBackendErrorMessageSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "price must be positive"})
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	err := c.CreateShopItem(context.Background(), snowflake.ID(1), model.ShopItem{Name: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "price must be positive" {
		t.Fatalf("unexpected error contents: %+v", apiErr)
	}
}

func TestSessionCookieCarriedAcrossCalls(t *testing.T) {
	var sawCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/", HttpOnly: true})
			json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": "42", "username": "op"}})
		case "/api/me":
			ck, err := r.Cookie("session")
			sawCookie = err == nil && ck.Value == "abc"
			json.NewEncoder(w).Encode(map[string]any{"id": "42", "username": "op"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	user, err := c.Login(context.Background(), "op", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "op" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("me: %v", err)
	}
	if !sawCookie {
		t.Fatalf("session cookie was not sent on the follow-up request")
	}
}

func TestMembersPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/99/users" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "3" || r.URL.Query().Get("limit") != "25" {
			t.Errorf("pagination params not forwarded: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]any{{"id": "7", "username": "aki", "balance": 10}},
			"total": 51,
		})
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	members, total, err := c.Members(context.Background(), snowflake.ID(99), 3, 25)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if total != 51 || len(members) != 1 || members[0].Username != "aki" {
		t.Fatalf("unexpected result: total=%d members=%+v", total, members)
	}
}

func TestShopCRUDPaths(t *testing.T) {
	type hit struct{ method, path string }
	var hits []hit
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, hit{r.Method, r.URL.Path})
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	guild := snowflake.ID(5)
	ctx := context.Background()

	if err := c.CreateShopItem(ctx, guild, model.ShopItem{Name: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateShopItem(ctx, guild, model.ShopItem{ItemID: 9, Name: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteShopItem(ctx, guild, 9); err != nil {
		t.Fatal(err)
	}

	want := []hit{
		{"POST", "/api/5/shop"},
		{"PUT", "/api/5/shop/9"},
		{"DELETE", "/api/5/shop/9"},
	}
	for i, h := range want {
		if hits[i] != h {
			t.Fatalf("call %d: got %v want %v", i, hits[i], h)
		}
	}
}
