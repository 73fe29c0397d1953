package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New("id", "secret", WithBaseURL(srv.URL), WithAuthURL(srv.URL+"/token"))
	c.SetToken(Token{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour)})
	return c
}

func TestBearerHeaderAndDecode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/me" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(User{ID: "u1", DisplayName: "Tester", Product: "premium"})
	})

	u, err := c.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if u.ID != "u1" || u.Product != "premium" {
		t.Fatalf("user = %+v", u)
	}
}

func TestAPIErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		check   func(error) bool
	}{
		{"premium required", 403, "Player command failed: Premium required", IsPremiumRequired},
		{"no active device", 404, "Player command failed: No active device found", IsNoActiveDevice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"status": tt.status, "message": tt.message},
				})
			})
			err := c.PausePlayback(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Fatalf("classification failed for %v", err)
			}
			var ae *APIError
			if !errors.As(err, &ae) || ae.Message != tt.message {
				t.Fatalf("error = %v", err)
			}
		})
	}
}

func TestUnexpectedStatusIsNotDowngraded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	err := c.NextTrack(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if IsPremiumRequired(err) || IsNoActiveDevice(err) {
		t.Fatalf("500 misclassified as expected failure: %v", err)
	}
}

func TestPlaybackStateNothingPlaying(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	ps, err := c.PlaybackState(context.Background())
	if err != nil {
		t.Fatalf("PlaybackState: %v", err)
	}
	if ps != nil {
		t.Fatalf("ps = %+v, want nil", ps)
	}
}

func TestPlaylistTracksUnwrapsItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("limit = %q", got)
		}
		w.Write([]byte(`{"items":[{"track":{"id":"t1","name":"Song A","duration_ms":1000}}],"limit":20,"offset":0,"total":1}`))
	})
	p, err := c.PlaylistTracks(context.Background(), "pl1", 20, 0)
	if err != nil {
		t.Fatalf("PlaylistTracks: %v", err)
	}
	if len(p.Items) != 1 || p.Items[0].Name != "Song A" {
		t.Fatalf("page = %+v", p)
	}
}

func TestSearchQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "daft punk" {
			t.Errorf("q = %q", q.Get("q"))
		}
		if q.Get("type") != "track,album,artist,playlist,show" {
			t.Errorf("type = %q", q.Get("type"))
		}
		w.Write([]byte(`{"tracks":{"items":[{"id":"t1","name":"One More Time"}],"total":1}}`))
	})
	r, err := c.Search(context.Background(), "daft punk", 20)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if r.Tracks == nil || len(r.Tracks.Items) != 1 {
		t.Fatalf("results = %+v", r)
	}
}

func TestRefreshKeepsRefreshTokenWhenNotRotated(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		user, pass, _ := r.BasicAuth()
		if user != "id" || pass != "secret" {
			t.Errorf("basic auth = %q/%q", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.Form.Get("grant_type") != "refresh_token" {
			t.Errorf("grant_type = %q", r.Form.Get("grant_type"))
		}
		w.Write([]byte(`{"access_token":"fresh","expires_in":3600}`))
	})
	c.SetToken(Token{AccessToken: "stale", RefreshToken: "keepme", ExpiresAt: time.Now()})

	tok, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if tok.AccessToken != "fresh" || tok.RefreshToken != "keepme" {
		t.Fatalf("token = %+v", tok)
	}
	if c.Token().AccessToken != "fresh" {
		t.Fatal("refreshed token not installed on client")
	}
}

func TestTokenExpiredMargin(t *testing.T) {
	now := time.Now()
	tok := Token{ExpiresAt: now.Add(5 * time.Second)}
	if !tok.Expired(now) {
		t.Fatal("token inside the safety margin should report expired")
	}
	tok.ExpiresAt = now.Add(time.Hour)
	if tok.Expired(now) {
		t.Fatal("fresh token reported expired")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		uri      string
		kind, id string
		wantErr  bool
	}{
		{"spotify:track:4uLU6hMC", "track", "4uLU6hMC", false},
		{"spotify:album:abc123", "album", "abc123", false},
		{"track:only", "", "", true},
		{"spotify::", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		kind, id, err := ParseID(tt.uri)
		if tt.wantErr {
			if !errors.Is(err, ErrMalformedURI) {
				t.Errorf("ParseID(%q) err = %v, want ErrMalformedURI", tt.uri, err)
			}
			continue
		}
		if err != nil || kind != tt.kind || id != tt.id {
			t.Errorf("ParseID(%q) = %q, %q, %v", tt.uri, kind, id, err)
		}
	}
}
