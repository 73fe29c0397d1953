package creds

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/strum/pkg/remote"
)

func writeClientYML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadClient(t *testing.T) {
	path := writeClientYML(t, "client_id: abc\nclient_secret: xyz\nport: 9000\n")
	c, err := LoadClient(path)
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if c.ClientID != "abc" || c.ClientSecret != "xyz" || c.Port != 9000 {
		t.Fatalf("creds = %+v", c)
	}
}

func TestLoadClientDefaultsPort(t *testing.T) {
	path := writeClientYML(t, "client_id: abc\nclient_secret: xyz\n")
	c, err := LoadClient(path)
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if c.Port != DefaultPort {
		t.Fatalf("Port = %d, want %d", c.Port, DefaultPort)
	}
}

func TestLoadClientRejectsMissingFields(t *testing.T) {
	path := writeClientYML(t, "client_id: abc\n")
	if _, err := LoadClient(path); err == nil {
		t.Fatal("expected error for missing client_secret")
	}
}

func TestTokenStoreRoundTrip(t *testing.T) {
	store, err := OpenTokenStore(filepath.Join(t.TempDir(), "tokens.db"))
	if err != nil {
		t.Fatalf("OpenTokenStore: %v", err)
	}
	defer store.Close()

	if _, err := store.Load(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("Load on empty store = %v, want ErrNoToken", err)
	}

	want := remote.Token{
		AccessToken:  "a1",
		RefreshToken: "r1",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Fatalf("ExpiresAt = %v, want %v", got.ExpiresAt, want.ExpiresAt)
	}
}

func TestTokenStoreOverwrite(t *testing.T) {
	store, err := OpenTokenStore(filepath.Join(t.TempDir(), "tokens.db"))
	if err != nil {
		t.Fatalf("OpenTokenStore: %v", err)
	}
	defer store.Close()

	if err := store.Save(remote.Token{AccessToken: "old"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(remote.Token{AccessToken: "new"}); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AccessToken != "new" {
		t.Fatalf("AccessToken = %q, want %q", got.AccessToken, "new")
	}
}
