package identity

import (
	"path/filepath"
	"testing"
)

func TestCredentialStore_RoundTrip(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "omnileap", "credentials.yml"))

	creds := Credentials{
		RefreshToken: "refresh-1",
		UID:          "uid-1",
		Email:        "ada@example.com",
		DisplayName:  "Ada",
	}
	if err := store.Save(creds); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != creds {
		t.Fatalf("round trip changed credentials: %+v != %+v", got, creds)
	}
}

func TestCredentialStore_LoadMissing(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "credentials.yml"))
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != (Credentials{}) {
		t.Fatalf("missing file loaded %+v, want zero credentials", got)
	}
}

func TestCredentialStore_ClearIsIdempotent(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "credentials.yml"))
	if err := store.Clear(); err != nil {
		t.Fatalf("clearing an absent file: %v", err)
	}
	if err := store.Save(Credentials{RefreshToken: "r"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}
