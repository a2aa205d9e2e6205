package sitecms

import "testing"

func TestLoginDefaultCredentials(t *testing.T) {
	s := setupTestStore(t)
	gate := NewAuthGate(s)

	if gate.Login("admin", "wrong") {
		t.Fatal("wrong password must not log in")
	}
	if s.Authenticated() {
		t.Fatal("failed login must leave the flag unset")
	}
	if gate.Login("someone", "admin123") {
		t.Fatal("wrong username must not log in")
	}

	if !gate.Login("admin", "admin123") {
		t.Fatal("default credentials must log in")
	}
	if !gate.Authenticated() {
		t.Fatal("successful login must set the flag")
	}

	if err := gate.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if gate.Authenticated() {
		t.Fatal("logout must clear the flag")
	}
}

func TestChangeCredentials(t *testing.T) {
	s := setupTestStore(t)
	gate := NewAuthGate(s)

	if err := gate.ChangeCredentials("ketua", "rahasia"); err != nil {
		t.Fatalf("ChangeCredentials failed: %v", err)
	}
	if gate.Login("admin", "admin123") {
		t.Fatal("default credentials must stop working after a change")
	}
	if !gate.Login("ketua", "rahasia") {
		t.Fatal("new credentials must log in")
	}
	if got := gate.Username(); got != "ketua" {
		t.Fatalf("Username() = %q, want ketua", got)
	}
}

func TestChangeCredentialsKeepsEmptyFields(t *testing.T) {
	s := setupTestStore(t)
	gate := NewAuthGate(s)

	if err := gate.ChangeCredentials("", "barubanget"); err != nil {
		t.Fatalf("ChangeCredentials failed: %v", err)
	}
	if !gate.Login("admin", "barubanget") {
		t.Fatal("username must be kept when only the password changes")
	}
}
