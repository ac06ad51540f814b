package jwt

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"fleet-tracking/internal/domain/user"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndValidateRoundTrip(t *testing.T) {
	mgr := NewManager(testSecret, time.Hour)

	token, claims, err := mgr.IssueUserToken("user-1", user.RoleDriver)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}
	if claims.Subject != "user-1" || claims.Role != user.RoleDriver {
		t.Fatalf("claims = %+v", claims)
	}

	_, parsed, err := mgr.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if parsed.Subject != "user-1" || parsed.Role != user.RoleDriver {
		t.Fatalf("parsed claims = %+v", parsed)
	}
}

func TestIssueUserTokenRejectsInvalidRole(t *testing.T) {
	mgr := NewManager(testSecret, time.Hour)
	if _, _, err := mgr.IssueUserToken("user-1", "WIZARD"); err == nil {
		t.Fatal("expected an error for an invalid role")
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	mgr := NewManager(testSecret, time.Hour)
	other := NewManager("another-secret-key-thats-long-enough", time.Hour)

	token, _, err := other.IssueUserToken("user-1", user.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}
	if _, _, err := mgr.ParseAndValidate(token); err == nil {
		t.Fatal("token signed with another secret must not validate")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	mgr := NewManager(testSecret, -time.Minute)
	token, _, err := mgr.IssueUserToken("user-1", user.RoleDriver)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}
	if _, _, err := mgr.ParseAndValidate(token); err == nil {
		t.Fatal("expired token must not validate")
	}
}

func TestRoleAllowed(t *testing.T) {
	claims := &Claims{Role: user.RoleDispatcher}
	if err := RoleAllowed(claims, user.RoleDriver, user.RoleDispatcher); err != nil {
		t.Fatalf("RoleAllowed: %v", err)
	}
	if err := RoleAllowed(claims, user.RoleDriver); !errors.Is(err, ErrRoleForbidden) {
		t.Fatalf("error = %v, want ErrRoleForbidden", err)
	}
}

func TestFromAuthorization(t *testing.T) {
	t.Run("header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/runs/run-1/status", nil)
		r.Header.Set("Authorization", "Bearer abc.def.ghi")
		raw, err := FromAuthorization(r)
		if err != nil || raw != "abc.def.ghi" {
			t.Fatalf("raw = %q, err = %v", raw, err)
		}
	})

	t.Run("query parameter fallback", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/runs/run-1/ws?Authorization=abc.def.ghi", nil)
		raw, err := FromAuthorization(r)
		if err != nil || raw != "abc.def.ghi" {
			t.Fatalf("raw = %q, err = %v", raw, err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/runs/run-1/status", nil)
		if _, err := FromAuthorization(r); err == nil {
			t.Fatal("expected an error when no token is supplied")
		}
	})
}
