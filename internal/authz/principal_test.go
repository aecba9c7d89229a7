package authz

import (
	"testing"
)

func TestPrincipal_String(t *testing.T) {
	tests := []struct {
		name string
		p    Principal
		want string
	}{
		{"user", Principal{ID: "u-1", Role: RoleSalesUser}, "user:u-1"},
		{"empty", Principal{}, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.String(); got != tt.want {
				t.Errorf("Principal.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithPrincipal_SetOnce(t *testing.T) {
	p := Principal{ID: "u-1", TenantID: "acme", Role: RoleSalesUser}

	ctx, err := WithPrincipal(t.Context(), p)
	if err != nil {
		t.Fatalf("WithPrincipal() error = %v", err)
	}

	got, ok := GetPrincipal(ctx)
	if !ok {
		t.Fatal("GetPrincipal() should find the installed principal")
	}

	if got != p {
		t.Errorf("GetPrincipal() = %v, want %v", got, p)
	}

	// Same principal again is idempotent.
	if _, err := WithPrincipal(ctx, p); err != nil {
		t.Errorf("WithPrincipal() with same principal should not error, got %v", err)
	}

	// A different principal must be rejected.
	if _, err := WithPrincipal(ctx, Principal{ID: "u-2", Role: RoleManager}); err == nil {
		t.Error("WithPrincipal() with conflicting principal should error")
	}
}

func TestGetPrincipal_Empty(t *testing.T) {
	if _, ok := GetPrincipal(t.Context()); ok {
		t.Error("GetPrincipal() should return false for empty context")
	}
}

func TestMustGetPrincipal_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustGetPrincipal() should panic without a principal")
		}
	}()

	MustGetPrincipal(t.Context())
}

func TestRole_Valid(t *testing.T) {
	for _, role := range Roles() {
		if !role.Valid() {
			t.Errorf("Role(%s).Valid() = false, want true", role)
		}
	}

	for _, role := range []Role{"", "admin", "Sales_User"} {
		if role.Valid() {
			t.Errorf("Role(%s).Valid() = true, want false", role)
		}
	}
}
