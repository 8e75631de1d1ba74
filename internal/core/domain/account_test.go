package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"topAdmin", RoleTopAdmin, true},
		{"TOPADMIN", RoleTopAdmin, true},
		{"superadmin", RoleTopAdmin, true},
		{"admin", RoleAdmin, true},
		{"Admin", RoleAdmin, true},
		{"unitManager", RoleUnitManager, true},
		{"unitmanager", RoleUnitManager, true},
		{"user", RoleUser, true},
		{" user ", RoleUser, true},
		{"", "", false},
		{"wizard", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseRole(%q): expected ok=%v, got %v", tc.in, tc.ok, ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseRole(%q): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestRole_Assignable(t *testing.T) {
	if RoleTopAdmin.Assignable() {
		t.Fatalf("topAdmin must never be assignable")
	}
	for _, r := range []Role{RoleAdmin, RoleUnitManager, RoleUser} {
		if !r.Assignable() {
			t.Fatalf("%s must be assignable", r)
		}
	}
}

func TestRole_CanCreate(t *testing.T) {
	// Admin tier creates any assignable role.
	for _, creator := range []Role{RoleTopAdmin, RoleAdmin} {
		for _, target := range []Role{RoleAdmin, RoleUnitManager, RoleUser} {
			if !creator.CanCreate(target) {
				t.Fatalf("%s should be able to create %s", creator, target)
			}
		}
		if creator.CanCreate(RoleTopAdmin) {
			t.Fatalf("%s must not create topAdmin", creator)
		}
	}

	// Unit managers create users only.
	if !RoleUnitManager.CanCreate(RoleUser) {
		t.Fatalf("unitManager should create users")
	}
	for _, target := range []Role{RoleTopAdmin, RoleAdmin, RoleUnitManager} {
		if RoleUnitManager.CanCreate(target) {
			t.Fatalf("unitManager must not create %s", target)
		}
	}

	// Plain users create nothing.
	for _, target := range []Role{RoleAdmin, RoleUnitManager, RoleUser} {
		if RoleUser.CanCreate(target) {
			t.Fatalf("user must not create %s", target)
		}
	}
}

func TestAccount_IsPeerOf(t *testing.T) {
	a := &Account{ID: "a", GroupedWith: []string{"b", "c"}}
	if !a.IsPeerOf("b") || !a.IsPeerOf("c") {
		t.Fatalf("expected b and c to be peers")
	}
	if a.IsPeerOf("d") || a.IsPeerOf("") {
		t.Fatalf("unexpected peer match")
	}
}
