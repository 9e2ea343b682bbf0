package domain

import "testing"

func TestRequiredFieldsError_Message(t *testing.T) {
	cases := []struct {
		fields []string
		want   string
	}{
		{[]string{"email", "password", "role"}, "Email, password, and role are required."},
		{[]string{"email", "password"}, "Email and password are required."},
		{[]string{"email"}, "Email is required."},
		{
			[]string{"firstname", "lastname", "email", "password", "role", "status"},
			"Firstname, lastname, email, password, role, and status are required.",
		},
	}

	for _, tc := range cases {
		err := &RequiredFieldsError{Fields: tc.fields}
		if got := err.Message(); got != tc.want {
			t.Fatalf("Message(%v) = %q, want %q", tc.fields, got, tc.want)
		}
	}
}

func TestSchemaValid(t *testing.T) {
	if !SchemaSimple.Valid() || !SchemaExtended.Valid() {
		t.Fatalf("expected built-in schemas to be valid")
	}
	if Schema("legacy").Valid() {
		t.Fatalf("unexpected valid schema")
	}
}

func TestEnums(t *testing.T) {
	if !IsRole(RoleShopOwner) || IsRole("owner") {
		t.Fatalf("role enum mismatch")
	}
	if !IsStatus(StatusPendingApproval) || IsStatus("pending") {
		t.Fatalf("status enum mismatch")
	}
}
