package database

import "testing"

func TestMySQLDSN(t *testing.T) {
	cases := []struct {
		user, pass, want string
	}{
		{"root", "", "root@tcp(db:3306)/railway?charset=utf8mb4"},
		{"app", "s3cret", "app:s3cret@tcp(db:3306)/railway?charset=utf8mb4"},
	}
	for _, tc := range cases {
		if got := MySQLDSN(tc.user, tc.pass, "db", "3306", "railway"); got != tc.want {
			t.Errorf("MySQLDSN(%q, %q) = %q, want %q", tc.user, tc.pass, got, tc.want)
		}
	}
}

func TestOpenPostgresRejectsEmptyDSN(t *testing.T) {
	if _, err := OpenPostgres(""); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}
