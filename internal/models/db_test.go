package models

import "testing"

func TestWithSQLitePragmas(t *testing.T) {
	cases := []struct {
		dsn  string
		want string
	}{
		{"tryon.db", "tryon.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
		{"file:tryon.db?cache=shared", "file:tryon.db?cache=shared&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
		{"tryon.db?_pragma=busy_timeout(100)", "tryon.db?_pragma=busy_timeout(100)&_pragma=journal_mode(WAL)"},
	}
	for _, tc := range cases {
		if got := withSQLitePragmas(tc.dsn); got != tc.want {
			t.Fatalf("dsn %q want %q got %q", tc.dsn, tc.want, got)
		}
	}
}

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	if err := InitDB("mysql", "root@/tryon", DBPoolConfig{}); err == nil {
		t.Fatalf("unknown driver should fail")
	}
}
