package logpath

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedHasher() Hasher {
	return NewKeyedHasher([]byte("test-secret"))
}

func TestDirectoryPath(t *testing.T) {
	got := DirectoryPath("/srv/uploads", "daylog")
	want := filepath.Join("/srv/uploads", "daylog")
	if got != want {
		t.Errorf("DirectoryPath() = %q, want %q", got, want)
	}
}

func TestResolver_FileName(t *testing.T) {
	r := NewResolver(fixedHasher())
	day1 := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	day1Late := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("deterministic within a day", func(t *testing.T) {
		a := r.FileName("dev", day1)
		b := r.FileName("dev", day1)
		c := r.FileName("dev", day1Late)
		if a != b || a != c {
			t.Errorf("FileName differs within one day: %q, %q, %q", a, b, c)
		}
	})

	t.Run("changes with the date", func(t *testing.T) {
		if r.FileName("dev", day1) == r.FileName("dev", day2) {
			t.Error("FileName is identical for 2024-01-01 and 2024-01-02")
		}
	})

	t.Run("format", func(t *testing.T) {
		name := r.FileName("dev", day1)
		if !strings.HasPrefix(name, "dev-2024-01-01-") {
			t.Errorf("FileName() = %q, want prefix dev-2024-01-01-", name)
		}
		if !strings.HasSuffix(name, Extension) {
			t.Errorf("FileName() = %q, want suffix %s", name, Extension)
		}
		if !IsLogFileName(name) {
			t.Errorf("IsLogFileName(%q) = false", name)
		}
	})

	t.Run("key changes the suffix", func(t *testing.T) {
		other := NewResolver(NewKeyedHasher([]byte("another-secret")))
		if r.FileName("dev", day1) == other.FileName("dev", day1) {
			t.Error("different keys produced the same file name")
		}
	})

	t.Run("uses the location of now", func(t *testing.T) {
		tz := time.FixedZone("UTC+10", 10*60*60)
		// 2024-01-01 20:00 UTC is already 2024-01-02 in UTC+10.
		at := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC).In(tz)
		if !strings.HasPrefix(r.FileName("dev", at), "dev-2024-01-02-") {
			t.Errorf("FileName() = %q, want the local date", r.FileName("dev", at))
		}
	})
}

func TestResolver_InjectedHasher(t *testing.T) {
	var seen []string
	r := NewResolver(HasherFunc(func(s string) string {
		seen = append(seen, s)
		return "abc123"
	}))

	name := r.FileName("billing", time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC))
	if name != "billing-2025-06-30-abc123.log" {
		t.Errorf("FileName() = %q", name)
	}
	if len(seen) != 1 || seen[0] != "2025-06-30" {
		t.Errorf("hasher called with %v, want [2025-06-30]", seen)
	}
}

func TestResolver_FinalPath(t *testing.T) {
	r := NewResolver(HasherFunc(func(string) string { return "h" }))
	got := r.FinalPath("/base", "logs", "dev", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	want := filepath.Join("/base", "logs", "dev-2024-01-01-h.log")
	if got != want {
		t.Errorf("FinalPath() = %q, want %q", got, want)
	}
}

func TestKeyedHasher(t *testing.T) {
	h := fixedHasher()
	if h.Hash("2024-01-01") != h.Hash("2024-01-01") {
		t.Error("keyed hash is not stable")
	}
	if len(h.Hash("x")) != 32 {
		t.Errorf("hash length = %d, want 32 hex chars", len(h.Hash("x")))
	}

	long := NewKeyedHasher([]byte(strings.Repeat("k", 200)))
	if long.Hash("x") == "" {
		t.Error("long keys should still produce a hash")
	}
}

func TestIsLogFileName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"dev-2024-01-01-0123abcd.log", true},
		{"my-channel-2024-12-31-ff.log", true},
		{"dev-2024-01-01-ab-cd.log", true},
		{"dev-2024-01-01-aB_c.d-9.log", true},
		{"dev-2024-01-01-a/b.log", false},
		{`dev-2024-01-01-a\b.log`, false},
		{"dev-2024-01-01.log", false},
		{"dev-2024-01-01-abc.txt", false},
		{".htaccess", false},
		{"notes.log", false},
		{"-2024-01-01-abc.log", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLogFileName(tt.name); got != tt.want {
				t.Errorf("IsLogFileName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDateOf(t *testing.T) {
	d, ok := DateOf("dev-2024-03-05-abc.log")
	if !ok {
		t.Fatal("DateOf() ok = false")
	}
	if d.Format(DateLayout) != "2024-03-05" {
		t.Errorf("DateOf() = %v", d)
	}
	if d, ok := DateOf("dev-2024-03-05-ab-cd.log"); !ok || d.Format(DateLayout) != "2024-03-05" {
		t.Errorf("DateOf() with a dashed hash = %v, %v", d, ok)
	}
	if _, ok := DateOf("notes.log"); ok {
		t.Error("DateOf(notes.log) ok = true")
	}
}
