package pref

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestPrefNew(t *testing.T) {
	p := New("theme", ThemeSystem)
	if p.Key() != "theme" {
		t.Errorf("Key: got %v, want theme", p.Key())
	}
	if p.Get() != ThemeSystem {
		t.Errorf("Get: got %v, want system", p.Get())
	}
	if !p.UpdatedAt().IsZero() {
		t.Error("fresh pref should have a zero update time")
	}
}

func TestPrefSetGetReset(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := New("theme", ThemeLight, WithClock(fixedClock(now)))

	p.Set(ThemeDark)
	if p.Get() != ThemeDark {
		t.Errorf("after Set: got %v, want dark", p.Get())
	}
	if !p.UpdatedAt().Equal(now) {
		t.Errorf("UpdatedAt: got %v, want %v", p.UpdatedAt(), now)
	}

	p.Reset()
	if p.Get() != ThemeLight {
		t.Errorf("after Reset: got %v, want light", p.Get())
	}
}

func TestPrefMergeStrategies(t *testing.T) {
	local := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	older := local.Add(-time.Hour)
	newer := local.Add(time.Hour)

	tests := []struct {
		name     string
		strategy MergeStrategy
		remoteAt time.Time
		want     Theme
		taken    bool
	}{
		{"lww newer remote", LWW, newer, ThemeLight, true},
		{"lww older remote", LWW, older, ThemeDark, false},
		{"lww tie keeps local", LWW, local, ThemeDark, false},
		{"remote wins", RemoteWins, older, ThemeLight, true},
		{"local wins", LocalWins, newer, ThemeDark, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("theme", ThemeSystem, MergeWith(tt.strategy), WithClock(fixedClock(local)))
			p.Set(ThemeDark)

			if got := p.SetFromRemote(ThemeLight, tt.remoteAt); got != tt.taken {
				t.Errorf("SetFromRemote returned %v, want %v", got, tt.taken)
			}
			if p.Get() != tt.want {
				t.Errorf("Get: got %v, want %v", p.Get(), tt.want)
			}
		})
	}
}

func TestPrefOnChange(t *testing.T) {
	p := New("theme", ThemeSystem)
	var seen []Theme
	p.OnChange(func(th Theme) { seen = append(seen, th) })

	p.Set(ThemeDark)
	p.Set(ThemeDark)
	p.SetFromRemote(ThemeLight, time.Now().Add(time.Hour))

	if len(seen) != 2 || seen[0] != ThemeDark || seen[1] != ThemeLight {
		t.Errorf("listener saw %v, want [dark light]", seen)
	}
}

func TestPrefJSON(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	p := New("theme", ThemeSystem, WithClock(fixedClock(at)))
	p.Set(ThemeDark)

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Pref[Theme]
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Key() != "theme" || decoded.Get() != ThemeDark || !decoded.UpdatedAt().Equal(at) {
		t.Errorf("decoded = %s %v %v", decoded.Key(), decoded.Get(), decoded.UpdatedAt())
	}
	decoded.Set(ThemeLight)
	if decoded.Get() != ThemeLight {
		t.Error("decoded pref should be usable")
	}
}

func TestParseTheme(t *testing.T) {
	for in, want := range map[string]Theme{"dark": ThemeDark, " Light ": ThemeLight, "SYSTEM": ThemeSystem} {
		got, err := ParseTheme(in)
		if err != nil || got != want {
			t.Errorf("ParseTheme(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseTheme("sepia"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestThemeToggle(t *testing.T) {
	if ThemeDark.Toggle() != ThemeLight {
		t.Error("dark should toggle to light")
	}
	if ThemeLight.Toggle() != ThemeDark {
		t.Error("light should toggle to dark")
	}
	if ThemeSystem.Toggle() != ThemeDark {
		t.Error("system should toggle to dark")
	}
}

func TestThemeCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetThemeCookie(rec, ThemeDark)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != ThemeCookie || c.Value != "dark" || c.Path != "/" || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("unexpected cookie %+v", c)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if got := ThemeFromRequest(req, ThemeSystem); got != ThemeDark {
		t.Errorf("ThemeFromRequest = %v, want dark", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ThemeFromRequest(req, ThemeLight); got != ThemeLight {
		t.Errorf("missing cookie should fall back, got %v", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "neon"})
	if got := ThemeFromRequest(req, ThemeLight); got != ThemeLight {
		t.Errorf("invalid cookie should fall back, got %v", got)
	}
}
