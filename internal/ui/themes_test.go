package ui

import (
	"strings"
	"testing"
)

// Theme tests mutate package state, so they do not run in parallel.

func TestInitTheme_NoColor(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	InitTheme(true)
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("colors must be empty with --no-color")
	}
	if got := HeadingStyle().Render("title"); got != "title" {
		t.Errorf("styled heading without colors = %q", got)
	}
}

func TestInitTheme_NoColorEnv(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	t.Setenv("NO_COLOR", "1")

	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("NO_COLOR ignored, theme = %s", GetCurrentTheme().Name)
	}
}

func TestInitTheme_ThemeEnv(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	t.Setenv("PARBENCH_THEME", "light")

	InitTheme(false)
	if GetCurrentTheme().Name != "light" {
		t.Errorf("theme = %s, want light", GetCurrentTheme().Name)
	}
}

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	tests := map[string]string{"light": "light", "none": "none", "dark": "dark", "bogus": "dark"}
	for in, want := range tests {
		SetTheme(in)
		if got := GetCurrentTheme().Name; got != want {
			t.Errorf("SetTheme(%q) -> %q, want %q", in, got, want)
		}
	}
}

func TestColorAccessorsFollowTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	SetCurrentTheme(DarkTheme)

	if !strings.HasPrefix(ColorRed(), "\033[") || ColorReset() != "\033[0m" {
		t.Errorf("unexpected escapes: %q %q", ColorRed(), ColorReset())
	}
	if ColorGreen() != DarkTheme.Success || ColorUnderline() != DarkTheme.Underline {
		t.Error("accessors do not read the active theme")
	}
}
