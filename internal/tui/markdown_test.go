package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestMarkdownStyle_RespectsTUITheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")

	t.Setenv("GTODO_TUI_THEME", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}

	t.Setenv("GTODO_TUI_THEME", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestThemePreference_FallsBackToCOLORFGBG(t *testing.T) {
	t.Setenv("GTODO_TUI_THEME", "")

	t.Setenv("COLORFGBG", "15;0")
	if got := themePreference(); got != "dark" {
		t.Fatalf("expected dark for bg=0; got %q", got)
	}
	t.Setenv("COLORFGBG", "0;default;15")
	if got := themePreference(); got != "light" {
		t.Fatalf("expected light for bg=15; got %q", got)
	}
	t.Setenv("COLORFGBG", "garbage")
	if got := themePreference(); got != "" {
		t.Fatalf("expected no preference; got %q", got)
	}
}

func TestMarkdownStyleConfig_UsesAccentForLinks(t *testing.T) {
	got := markdownStyleConfig("light")
	if got.Link.Color == nil || *got.Link.Color != colorAccent.Light {
		t.Fatalf("expected light accent link color; got %v", got.Link.Color)
	}
	if got.Link.Underline == nil || !*got.Link.Underline {
		t.Fatalf("expected links underlined")
	}
	dark := markdownStyleConfig("dark")
	if dark.Text.Color == nil || *dark.Text.Color != colorSurfaceFg.Dark {
		t.Fatalf("expected dark surface text color; got %v", dark.Text.Color)
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Setenv("GTODO_TUI_THEME", "dark")

	if got := renderMarkdown("   \n", 40); got != "" {
		t.Fatalf("expected blank description to render empty; got %q", got)
	}
	got := xansi.Strip(renderMarkdown("# Plan\n\n- buy **milk**", 40))
	for _, want := range []string{"Plan", "buy", "milk"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in rendered markdown:\n%s", want, got)
		}
	}
	if strings.Contains(got, "**") {
		t.Fatalf("expected emphasis markers to be rendered away:\n%s", got)
	}
}
