package navigator

import (
	"testing"

	"marketbot/marketbot/config"
	"marketbot/marketbot/services/browser/browsertest"
	"marketbot/marketbot/utils/logging"
)

func TestOpenClicksVisibleLink(t *testing.T) {
	logging.InitLogger()
	sel := config.DefaultSelectors()
	page := browsertest.New()

	linkSel := `a[role="link"][href*="/t/abc123"]`
	page.CountBy[linkSel] = 1
	page.CountBy[sel.Header] = 1
	page.CountBy[sel.MessageGroup] = 1

	if !New(page, sel).Open("abc123") {
		t.Fatal("expected Open to succeed")
	}
	if len(page.Clicks) != 1 || page.Clicks[0] != linkSel {
		t.Errorf("clicks = %v", page.Clicks)
	}
	if len(page.Gotos) != 0 {
		t.Errorf("expected no navigation, got %v", page.Gotos)
	}
}

func TestOpenFallsBackToDeepLink(t *testing.T) {
	logging.InitLogger()
	sel := config.DefaultSelectors()
	page := browsertest.New()

	page.CountBy[sel.Header] = 1
	page.CountBy[sel.MessageRow] = 1

	if !New(page, sel).Open("xyz") {
		t.Fatal("expected Open to succeed")
	}
	if len(page.Gotos) != 1 || page.Gotos[0] != "https://www.messenger.com/t/xyz" {
		t.Errorf("gotos = %v", page.Gotos)
	}
}

func TestOpenFailsWhenNothingRenders(t *testing.T) {
	logging.InitLogger()
	sel := config.DefaultSelectors()
	page := browsertest.New()

	if New(page, sel).Open("ghost") {
		t.Fatal("expected Open to fail when the header never appears")
	}
}
