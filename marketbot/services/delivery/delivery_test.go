package delivery

import (
	"context"
	"testing"

	"marketbot/marketbot/config"
	"marketbot/marketbot/services/browser/browsertest"
	"marketbot/marketbot/services/imagerelay"
	"marketbot/marketbot/utils/logging"
)

// Tiny valid base64 payload; the agent never inspects the pixels.
const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="

func countOf(values []string, want string) int {
	n := 0
	for _, v := range values {
		if v == want {
			n++
		}
	}
	return n
}

func TestSendTextTypesAndSubmits(t *testing.T) {
	logging.InitLogger()
	sel := config.DefaultSelectors()
	page := browsertest.New()
	page.CountBy[sel.Composer] = 1

	agent := NewAgent(page, sel, imagerelay.New(nil), nil)
	if !agent.SendText("hola\nqué tal") {
		t.Fatal("expected SendText to succeed")
	}

	if len(page.Typed) != 2 || page.Typed[0] != "hola" || page.Typed[1] != "qué tal" {
		t.Errorf("typed = %v", page.Typed)
	}
	if countOf(page.Presses, sel.Composer+" Shift+Enter") != 1 {
		t.Errorf("expected one Shift+Enter for the line break, presses = %v", page.Presses)
	}
	if countOf(page.Presses, sel.Composer+" Enter") != 1 {
		t.Errorf("expected exactly one submit, presses = %v", page.Presses)
	}
}

func TestSendTextHasNoDeduplication(t *testing.T) {
	logging.InitLogger()
	sel := config.DefaultSelectors()
	page := browsertest.New()
	page.CountBy[sel.Composer] = 1

	agent := NewAgent(page, sel, imagerelay.New(nil), nil)
	agent.SendText("mismo texto")
	agent.SendText("mismo texto")

	if got := countOf(page.Presses, sel.Composer+" Enter"); got != 2 {
		t.Errorf("two calls must submit twice, got %d submits", got)
	}
}

func TestSendTextComposerMissing(t *testing.T) {
	logging.InitLogger()
	page := browsertest.New()
	page.FailFocus = true

	agent := NewAgent(page, config.DefaultSelectors(), imagerelay.New(nil), nil)
	if agent.SendText("hola") {
		t.Fatal("expected failure when the composer cannot be focused")
	}
}

func TestSendTextRespectsCancellation(t *testing.T) {
	logging.InitLogger()
	page := browsertest.New()

	agent := NewAgent(page, config.DefaultSelectors(), imagerelay.New(nil), func() bool { return true })
	if agent.SendText("hola") {
		t.Fatal("expected failure when already cancelled")
	}
	if len(page.Focused) != 0 {
		t.Errorf("cancelled send must not touch the page, focused = %v", page.Focused)
	}
}

func TestSendImageAttachesAndSubmits(t *testing.T) {
	logging.InitLogger()
	sel := config.DefaultSelectors()
	page := browsertest.New()
	page.CountBy[sel.FileInput] = 1
	page.CountBy[sel.AttachmentPreview] = 1

	agent := NewAgent(page, sel, imagerelay.New(nil), nil)
	if !agent.SendImage(context.Background(), pngDataURI) {
		t.Fatal("expected SendImage to succeed")
	}
	if len(page.Files) != 1 {
		t.Fatalf("files = %v", page.Files)
	}
	if page.Files[0].Name != "reply.png" || page.Files[0].MimeType != "image/png" {
		t.Errorf("upload = %+v", page.Files[0])
	}
	if countOf(page.Presses, sel.Composer+" Enter") != 1 {
		t.Errorf("expected one submit, presses = %v", page.Presses)
	}
}

func TestSendImageFetchFailure(t *testing.T) {
	logging.InitLogger()
	page := browsertest.New()

	agent := NewAgent(page, config.DefaultSelectors(), imagerelay.New(nil), nil)
	if agent.SendImage(context.Background(), "data:no-comma") {
		t.Fatal("expected failure for an undecodable image url")
	}
	if len(page.Files) != 0 {
		t.Errorf("nothing should be attached, files = %v", page.Files)
	}
}

func TestClearComposer(t *testing.T) {
	logging.InitLogger()
	sel := config.DefaultSelectors()
	page := browsertest.New()
	page.CountBy[sel.Composer] = 1

	NewAgent(page, sel, imagerelay.New(nil), nil).ClearComposer()
	if countOf(page.Presses, sel.Composer+" ControlOrMeta+a") != 1 || countOf(page.Presses, sel.Composer+" Delete") != 1 {
		t.Errorf("presses = %v", page.Presses)
	}
}
