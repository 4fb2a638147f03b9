package replyservice

import (
	"testing"

	"marketbot/marketbot/utils/types"
)

func TestNormalizeTopLevelArray(t *testing.T) {
	items := Normalize([]byte(`["hola", {"type": "image", "url": "https://img.example/a.png"}]`))
	if len(items) != 2 {
		t.Fatalf("got %d items: %+v", len(items), items)
	}
	if items[0].Kind != types.ReplyKindText || items[0].Content != "hola" {
		t.Errorf("item 0 = %+v", items[0])
	}
	if items[1].Kind != types.ReplyKindImage || items[1].URL != "https://img.example/a.png" {
		t.Errorf("item 1 = %+v", items[1])
	}
}

func TestNormalizeResponseArray(t *testing.T) {
	items := Normalize([]byte(`{"response": ["a", "b"]}`))
	if len(items) != 2 || items[0].Content != "a" || items[1].Content != "b" {
		t.Fatalf("got %+v", items)
	}
}

func TestNormalizeResponseString(t *testing.T) {
	items := Normalize([]byte(`{"response": "hola"}`))
	if len(items) != 1 || items[0].Content != "hola" {
		t.Fatalf("got %+v", items)
	}
}

func TestNormalizeNestedOutput(t *testing.T) {
	items := Normalize([]byte(`{"output": {"response": ["x"]}}`))
	if len(items) != 1 || items[0].Content != "x" {
		t.Fatalf("got %+v", items)
	}
	items = Normalize([]byte(`{"output": {"response": "solo"}}`))
	if len(items) != 1 || items[0].Content != "solo" {
		t.Fatalf("got %+v", items)
	}
}

func TestNormalizePlaceholderOnEmpty(t *testing.T) {
	for _, raw := range []string{`{}`, `{"response": []}`, `{"response": ["", null]}`, ``} {
		items := Normalize([]byte(raw))
		if len(items) != 1 || items[0].Content != PlaceholderReply {
			t.Errorf("raw %q: got %+v, want placeholder", raw, items)
		}
	}
}

func TestNormalizeBareTextBody(t *testing.T) {
	items := Normalize([]byte("gracias por escribir"))
	if len(items) != 1 || items[0].Content != "gracias por escribir" {
		t.Fatalf("got %+v", items)
	}
}

func TestNormalizeTextObjectVariants(t *testing.T) {
	items := Normalize([]byte(`[{"type": "text", "content": "uno"}, {"type": "text", "text": "dos"}]`))
	if len(items) != 2 || items[0].Content != "uno" || items[1].Content != "dos" {
		t.Fatalf("got %+v", items)
	}
}

func TestNormalizePreservesUnknownObjects(t *testing.T) {
	items := Normalize([]byte(`[{"foo": "bar"}]`))
	if len(items) != 1 || items[0].Kind != types.ReplyKindText || items[0].Content == "" {
		t.Fatalf("unknown object should survive as stringified text, got %+v", items)
	}
}
