// marketbot/services/replyservice/normalize.go
//
// The webhook has shipped at least four response shapes over time:
//
//	["hola", {"type":"image","url":"..."}]
//	{"response": [...]}
//	{"response": "hola"}
//	{"output": {"response": [...]}}
//
// Normalize runs an ordered list of shape matchers over the decoded body
// and always produces a non-empty item list.
package replyservice

import (
	"encoding/json"
	"strings"

	"marketbot/marketbot/utils/jsonutils"
	"marketbot/marketbot/utils/types"
)

// PlaceholderReply is delivered when the webhook answered but nothing
// usable could be extracted.
const PlaceholderReply = "Gracias por tu mensaje, te respondemos en breve."

type shapeMatcher func(interface{}) ([]interface{}, bool)

var matchers = []shapeMatcher{
	matchTopLevelArray,
	matchResponseArray,
	matchResponseString,
	matchNestedOutput,
}

// Normalize turns a raw webhook body into an ordered ReplyItem list,
// falling back to a single placeholder text item when nothing matches.
func Normalize(raw []byte) []types.ReplyItem {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Not JSON at all; a bare text body still counts as one reply.
		if text := strings.TrimSpace(string(raw)); text != "" {
			return []types.ReplyItem{{Kind: types.ReplyKindText, Content: text}}
		}
		return []types.ReplyItem{{Kind: types.ReplyKindText, Content: PlaceholderReply}}
	}

	var items []types.ReplyItem
	for _, match := range matchers {
		if list, ok := match(decoded); ok {
			for _, el := range list {
				if item, ok := toReplyItem(el); ok {
					items = append(items, item)
				}
			}
			break
		}
	}

	if len(items) == 0 {
		items = []types.ReplyItem{{Kind: types.ReplyKindText, Content: PlaceholderReply}}
	}
	return items
}

func matchTopLevelArray(v interface{}) ([]interface{}, bool) {
	list, ok := v.([]interface{})
	return list, ok
}

func matchResponseArray(v interface{}) ([]interface{}, bool) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	list, ok := obj["response"].([]interface{})
	return list, ok
}

func matchResponseString(v interface{}) ([]interface{}, bool) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	s, ok := obj["response"].(string)
	if !ok {
		return nil, false
	}
	return []interface{}{s}, true
}

func matchNestedOutput(v interface{}) ([]interface{}, bool) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	out, ok := obj["output"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	switch resp := out["response"].(type) {
	case []interface{}:
		return resp, true
	case string:
		return []interface{}{resp}, true
	}
	return nil, false
}

// toReplyItem maps one decoded list element to a ReplyItem. Object shapes
// that match neither the text nor the image contract are preserved as
// opaque stringified text rather than dropped.
func toReplyItem(el interface{}) (types.ReplyItem, bool) {
	switch v := el.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return types.ReplyItem{}, false
		}
		return types.ReplyItem{Kind: types.ReplyKindText, Content: v}, true
	case map[string]interface{}:
		kind, _ := v["type"].(string)
		if kind == types.ReplyKindImage {
			if url, _ := v["url"].(string); url != "" {
				return types.ReplyItem{Kind: types.ReplyKindImage, URL: url}, true
			}
		}
		if kind == types.ReplyKindText {
			if content, _ := v["content"].(string); content != "" {
				return types.ReplyItem{Kind: types.ReplyKindText, Content: content}, true
			}
			if text, _ := v["text"].(string); text != "" {
				return types.ReplyItem{Kind: types.ReplyKindText, Content: text}, true
			}
		}
		return types.ReplyItem{Kind: types.ReplyKindText, Content: jsonutils.Stringify(v)}, true
	case nil:
		return types.ReplyItem{}, false
	}
	return types.ReplyItem{Kind: types.ReplyKindText, Content: jsonutils.Stringify(el)}, true
}
