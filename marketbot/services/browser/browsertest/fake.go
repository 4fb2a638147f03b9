// Package browsertest provides an in-memory Page implementation for tests,
// so component tests supply markup and record simulated input without a
// real browser.
package browsertest

import (
	"fmt"

	"marketbot/marketbot/services/browser"
)

type FakePage struct {
	// Markup/state served to readers, keyed by selector.
	HTMLBy  map[string]string
	TextBy  map[string]string
	AttrBy  map[string]map[string]string
	CountBy map[string]int

	CurrentURL string

	// Recorded writes, in call order.
	Gotos   []string
	Clicks  []string
	Focused []string
	Typed   []string
	Presses []string // "<selector> <key>"
	Files   []browser.FileUpload

	// Optional hooks.
	EvalFunc  func(expr string) (interface{}, error)
	FailFocus bool
	FailClick bool
}

func New() *FakePage {
	return &FakePage{
		HTMLBy:  map[string]string{},
		TextBy:  map[string]string{},
		AttrBy:  map[string]map[string]string{},
		CountBy: map[string]int{},
	}
}

func (f *FakePage) Goto(url string) error {
	f.Gotos = append(f.Gotos, url)
	f.CurrentURL = url
	return nil
}

func (f *FakePage) URL() string { return f.CurrentURL }

func (f *FakePage) Exists(selector string) bool { return f.Count(selector) > 0 }

func (f *FakePage) Count(selector string) int {
	if n, ok := f.CountBy[selector]; ok {
		return n
	}
	if _, ok := f.HTMLBy[selector]; ok {
		return 1
	}
	if _, ok := f.TextBy[selector]; ok {
		return 1
	}
	if _, ok := f.AttrBy[selector]; ok {
		return 1
	}
	return 0
}

func (f *FakePage) HTML(selector string) (string, error) {
	if html, ok := f.HTMLBy[selector]; ok {
		return html, nil
	}
	return "", fmt.Errorf("no markup for %q", selector)
}

func (f *FakePage) Text(selector string) (string, error) {
	if text, ok := f.TextBy[selector]; ok {
		return text, nil
	}
	return "", fmt.Errorf("no text for %q", selector)
}

func (f *FakePage) Attr(selector, name string) (string, error) {
	if attrs, ok := f.AttrBy[selector]; ok {
		if v, ok := attrs[name]; ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("no attribute %q for %q", name, selector)
}

func (f *FakePage) Click(selector string) error {
	if f.FailClick {
		return fmt.Errorf("click failed on %q", selector)
	}
	f.Clicks = append(f.Clicks, selector)
	return nil
}

func (f *FakePage) Focus(selector string) error {
	if f.FailFocus {
		return fmt.Errorf("focus failed on %q", selector)
	}
	f.Focused = append(f.Focused, selector)
	return nil
}

func (f *FakePage) Press(selector, key string) error {
	f.Presses = append(f.Presses, selector+" "+key)
	return nil
}

func (f *FakePage) TypeText(selector, text string) error {
	f.Typed = append(f.Typed, text)
	return nil
}

func (f *FakePage) SetFiles(selector string, file browser.FileUpload) error {
	f.Files = append(f.Files, file)
	return nil
}

func (f *FakePage) Eval(expr string) (interface{}, error) {
	if f.EvalFunc != nil {
		return f.EvalFunc(expr)
	}
	return nil, nil
}
