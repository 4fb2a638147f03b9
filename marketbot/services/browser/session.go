// marketbot/services/browser/session.go
package browser

import (
	"fmt"
	"os"

	"github.com/playwright-community/playwright-go"

	"marketbot/marketbot/config"
)

// Session owns the Playwright lifecycle and the single tab the bot drives.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

const defaultTimeoutMs = 2000

// NewSession starts Playwright and opens one Chromium tab. When
// USER_DATA_DIR is set a persistent profile is used so the operator's
// login survives restarts.
func NewSession(cfg config.Config) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}

	s := &Session{pw: pw}

	args := []string{
		"--disable-gpu",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-background-timer-throttling",
		"--disable-backgrounding-occluded-windows",
		"--disable-renderer-backgrounding",
	}

	if dir := os.Getenv("USER_DATA_DIR"); dir != "" {
		ctx, err := pw.Chromium.LaunchPersistentContext(dir, playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(cfg.Headless),
			Args:     args,
			Viewport: &playwright.Size{Width: 1920, Height: 1080},
		})
		if err != nil {
			pw.Stop()
			return nil, err
		}
		s.context = ctx
		pages := ctx.Pages()
		if len(pages) > 0 {
			s.page = pages[0]
		} else {
			page, err := ctx.NewPage()
			if err != nil {
				ctx.Close()
				pw.Stop()
				return nil, err
			}
			s.page = page
		}
	} else {
		browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(cfg.Headless),
			Args:     args,
		})
		if err != nil {
			pw.Stop()
			return nil, err
		}
		ctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
			UserAgent: playwright.String("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			Viewport:  &playwright.Size{Width: 1920, Height: 1080},
		})
		if err != nil {
			browser.Close()
			pw.Stop()
			return nil, err
		}
		page, err := ctx.NewPage()
		if err != nil {
			ctx.Close()
			browser.Close()
			pw.Stop()
			return nil, err
		}
		s.browser = browser
		s.context = ctx
		s.page = page
	}

	s.page.SetDefaultTimeout(defaultTimeoutMs)
	s.page.SetDefaultNavigationTimeout(15000)
	return s, nil
}

// Page returns the live tab behind the generic Page interface.
func (s *Session) Page() Page {
	return &playwrightPage{page: s.page}
}

// Close tears everything down; safe on a half-initialized session.
func (s *Session) Close() {
	if s.context != nil {
		s.context.Close()
	}
	if s.browser != nil {
		s.browser.Close()
	}
	if s.pw != nil {
		s.pw.Stop()
	}
}

// playwrightPage adapts a playwright.Page to the Page interface.
type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Goto(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Exists(selector string) bool {
	return p.Count(selector) > 0
}

func (p *playwrightPage) Count(selector string) int {
	n, err := p.page.Locator(selector).Count()
	if err != nil {
		return 0
	}
	return n
}

func (p *playwrightPage) HTML(selector string) (string, error) {
	loc := p.page.Locator(selector).First()
	html, err := loc.InnerHTML()
	if err != nil {
		return "", fmt.Errorf("inner html of %q: %w", selector, err)
	}
	return html, nil
}

func (p *playwrightPage) Text(selector string) (string, error) {
	loc := p.page.Locator(selector).First()
	text, err := loc.InnerText()
	if err != nil {
		return "", fmt.Errorf("inner text of %q: %w", selector, err)
	}
	return text, nil
}

func (p *playwrightPage) Attr(selector, name string) (string, error) {
	loc := p.page.Locator(selector).First()
	val, err := loc.GetAttribute(name)
	if err != nil {
		return "", err
	}
	return val, nil
}

func (p *playwrightPage) Click(selector string) error {
	return p.page.Locator(selector).First().Click()
}

func (p *playwrightPage) Focus(selector string) error {
	return p.page.Locator(selector).First().Focus()
}

func (p *playwrightPage) Press(selector, key string) error {
	return p.page.Locator(selector).First().Press(key)
}

func (p *playwrightPage) TypeText(selector, text string) error {
	return p.page.Locator(selector).First().PressSequentially(text)
}

func (p *playwrightPage) SetFiles(selector string, file FileUpload) error {
	return p.page.Locator(selector).First().SetInputFiles([]playwright.InputFile{{
		Name:     file.Name,
		MimeType: file.MimeType,
		Buffer:   file.Data,
	}})
}

func (p *playwrightPage) Eval(expr string) (interface{}, error) {
	return p.page.Evaluate(expr)
}
