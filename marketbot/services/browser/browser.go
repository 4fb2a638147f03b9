// marketbot/services/browser/browser.go
package browser

// FileUpload is an in-memory file handed to the host page's file input.
type FileUpload struct {
	Name     string
	MimeType string
	Data     []byte
}

// Page is the only surface the bot has onto the host conversation UI: it
// reads markup and attribute state, and writes by simulating user input.
// Production code talks to a playwright page; tests supply a fake.
type Page interface {
	Goto(url string) error
	URL() string

	Exists(selector string) bool
	Count(selector string) int
	HTML(selector string) (string, error)
	Text(selector string) (string, error)
	Attr(selector, name string) (string, error)

	Click(selector string) error
	Focus(selector string) error
	Press(selector, key string) error
	TypeText(selector, text string) error
	SetFiles(selector string, file FileUpload) error

	// Eval runs a JS expression in the page and returns its value.
	Eval(expr string) (interface{}, error)
}
