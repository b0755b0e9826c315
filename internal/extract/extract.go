package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/raysh454/snapview/internal/logging"
	"github.com/raysh454/snapview/internal/model"
)

const emailPattern = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`

// Config controls contact extraction.
type Config struct {
	// MinPhoneDigits is the minimum number of digits a phone match must
	// contain. The pattern allows single spaces or hyphens between digits.
	MinPhoneDigits int
}

// DefaultConfig returns the extraction defaults.
func DefaultConfig() Config {
	return Config{MinPhoneDigits: 9}
}

// Extractor turns captured page markup into a linearized plain-text view and
// pattern-matched contact fields.
type Extractor struct {
	cfg     Config
	logger  logging.Logger
	emailRe *regexp.Regexp
	phoneRe *regexp.Regexp
}

// New creates an Extractor. A nil logger is replaced with a noop logger.
func New(cfg Config, logger logging.Logger) *Extractor {
	if logger == nil {
		logger = &logging.NoopLogger{}
	}
	if cfg.MinPhoneDigits <= 0 {
		cfg.MinPhoneDigits = DefaultConfig().MinPhoneDigits
	}
	return &Extractor{
		cfg:     cfg,
		logger:  logger.With(logging.Field{Key: "component", Value: "extract"}),
		emailRe: regexp.MustCompile(emailPattern),
		phoneRe: regexp.MustCompile(fmt.Sprintf(`\+?\d(?:[ -]?\d){%d,}`, cfg.MinPhoneDigits-1)),
	}
}

// Extract parses markup and returns the plain-text view plus contacts. The
// contact slices are empty, never nil. A parse failure returns the error and
// zero values; callers treat that as a degraded, non-fatal outcome.
func (e *Extractor) Extract(markup string) (string, model.Contacts, error) {
	contacts := model.Contacts{Emails: []string{}, Phones: []string{}}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		e.logger.Warn("parsing page markup",
			logging.Field{Key: "error", Value: err.Error()})
		return "", contacts, fmt.Errorf("parse markup: %w", err)
	}

	var text string
	if len(doc.Nodes) > 0 {
		text = linearize(doc.Nodes[0])
	}

	contacts.Emails = append(contacts.Emails, e.emailRe.FindAllString(text, -1)...)
	contacts.Phones = append(contacts.Phones, e.phoneRe.FindAllString(text, -1)...)

	e.logger.Debug("extracted contacts",
		logging.Field{Key: "emails", Value: len(contacts.Emails)},
		logging.Field{Key: "phones", Value: len(contacts.Phones)})

	return text, contacts, nil
}

// blockTags are elements whose boundaries become line breaks in the
// linearized text. br is included: it has no children, so the post-order
// newline lands where the break belongs.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

var skipTags = map[string]bool{
	"head": true, "noscript": true, "script": true, "style": true,
	"template": true,
}

// linearize walks the DOM and produces plain text with block-level
// separations collapsed to single newlines.
func linearize(root *html.Node) string {
	var sb strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			sb.WriteByte('\n')
		}
	}
	walk(root)

	// Collapse intra-line whitespace and drop blank lines so consecutive
	// block boundaries become a single newline.
	rawLines := strings.Split(sb.String(), "\n")
	lines := make([]string, 0, len(rawLines))
	for _, ln := range rawLines {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return strings.Join(lines, "\n")
}
