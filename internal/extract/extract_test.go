package extract_test

import (
	"strings"
	"testing"

	"github.com/raysh454/snapview/internal/extract"
)

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ─── Contacts ──────────────────────────────────────────────────────────

func TestExtract_EmailAndPhone(t *testing.T) {
	t.Parallel()
	e := extract.New(extract.DefaultConfig(), nil)

	markup := `<html><body><p>Contact: a.b@example.com or +33 6 12 34 56 78</p></body></html>`
	_, contacts, err := e.Extract(markup)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(contacts.Emails) != 1 || contacts.Emails[0] != "a.b@example.com" {
		t.Errorf("emails = %v, want [a.b@example.com]", contacts.Emails)
	}
	if len(contacts.Phones) == 0 {
		t.Fatal("expected a phone match")
	}
	if got := digitsOf(contacts.Phones[0]); got != "33612345678" {
		t.Errorf("phone digits = %q, want 33612345678", got)
	}
}

func TestExtract_NoMatchesGivesEmptySlices(t *testing.T) {
	t.Parallel()
	e := extract.New(extract.DefaultConfig(), nil)

	_, contacts, err := e.Extract("<html><body><p>nothing to see</p></body></html>")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if contacts.Emails == nil || len(contacts.Emails) != 0 {
		t.Errorf("emails = %#v, want empty non-nil slice", contacts.Emails)
	}
	if contacts.Phones == nil || len(contacts.Phones) != 0 {
		t.Errorf("phones = %#v, want empty non-nil slice", contacts.Phones)
	}
}

func TestExtract_MatchesAreDocumentOrdered(t *testing.T) {
	t.Parallel()
	e := extract.New(extract.DefaultConfig(), nil)

	markup := `<html><body>
		<p>first@example.com</p>
		<div>second@example.org</div>
		<span>third@example.net</span>
	</body></html>`
	_, contacts, err := e.Extract(markup)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []string{"first@example.com", "second@example.org", "third@example.net"}
	if len(contacts.Emails) != len(want) {
		t.Fatalf("emails = %v, want %v", contacts.Emails, want)
	}
	for i := range want {
		if contacts.Emails[i] != want[i] {
			t.Errorf("emails[%d] = %q, want %q", i, contacts.Emails[i], want[i])
		}
	}
}

func TestExtract_MinPhoneDigitsConfigurable(t *testing.T) {
	t.Parallel()
	markup := `<html><body><p>call 12 34 56 78</p></body></html>` // 8 digits

	strict := extract.New(extract.Config{MinPhoneDigits: 9}, nil)
	_, contacts, err := strict.Extract(markup)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(contacts.Phones) != 0 {
		t.Errorf("9-digit minimum should reject 8 digits, got %v", contacts.Phones)
	}

	lenient := extract.New(extract.Config{MinPhoneDigits: 8}, nil)
	_, contacts, err = lenient.Extract(markup)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(contacts.Phones) != 1 {
		t.Errorf("8-digit minimum should accept 8 digits, got %v", contacts.Phones)
	}
}

// ─── Text linearization ────────────────────────────────────────────────

func TestExtract_TextCollapsesBlocksToSingleNewlines(t *testing.T) {
	t.Parallel()
	e := extract.New(extract.DefaultConfig(), nil)

	markup := `<html><head><title>t</title><style>p{color:red}</style></head><body>
		<h1>Heading</h1>
		<p>First   paragraph.</p>
		<div><div><p>Nested paragraph.</p></div></div>
		<script>var hidden = "secret";</script>
		<span>inline </span><span>text</span>
	</body></html>`

	text, _, err := e.Extract(markup)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if strings.Contains(text, "secret") || strings.Contains(text, "color:red") {
		t.Errorf("script/style content leaked into text: %q", text)
	}
	if strings.Contains(text, "\n\n") {
		t.Errorf("expected single-newline separations, got %q", text)
	}
	if strings.Contains(text, "First   paragraph") {
		t.Errorf("intra-line whitespace not collapsed: %q", text)
	}

	lines := strings.Split(text, "\n")
	wantOrder := []string{"Heading", "First paragraph.", "Nested paragraph.", "inline text"}
	if len(lines) != len(wantOrder) {
		t.Fatalf("lines = %q, want %q", lines, wantOrder)
	}
	for i := range wantOrder {
		if lines[i] != wantOrder[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], wantOrder[i])
		}
	}
}
