// Package persona loads the identity documents injected as the system
// prompt of every chat-completion call. The documents are read once at
// startup and never re-read.
package persona

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/sthorat/persona-chat/internal/config"
)

// Persona is the fixed identity the assistant answers as. Immutable
// after Load.
type Persona struct {
	name    string
	summary string
	profile string
}

// Load reads the summary and profile documents. The profile may be a
// PDF (text is extracted page by page, in page order) or plain text.
// Any unreadable document is a startup failure; there is no degraded
// mode.
func Load(cfg config.PersonaConfig) (*Persona, error) {
	summary, err := os.ReadFile(cfg.SummaryPath)
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}

	var profile string
	if strings.HasSuffix(strings.ToLower(cfg.ProfilePath), ".pdf") {
		profile, err = extractPDFText(cfg.ProfilePath)
	} else {
		var raw []byte
		raw, err = os.ReadFile(cfg.ProfilePath)
		profile = string(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	return &Persona{
		name:    cfg.Name,
		summary: string(summary),
		profile: profile,
	}, nil
}

// extractPDFText concatenates the plain text of every page in page
// order, skipping pages that yield none.
func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		buf.WriteString(text)
	}
	if buf.Len() == 0 {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return buf.String(), nil
}

// Name returns the persona's display name.
func (p *Persona) Name() string { return p.name }

// Summary returns the biography summary document.
func (p *Persona) Summary() string { return p.summary }

// Profile returns the extracted profile document.
func (p *Persona) Profile() string { return p.profile }

// SystemPrompt builds the system instruction sent ahead of every
// conversation: the acting-as preamble, the two documents, and the
// stay-in-character closer.
func (p *Persona) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are acting as %[1]s. You are answering questions on %[1]s's website, "+
		"particularly questions related to %[1]s's career, background, skills and experience. "+
		"Your responsibility is to represent %[1]s for interactions on the website as faithfully as possible. "+
		"You are given a summary of %[1]s's background and profile which you can use to answer questions. "+
		"Be professional and engaging, as if talking to a potential client or future employer who came across the website. "+
		"If you don't know the answer to a question, say so rather than inventing one. "+
		"If the visitor is engaging in discussion, try to steer them towards getting in touch via email; "+
		"if they ask about a job opportunity, ask them to reach out directly and share the contact details from the profile.", p.name)
	fmt.Fprintf(&b, "\n\n## Summary:\n%s\n\n## Profile:\n%s\n\n", p.summary, p.profile)
	fmt.Fprintf(&b, "With this context, please chat with the user, always staying in character as %s.", p.name)
	return b.String()
}
