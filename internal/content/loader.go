// Package content loads application text for auditing. Plain text and
// markdown are read as-is; HTML is reduced to its visible text. All text is
// normalized to Unicode NFKC so ligatures and full-width characters produced
// by upstream extractors match the lexicon.
package content

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// Format identifies how a file's text was extracted.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Document holds one loaded content file.
type Document struct {
	Path   string
	Hash   string // "sha256:<hex>" of the raw bytes
	Format Format
	Text   string // extracted, normalized text
}

// Bundle is several documents joined into one audit input.
type Bundle struct {
	Documents []Document
	Hash      string
	Text      string
}

// Paths returns the document paths in load order.
func (b *Bundle) Paths() []string {
	out := make([]string, len(b.Documents))
	for i, d := range b.Documents {
		out[i] = d.Path
	}
	return out
}

// Load reads a content file from disk, extracts its text and hashes it.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file: %w", err)
	}

	doc := &Document{
		Path:   path,
		Hash:   hashBytes(data),
		Format: FormatText,
	}
	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		doc.Format = FormatHTML
		text, err = htmlText(data)
		if err != nil {
			return nil, fmt.Errorf("parsing HTML %q: %w", path, err)
		}
	}
	doc.Text = Normalize(text)
	return doc, nil
}

// LoadAll loads every path and joins the texts with a blank line between
// them. A single file's bundle hash equals the file hash.
func LoadAll(paths []string) (*Bundle, error) {
	if len(paths) == 0 {
		return nil, errors.New("no content files given")
	}
	b := &Bundle{Documents: make([]Document, 0, len(paths))}
	texts := make([]string, 0, len(paths))
	hashes := make([]string, 0, len(paths))
	for _, p := range paths {
		d, err := Load(p)
		if err != nil {
			return nil, fmt.Errorf("loading content file %q: %w", p, err)
		}
		b.Documents = append(b.Documents, *d)
		texts = append(texts, strings.TrimRight(d.Text, "\n"))
		hashes = append(hashes, d.Hash)
	}
	b.Text = strings.Join(texts, "\n\n")
	if len(hashes) == 1 {
		b.Hash = hashes[0]
	} else {
		b.Hash = hashBytes([]byte(strings.Join(hashes, "\n")))
	}
	return b, nil
}

// Normalize applies NFKC normalization and unifies line endings.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return norm.NFKC.String(text)
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", sum)
}

const blockSelector = "p, div, li, tr, br, h1, h2, h3, h4, h5, h6, blockquote, pre, dt, dd, section, article"

// htmlText returns the visible text of an HTML document, one block per line.
func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, template, head").Remove()
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if f := strings.Fields(line); len(f) > 0 {
			lines = append(lines, strings.Join(f, " "))
		}
	}
	return strings.Join(lines, "\n"), nil
}
