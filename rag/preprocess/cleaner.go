package preprocess

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

var (
	reSpaces   = regexp.MustCompile(`[ \t]+`)
	reNewlines = regexp.MustCompile(`\n{3,}`)
)

// CleanBasic strips control characters, common ligature and OCR artifacts,
// and collapses runs of blanks and blank lines.
func CleanBasic(text string) string {
	if text == "" {
		return ""
	}

	// remove control chars except newline and tab
	b := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)

	b = strings.NewReplacer(
		"ﬁ", "fi", "ﬂ", "fl",
		"\u00a0", " ",
		"•", "-",
	).Replace(b)

	b = reSpaces.ReplaceAllString(b, " ")
	b = reNewlines.ReplaceAllString(b, "\n\n")

	return strings.TrimSpace(b)
}

// IsHTML reports whether key names an HTML document.
func IsHTML(key string) bool {
	switch strings.ToLower(path.Ext(key)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// Decode turns raw object bytes into clean corpus text. HTML objects go
// through article extraction first, then plain goquery conversion.
func Decode(key string, raw []byte) string {
	text := string(raw)
	if IsHTML(key) {
		if article, err := ExtractArticle(text, key); err == nil && article != "" {
			text = article
		} else if plain, err := HTMLToText(text); err == nil {
			text = plain
		}
		text = RemoveDuplicateParagraphs(RemoveWebNoise(text))
	}
	return CleanBasic(text)
}

// ExtractArticle isolates the main article of an HTML page and renders it as
// markdown-ish text with the article title as a level-one heading.
func ExtractArticle(html, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		return "", err
	}
	body, err := HTMLToText(article.Content)
	if err != nil {
		return "", err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		body = strings.TrimSpace(article.TextContent)
	}
	if body == "" {
		return "", nil
	}
	title := strings.TrimSpace(article.Title)
	if title != "" && !strings.HasPrefix(body, "# ") {
		body = "# " + title + "\n\n" + body
	}
	return body, nil
}

// HTMLToText: lightweight extraction of content, keep headings and paragraphs
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	var out []string
	doc.Find("h1,h2,h3,h4,p,li,pre,table").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		switch goquery.NodeName(s) {
		case "h1":
			out = append(out, "# "+text)
		case "h2":
			out = append(out, "## "+text)
		case "h3", "h4":
			out = append(out, "### "+text)
		case "p":
			out = append(out, text)
		case "li":
			out = append(out, "- "+text)
		case "pre":
			out = append(out, "```\n"+text+"\n```")
		case "table":
			out = append(out, parseTable(s))
		}
	})
	return strings.Join(out, "\n\n"), nil
}

func parseTable(sel *goquery.Selection) string {
	var rows []string
	sel.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var cols []string
		tr.Find("th,td").Each(func(j int, td *goquery.Selection) {
			cols = append(cols, strings.TrimSpace(td.Text()))
		})
		if len(cols) > 0 {
			rows = append(rows, "| "+strings.Join(cols, " | ")+" |")
		}
	})
	return strings.Join(rows, "\n")
}

// RemoveDuplicateParagraphs dedupe by exact paragraph text
func RemoveDuplicateParagraphs(text string) string {
	parts := strings.Split(text, "\n\n")
	seen := map[string]struct{}{}
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return strings.Join(out, "\n\n")
}

var noisePatterns = []string{
	"cookie", "privacy policy", "subscribe to our newsletter", "all rights reserved",
	"related articles", "share this article", "advertisement",
}

// RemoveWebNoise drops boilerplate lines scraped pages tend to carry.
func RemoveWebNoise(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		lower := strings.ToLower(l)
		skip := false
		for _, p := range noisePatterns {
			if strings.Contains(lower, p) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
