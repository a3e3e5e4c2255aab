package document

import (
	"path"
	"regexp"
	"strings"
	"time"
)

// Header fallbacks.
const (
	DefaultTitle       = "Untitled"
	DefaultSource      = "Internal Corpus"
	DefaultLegalStatus = "Unknown"
	DefaultCategory    = "general"
)

// CorpusDocument is one scored document from a collection.
type CorpusDocument struct {
	Title          string         `json:"title"`
	URL            string         `json:"url"`
	Excerpt        string         `json:"excerpt"`
	RelevanceScore float64        `json:"relevanceScore"`
	Source         string         `json:"source"`
	LegalStatus    string         `json:"legalStatus"`
	AccessedAt     time.Time      `json:"accessedDate"`
	Category       string         `json:"category,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the document.
func (d CorpusDocument) Clone() CorpusDocument {
	out := d
	if d.Metadata != nil {
		out.Metadata = make(map[string]any, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// Headers are the attribution fields carried at the top of corpus markdown.
type Headers struct {
	Title       string
	URL         string
	Source      string
	LegalStatus string
	Category    string
}

var (
	titlePattern  = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	urlPattern    = regexp.MustCompile(`(?m)\*\*Source URL\*\*:\s*(.+)$`)
	sourcePattern = regexp.MustCompile(`(?m)\*\*Source\*\*:\s*(.+)$`)
	legalPattern  = regexp.MustCompile(`(?m)\*\*Legal Status\*\*:\s*(.+)$`)
)

// ParseHeaders extracts attribution headers from content. Absent fields fall
// back to the key's last segment, storageURL, or the package defaults.
func ParseHeaders(content, key, storageURL string) Headers {
	h := Headers{
		Title:       firstGroup(titlePattern, content),
		URL:         firstGroup(urlPattern, content),
		Source:      firstGroup(sourcePattern, content),
		LegalStatus: firstGroup(legalPattern, content),
		Category:    CategoryOf(key),
	}
	if h.Title == "" {
		h.Title = path.Base(strings.TrimSuffix(key, "/"))
		if h.Title == "" || h.Title == "." || h.Title == "/" {
			h.Title = DefaultTitle
		}
	}
	if h.URL == "" {
		h.URL = storageURL
	}
	if h.Source == "" {
		h.Source = DefaultSource
	}
	if h.LegalStatus == "" {
		h.LegalStatus = DefaultLegalStatus
	}
	return h
}

// CategoryOf returns the second path segment of key, e.g. "documents/fda/x.md"
// is "fda".
func CategoryOf(key string) string {
	parts := strings.Split(key, "/")
	if len(parts) > 2 && parts[1] != "" {
		return parts[1]
	}
	return DefaultCategory
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

var sentenceSplit = regexp.MustCompile(`[.!?]\s+`)

const (
	excerptSentences = 3
	excerptMaxChars  = 500
)

// Excerpt returns up to three sentences containing any query term, capped at
// 500 characters. Without a match the first three sentences are used.
func Excerpt(content, query string) string {
	sentences := sentenceSplit.Split(content, -1)
	terms := strings.Fields(strings.ToLower(query))

	var picked []string
	for _, s := range sentences {
		lower := strings.ToLower(s)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				picked = append(picked, strings.TrimSpace(s))
				break
			}
		}
		if len(picked) == excerptSentences {
			break
		}
	}

	if len(picked) == 0 {
		n := min(len(sentences), excerptSentences)
		lead := make([]string, 0, n)
		for _, s := range sentences[:n] {
			lead = append(lead, strings.TrimSpace(s))
		}
		r := []rune(strings.Join(lead, ". "))
		if len(r) > excerptMaxChars-3 {
			r = r[:excerptMaxChars-3]
		}
		return string(r) + "..."
	}
	return Truncate(strings.Join(picked, ". "), excerptMaxChars)
}

// Truncate shortens s to at most max runes, ending with "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// Prefix returns the first n runes of s followed by "..." when s is longer.
func Prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
