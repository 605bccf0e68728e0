package surnames

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/customeros/namesherpa/internal/config"
	"github.com/customeros/namesherpa/internal/nameset"
	"github.com/customeros/namesherpa/internal/report"
	"github.com/customeros/namesherpa/internal/util"
)

const (
	DefaultTimeout = 10 * time.Second

	queryParam = "initial"
	alphabet   = "abcdefghijklmnopqrstuvwxyz"
)

// Scraper walks the per-letter pages of a surname directory and collects the
// purely alphabetic contents of their table cells.
type Scraper struct {
	BaseURL   string
	Letters   []string
	Client    *http.Client
	Delay     time.Duration
	UserAgent string
	Log       logrus.FieldLogger
	Progress  io.Writer
	// Sleep waits between letters; time.Sleep when nil.
	Sleep func(time.Duration)
}

func New(cfg config.SurnamesConfig, log logrus.FieldLogger) *Scraper {
	return &Scraper{
		BaseURL:   cfg.BaseURL,
		Letters:   Letters(cfg.LetterCase),
		Client:    &http.Client{Timeout: cfg.Timeout.Duration},
		Delay:     cfg.Delay.Duration,
		UserAgent: cfg.UserAgent,
		Log:       log,
	}
}

// Letters returns the 26 letters of the alphabet in the given case.
func Letters(letterCase string) []string {
	letters := alphabet
	if letterCase == config.LetterCaseUpper {
		letters = strings.ToUpper(alphabet)
	}
	return strings.Split(letters, "")
}

// Scrape fetches the page of every letter in order and returns the unique
// surnames found. A letter that fails is reported and skipped; only an
// unusable base URL is returned as an error.
func (s *Scraper) Scrape() ([]string, error) {
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base url %q", s.BaseURL)
	}

	surnames := nameset.New()
	bar := report.NewBar(s.Progress, len(s.Letters), "scraping")
	for i, letter := range s.Letters {
		ok := s.scrapeLetter(letterURL(base, letter), letter, surnames)
		bar.Add(1)
		if ok && i < len(s.Letters)-1 {
			s.sleep(s.Delay)
		}
	}
	bar.Finish()

	return surnames.Sorted(), nil
}

func (s *Scraper) scrapeLetter(pageURL, letter string, surnames *nameset.Set) bool {
	report.Progress(s.Log, "Scraping letter %s...", letter)

	body, contentType, err := s.fetch(pageURL)
	if err != nil {
		s.Log.Warnf("Network error when scraping %s: %v", letter, err)
		return false
	}

	doc, err := parse(body, contentType)
	if err != nil {
		s.Log.Warnf("Error scraping %s: %v", letter, err)
		return false
	}

	added := 0
	for _, candidate := range CellTexts(doc) {
		if util.IsAlphabetic(candidate) && surnames.Add(candidate) {
			added++
		}
	}
	report.Step(s.Log, "Found %d new names for %s", added, letter)
	return true
}

// fetch returns the raw body and content type of a successful response.
func (s *Scraper) fetch(pageURL string) ([]byte, string, error) {
	s.Log.Debugf("GET %s", pageURL)

	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", err
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", errors.Errorf("bad status %s for url %s", resp.Status, pageURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to read response body")
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func parse(body []byte, contentType string) (*goquery.Document, error) {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, errors.Wrap(err, "unsupported response charset")
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse html")
	}
	return doc, nil
}

func (s *Scraper) client() *http.Client {
	if s.Client == nil {
		return &http.Client{Timeout: DefaultTimeout}
	}
	return s.Client
}

func (s *Scraper) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if s.Sleep != nil {
		s.Sleep(d)
		return
	}
	time.Sleep(d)
}

func letterURL(base *url.URL, letter string) string {
	u := *base
	query := u.Query()
	query.Set(queryParam, letter)
	u.RawQuery = query.Encode()
	return u.String()
}

// CellTexts returns the text of every td element in document order. Each text
// node under a cell is trimmed and the pieces are joined without separator.
func CellTexts(doc *goquery.Document) []string {
	var texts []string
	doc.Find("td").Each(func(i int, cell *goquery.Selection) {
		for _, node := range cell.Nodes {
			texts = append(texts, nodeText(node))
		}
	})
	return texts
}

func nodeText(node *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(strings.TrimSpace(n.Data))
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return b.String()
}
