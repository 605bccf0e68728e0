package surnames_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customeros/namesherpa/internal/config"
	"github.com/customeros/namesherpa/surnames"
)

func page(cells ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><table><tr>")
	for _, cell := range cells {
		fmt.Fprintf(&b, "<td>%s</td>", cell)
	}
	b.WriteString("</tr></table></body></html>")
	return b.String()
}

// directory serves pages keyed by the initial query parameter and records the
// order in which letters were requested.
type directory struct {
	mu        sync.Mutex
	pages     map[string]string
	failures  map[string]int
	requested []string
	agents    []string
}

func (d *directory) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	letter := r.URL.Query().Get("initial")
	d.requested = append(d.requested, letter)
	d.agents = append(d.agents, r.UserAgent())

	if status, ok := d.failures[letter]; ok {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, d.pages[letter])
}

func newScraper(baseURL string, letters []string, log logrus.FieldLogger) (*surnames.Scraper, *[]time.Duration) {
	var sleeps []time.Duration
	cfg := config.SurnamesConfig{
		BaseURL:    baseURL,
		LetterCase: config.LetterCaseLower,
		Timeout:    config.Duration{Duration: 2 * time.Second},
		Delay:      config.Duration{Duration: time.Second},
		UserAgent:  "namesherpa-test",
	}
	s := surnames.New(cfg, log)
	s.Letters = letters
	s.Sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return s, &sleeps
}

func warnings(hook *test.Hook) []string {
	var messages []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			messages = append(messages, entry.Message)
		}
	}
	return messages
}

func TestLetters(t *testing.T) {
	lower := surnames.Letters(config.LetterCaseLower)
	require.Len(t, lower, 26)
	assert.Equal(t, "a", lower[0])
	assert.Equal(t, "z", lower[25])

	upper := surnames.Letters(config.LetterCaseUpper)
	require.Len(t, upper, 26)
	assert.Equal(t, "A", upper[0])
	assert.Equal(t, "Z", upper[25])
}

func TestScrapeFiltersAndDeduplicates(t *testing.T) {
	dir := &directory{pages: map[string]string{
		"a": page("Abbott", "O'Brien", "Adams", "12", "", "Van Dyke"),
		"b": page("Baker", "Abbott", "Smith"),
		"c": page("Smith", "Çelik"),
	}}
	server := httptest.NewServer(dir)
	defer server.Close()

	log, hook := test.NewNullLogger()
	scraper, sleeps := newScraper(server.URL+"/surnames_A-Z/", []string{"a", "b", "c"}, log)

	names, err := scraper.Scrape()
	require.NoError(t, err)

	assert.Equal(t, []string{"Abbott", "Adams", "Baker", "Smith", "Çelik"}, names)
	assert.NotContains(t, names, "O'Brien")
	assert.Equal(t, []string{"a", "b", "c"}, dir.requested)
	assert.Equal(t, []string{"namesherpa-test", "namesherpa-test", "namesherpa-test"}, dir.agents)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, *sleeps)
	assert.Empty(t, warnings(hook))

	var steps []string
	for _, entry := range hook.AllEntries() {
		if strings.HasPrefix(entry.Message, "Found") {
			steps = append(steps, entry.Message)
		}
	}
	assert.Equal(t, []string{
		"Found 2 new names for a",
		"Found 2 new names for b",
		"Found 1 new names for c",
	}, steps)
}

func TestScrapeContinuesAfterFailedLetter(t *testing.T) {
	dir := &directory{
		pages: map[string]string{
			"a": page("Adams"),
			"c": page("Carter"),
		},
		failures: map[string]int{"b": http.StatusInternalServerError},
	}
	server := httptest.NewServer(dir)
	defer server.Close()

	log, hook := test.NewNullLogger()
	scraper, sleeps := newScraper(server.URL, []string{"a", "b", "c"}, log)

	names, err := scraper.Scrape()
	require.NoError(t, err)

	assert.Equal(t, []string{"Adams", "Carter"}, names)
	assert.Equal(t, []string{"a", "b", "c"}, dir.requested)
	// no delay after the failed letter nor after the last one
	assert.Equal(t, []time.Duration{time.Second}, *sleeps)

	warned := warnings(hook)
	require.Len(t, warned, 1)
	assert.True(t, strings.HasPrefix(warned[0], "Network error when scraping b:"))
	assert.Contains(t, warned[0], "500")
}

func TestScrapeUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	log, hook := test.NewNullLogger()
	scraper, sleeps := newScraper(url, []string{"x", "y"}, log)

	names, err := scraper.Scrape()
	require.NoError(t, err)

	assert.Empty(t, names)
	assert.Empty(t, *sleeps)
	assert.Len(t, warnings(hook), 2)
}

func TestScrapeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, page("Late"))
	}))
	defer server.Close()

	log, hook := test.NewNullLogger()
	scraper, _ := newScraper(server.URL, []string{"l"}, log)
	scraper.Client.Timeout = 20 * time.Millisecond

	names, err := scraper.Scrape()
	require.NoError(t, err)

	assert.Empty(t, names)
	require.Len(t, warnings(hook), 1)
	assert.Contains(t, warnings(hook)[0], "Network error when scraping l")
}

func TestScrapeUpperCaseQuery(t *testing.T) {
	dir := &directory{pages: map[string]string{"A": page("Allen")}}
	server := httptest.NewServer(dir)
	defer server.Close()

	log, _ := test.NewNullLogger()
	scraper, _ := newScraper(server.URL+"/?lang=en", surnames.Letters(config.LetterCaseUpper), log)

	names, err := scraper.Scrape()
	require.NoError(t, err)

	assert.Equal(t, []string{"Allen"}, names)
	require.Len(t, dir.requested, 26)
	assert.Equal(t, "A", dir.requested[0])
	assert.Equal(t, "Z", dir.requested[25])
}

func TestScrapeDecodesDeclaredCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "Müller" in Latin-1
		w.Write([]byte("<table><tr><td>M\xfcller</td></tr></table>"))
	}))
	defer server.Close()

	log, _ := test.NewNullLogger()
	scraper, _ := newScraper(server.URL, []string{"m"}, log)

	names, err := scraper.Scrape()
	require.NoError(t, err)
	assert.Equal(t, []string{"Müller"}, names)
}

func TestScrapeInvalidBaseURL(t *testing.T) {
	log, _ := test.NewNullLogger()
	scraper, _ := newScraper("http://[::1", []string{"a"}, log)

	_, err := scraper.Scrape()
	assert.Error(t, err)
}

func TestCellTexts(t *testing.T) {
	html := `<table>
<tr><td> Smith </td><td>O'Brien</td></tr>
<tr><td><a href="/s/jones">Jon</a> <b>es</b></td></tr>
<tr><td>Ward<!-- note --><script>var x = 1;</script></td></tr>
<tr><td><table><tr><td>Inner</td></tr></table></td></tr>
</table>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, []string{"Smith", "O'Brien", "Jones", "Ward", "Inner", "Inner"}, surnames.CellTexts(doc))
}
