package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
)

// SourceTopCV is the source name of the TopCV adapter.
const SourceTopCV = "topcv"

const (
	topCVDefaultBaseURL = "https://www.topcv.vn"
	topCVDefaultKeyword = "thực tập sinh"
	topCVDefaultCountry = "Việt Nam"
)

// Candidate selectors for the interactive search path. Tried in order;
// the first hit wins. None matching degrades to the templated search URL.
var topCVSearchFormSelectors = []string{
	"form[action*='tim-viec']",
	"form.search-form",
	"form#search-form",
}

var topCVSearchInputSelectors = []string{
	"input[name='keyword']",
	"input[name='q']",
	"input[type='search']",
}

// Candidate selectors for the result list and its fields.
var topCVListSelectors = []string{
	".job-list-search-result .job-item-search-result",
	".job-list .job-item",
	"div[class*='job-item']",
}

var (
	topCVTitleSelectors   = []string{"h3.title a", ".title a", "a[class*='title']"}
	topCVCompanySelectors = []string{".company a", ".company-name", "a[class*='company']"}
	topCVAddressSelectors = []string{".address", ".location", "label[class*='address']"}
	topCVSalarySelectors  = []string{".salary", "label[class*='salary']"}
)

// TopCVAdapter scrapes internship search results from topcv.vn. All
// extraction is best-effort: selectors are heuristics against uncontrolled
// third-party markup, and an empty result is preferred over an error.
type TopCVAdapter struct {
	baseURL string
	keyword string
	logger  logger.Logger
}

// TopCVOption customizes the adapter.
type TopCVOption func(*TopCVAdapter)

// WithTopCVBaseURL overrides the site base URL (used in tests).
func WithTopCVBaseURL(baseURL string) TopCVOption {
	return func(a *TopCVAdapter) { a.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithTopCVKeyword overrides the search keyword.
func WithTopCVKeyword(keyword string) TopCVOption {
	return func(a *TopCVAdapter) { a.keyword = keyword }
}

// NewTopCVAdapter creates the TopCV adapter.
func NewTopCVAdapter(log logger.Logger, opts ...TopCVOption) *TopCVAdapter {
	a := &TopCVAdapter{
		baseURL: topCVDefaultBaseURL,
		keyword: topCVDefaultKeyword,
		logger:  log.With(logger.String("source", SourceTopCV)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name identifies the source.
func (a *TopCVAdapter) Name() string { return SourceTopCV }

// FetchRaw drives the session against TopCV with a layered strategy:
// discover the on-page search form and build the query URL from it, and
// fall back to a templated search URL when no known form is found.
func (a *TopCVAdapter) FetchRaw(ctx context.Context, session *Session) ([]RawPayload, error) {
	searchURL := a.discoverSearchURL(session)
	if searchURL == "" {
		searchURL = a.templateSearchURL()
		a.logger.Debug("search form not found, using templated search url",
			logger.String("url", searchURL))
	}

	doc, err := session.Document(searchURL)
	if err != nil {
		return nil, fmt.Errorf("fetch search results: %w", err)
	}

	return a.extractList(doc, session), nil
}

// discoverSearchURL loads the landing page and derives the search URL from
// the first recognizable search form. Returns "" when no candidate
// selector matches, which is expected whenever TopCV reshuffles markup.
func (a *TopCVAdapter) discoverSearchURL(session *Session) string {
	doc, err := session.Document(a.baseURL)
	if err != nil {
		a.logger.Debug("landing page fetch failed", logger.Error(err))
		return ""
	}

	form := firstMatch(doc, topCVSearchFormSelectors)
	if form == nil {
		return ""
	}

	action, _ := form.First().Attr("action")
	if action == "" {
		return ""
	}

	inputName := ""
	for _, sel := range topCVSearchInputSelectors {
		if input := form.First().Find(sel); input.Length() > 0 {
			if name, ok := input.First().Attr("name"); ok && name != "" {
				inputName = name
				break
			}
		}
	}
	if inputName == "" {
		return ""
	}

	params := url.Values{}
	params.Set(inputName, a.keyword)
	return session.Resolve(a.baseURL, action) + "?" + params.Encode()
}

// templateSearchURL is the fallback: TopCV's slug-style search path.
func (a *TopCVAdapter) templateSearchURL() string {
	slug := strings.ReplaceAll(strings.TrimSpace(a.keyword), " ", "-")
	return a.baseURL + "/tim-viec-lam-" + url.PathEscape(slug)
}

// extractList walks the result list via the container selector cascade and
// extracts one payload per item. Items missing a title or link are
// skipped, not fatal.
func (a *TopCVAdapter) extractList(doc *goquery.Document, session *Session) []RawPayload {
	items := firstMatch(doc, topCVListSelectors)
	if items == nil {
		a.logger.Warn("no result container matched any known selector")
		return nil
	}

	var payloads []RawPayload
	items.Each(func(_ int, item *goquery.Selection) {
		title := firstText(item, topCVTitleSelectors)
		link := firstAttr(item, topCVTitleSelectors, "href")
		if title == "" || link == "" {
			return
		}

		payload := RawPayload{
			"title":      title,
			"company":    firstText(item, topCVCompanySelectors),
			"link":       session.Resolve(a.baseURL, link),
			"address":    firstText(item, topCVAddressSelectors),
			"salary":     firstText(item, topCVSalarySelectors),
			"fetched_at": time.Now().Format(time.RFC3339),
		}
		if jobID, ok := item.Attr("data-job-id"); ok && jobID != "" {
			payload["job_id"] = jobID
		}
		payloads = append(payloads, payload)
	})

	a.logger.Info("extracted postings", logger.Int("count", len(payloads)))
	return payloads
}

// Key computes the dedup key, preferring TopCV's job id.
func (a *TopCVAdapter) Key(payload RawPayload) string {
	return DeriveKey(
		SourceTopCV,
		payload.Str("job_id"),
		payload.Str("title"),
		payload.Str("company"),
		payload.Str("link"),
	)
}

// Normalize maps a raw TopCV payload into the canonical schema. Pure, with
// explicit defaults for every optional field.
func (a *TopCVAdapter) Normalize(payload RawPayload) (*domain.NormalizedPosting, error) {
	title := strings.TrimSpace(payload.Str("title"))
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	posting := &domain.NormalizedPosting{
		Source:     SourceTopCV,
		ExternalID: payload.Str("job_id"),
		Title:      title,
		Company:    strings.TrimSpace(payload.Str("company")),
		Type:       domain.JobTypeIntern,
		Location:   parseTopCVAddress(payload.Str("address")),
		Salary:     parseTopCVSalary(payload.Str("salary")),
		URL:        payload.Str("link"),
	}
	if err := posting.Validate(); err != nil {
		return nil, err
	}
	return posting, nil
}

// parseTopCVAddress splits "Quận 1, Hồ Chí Minh" style addresses into
// district and city. Country is always defaulted.
func parseTopCVAddress(address string) domain.Location {
	loc := domain.Location{Country: topCVDefaultCountry}
	parts := strings.Split(address, ",")
	switch len(parts) {
	case 0:
	case 1:
		loc.City = strings.TrimSpace(parts[0])
	default:
		loc.District = strings.TrimSpace(parts[0])
		loc.City = strings.TrimSpace(parts[len(parts)-1])
	}
	return loc
}

// parseTopCVSalary recognizes the negotiable marker; numeric ranges are
// left to the detail page, which this adapter does not fetch.
func parseTopCVSalary(salary string) *domain.Salary {
	salary = strings.TrimSpace(salary)
	if salary == "" {
		return nil
	}
	if strings.Contains(strings.ToLower(salary), "thoả thuận") ||
		strings.Contains(strings.ToLower(salary), "thỏa thuận") {
		return &domain.Salary{Negotiable: true, Currency: "VND"}
	}
	return &domain.Salary{Currency: "VND"}
}
