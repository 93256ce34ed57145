package linkedin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"linkedin-applier/internal/browser"
	"linkedin-applier/internal/forms"
	"linkedin-applier/internal/pacing"
)

const (
	baseURL         = "https://www.linkedin.com"
	searchPath      = "/jobs/search/"
	jobViewPath     = "/jobs/view/"
	listingsPerPage = 25

	elementWait = 10 * time.Second
	modalWait   = 15 * time.Second
)

// SearchFilters are the listing filters applied through the search URL.
type SearchFilters struct {
	DatePosted    string
	SortBy        string
	EasyApplyOnly bool
	Location      string
}

// Surface is the site-specific capability the flow and orchestrator consume.
// It is implemented over the browser driver and faked in tests.
type Surface interface {
	VerifySignedIn(ctx context.Context) error
	Search(ctx context.Context, term string, filters SearchFilters) error
	Listings(ctx context.Context) ([]Card, error)
	NextPage(ctx context.Context) (bool, error)

	OpenListing(ctx context.Context, card Card) (*JobDetails, error)
	Description(ctx context.Context) (string, error)
	AboutCompany(ctx context.Context) (string, error)
	HRInfo(ctx context.Context) (name, link string, err error)
	PostedAgo(ctx context.Context) (string, error)

	HasEasyApply(ctx context.Context) (bool, error)
	StartEasyApply(ctx context.Context) error
	ExternalApplyLink(ctx context.Context) (string, error)

	FormPage() forms.Page
	UploadResume(ctx context.Context, path string) error
	SubmitReady(ctx context.Context) (bool, error)
	Advance(ctx context.Context) error
	SetFollowCompany(ctx context.Context, follow bool) error
	Submit(ctx context.Context) error
	DismissConfirmation(ctx context.Context) error
	Discard(ctx context.Context) error

	Screenshot(ctx context.Context, path string) error
}

var datePostedParams = map[string]string{
	"Any time":      "",
	"Past month":    "r2592000",
	"Past week":     "r604800",
	"Past 24 hours": "r86400",
}

var sortByParams = map[string]string{
	"Most recent":   "DD",
	"Most relevant": "R",
}

// BrowserSurface implements Surface over a browser driver. All interactions
// go through the pacer so the session behaves like a human operator.
type BrowserSurface struct {
	driver browser.Driver
	pacer  *pacing.Pacer
	logger *zap.Logger

	term    string
	filters SearchFilters
	page    int
}

func NewBrowserSurface(driver browser.Driver, pacer *pacing.Pacer, logger *zap.Logger) *BrowserSurface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowserSurface{driver: driver, pacer: pacer, logger: logger}
}

// VerifySignedIn checks by URL only: navigating to the feed while signed out
// redirects to a login or authwall page.
func (s *BrowserSurface) VerifySignedIn(ctx context.Context) error {
	if err := s.driver.Navigate(ctx, baseURL+"/feed/"); err != nil {
		return fmt.Errorf("open feed: %w", err)
	}

	current, err := s.driver.CurrentURL(ctx)
	if err != nil {
		return err
	}
	for _, marker := range []string{"/login", "/authwall", "/checkpoint"} {
		if strings.Contains(current, marker) {
			return fmt.Errorf("browser session is not signed in (redirected to %s)", current)
		}
	}
	return nil
}

// Search opens the job search for the term with the filters encoded in the
// URL, which is sturdier than driving the filter dropdowns.
func (s *BrowserSurface) Search(ctx context.Context, term string, filters SearchFilters) error {
	if err := s.pacer.Gate(ctx); err != nil {
		return err
	}

	s.term = term
	s.filters = filters
	s.page = 0

	if err := s.driver.Navigate(ctx, s.searchURL()); err != nil {
		return fmt.Errorf("open search for %q: %w", term, err)
	}

	s.logger.Info("search opened",
		zap.String("term", term),
		zap.String("date_posted", filters.DatePosted),
		zap.String("sort_by", filters.SortBy),
	)
	return nil
}

func (s *BrowserSurface) searchURL() string {
	params := url.Values{}
	params.Set("keywords", s.term)
	if s.filters.EasyApplyOnly {
		params.Set("f_AL", "true")
	}
	if p := datePostedParams[s.filters.DatePosted]; p != "" {
		params.Set("f_TPR", p)
	}
	if p := sortByParams[s.filters.SortBy]; p != "" {
		params.Set("sortBy", p)
	}
	if s.filters.Location != "" {
		params.Set("location", s.filters.Location)
	}
	if s.page > 0 {
		params.Set("start", strconv.Itoa(s.page*listingsPerPage))
	}
	return baseURL + searchPath + "?" + params.Encode()
}

// Listings scrapes the current result page into cards.
func (s *BrowserSurface) Listings(ctx context.Context) ([]Card, error) {
	if _, err := s.driver.WaitFor(ctx, "li[data-occludable-job-id]", elementWait); err != nil {
		if errors.Is(err, browser.ErrTimeout) || errors.Is(err, browser.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	html, err := s.driver.OuterHTML(ctx, "main")
	if err != nil {
		return nil, fmt.Errorf("read results page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	var cards []Card
	doc.Find("li[data-occludable-job-id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("data-occludable-job-id")
		if id == "" {
			return
		}
		card := Card{
			ID:       id,
			Title:    cleanText(sel.Find(".job-card-list__title, .job-card-container__link strong").First().Text()),
			Company:  cleanText(sel.Find(".artdeco-entity-lockup__subtitle, .job-card-container__primary-description").First().Text()),
			Location: cleanText(sel.Find(".job-card-container__metadata-wrapper li, .job-card-container__metadata-item").First().Text()),
		}
		cards = append(cards, card)
	})

	s.logger.Debug("listings scraped", zap.Int("count", len(cards)))
	return cards, nil
}

// NextPage advances to the next result page. Returns false when the page had
// no listings, which ends pagination for the term.
func (s *BrowserSurface) NextPage(ctx context.Context) (bool, error) {
	if err := s.pacer.Gate(ctx); err != nil {
		return false, err
	}

	s.page++
	if err := s.driver.Navigate(ctx, s.searchURL()); err != nil {
		return false, fmt.Errorf("open page %d: %w", s.page, err)
	}

	if _, err := s.driver.WaitFor(ctx, "li[data-occludable-job-id]", elementWait); err != nil {
		if errors.Is(err, browser.ErrTimeout) || errors.Is(err, browser.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// OpenListing navigates to the job view and fills in the basic details.
func (s *BrowserSurface) OpenListing(ctx context.Context, card Card) (*JobDetails, error) {
	if err := s.pacer.Gate(ctx); err != nil {
		return nil, err
	}

	link := baseURL + jobViewPath + card.ID + "/"
	if err := s.driver.Navigate(ctx, link); err != nil {
		return nil, fmt.Errorf("open job %s: %w", card.ID, err)
	}
	if _, err := s.driver.WaitFor(ctx, ".job-view-layout, .jobs-details__main-content", elementWait); err != nil {
		return nil, fmt.Errorf("job %s details did not load: %w", card.ID, err)
	}

	location, style := SplitWorkLocation(card.Location)
	details := &JobDetails{
		ID:           card.ID,
		Title:        card.Title,
		Company:      card.Company,
		WorkLocation: location,
		WorkStyle:    style,
		Link:         link,
	}

	if details.Title == "" {
		if el, err := s.driver.Find(ctx, ".job-details-jobs-unified-top-card__job-title, h1"); err == nil {
			details.Title, _ = el.Text(ctx)
		}
	}
	if details.Company == "" {
		if el, err := s.driver.Find(ctx, ".job-details-jobs-unified-top-card__company-name a"); err == nil {
			details.Company, _ = el.Text(ctx)
		}
	}

	return details, nil
}

func (s *BrowserSurface) Description(ctx context.Context) (string, error) {
	return s.sectionText(ctx, "#job-details, .jobs-description__content")
}

func (s *BrowserSurface) AboutCompany(ctx context.Context) (string, error) {
	return s.sectionText(ctx, "section.jobs-company, .jobs-company__box")
}

func (s *BrowserSurface) sectionText(ctx context.Context, selector string) (string, error) {
	html, err := s.driver.OuterHTML(ctx, selector)
	if err != nil {
		if errors.Is(err, browser.ErrNotFound) {
			return "", browser.ErrNotFound
		}
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	return cleanText(doc.Text()), nil
}

func (s *BrowserSurface) HRInfo(ctx context.Context) (string, string, error) {
	el, err := s.driver.Find(ctx, ".hirer-card__hirer-information a, .jobs-poster__name")
	if err != nil {
		return "", "", err
	}

	name, err := el.Text(ctx)
	if err != nil {
		return "", "", err
	}
	link, _, _ := el.Attr(ctx, "href")
	if link != "" && strings.HasPrefix(link, "/") {
		link = baseURL + link
	}
	return name, link, nil
}

func (s *BrowserSurface) PostedAgo(ctx context.Context) (string, error) {
	el, err := s.driver.Find(ctx, ".jobs-unified-top-card__posted-date, .job-details-jobs-unified-top-card__primary-description-container span.tvm__text")
	if err != nil {
		return "", err
	}
	return el.Text(ctx)
}

func (s *BrowserSurface) HasEasyApply(ctx context.Context) (bool, error) {
	el, err := s.driver.Find(ctx, "button.jobs-apply-button")
	if errors.Is(err, browser.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	text, err := el.Text(ctx)
	if err != nil {
		return false, err
	}
	return strings.Contains(text, "Easy Apply"), nil
}

// StartEasyApply clicks the apply button and waits for the modal. A daily
// limit banner instead of the modal is reported as ErrDailyLimit.
func (s *BrowserSurface) StartEasyApply(ctx context.Context) error {
	if err := s.pacer.Gate(ctx); err != nil {
		return err
	}

	button, err := s.driver.Find(ctx, "button.jobs-apply-button")
	if err != nil {
		return fmt.Errorf("find apply button: %w", err)
	}
	if err := button.Click(ctx); err != nil {
		return fmt.Errorf("click apply button: %w", err)
	}

	if _, err := s.driver.WaitFor(ctx, "div.jobs-easy-apply-modal", modalWait); err == nil {
		return nil
	}

	if banner, err := s.driver.Find(ctx, ".artdeco-inline-feedback__message"); err == nil {
		if text, _ := banner.Text(ctx); strings.Contains(strings.ToLower(text), "application limit") {
			return ErrDailyLimit
		}
	}
	return fmt.Errorf("easy apply modal did not open: %w", browser.ErrTimeout)
}

func (s *BrowserSurface) ExternalApplyLink(ctx context.Context) (string, error) {
	button, err := s.driver.Find(ctx, "button.jobs-apply-button")
	if err != nil {
		return "", err
	}
	if err := button.Click(ctx); err != nil {
		return "", err
	}

	// External apply opens a new tab; the link is also exposed on the button
	// wrapper. Fall back to the current URL when it is not.
	if el, err := s.driver.Find(ctx, ".jobs-apply-button--top-card a[href]"); err == nil {
		if link, ok, _ := el.Attr(ctx, "href"); ok && link != "" {
			return link, nil
		}
	}
	return s.driver.CurrentURL(ctx)
}

func (s *BrowserSurface) FormPage() forms.Page {
	return &modalPage{surface: s}
}

// UploadResume attaches the resume to the modal's file input. ErrNotFound
// means the current step has no upload control.
func (s *BrowserSurface) UploadResume(ctx context.Context, path string) error {
	if _, err := s.driver.Find(ctx, "div.jobs-easy-apply-modal input[type=file]"); err != nil {
		return err
	}
	if err := s.driver.Upload(ctx, "div.jobs-easy-apply-modal input[type=file]", path); err != nil {
		return fmt.Errorf("upload resume: %w", err)
	}
	s.logger.Info("resume uploaded", zap.String("path", path))
	return nil
}

func (s *BrowserSurface) SubmitReady(ctx context.Context) (bool, error) {
	_, err := s.driver.Find(ctx, "button[aria-label='Submit application']")
	if errors.Is(err, browser.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Advance clicks the next or review control of the modal.
func (s *BrowserSurface) Advance(ctx context.Context) error {
	if err := s.pacer.Gate(ctx); err != nil {
		return err
	}

	for _, selector := range []string{
		"button[aria-label='Review your application']",
		"button[aria-label='Continue to next step']",
	} {
		el, err := s.driver.Find(ctx, selector)
		if errors.Is(err, browser.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		return el.Click(ctx)
	}
	return browser.ErrNotFound
}

// SetFollowCompany aligns the follow-company checkbox on the review step
// with the configured preference.
func (s *BrowserSurface) SetFollowCompany(ctx context.Context, follow bool) error {
	box, err := s.driver.Find(ctx, "input#follow-company-checkbox")
	if err != nil {
		return err
	}

	checked, _, err := box.Attr(ctx, "checked")
	if err != nil {
		return err
	}
	isChecked := checked != ""
	if isChecked == follow {
		return nil
	}

	label, err := s.driver.Find(ctx, "label[for='follow-company-checkbox']")
	if err != nil {
		return err
	}
	return label.Click(ctx)
}

func (s *BrowserSurface) Submit(ctx context.Context) error {
	if err := s.pacer.Gate(ctx); err != nil {
		return err
	}

	el, err := s.driver.Find(ctx, "button[aria-label='Submit application']")
	if err != nil {
		return err
	}
	return el.Click(ctx)
}

// DismissConfirmation closes the post-submit dialog. Best effort.
func (s *BrowserSurface) DismissConfirmation(ctx context.Context) error {
	el, err := s.driver.WaitFor(ctx, "button[aria-label='Dismiss']", elementWait)
	if err != nil {
		return err
	}
	return el.Click(ctx)
}

// Discard abandons the in-progress application modal.
func (s *BrowserSurface) Discard(ctx context.Context) error {
	dismiss, err := s.driver.Find(ctx, "button[aria-label='Dismiss']")
	if err != nil {
		return err
	}
	if err := dismiss.Click(ctx); err != nil {
		return err
	}

	confirm, err := s.driver.WaitFor(ctx, "button[data-control-name='discard_application_confirm_btn'], button[data-test-dialog-secondary-btn]", elementWait)
	if err != nil {
		return err
	}
	return confirm.Click(ctx)
}

func (s *BrowserSurface) Screenshot(ctx context.Context, path string) error {
	return s.driver.Screenshot(ctx, path)
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
