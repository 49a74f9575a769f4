package pages

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/pom"
	"github.com/pomkit/pom-test-harness/pom/wrappers"
)

const SearchPath = "/search"

var leadingNumber = regexp.MustCompile(`^\d+`) //nolint:gochecknoglobals

type SearchPage struct {
	pom.BasePage
	searchQuery     *pom.Element
	searchSubmit    *pom.Element
	resultsCount    *pom.Element
	sortDropdown    *wrappers.Dropdown
	clearSearch     *pom.Element
	searchResults   *pom.Element
	resultItems     *pom.Element
	resultLinks     *pom.Element
	noResults       *pom.Element
	filterButtons   *pom.Element
	pagination      *pom.Element
	pageLinks       *pom.Element
	suggestions     *pom.Element
	backToDashboard *pom.Element
}

func NewSearchPage(cfg pom.Config) (*SearchPage, error) {
	base, err := pom.NewBasePage(cfg, "SearchPage")
	if err != nil {
		return nil, err
	}
	p := &SearchPage{BasePage: base}
	p.searchQuery = p.Find("Search Query", driver.ID("search-query"))
	p.searchSubmit = p.Find("Search Submit", driver.ID("search-submit"))
	p.resultsCount = p.Find("Results Count", driver.ID("results-count"))
	p.sortDropdown = wrappers.NewDropdown(p.Find("Sort Dropdown", driver.ID("sort-dropdown")),
		p.Driver(), "Sort Dropdown", p.Logger(), p.ExplicitWait())
	p.clearSearch = p.Find("Clear Search", driver.ID("clear-search"))
	p.searchResults = p.Find("Search Results", driver.ClassName("search-results"))
	p.resultItems = p.Find("Result Items", driver.ClassName("result-item"))
	p.resultLinks = p.Find("Result Links", driver.CSS(".result-item a.result-link"))
	p.noResults = p.Find("No Results Message", driver.ClassName("no-results-message"))
	p.filterButtons = p.Find("Filter Buttons", driver.ClassName("filter-button"))
	p.pagination = p.Find("Pagination", driver.ClassName("pagination"))
	p.pageLinks = p.Find("Page Links", driver.CSS(".pagination a.page-link"))
	p.suggestions = p.Find("Suggestions", driver.ClassName("suggestion"))
	p.backToDashboard = p.Find("Back To Dashboard", driver.ID("back-to-dashboard"))
	return p, nil
}

func (p *SearchPage) IsLoaded() bool {
	return p.IsDisplayed(p.searchQuery) && p.IsDisplayed(p.searchSubmit) &&
		(p.IsDisplayed(p.searchResults) || p.IsDisplayed(p.noResults))
}

func (p *SearchPage) Search(term string) error {
	p.Logger().Infof(p.PageName(), "Searching for %q", term)
	if err := p.Type(p.searchQuery, term); err != nil {
		return err
	}
	return p.Click(p.searchSubmit)
}

// Results returns the titles of the results on the current page.
func (p *SearchPage) Results() ([]string, error) {
	return visibleTexts(p.resultLinks)
}

// ResultCount returns the number of results shown on the current page.
func (p *SearchPage) ResultCount() int {
	items, err := p.resultItems.All()
	if err != nil {
		return 0
	}
	return len(items)
}

func (p *SearchPage) ResultsCountText() (string, error) {
	return p.GetText(p.resultsCount)
}

// TotalResults parses the leading number of the results count text, returning -1 if there is none.
func (p *SearchPage) TotalResults() int {
	text, err := p.ResultsCountText()
	if err != nil {
		return -1
	}
	n, err := strconv.Atoi(leadingNumber.FindString(text))
	if err != nil {
		return -1
	}
	return n
}

func (p *SearchPage) HasNoResults() bool {
	return p.IsDisplayed(p.noResults)
}

// ApplyFilter clicks the filter button labelled name, ignoring case.
func (p *SearchPage) ApplyFilter(name string) error {
	p.Logger().Infof(p.PageName(), "Applying filter %s", name)
	return p.clickMatching(p.filterButtons, "click filter "+name+" in", func(i int, text string) bool {
		return strings.EqualFold(text, name)
	})
}

// ActiveFilter returns the label of the selected filter button.
func (p *SearchPage) ActiveFilter() (string, error) {
	buttons, err := p.filterButtons.All()
	if err != nil {
		return "", err
	}
	for _, b := range buttons {
		class, err := b.GetAttribute("class")
		if err != nil {
			return "", err
		}
		if strings.Contains(" "+class+" ", " active ") {
			text, err := b.Text()
			return strings.TrimSpace(text), err
		}
	}
	return "", nil
}

// SortBy selects the sort order labelled text; the page reloads with the new order.
func (p *SearchPage) SortBy(text string) error {
	p.Logger().Infof(p.PageName(), "Sorting by %s", text)
	return p.sortDropdown.SelectByText(text)
}

func (p *SearchPage) SortOrder() (string, error) {
	return p.sortDropdown.SelectedText()
}

// ClickResult opens the i'th result on the current page, counting from zero.
func (p *SearchPage) ClickResult(i int) error {
	p.Logger().Infof(p.PageName(), "Opening result %d", i)
	return p.clickMatching(p.resultLinks, fmt.Sprintf("click result %d in", i), func(j int, _ string) bool {
		return i == j
	})
}

// GoToPage clicks the pagination link for page n.
func (p *SearchPage) GoToPage(n int) error {
	p.Logger().Infof(p.PageName(), "Going to page %d", n)
	label := strconv.Itoa(n)
	return p.clickMatching(p.pageLinks, "go to page "+label+" of", func(_ int, text string) bool {
		return text == label
	})
}

func (p *SearchPage) HasPagination() bool {
	return p.IsDisplayed(p.pagination)
}

func (p *SearchPage) ClearSearch() error {
	p.Logger().Infof(p.PageName(), "Clearing search")
	return p.Click(p.clearSearch)
}

// Suggestions returns the text of every alternative search offered.
func (p *SearchPage) Suggestions() ([]string, error) {
	return visibleTexts(p.suggestions)
}

func (p *SearchPage) Back() (*DashboardPage, error) {
	if err := p.Click(p.backToDashboard); err != nil {
		return nil, err
	}
	return NewDashboardPage(p.Config())
}

// clickMatching clicks the first displayed element of el for which match holds. Elements are
// numbered in document order among the displayed ones.
func (p *SearchPage) clickMatching(el *pom.Element, action string, match func(int, string) bool) error {
	found, err := el.All()
	if err != nil {
		return &pom.ActionFailedError{Element: el.Name(), Action: action, Cause: err}
	}
	i := 0
	for _, f := range found {
		shown, err := f.IsDisplayed()
		if err != nil {
			return &pom.ActionFailedError{Element: el.Name(), Action: action, Cause: err}
		}
		if !shown {
			continue
		}
		text, err := f.Text()
		if err != nil {
			return &pom.ActionFailedError{Element: el.Name(), Action: action, Cause: err}
		}
		if match(i, strings.TrimSpace(text)) {
			if err := f.Click(); err != nil {
				return &pom.ActionFailedError{Element: el.Name(), Action: action, Cause: err}
			}
			return nil
		}
		i++
	}
	return &pom.ActionFailedError{Element: el.Name(), Action: action, Cause: driver.ErrNoSuchElement}
}
