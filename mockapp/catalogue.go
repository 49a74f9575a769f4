package mockapp

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// PageSize is the number of search results per page.
const PageSize = 5

type Item struct {
	ID       string
	Title    string
	Category string
	Summary  string
	Year     int
}

var catalogue = []Item{ //nolint:gochecknoglobals
	{"1", "Selenium WebDriver Basics", "articles", "Getting started with browser automation.", 2019},
	{"2", "Page Object Model in Practice", "articles", "Structuring UI tests around pages and components.", 2021},
	{"3", "Testing Web Forms with Selenium", "articles", "Validation, error messages and submission.", 2020},
	{"4", "Selenium Grid Setup Guide", "articles", "Running browsers in parallel across machines.", 2022},
	{"5", "Headless Browser Testing", "articles", "Faster feedback without a visible window.", 2023},
	{"6", "Selenium Test Automation Course", "products", "A video course on maintainable test suites.", 2022},
	{"7", "Mechanical Keyboard", "products", "Tactile switches for long test-writing sessions.", 2021},
	{"8", "Testing Handbook", "products", "A printed reference for test engineers.", 2018},
	{"9", "Selenium Cheat Sheet Poster", "products", "Every locator strategy on one page.", 2020},
	{"10", "Grace Hopper", "people", "Pioneer of machine-independent programming languages.", 1952},
	{"11", "Jason Huggins", "people", "Creator of the original Selenium tool.", 2004},
	{"12", "Simon Stewart", "people", "Creator of WebDriver.", 2007},
	{"13", "Flaky Test Triage", "articles", "Finding the cause of intermittent Selenium failures.", 2024},
}

// SearchFilters are the categories offered as filter buttons, with "all" meaning no filter.
var SearchFilters = []string{"all", "articles", "products", "people"} //nolint:gochecknoglobals

// SortOptions maps sort keys to their labels, in display order.
var SortOptions = [][2]string{ //nolint:gochecknoglobals
	{"relevance", "Relevance"},
	{"newest", "Newest"},
	{"oldest", "Oldest"},
	{"title", "Title A-Z"},
}

type searchQuery struct {
	Term   string
	Filter string
	Sort   string
	Page   string
}

type resultLink struct {
	Label  string
	Href   string
	Active bool
}

type searchResults struct {
	Term        string
	Filter      string
	Sort        string
	Total       int
	Page        int
	Items       []Item
	Pages       []resultLink
	Filters     []resultLink
	SortOptions []resultLink
	Suggestions []resultLink
}

func itemByID(id string) (Item, bool) {
	for _, it := range catalogue {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func search(q searchQuery) searchResults {
	filter := strings.ToLower(q.Filter)
	if filter == "" {
		filter = "all"
	}
	sortKey := strings.ToLower(q.Sort)
	if sortKey == "" {
		sortKey = "relevance"
	}
	res := searchResults{Term: q.Term, Filter: filter, Sort: sortKey, Page: 1}

	var matches []Item
	if q.Term != "" {
		term := strings.ToLower(q.Term)
		for _, it := range catalogue {
			if !strings.Contains(strings.ToLower(it.Title+" "+it.Summary), term) {
				continue
			}
			if filter != "all" && it.Category != filter {
				continue
			}
			matches = append(matches, it)
		}
	}
	switch sortKey {
	case "newest":
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Year > matches[j].Year })
	case "oldest":
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Year < matches[j].Year })
	case "title":
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Title < matches[j].Title })
	}
	res.Total = len(matches)

	pages := (len(matches) + PageSize - 1) / PageSize
	if p, err := strconv.Atoi(q.Page); err == nil && p >= 1 && p <= pages {
		res.Page = p
	}
	start := (res.Page - 1) * PageSize
	if start < len(matches) {
		end := start + PageSize
		if end > len(matches) {
			end = len(matches)
		}
		res.Items = matches[start:end]
	}
	if pages > 1 {
		for p := 1; p <= pages; p++ {
			res.Pages = append(res.Pages, resultLink{
				Label: strconv.Itoa(p), Href: searchHref(q.Term, filter, sortKey, p), Active: p == res.Page,
			})
		}
	}

	for _, f := range SearchFilters {
		res.Filters = append(res.Filters, resultLink{
			Label: strings.ToUpper(f[:1]) + f[1:], Href: searchHref(q.Term, f, sortKey, 1), Active: f == filter,
		})
	}
	for _, s := range SortOptions {
		res.SortOptions = append(res.SortOptions, resultLink{Label: s[1], Href: s[0], Active: s[0] == sortKey})
	}
	res.Suggestions = suggestions(q.Term)
	return res
}

// suggestions offers other catalogue titles that share a word with the term.
func suggestions(term string) []resultLink {
	if term == "" {
		return nil
	}
	var ret []resultLink
	words := strings.Fields(strings.ToLower(term))
	for _, it := range catalogue {
		title := strings.ToLower(it.Title)
		if title == strings.ToLower(term) {
			continue
		}
		for _, w := range words {
			if len(w) >= 3 && strings.Contains(title, w) {
				ret = append(ret, resultLink{Label: it.Title, Href: searchHref(it.Title, "all", "relevance", 1)})
				break
			}
		}
		if len(ret) == 3 {
			break
		}
	}
	return ret
}

func searchHref(term, filter, sortKey string, page int) string {
	v := url.Values{}
	v.Set("q", term)
	if filter != "" && filter != "all" {
		v.Set("filter", filter)
	}
	if sortKey != "" && sortKey != "relevance" {
		v.Set("sort", sortKey)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	return "/search?" + v.Encode()
}

func (r searchResults) CountText() string {
	if r.Total == 1 {
		return fmt.Sprintf("1 result for %q", r.Term)
	}
	return fmt.Sprintf("%d results for %q", r.Total, r.Term)
}
