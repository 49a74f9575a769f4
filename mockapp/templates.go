package mockapp

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"
)

// Languages offered on the login page, keyed by code, in display order.
var Languages = [][2]string{ //nolint:gochecknoglobals
	{"en", "English"},
	{"es", "Spanish"},
	{"fr", "French"},
	{"de", "German"},
}

var welcomeFormats = map[string]string{ //nolint:gochecknoglobals
	"en": "Welcome, %s!",
	"es": "¡Bienvenido, %s!",
	"fr": "Bienvenue, %s !",
	"de": "Willkommen, %s!",
}

var dashboardWidgets = []string{"Recent Activity", "Statistics", "Tasks", "Messages"} //nolint:gochecknoglobals

// NotificationCount is the number of unread notifications every user has.
const NotificationCount = 3

type page struct {
	Path, Title, Body string
}

var simplePages = []page{ //nolint:gochecknoglobals
	{"/reports", "Reports", "Monthly reports will appear here."},
	{"/settings", "Settings", "Account settings."},
	{"/notifications", "Notifications", "You have 3 unread notifications."},
}

var publicPages = []page{ //nolint:gochecknoglobals
	{"/about", "About", "PomKit builds tools for UI test automation."},
	{"/privacy", "Privacy Policy", "We do not sell your data."},
	{"/terms", "Terms of Service", "Use at your own risk."},
	{"/contact", "Contact", "Write to support@pomkit.test."},
}

// FooterLinks are the labels of the footer's links, in order.
var FooterLinks = []string{"About", "Privacy Policy", "Terms of Service", "Contact"} //nolint:gochecknoglobals

type pageData struct {
	Title    string
	User     *User
	Active   string
	Body     string
	Error    string
	Username string
	Language string
	Welcome  string
	Widgets  []string
	Search   *searchResults
	Item     *Item

	// filled in by render
	Path       string
	Newsletter string
	Languages  [][2]string
	NavItems   []string
	Footer     []page
	Unread     int
}

func languageOrDefault(lang string) string {
	if _, ok := welcomeFormats[lang]; ok {
		return lang
	}
	return "en"
}

func languageFromRequest(r *http.Request) string {
	if c, err := r.Cookie(languageCookie); err == nil {
		return languageOrDefault(c.Value)
	}
	return "en"
}

func welcomeMessage(lang, name string) string {
	return fmt.Sprintf(welcomeFormats[languageOrDefault(lang)], name)
}

func (a *App) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	data.Path = r.URL.RequestURI()
	data.Newsletter = r.URL.Query().Get("newsletter")
	data.Languages = Languages
	data.NavItems = []string{"Dashboard", "Search", "Reports", "Settings"}
	data.Footer = publicPages
	data.Unread = NotificationCount
	if data.Language == "" {
		data.Language = languageFromRequest(r)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		a.debugLogger.Printf("Template %s failed: %s", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

var templates = template.Must(template.New("").Funcs(template.FuncMap{ //nolint:gochecknoglobals
	"lower": strings.ToLower,
}).Parse(layoutTemplates + pageTemplates))

const layoutTemplates = `
{{define "header"}}
<header id="site-header" class="header">
  <a id="logo" class="logo" href="/dashboard">PomKit</a>
  <form class="search-header" action="/search" method="get">
    <input id="search-header" name="q" type="search" placeholder="Search">
    <button id="search-header-button" type="submit">Go</button>
  </form>
  {{if .User}}
  <a id="notifications-icon" class="notifications-icon" href="/notifications">Alerts
    <span id="notification-badge" class="notification-badge">{{.Unread}}</span></a>
  {{end}}
  <div id="user-menu" class="user-menu"{{if not .User}} hidden{{end}}>
    <span id="user-name" class="user-name">{{if .User}}{{.User.DisplayName}}{{end}}</span>
    <a class="settings-link" href="/settings">Settings</a>
    <a id="logout-link" class="logout-link" href="/logout">Log out</a>
  </div>
  <ol id="breadcrumb" class="breadcrumb">
    <li class="breadcrumb-item"><a href="/">Home</a></li>
    <li class="breadcrumb-item">{{.Title}}</li>
  </ol>
</header>
{{end}}

{{define "navigation"}}
<nav id="main-navigation" class="main-navigation">
  <button id="mobile-nav-toggle" class="mobile-nav-toggle" type="button" data-toggle-hidden="nav-items">Menu</button>
  <ul id="nav-items" class="nav-items">
    {{range .NavItems}}
    <li class="nav-item{{if eq . $.Active}} active-nav-item{{end}}"><a class="nav-link" href="/{{lower .}}">{{.}}</a></li>
    {{end}}
  </ul>
  <form id="nav-search" action="/search" method="get">
    <input id="nav-search-input" name="q" type="search">
    <button id="nav-search-button" type="submit">Search</button>
  </form>
</nav>
{{end}}

{{define "footer"}}
<footer id="footer" class="footer">
  <ul class="footer-links">
    {{range .Footer}}<li><a class="footer-link" href="{{.Path}}">{{.Title}}</a></li>{{end}}
  </ul>
  <form id="newsletter-form" class="newsletter" action="/newsletter" method="post">
    <input type="hidden" name="return" value="{{.Path}}">
    <input id="newsletter-email" name="email" type="email" placeholder="Your email">
    <button id="newsletter-subscribe" type="submit">Subscribe</button>
    {{if eq .Newsletter "subscribed"}}<p id="newsletter-message" class="newsletter-success">Thanks for subscribing!</p>{{end}}
    {{if eq .Newsletter "invalid"}}<p id="newsletter-message" class="newsletter-error">Please enter a valid email address</p>{{end}}
  </form>
  <address class="company-contact">
    <span id="company-name">PomKit Inc.</span>
    <span id="company-email">support@pomkit.test</span>
    <span id="company-phone">+1 555 0100</span>
    <span id="company-address">1 Test Street, Springfield</span>
  </address>
  <p id="copyright-text" class="copyright-text">&copy; 2024 PomKit Inc. All rights reserved.</p>
</footer>
{{end}}

{{define "top"}}<!DOCTYPE html>
<html lang="{{.Language}}">
<head><meta charset="utf-8"><title>{{.Title}} - PomKit</title></head>
<body>
{{template "header" .}}
{{if .User}}{{template "navigation" .}}{{end}}
<main id="content">
{{end}}

{{define "bottom"}}
</main>
{{template "footer" .}}
</body>
</html>
{{end}}
`

const pageTemplates = `
{{define "login"}}{{template "top" .}}
<h1 class="login-title">Sign in to PomKit</h1>
<div class="error-message" role="alert"{{if not .Error}} hidden{{end}}>{{.Error}}</div>
<form id="login-form" method="post" action="/login">
  <label for="language-selector">Language</label>
  <select id="language-selector" name="lang">
    {{range .Languages}}<option value="{{index . 0}}"{{if eq (index . 0) $.Language}} selected{{end}}>{{index . 1}}</option>{{end}}
  </select>
  <input id="username" name="username" type="text" placeholder="Username" maxlength="64" value="{{.Username}}" required>
  <input id="password" name="password" type="password" placeholder="Password" required>
  <button id="toggle-password" type="button" data-toggle-type="password">Show</button>
  <label><input id="remember-me" name="remember" type="checkbox" value="yes"> Remember me</label>
  <button id="login-button" type="submit">Log in</button>
</form>
{{template "bottom" .}}{{end}}

{{define "dashboard"}}{{template "top" .}}
<h1 id="dashboard-title">Dashboard</h1>
<div class="welcome-message">{{.Welcome}}</div>
<div id="user-profile" class="user-profile"><span class="profile-name">{{.User.DisplayName}}</span> ({{.User.Username}})</div>
<div id="notifications" class="notifications"><span id="notification-count">{{.Unread}}</span> unread notifications</div>
<form id="dashboard-search" action="/search" method="get">
  <input class="search-box" name="q" type="search" placeholder="Search the catalogue">
  <button id="search-button" type="submit">Search</button>
</form>
<a id="settings-link" href="/settings">Account settings</a>
<section class="widgets">
  {{range .Widgets}}<div class="widget"><h2>{{.}}</h2></div>{{end}}
</section>
<form action="/logout" method="post"><button id="logout-button" type="submit">Log out</button></form>
{{template "bottom" .}}{{end}}

{{define "search"}}{{template "top" .}}
<h1>Search</h1>
<a id="back-to-dashboard" href="/dashboard">Back to dashboard</a>
<form id="search-form" action="/search" method="get">
  <input id="search-query" name="q" type="search" value="{{.Search.Term}}">
  {{if ne .Search.Filter "all"}}<input type="hidden" name="filter" value="{{.Search.Filter}}">{{end}}
  <button id="search-submit" type="submit">Search</button>
  <select id="sort-dropdown" name="sort" data-autosubmit>
    {{range .Search.SortOptions}}<option value="{{.Href}}"{{if .Active}} selected{{end}}>{{.Label}}</option>{{end}}
  </select>
</form>
<a id="clear-search" href="/search">Clear</a>
<div class="filters">
  {{range .Search.Filters}}<a class="filter-button{{if .Active}} active{{end}}" href="{{.Href}}">{{.Label}}</a>{{end}}
</div>
{{if .Search.Suggestions}}<div class="suggestions">
  {{range .Search.Suggestions}}<a class="suggestion" href="{{.Href}}">{{.Label}}</a>{{end}}
</div>{{end}}
{{if .Search.Items}}
<p id="results-count">{{.Search.CountText}}</p>
<div class="search-results">
  {{range .Search.Items}}
  <div class="result-item" data-category="{{.Category}}">
    <a class="result-link" href="/items/{{.ID}}">{{.Title}}</a>
    <p class="result-summary">{{.Summary}}</p>
  </div>
  {{end}}
</div>
{{if .Search.Pages}}<div class="pagination">
  {{range .Search.Pages}}<a class="page-link{{if .Active}} active{{end}}" href="{{.Href}}">{{.Label}}</a>{{end}}
</div>{{end}}
{{else}}
<p id="results-count">0 results</p>
<div class="no-results-message">{{if .Search.Term}}No results found for "{{.Search.Term}}"{{else}}Enter a search term to begin{{end}}</div>
{{end}}
{{template "bottom" .}}{{end}}

{{define "item"}}{{template "top" .}}
<h1 id="item-title">{{.Item.Title}}</h1>
<p id="item-category">{{.Item.Category}}</p>
<p id="item-summary">{{.Item.Summary}}</p>
{{template "bottom" .}}{{end}}

{{define "simple"}}{{template "top" .}}
<h1 id="page-title">{{.Title}}</h1>
<p id="page-body">{{.Body}}</p>
{{template "bottom" .}}{{end}}
`
