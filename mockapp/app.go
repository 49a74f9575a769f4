// Package mockapp is a small server-rendered web application used as the system under test by the
// page objects in this module. It has a login form, a dashboard, and a paginated search over a
// fixed catalogue, with a shared header, navigation bar and footer.
package mockapp

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pomkit/pom-test-harness/framework"
)

const (
	sessionCookie  = "pom_session"
	languageCookie = "pom_lang"
)

// User is an account that can log in to the app.
type User struct {
	Username    string
	Password    string
	DisplayName string
	Locked      bool
}

// DefaultUsers are the accounts every new App starts with.
var DefaultUsers = []User{ //nolint:gochecknoglobals
	{Username: "alice", Password: "pw", DisplayName: "Alice"},
	{Username: "bob", Password: "builder", DisplayName: "Bob"},
	{Username: "locked", Password: "locked", DisplayName: "Locked Out", Locked: true},
}

// Error messages shown on the login page.
const (
	MessageUsernameRequired   = "Username is required"
	MessagePasswordRequired   = "Password is required"
	MessageInvalidCredentials = "Invalid username or password"
	MessageAccountLocked      = "This account has been locked"
)

// App is an http.Handler serving the application. It is safe for concurrent use, and each
// browser session gets its own login session through cookies.
type App struct {
	handler     http.Handler
	users       map[string]User
	sessions    map[string]string
	debugLogger framework.Logger
	lock        sync.RWMutex
}

func New(debugLogger framework.Logger) *App {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	a := &App{
		users:       make(map[string]User),
		sessions:    make(map[string]string),
		debugLogger: debugLogger,
	}
	for _, u := range DefaultUsers {
		a.users[u.Username] = u
	}

	router := mux.NewRouter()
	router.HandleFunc("/", a.serveRoot).Methods("GET")
	router.HandleFunc("/login", a.serveLoginForm).Methods("GET")
	router.HandleFunc("/login", a.serveLogin).Methods("POST")
	router.HandleFunc("/logout", a.serveLogout).Methods("GET", "POST")
	router.HandleFunc("/newsletter", a.serveNewsletter).Methods("POST")
	router.HandleFunc("/dashboard", a.requireLogin(a.serveDashboard)).Methods("GET")
	router.HandleFunc("/search", a.requireLogin(a.serveSearch)).Methods("GET")
	router.HandleFunc("/items/{id}", a.requireLogin(a.serveItem)).Methods("GET")
	for _, p := range simplePages {
		p := p
		router.HandleFunc(p.Path, a.requireLogin(func(w http.ResponseWriter, r *http.Request, user User) {
			a.render(w, r, http.StatusOK, "simple", pageData{Title: p.Title, User: &user, Active: p.Title, Body: p.Body})
		})).Methods("GET")
	}
	for _, p := range publicPages {
		p := p
		router.HandleFunc(p.Path, func(w http.ResponseWriter, r *http.Request) {
			a.render(w, r, http.StatusOK, "simple", pageData{Title: p.Title, User: a.currentUser(r), Body: p.Body})
		}).Methods("GET")
	}
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.render(w, r, http.StatusNotFound, "simple", pageData{Title: "Not Found", User: a.currentUser(r), Body: "The page you requested does not exist."})
	})
	a.handler = router
	return a
}

// AddUser adds or replaces an account.
func (a *App) AddUser(u User) {
	a.lock.Lock()
	a.users[u.Username] = u
	a.lock.Unlock()
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.debugLogger.Printf("%s %s", r.Method, r.URL.RequestURI())
	a.handler.ServeHTTP(w, r)
}

func (a *App) currentUser(r *http.Request) *User {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	a.lock.RLock()
	defer a.lock.RUnlock()
	username, ok := a.sessions[c.Value]
	if !ok {
		return nil
	}
	u := a.users[username]
	return &u
}

func (a *App) requireLogin(handler func(http.ResponseWriter, *http.Request, User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := a.currentUser(r)
		if u == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		handler(w, r, *u)
	}
}

func (a *App) serveRoot(w http.ResponseWriter, r *http.Request) {
	if a.currentUser(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *App) serveLoginForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "login", pageData{Title: "Login", User: a.currentUser(r)})
}

func (a *App) serveLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	lang := languageOrDefault(r.PostForm.Get("lang"))
	http.SetCookie(w, &http.Cookie{Name: languageCookie, Value: lang, Path: "/"})

	var message string
	a.lock.RLock()
	user, known := a.users[username]
	a.lock.RUnlock()
	switch {
	case username == "":
		message = MessageUsernameRequired
	case password == "":
		message = MessagePasswordRequired
	case !known || user.Password != password:
		message = MessageInvalidCredentials
	case user.Locked:
		message = MessageAccountLocked
	}
	if message != "" {
		a.debugLogger.Printf("Login rejected for %q: %s", username, message)
		a.render(w, r, http.StatusUnauthorized, "login", pageData{
			Title: "Login", Error: message, Username: username, Language: lang,
		})
		return
	}

	token := uuid.NewString()
	a.lock.Lock()
	a.sessions[token] = username
	a.lock.Unlock()
	cookie := &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true}
	if r.PostForm.Get("remember") != "" {
		cookie.MaxAge = 30 * 24 * 60 * 60
	}
	http.SetCookie(w, cookie)
	a.debugLogger.Printf("Logged in %q", username)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (a *App) serveLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		a.lock.Lock()
		delete(a.sessions, c.Value)
		a.lock.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *App) serveNewsletter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	status := "invalid"
	if email := strings.TrimSpace(r.PostForm.Get("email")); validEmail(email) {
		status = "subscribed"
	}
	back, err := url.Parse(r.PostForm.Get("return"))
	if err != nil || back.Path == "" || !strings.HasPrefix(back.Path, "/") {
		back = &url.URL{Path: "/login"}
	}
	q := back.Query()
	q.Set("newsletter", status)
	back.RawQuery = q.Encode()
	http.Redirect(w, r, back.String(), http.StatusSeeOther)
}

func validEmail(s string) bool {
	local, domain, ok := strings.Cut(s, "@")
	return ok && local != "" && strings.Contains(domain, ".") && !strings.ContainsAny(s, " \t")
}

func (a *App) serveDashboard(w http.ResponseWriter, r *http.Request, user User) {
	a.render(w, r, http.StatusOK, "dashboard", pageData{
		Title:   "Dashboard",
		User:    &user,
		Active:  "Dashboard",
		Welcome: welcomeMessage(languageFromRequest(r), user.DisplayName),
		Widgets: dashboardWidgets,
	})
}

func (a *App) serveSearch(w http.ResponseWriter, r *http.Request, user User) {
	q := r.URL.Query()
	query := searchQuery{
		Term:   strings.TrimSpace(q.Get("q")),
		Filter: q.Get("filter"),
		Sort:   q.Get("sort"),
		Page:   q.Get("page"),
	}
	results := search(query)
	a.render(w, r, http.StatusOK, "search", pageData{Title: "Search", User: &user, Active: "Search", Search: &results})
}

func (a *App) serveItem(w http.ResponseWriter, r *http.Request, user User) {
	item, ok := itemByID(mux.Vars(r)["id"])
	if !ok {
		a.render(w, r, http.StatusNotFound, "simple", pageData{Title: "Not Found", User: &user, Body: "No such item."})
		return
	}
	a.render(w, r, http.StatusOK, "item", pageData{Title: item.Title, User: &user, Item: &item})
}
