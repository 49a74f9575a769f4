// Package pages holds the page objects and components for the application under test: the login
// screen, the dashboard, search, and the header, footer and navigation shared between them.
//
// Page methods that cause navigation return the page object for the screen that follows. They do
// not wait for that screen to load; callers assert it with IsLoaded or pom.WaitUntilLoaded.
package pages

import (
	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/pom"
)

const LoginPath = "/login"

type LoginPage struct {
	pom.BasePage
	usernameField *pom.Element
	passwordField *pom.Element
	loginButton   *pom.Element
	rememberMe    *pom.Element
	errorMessage  *pom.Element
	loginTitle    *pom.Element
}

func NewLoginPage(cfg pom.Config) (*LoginPage, error) {
	base, err := pom.NewBasePage(cfg, "LoginPage")
	if err != nil {
		return nil, err
	}
	p := &LoginPage{BasePage: base}
	p.usernameField = p.Find("Username Field", driver.ID("username"))
	p.passwordField = p.Find("Password Field", driver.ID("password"))
	p.loginButton = p.Find("Login Button", driver.ID("login-button"))
	p.rememberMe = p.Find("Remember Me Checkbox", driver.ID("remember-me"))
	p.errorMessage = p.Find("Error Message", driver.ClassName("error-message"))
	p.loginTitle = p.Find("Login Title", driver.ClassName("login-title"))
	return p, nil
}

func (p *LoginPage) IsLoaded() bool {
	return p.IsDisplayed(p.usernameField) && p.IsDisplayed(p.passwordField) && p.IsDisplayed(p.loginButton)
}

func (p *LoginPage) NavigateToLoginPage() error {
	return p.NavigateTo(LoginPath)
}

func (p *LoginPage) EnterUsername(username string) error {
	p.Logger().Infof(p.PageName(), "Entering username: %s", username)
	return p.Type(p.usernameField, username)
}

func (p *LoginPage) EnterPassword(password string) error {
	p.Logger().Infof(p.PageName(), "Entering password")
	return p.Type(p.passwordField, password)
}

func (p *LoginPage) ClickRememberMe() error {
	return p.Click(p.rememberMe)
}

// ClickLoginButton submits the form. The returned dashboard is only loaded if the credentials
// were accepted.
func (p *LoginPage) ClickLoginButton() (*DashboardPage, error) {
	if err := p.Click(p.loginButton); err != nil {
		return nil, err
	}
	return NewDashboardPage(p.Config())
}

func (p *LoginPage) Login(username, password string) (*DashboardPage, error) {
	p.Logger().Infof(p.PageName(), "Logging in as %s", username)
	if err := p.EnterUsername(username); err != nil {
		return nil, err
	}
	if err := p.EnterPassword(password); err != nil {
		return nil, err
	}
	return p.ClickLoginButton()
}

// LoginExpectingFailure submits credentials that should be rejected and returns the login page
// that is shown again with an error.
func (p *LoginPage) LoginExpectingFailure(username, password string) (*LoginPage, error) {
	if _, err := p.Login(username, password); err != nil {
		return nil, err
	}
	return NewLoginPage(p.Config())
}

func (p *LoginPage) IsErrorMessageDisplayed() bool {
	return p.IsDisplayed(p.errorMessage)
}

func (p *LoginPage) ErrorMessage() (string, error) {
	return p.GetText(p.errorMessage)
}

func (p *LoginPage) LoginTitle() (string, error) {
	return p.GetText(p.loginTitle)
}
