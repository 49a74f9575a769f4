package pages

import (
	"fmt"
	"strings"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/pom"
	"github.com/pomkit/pom-test-harness/pom/wrappers"
)

// EnhancedLoginPage is the login screen modelled with typed wrappers, together with the header and
// footer that surround it.
type EnhancedLoginPage struct {
	pom.BasePage
	Header *HeaderComponent
	Footer *FooterComponent

	username         *wrappers.TextBox
	password         *wrappers.TextBox
	loginButton      *wrappers.Button
	rememberMe       *wrappers.Button
	togglePassword   *wrappers.Button
	languageSelector *wrappers.Dropdown
	errorMessage     *pom.Element
	loginTitle       *pom.Element
}

func NewEnhancedLoginPage(cfg pom.Config) (*EnhancedLoginPage, error) {
	base, err := pom.NewBasePage(cfg, "EnhancedLoginPage")
	if err != nil {
		return nil, err
	}
	p := &EnhancedLoginPage{BasePage: base}
	if p.Header, err = NewHeaderComponent(cfg); err != nil {
		return nil, err
	}
	if p.Footer, err = NewFooterComponent(cfg); err != nil {
		return nil, err
	}
	d, logger, wait := p.Driver(), p.Logger(), p.ExplicitWait()
	p.username = wrappers.NewTextBox(p.Find("Username Field", driver.ID("username")), d, "Username Field", logger, wait)
	p.password = wrappers.NewTextBox(p.Find("Password Field", driver.ID("password")), d, "Password Field", logger, wait)
	p.loginButton = wrappers.NewButton(p.Find("Login Button", driver.ID("login-button")), d, "Login Button", logger, wait)
	p.rememberMe = wrappers.NewButton(p.Find("Remember Me Checkbox", driver.ID("remember-me")),
		d, "Remember Me Checkbox", logger, wait)
	p.togglePassword = wrappers.NewButton(p.Find("Password Visibility Toggle", driver.ID("toggle-password")),
		d, "Password Visibility Toggle", logger, wait)
	p.languageSelector = wrappers.NewDropdown(p.Find("Language Selector", driver.ID("language-selector")),
		d, "Language Selector", logger, wait)
	p.errorMessage = p.Find("Error Message", driver.ClassName("error-message"))
	p.loginTitle = p.Find("Login Title", driver.ClassName("login-title"))
	return p, nil
}

func (p *EnhancedLoginPage) IsLoaded() bool {
	return p.username.IsDisplayed() && p.password.IsDisplayed() && p.loginButton.IsDisplayed()
}

func (p *EnhancedLoginPage) NavigateToLoginPage() error {
	return p.NavigateTo(LoginPath)
}

func (p *EnhancedLoginPage) SelectLanguage(language string) error {
	return p.languageSelector.SelectByText(language)
}

// DeselectLanguage only has an effect on a multi-select; the language selector is single-select,
// so this leaves the selection as it was.
func (p *EnhancedLoginPage) DeselectLanguage(language string) error {
	return p.languageSelector.DeselectByText(language)
}

func (p *EnhancedLoginPage) SelectedLanguage() (string, error) {
	return p.languageSelector.SelectedText()
}

func (p *EnhancedLoginPage) AvailableLanguages() ([]string, error) {
	return p.languageSelector.OptionTexts()
}

func (p *EnhancedLoginPage) EnterCredentials(username, password string) error {
	if err := p.username.Type(username); err != nil {
		return err
	}
	return p.password.Type(password)
}

func (p *EnhancedLoginPage) ClickRememberMe() error {
	return p.rememberMe.Click()
}

func (p *EnhancedLoginPage) IsRememberMeChecked() bool {
	return p.rememberMe.IsSelected()
}

func (p *EnhancedLoginPage) Login(username, password string) (*DashboardPage, error) {
	if err := p.EnterCredentials(username, password); err != nil {
		return nil, err
	}
	if err := p.loginButton.Click(); err != nil {
		return nil, err
	}
	return NewDashboardPage(p.Config())
}

// LoginWithLanguage picks the interface language before signing in.
func (p *EnhancedLoginPage) LoginWithLanguage(username, password, language string) (*DashboardPage, error) {
	if err := p.SelectLanguage(language); err != nil {
		return nil, err
	}
	return p.Login(username, password)
}

// SubmitWithEnter signs in by pressing Enter in the password field instead of clicking the button.
func (p *EnhancedLoginPage) SubmitWithEnter(username, password string) (*DashboardPage, error) {
	if err := p.EnterCredentials(username, password); err != nil {
		return nil, err
	}
	if err := p.password.PressEnter(); err != nil {
		return nil, err
	}
	return NewDashboardPage(p.Config())
}

// TogglePasswordVisibility switches the password field between masked and plain text.
func (p *EnhancedLoginPage) TogglePasswordVisibility() error {
	return p.togglePassword.Click()
}

func (p *EnhancedLoginPage) IsPasswordVisible() bool {
	typ, err := p.password.InputType()
	return err == nil && typ == "text"
}

func (p *EnhancedLoginPage) IsErrorMessageDisplayed() bool {
	return p.IsDisplayed(p.errorMessage)
}

func (p *EnhancedLoginPage) ErrorMessage() (string, error) {
	return p.GetText(p.errorMessage)
}

func (p *EnhancedLoginPage) UsernameMaxLength() (int, error) {
	return p.username.MaxLength()
}

// VerifyLoginFormElements checks that every control of the form is displayed and usable, and
// reports all the ones that are not.
func (p *EnhancedLoginPage) VerifyLoginFormElements() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{p.loginTitle.Name(), p.IsDisplayed(p.loginTitle)},
		{p.username.Name(), p.username.IsDisplayed() && p.username.IsEnabled()},
		{p.password.Name(), p.password.IsDisplayed() && p.password.IsEnabled()},
		{p.loginButton.Name(), p.loginButton.IsDisplayed() && p.loginButton.IsEnabled()},
		{p.rememberMe.Name(), p.rememberMe.IsDisplayed()},
		{p.languageSelector.Name(), p.languageSelector.IsDisplayed() && p.languageSelector.OptionsCount() > 0},
	}
	var missing []string
	for _, c := range checks {
		if !c.ok {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s has unusable form elements: %s", p.PageName(), strings.Join(missing, ", "))
	}
	if typ, err := p.password.InputType(); err != nil || typ != "password" {
		return fmt.Errorf("%s is not masked", p.password.Name())
	}
	p.Logger().Infof(p.PageName(), "All login form elements are present")
	return nil
}
