package pages

import (
	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/pom"
	"github.com/pomkit/pom-test-harness/pom/wrappers"
)

// ContactDetails is the company contact block of the footer.
type ContactDetails struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type FooterComponent struct {
	pom.BaseComponent
	footer            *pom.Element
	copyright         *pom.Element
	footerLinks       *pom.Element
	newsletterEmail   *wrappers.TextBox
	newsletterButton  *wrappers.Button
	newsletterMessage *pom.Element
	companyName       *pom.Element
	companyEmail      *pom.Element
	companyPhone      *pom.Element
	companyAddress    *pom.Element
}

func NewFooterComponent(cfg pom.Config) (*FooterComponent, error) {
	c := &FooterComponent{}
	base, err := pom.NewBaseComponent(cfg, "FooterComponent", c)
	if err != nil {
		return nil, err
	}
	c.BaseComponent = base
	d, logger, wait := c.Driver(), c.Logger(), c.ExplicitWait()
	c.footer = c.Find("Footer", driver.ID("footer"))
	c.copyright = c.Find("Copyright Text", driver.ID("copyright-text"))
	c.footerLinks = c.Find("Footer Links", driver.CSS(".footer-links a.footer-link"))
	c.newsletterEmail = wrappers.NewTextBox(c.Find("Newsletter Email", driver.ID("newsletter-email")),
		d, "Newsletter Email", logger, wait)
	c.newsletterButton = wrappers.NewButton(c.Find("Newsletter Subscribe", driver.ID("newsletter-subscribe")),
		d, "Newsletter Subscribe", logger, wait)
	c.newsletterMessage = c.Find("Newsletter Message", driver.ID("newsletter-message"))
	c.companyName = c.Find("Company Name", driver.ID("company-name"))
	c.companyEmail = c.Find("Company Email", driver.ID("company-email"))
	c.companyPhone = c.Find("Company Phone", driver.ID("company-phone"))
	c.companyAddress = c.Find("Company Address", driver.ID("company-address"))
	return c, nil
}

func (c *FooterComponent) IsComponentLoaded() bool {
	return c.IsDisplayed(c.footer)
}

func (c *FooterComponent) CopyrightText() (string, error) {
	return c.GetText(c.copyright)
}

func (c *FooterComponent) FooterLinks() ([]string, error) {
	return visibleTexts(c.footerLinks)
}

// ClickFooterLink follows the footer link whose text is linkText, ignoring case.
func (c *FooterComponent) ClickFooterLink(linkText string) error {
	c.Logger().Infof(c.ComponentName(), "Clicking footer link %s", linkText)
	return clickLinkByText(c.footerLinks, linkText)
}

// SubscribeToNewsletter submits email to the newsletter form. The page reloads with a message
// saying whether the address was accepted; see NewsletterMessage.
func (c *FooterComponent) SubscribeToNewsletter(email string) error {
	if err := c.newsletterEmail.Type(email); err != nil {
		return err
	}
	return c.newsletterButton.Click()
}

func (c *FooterComponent) NewsletterMessage() (string, error) {
	return c.GetText(c.newsletterMessage)
}

func (c *FooterComponent) IsNewsletterSignupAvailable() bool {
	return c.newsletterEmail.IsDisplayed() && c.newsletterButton.IsDisplayed()
}

// ContactDetails reads the company contact block. Missing fields are left empty.
func (c *FooterComponent) ContactDetails() ContactDetails {
	return ContactDetails{
		Name:    pom.ElementTextSafely(c.companyName),
		Email:   pom.ElementTextSafely(c.companyEmail),
		Phone:   pom.ElementTextSafely(c.companyPhone),
		Address: pom.ElementTextSafely(c.companyAddress),
	}
}
