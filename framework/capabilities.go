package framework

// Capabilities is a list of optional browser features that a driver reports as supported. Tests
// can skip themselves with webtest.T.RequireCapability when the active driver lacks one.
type Capabilities []string

const (
	// CapabilityScreenshots means the driver can produce PNG screenshots of the viewport.
	CapabilityScreenshots = "screenshots"

	// CapabilityScripting means the driver can run the page-object helper scripts.
	CapabilityScripting = "scripting"

	// CapabilityKeyboard means the driver supports low-level key down/up actions.
	CapabilityKeyboard = "keyboard"

	// CapabilityHeadless means the browser can run without a visible window.
	CapabilityHeadless = "headless"

	// CapabilityWindowManagement means the window can be maximised or resized.
	CapabilityWindowManagement = "window-management"
)

// Has returns true if the specified capability appears in the list.
func (cs Capabilities) Has(name string) bool {
	for _, c := range cs {
		if c == name {
			return true
		}
	}
	return false
}
