package driver

// Scripts run through Driver.ExecuteScript by the page-object helpers. Element arguments are
// passed as arguments[0].
const (
	ScriptReadyState     = "return document.readyState;"
	ScriptClick          = "arguments[0].click();"
	ScriptScrollIntoView = "arguments[0].scrollIntoView({block: 'center', inline: 'nearest'});"
	ScriptHighlight      = "arguments[0].style.outline = '3px solid red';"
	ScriptFocus          = "arguments[0].focus();"
	ScriptInViewport     = "var r = arguments[0].getBoundingClientRect();" +
		" return r.top >= 0 && r.left >= 0 &&" +
		" r.bottom <= (window.innerHeight || document.documentElement.clientHeight) &&" +
		" r.right <= (window.innerWidth || document.documentElement.clientWidth);"
)
