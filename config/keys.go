package config

import "time"

// DefaultPath is where Load looks for the properties file unless told otherwise, relative to the
// working directory.
const DefaultPath = "src/main/resources/config.properties"

const (
	KeyBrowser             = "browser"
	KeyBaseURL             = "base.url"
	KeyImplicitWait        = "implicit.wait"
	KeyExplicitWait        = "explicit.wait"
	KeyPageLoadTimeout     = "page.load.timeout"
	KeyHeadless            = "headless"
	KeyMaximizeWindow      = "maximize.window"
	KeyScreenshotOnFailure = "screenshot.on.failure"
	KeyEnvironment         = "environment"
	KeyRetryCount          = "retry.count"
	KeyThreadCount         = "thread.count"
	KeyWebDriverURL        = "webdriver.url"
	KeyAttachmentsDir      = "attachments.dir"
	KeyAttachmentsS3Bucket = "attachments.s3.bucket"
	KeyAttachmentsS3Region = "attachments.s3.region"
)

const (
	DefaultBrowser             = "chrome"
	DefaultImplicitWait        = 10 * time.Second
	DefaultExplicitWait        = 20 * time.Second
	DefaultPageLoadTimeout     = 30 * time.Second
	DefaultHeadless            = false
	DefaultMaximizeWindow      = true
	DefaultScreenshotOnFailure = true
	DefaultEnvironment         = "dev"
	DefaultRetryCount          = 1
	DefaultThreadCount         = 1
	DefaultAttachmentsDir      = "target/attachments"
)
