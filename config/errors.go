package config

import "fmt"

// ConfigError is returned for a missing or malformed configuration file, a missing required key,
// or a value that cannot be parsed as its expected type. It is terminal for the process.
type ConfigError struct {
	// Path is the configuration file, when the error concerns the file as a whole.
	Path string
	// Key is the configuration key, when the error concerns one value.
	Key string
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	var where string
	switch {
	case e.Key != "":
		where = fmt.Sprintf("configuration key %q", e.Key)
	case e.Path != "":
		where = fmt.Sprintf("configuration file %q", e.Path)
	default:
		where = "configuration"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", where, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", where, e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }
