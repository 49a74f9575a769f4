package helpers

// ConfigOption is implemented by functional options in the vararg options pattern.
type ConfigOption[T any] interface {
	// Configure applies the option to the target.
	Configure(*T) error
}

// ApplyOptions applies each option in order and stops at the first error.
//
// The U type parameter lets callers declare their options with their own named type while still
// satisfying ConfigOption[T].
func ApplyOptions[T any, U ConfigOption[T]](target *T, options ...U) error {
	for _, o := range options {
		if err := o.Configure(target); err != nil {
			return err
		}
	}
	return nil
}
