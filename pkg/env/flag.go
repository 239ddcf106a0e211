package env

import "strings"

// Flag is a boolean that is only set by the literal "true",
// case-insensitive. Values such as "1" or "yes" leave it unset.
type Flag bool

// Decode implements envconfig.Decoder.
func (f *Flag) Decode(value string) error {
	*f = Flag(strings.ToLower(strings.TrimSpace(value)) == "true")
	return nil
}

// Enabled reports whether the flag is set.
func (f Flag) Enabled() bool {
	return bool(f)
}
