package feature

import "github.com/rs/zerolog"

var log = zerolog.Nop()

// SetLogger replaces the package logger. The default discards everything.
func SetLogger(l zerolog.Logger) {
	log = l
}
