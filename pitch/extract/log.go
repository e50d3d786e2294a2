package extract

import "github.com/rs/zerolog"

var log = zerolog.Nop()

// SetLogger replaces the package logger.
func SetLogger(l zerolog.Logger) {
	log = l
}
