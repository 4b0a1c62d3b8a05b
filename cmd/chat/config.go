package main

import "time"

// Config defines the client-side environment variables.
type Config struct {
	APIURL         string        `env:"CHAT_API_URL,default=http://localhost:3000"`
	LogLevel       string        `env:"LOG_LEVEL,required=true"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	ConferenceCmd  string        `env:"CONFERENCE_CMD,default=xdg-open"`
	Colours        bool          `env:"COLOURS,default=true"`
}
