package main

import "time"

type Config struct {
	Host              string        `env:"HOST,default=localhost"`
	Port              int           `env:"PORT,default=8080"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,default=info"`
	SessionSecret     string        `env:"SESSION_SECRET,required=true"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES"`
	MaxContentLength  int           `env:"MAX_CONTENT_LENGTH,default=500"`
	JoinCodeAttempts  int           `env:"JOIN_CODE_ATTEMPTS,default=10"`
	CensoredWordsPath string        `env:"CENSORED_WORDS_PATH"`
	CensoredChar      string        `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`
	DebugPort         *int          `env:"DEBUG_PORT"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
}
