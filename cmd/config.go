package main

import (
	"fmt"
	"time"
)

type Config struct {
	ServerAddress      string        `env:"SERVER_ADDRESS,required=true" validate:"hostname_port"`
	ComponentDomain    string        `env:"COMPONENT_DOMAIN,required=true" validate:"hostname"`
	ComponentSecret    string        `env:"COMPONENT_SECRET,required=true"`
	TranslationService string        `env:"TRANSLATION_SERVICE,required=true" validate:"hostname"`
	TranslationTimeout time.Duration `env:"TRANSLATION_TIMEOUT,default=10s" validate:"gt=0"`
	RestartInterval    time.Duration `env:"RESTART_INTERVAL,default=5s" validate:"gt=0"`
	DetectLanguage     bool          `env:"DETECT_LANGUAGE,default=false"`
	ModerationEnabled  bool          `env:"MODERATION_ENABLED,default=false"`
	CharReplacement    string        `env:"CHARACTER_REPLACEMENT,default=*"`
	LogLevel           string        `env:"LOG_LEVEL,default=INFO"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
