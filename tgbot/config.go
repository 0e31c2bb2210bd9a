package tgbot

import (
	"os"
	"time"
)

const ENV_BOT_TOKEN = "TG_BOT_API_KEY"

type Config struct {
	Bot BotConfig
	LLM LLMConfig
}

type BotConfig struct {
	IsProd  bool
	Key     string
	Timeout time.Duration
}

type LLMConfig struct {
	Endpoint string
	Key      string
}

func DefaultConfig() Config {
	var conf Config
	conf.Bot.Timeout = 10 * time.Second
	conf.Bot.Key = GetBotTokenEnv()
	return conf
}

func GetBotTokenEnv() string {
	return os.Getenv(ENV_BOT_TOKEN)
}
