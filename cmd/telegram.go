package cmd

import (
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	tele "gopkg.in/telebot.v4"

	"github.com/kompas-ai/kompas/api"
	"github.com/kompas-ai/kompas/tgbot"
)

func init() {
	TeleCMD.Flags().Bool("prod", false, "deployment tags")
	TeleCMD.Flags().String("backend", "", "kompas server endpoint")
	TeleCMD.Flags().String("backend-key", "", "kompas server api key")
}

var TeleCMD = cobra.Command{
	Use: "bot",
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		conf := tgbot.DefaultConfig()
		conf.Bot.IsProd, _ = cmd.Flags().GetBool("prod")
		conf.LLM.Endpoint, _ = cmd.Flags().GetString("backend")
		conf.LLM.Key, _ = cmd.Flags().GetString("backend-key")

		if conf.Bot.IsProd {
			slog.Info("Deployment", "is_production", conf.Bot.IsProd)
			slog.SetLogLoggerLevel(slog.LevelError)
		} else {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}

		//bot
		setting := tele.Settings{
			Token:  conf.Bot.Key,
			Poller: &tele.LongPoller{Timeout: conf.Bot.Timeout},
		}
		bot, err := tele.NewBot(setting)
		if err != nil {
			return err
		}

		// llm backend
		ai := api.NewClient(conf.LLM.Endpoint, conf.LLM.Key)

		// cache
		cache := tgbot.NewCache()

		tgbot.Handle(ctx, bot, ai, cache)

		srvErr := make(chan error, 1)
		go func() {
			bot.Start()
			_, err := bot.Close()
			srvErr <- err
		}()

		select {
		case err = <-srvErr:
			return err
		case <-ctx.Done():
			stop()
		}

		bot.Stop()

		return nil
	},
}
