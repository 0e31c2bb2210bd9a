package kompas

import "github.com/spf13/pflag"

const (
	FLAG_PROVIDER_KEY      = "p_key"
	FLAG_PROVIDER_ENDPOINT = "p_addr"
	FLAG_PROVIDER_NAME     = "p_name"
	FLAG_PROVIDER_MODEL    = "p_model"

	FLAG_SERVER_ADDRESS     = "addr"
	FLAG_SERVER_DEBUG       = "debug"
	FLAG_SERVER_CONFIG_FILE = "config"

	FLAG_OBSERVE_ENABLE   = "observe"
	FLAG_OBSERVE_EXPORTER = "observe_exporter"
	FLAG_OBSERVE_ENDPOINT = "observe_endpoint"
)

// Defined set of flags for kompas configuration use.
var FlagSet = pflag.NewFlagSet("Kompas_Flags", pflag.PanicOnError)

var flagToConfigKeyMap = map[string]string{
	FLAG_PROVIDER_KEY:      "provider.apikey",
	FLAG_PROVIDER_ENDPOINT: "provider.endpoint",
	FLAG_PROVIDER_NAME:     "provider.name",
	FLAG_PROVIDER_MODEL:    "provider.model",

	FLAG_SERVER_ADDRESS: "server.address",
	FLAG_SERVER_DEBUG:   "server.debug",

	FLAG_OBSERVE_ENABLE:   "observability.enable",
	FLAG_OBSERVE_EXPORTER: "observability.exporter",
	FLAG_OBSERVE_ENDPOINT: "observability.endpoint",
}

func init() {
	defineFlags()
}

func defineFlags() {
	// server
	FlagSet.String(FLAG_SERVER_ADDRESS, "", "server address")
	FlagSet.Bool(FLAG_SERVER_DEBUG, false, "debug log")
	FlagSet.String(FLAG_SERVER_CONFIG_FILE, "", "path to config file")

	// provider
	FlagSet.String(FLAG_PROVIDER_KEY, "", "provider's api key")
	FlagSet.String(FLAG_PROVIDER_ENDPOINT, "", "provider's endpoint")
	FlagSet.String(FLAG_PROVIDER_NAME, "", "provider's name")
	FlagSet.String(FLAG_PROVIDER_MODEL, "", "provider's model name")

	// observe
	FlagSet.Bool(FLAG_OBSERVE_ENABLE, false, "enable observability default false")
	FlagSet.String(FLAG_OBSERVE_EXPORTER, "", "telemetry exporter (stdout, otlp, prometheus)")
	FlagSet.String(FLAG_OBSERVE_ENDPOINT, "", "otlp collector endpoint")
}
