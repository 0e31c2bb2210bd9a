package driver

// Config carries optional knobs a driver may honor.
type Config struct {
	// Optional, can be different for each driver.
	Endpoint    string   `yaml:"endpoint"`
	Temperature *float32 `yaml:"temperature"`
	TopP        *float32 `yaml:"top_p"`
	TopK        *float32 `yaml:"top_k"`
}
