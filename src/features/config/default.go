package config

import "time"

var defaultConfig = Config{
	Logger: Logger{
		Enabled: true,
		Level:   "info",
		Format:  "text",
	},
	Monitor: Monitor{
		PollInterval: time.Second,
		WatchConfig:  true,
		Documents: []Document{
			{
				Name:   "app",
				Path:   "./data/app.yaml",
				Create: true,
			},
		},
	},
	Server: Server{
		Enabled:     true,
		PrintRoutes: false,
		Port:        3636,
	},
}

// createDefaultConfig returns a copy of the default configuration
func createDefaultConfig() *Config {
	cfg := defaultConfig
	cfg.Monitor.Documents = append([]Document(nil), defaultConfig.Monitor.Documents...)
	return &cfg
}
