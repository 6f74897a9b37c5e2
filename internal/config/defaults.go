package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:  "info",
			LogFormat: "text",
			Mode:      ModeServer,
			Workers:   4,
			QueueSize: 100,
		},
		Slack: SlackConfig{
			EventsPath:         "/slack/events",
			ThreadFetchLimit:   100,
			RateLimitPerMinute: 50,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		Translate: TranslateConfig{
			Provider:       "google",
			TimeoutSeconds: 30,
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			Endpoint: "/metrics",
		},
	}
}
