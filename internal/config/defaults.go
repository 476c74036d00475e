package config

const (
	defaultDataDir              = "~/.local/share/interviewer"
	defaultLogDir               = "~/.local/share/interviewer/logs"
	defaultAPIBind              = "127.0.0.1:7483"
	defaultBucket               = "interviewer"
	defaultLocalDir             = "~/.local/share/interviewer/objects"
	defaultLLMBaseURL           = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	defaultLLMModel             = "qwen-turbo"
	defaultLLMTimeoutSeconds    = 60
	defaultQuestionsPerCategory = 3
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

var defaultCategories = []string{"fundamentals", "project", "scenario"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Storage: Storage{
			Bucket:   defaultBucket,
			Secure:   true,
			LocalDir: defaultLocalDir,
		},
		LLM: LLM{
			BaseURL:              defaultLLMBaseURL,
			Model:                defaultLLMModel,
			TimeoutSeconds:       defaultLLMTimeoutSeconds,
			Categories:           append([]string{}, defaultCategories...),
			QuestionsPerCategory: defaultQuestionsPerCategory,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Rounds:         true,
			Sessions:       true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
