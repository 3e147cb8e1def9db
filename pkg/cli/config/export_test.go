package config

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location, model string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
		model:     model,
	}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(oauthToken, channelID string) *Slack {
	return &Slack{
		oauthToken: oauthToken,
		channelID:  channelID,
	}
}

// NewAuthForTest creates an Auth config for testing purposes
func NewAuthForTest(tokenSecret, noAuthSubject string) *Auth {
	return &Auth{
		tokenSecret:   tokenSecret,
		noAuthSubject: noAuthSubject,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, databaseID string) *Repository {
	return &Repository{
		backend:    backend,
		projectID:  projectID,
		databaseID: databaseID,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
