package assessor

// Export internal functions for testing
var (
	BuildUserPrompt     = buildUserPrompt
	BuildResponseSchema = buildResponseSchema
)
