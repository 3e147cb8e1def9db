package slack

// Export internal functions for testing
var (
	BuildAssessmentBlocks = buildAssessmentBlocks
	LevelEmoji            = levelEmoji
	TruncateText          = truncateText
)
