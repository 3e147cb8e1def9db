package cli

// Hooks for tests in the cli_test package
var (
	ParseDuration           = parseDuration
	ParseRepoRef            = parseRepoRef
	ProposalFromFlags       = proposalFromFlags
	ProposalFromPullRequest = proposalFromPullRequest
)
