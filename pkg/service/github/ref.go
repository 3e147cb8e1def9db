package github

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var (
	prShortRefPattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9-]*)/([A-Za-z0-9._-]+)#([0-9]+)$`)
	prURLPattern      = regexp.MustCompile(`^https://github\.com/([A-Za-z0-9][A-Za-z0-9-]*)/([A-Za-z0-9._-]+)/pull/([0-9]+)$`)
)

// ParsePullRequestRef parses a pull request reference in either short form
// "owner/repo#123" or URL form "https://github.com/owner/repo/pull/123".
func ParsePullRequestRef(s string) (owner, repo string, number int, err error) {
	s = strings.TrimSpace(s)

	m := prShortRefPattern.FindStringSubmatch(s)
	if m == nil {
		m = prURLPattern.FindStringSubmatch(s)
	}
	if m == nil {
		return "", "", 0, goerr.New("invalid pull request reference, expected owner/repo#N or a pull request URL",
			goerr.V("ref", s))
	}

	number, err = strconv.Atoi(m[3])
	if err != nil {
		return "", "", 0, goerr.Wrap(err, "invalid pull request number", goerr.V("ref", s))
	}

	return m[1], m[2], number, nil
}
