package redact

import (
	"regexp"
	"strings"
)

type destructiveRule struct {
	name string
	re   *regexp.Regexp
}

var destructiveRules = []destructiveRule{
	{"rm -rf", regexp.MustCompile(`\brm\s+(-[a-zA-Z]*r[a-zA-Z]*f|-[a-zA-Z]*f[a-zA-Z]*r|--recursive\s+--force)\b`)},
	{"rm -r", regexp.MustCompile(`\brm\s+-[a-zA-Z]*r\b`)},
	{"rm -f", regexp.MustCompile(`\brm\s+-[a-zA-Z]*f\b`)},

	{"drop table", regexp.MustCompile(`(?i)\bDROP\s+(TABLE|DATABASE)\b`)},
	{"truncate", regexp.MustCompile(`(?i)\bTRUNCATE\s+(TABLE\s+)?\w`)},
	{"delete from", regexp.MustCompile(`(?i)\bDELETE\s+FROM\b`)},

	{"git push --force", regexp.MustCompile(`\bgit\s+push\b.*\s(-f|--force|--force-with-lease)\b`)},
	{"git reset --hard", regexp.MustCompile(`\bgit\s+reset\s+--hard\b`)},
	{"git clean", regexp.MustCompile(`\bgit\s+clean\s+-[a-zA-Z]*[fd]`)},
	{"git checkout .", regexp.MustCompile(`\bgit\s+checkout\s+(--\s+)?\.(\s|$)`)},

	{"chmod 777", regexp.MustCompile(`\bchmod\s+(-R\s+)?777\b`)},
	{"chown -R", regexp.MustCompile(`\bchown\s+-[a-zA-Z]*R\b`)},

	{"write to device", regexp.MustCompile(`>\s*/dev/(sd[a-z]|hd[a-z]|nvme\d|vd[a-z]|xvd[a-z]|disk\d)`)},
	{"dd to device", regexp.MustCompile(`\bdd\s+.*\bof=/dev/(sd|hd|nvme|vd|xvd|disk)`)},
	{"mkfs", regexp.MustCompile(`\bmkfs(\.\w+)?\b`)},

	{"shutdown", regexp.MustCompile(`\b(shutdown|reboot|halt|poweroff)\b`)},
	{"kill -9", regexp.MustCompile(`\b(kill\s+-9|killall|pkill)\b`)},

	{"docker prune", regexp.MustCompile(`\bdocker\s+(system|volume|image)\s+prune\b`)},
	{"docker rm -f", regexp.MustCompile(`\bdocker\s+(container\s+)?rm\s+-[a-zA-Z]*f\b`)},
	{"kubectl delete", regexp.MustCompile(`\bkubectl\s+delete\b`)},
}

// Destructive reports whether command matches a known destructive pattern
// and returns the name of the first one that matched.
func Destructive(command string) (string, bool) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", false
	}
	for _, r := range destructiveRules {
		if r.re.MatchString(command) {
			return r.name, true
		}
	}
	return "", false
}

// DestructiveNames lists the names Destructive can return.
func DestructiveNames() []string {
	names := make([]string, len(destructiveRules))
	for i, r := range destructiveRules {
		names[i] = r.name
	}
	return names
}
