package user

import "strings"

// Allowlist is the closed-beta gate: only listed email addresses may ever
// register or obtain a session. An empty allowlist disables the gate.
type Allowlist struct {
	emails map[string]struct{}
}

// NewAllowlist builds the gate from a comma-separated address list, as read
// from the AUTHORIZED_EMAILS environment variable.
func NewAllowlist(commaSeparated string) *Allowlist {
	emails := make(map[string]struct{})
	for _, entry := range strings.Split(commaSeparated, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			emails[entry] = struct{}{}
		}
	}
	return &Allowlist{emails: emails}
}

func (a *Allowlist) Allows(email string) bool {
	if len(a.emails) == 0 {
		return true
	}
	_, ok := a.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
