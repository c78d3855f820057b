package domain

// Scope sets requested per endpoint. The narrower sets are what the triage and
// label endpoints fall back to when the client omits scopes.
// ScopeFullMail is required for IMAP and SMTP access
const ScopeFullMail = "https://mail.google.com/"

var (
	ScopesAll = []string{
		"https://www.googleapis.com/auth/gmail.readonly",
		"https://www.googleapis.com/auth/gmail.modify",
		"https://www.googleapis.com/auth/gmail.labels",
		"https://www.googleapis.com/auth/gmail.send",
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
		"openid",
	}

	ScopesReadModify = []string{
		"https://www.googleapis.com/auth/gmail.readonly",
		"https://www.googleapis.com/auth/gmail.modify",
	}

	ScopesReadOnly = []string{
		"https://www.googleapis.com/auth/gmail.readonly",
	}
)
