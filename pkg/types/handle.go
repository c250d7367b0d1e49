package types

import "strings"

// ExternalHost is the social platform every profile links to.
const ExternalHost = "x.com"

var handlePrefixes = []string{
	"https://www.x.com/",
	"https://x.com/",
	"http://www.x.com/",
	"http://x.com/",
	"https://www.twitter.com/",
	"https://twitter.com/",
	"http://www.twitter.com/",
	"http://twitter.com/",
	"www.x.com/",
	"x.com/",
}

// NormalizeHandle trims the handle and guarantees a single leading "@".
// Input with no account name left once cleaned ("@", a bare profile URL)
// normalizes to "" so callers can reject it.
func NormalizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	if CleanHandle(handle) == "" {
		return ""
	}
	if strings.HasPrefix(handle, "@") {
		return handle
	}
	return "@" + handle
}

// CleanHandle strips a leading "@" or a full profile URL prefix, leaving the
// bare account name.
func CleanHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	lower := strings.ToLower(handle)
	for _, prefix := range handlePrefixes {
		if strings.HasPrefix(lower, prefix) {
			handle = handle[len(prefix):]
			break
		}
	}
	handle = strings.TrimPrefix(handle, "@")
	return strings.TrimSuffix(handle, "/")
}

// ExternalProfileURL resolves a stored handle into the external profile link.
func ExternalProfileURL(handle string) string {
	return "https://" + ExternalHost + "/" + CleanHandle(handle)
}
