package opportunity

import "regexp"

var displayNameStrip = regexp.MustCompile("[ `~!@#$%^&*()_|+\\-=?;:'\",.<>{}\\[\\]\\\\/]")

// SanitizeDisplayName strips whitespace and punctuation so the name can be used
// as a group mail nickname and site path. "Acme & Co." becomes "AcmeCo".
func SanitizeDisplayName(name string) string {
	return displayNameStrip.ReplaceAllString(name, "")
}
