package prefs

// Known preference names.
const (
	KeyAudio      = "exhibit-audio-enabled"
	KeyAnimations = "exhibit-animations-enabled"
	KeyCollapsed  = "exhibit-description-collapsed"
)

// DefaultTTLDays is how long a preference cookie lives unless told otherwise.
const DefaultTTLDays = 365

// Keys returns the known preference names in a stable order.
func Keys() []string {
	return []string{KeyAudio, KeyAnimations, KeyCollapsed}
}

// ValidName reports whether name can be used as a cookie name (an RFC 6265
// token). Jars silently drop cookies with invalid names.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isTokenChar(name[i]) {
			return false
		}
	}
	return true
}

func isTokenChar(c byte) bool {
	if c <= ' ' || c >= 0x7f {
		return false
	}
	switch c {
	case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=', '{', '}':
		return false
	}
	return true
}
