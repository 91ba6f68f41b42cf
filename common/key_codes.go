package common

// Virtual key codes consumed by the starfield host.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyD     = 68  // D key (ASCII), deselect
	KeyN     = 78  // N key (ASCII), next location
	KeyR     = 82  // R key (ASCII), reroll current location
	KeyU     = 85  // U key (ASCII), toggle uniform debug logging
	KeySpace = 32  // Spacebar (ASCII), pause rotation
	KeyEsc   = 256 // Escape key (GLFW)
	KeyTab   = 258 // Tab key (GLFW), select next object
)
