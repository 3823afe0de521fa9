package pkginfo

// Confidence says how an Identity was obtained.
type Confidence int

const (
	// Confident identities come from a manifest or from the specifier itself.
	Confident Confidence = iota
	// Guessed identities were derived from an archive file name after the
	// archive could not be read.
	Guessed
)

// String returns a human-readable name for the confidence.
func (c Confidence) String() string {
	if c == Guessed {
		return "guessed"
	}
	return "confident"
}

// Identity is the installed name of a package.
type Identity struct {
	Name string
	// Version is empty when the specifier does not pin one.
	Version    string
	Confidence Confidence
	// Cause is why extraction fell back to a guess.
	Cause error
}

// IsGuess reports whether the name is a best-effort guess.
func (id Identity) IsGuess() bool {
	return id.Confidence == Guessed
}
