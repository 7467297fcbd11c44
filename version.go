package escrowd

// Release is the semantic version of this build. Builds from an untagged
// tree carry the "-dev" suffix.
const Release = "v0.1.0-dev"

// GitCommit is set at link time with
//   -ldflags "-X github.com/iov-one/escrowd.GitCommit=<sha>"
var GitCommit = ""

// Version returns the release, followed by the commit when known.
func Version() string {
	if GitCommit == "" {
		return Release
	}
	return Release + " " + GitCommit
}
