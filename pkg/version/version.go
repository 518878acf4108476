package version

// Version is the bookshelf build version, set with
// -ldflags "-X github.com/shishobooks/bookshelf/pkg/version.Version=1.2.3".
var Version = "dev"
