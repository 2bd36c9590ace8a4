package version

// Version is set at build time via -ldflags "-X github.com/sagan/mapic/version.Version=...".
var Version = "dev"
