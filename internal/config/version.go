package config

// Version is the Netrika binary version.
// Set at build time via: -ldflags "-X github.com/netrika/netrika/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
