package pantry

// Version is the release version of the pantry module and CLI.
const Version = "v0.1.0"
