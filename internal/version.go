package internal

// Version is the imgspeak release version.
const Version = "0.3.0"
