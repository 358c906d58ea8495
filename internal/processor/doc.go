// Package processor contains the core pipeline of imgspeak. It authenticates
// against the model hub, loads the image, captions it, translates the
// caption and synthesizes speech, stopping at the first failing stage.
// This package serves as the main coordinator between all other components.
package processor
