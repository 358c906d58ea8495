// Package image fetches a remote image and decodes it into an in-memory
// raster. It also prepares decoded images for upload to captioning models.
package image
