// Package ingest turns an on-disk file into one or more bounded content parts
// safe to inject into a model context window. Text content is paginated under
// combined line and byte caps; image content is decoded, optionally downsized,
// and emitted as a base64 part with a dimension annotation.
package ingest

// Part is one atomic unit of a read result's content: text or image.
// A read always yields an ordered sequence of one or more parts. Text reads
// produce exactly [TextPart]; image reads produce [TextPart, ImagePart] where
// the text part carries the human-readable annotation.
type Part interface {
	isPart()
}

// TextPart carries plain text.
type TextPart struct {
	Text string
}

// ImagePart carries base64-encoded image data and its MIME type.
type ImagePart struct {
	Image    string
	MimeType string
}

func (TextPart) isPart()  {}
func (ImagePart) isPart() {}
