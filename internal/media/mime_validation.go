package media

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen covers the magic numbers of every image format mimetype knows.
const sniffLen = 3072

// sniffImage inspects the leading bytes of an upload and reports its content
// type and canonical extension. ok is false for anything that is not an image.
func sniffImage(head []byte) (contentType, ext string, ok bool) {
	mt := mimetype.Detect(head)
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			mediaType, _, _ := strings.Cut(mt.String(), ";")
			return mediaType, mt.Extension(), true
		}
	}
	return "", "", false
}
