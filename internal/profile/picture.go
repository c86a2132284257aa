package profile

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/courtminton/courtminton-web/internal/pkg/apperror"
)

// ErrNotAnImage rejects uploads whose content is not an image. The check is
// content-based (sniffed), never extension-based, and runs before any network
// call.
var ErrNotAnImage = apperror.New(http.StatusBadRequest, "please upload an image file")

// Pictures larger than this on either side are scaled down before upload.
const maxPictureSize = 1000

// normalizePicture validates that content is a decodable image and re-encodes
// it as a bounded JPEG ready for upload.
func normalizePicture(content []byte) ([]byte, error) {
	if !strings.HasPrefix(http.DetectContentType(content), "image/") {
		return nil, ErrNotAnImage
	}

	img, err := imaging.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, apperror.Wrap(err, http.StatusBadRequest, "please upload an image file")
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxPictureSize || bounds.Dy() > maxPictureSize {
		img = imaging.Fit(img, maxPictureSize, maxPictureSize, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, apperror.Wrap(err, http.StatusInternalServerError, "failed to process the image")
	}
	return buf.Bytes(), nil
}

// previewURI builds the local data URI shown while the upload is in flight.
func previewURI(jpegContent []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegContent)
}
