// Package imgproc shrinks uploaded pictures before they are stored inline.
package imgproc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

var ErrNotImage = errors.New("file must be an image")

type Profile struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

var (
	IDCard  = Profile{MaxWidth: 1000, MaxHeight: 1000, Quality: 80}
	Product = Profile{MaxWidth: 800, MaxHeight: 800, Quality: 70}
)

// CompressToDataURI decodes r, scales it down to fit inside the profile box
// (never up), re-encodes it as JPEG and returns it as a data URI.
func CompressToDataURI(r io.Reader, p Profile) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	img = imaging.Fit(img, p.MaxWidth, p.MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
