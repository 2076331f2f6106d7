// Package assets cleans up externally hosted event images.
package assets

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const destroyTimeout = 30 * time.Second

// Cloudinary deletes images hosted on Cloudinary.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary configures a cleaner from a cloudinary:// URL.
func NewCloudinary(cloudinaryURL string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

// DeleteAsset destroys the image behind imageURL. URLs that are not
// Cloudinary delivery URLs are ignored.
func (c *Cloudinary) DeleteAsset(ctx context.Context, imageURL string) error {
	publicID, err := PublicID(imageURL)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, destroyTimeout)
	defer cancel()

	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	if res != nil && res.Error.Message != "" {
		return fmt.Errorf("delete error: %s", res.Error.Message)
	}
	return nil
}

// PublicID extracts the public id from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1234567890/events/abc123.jpg
// (giving "events/abc123").
func PublicID(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(u.Host, "cloudinary.com") {
		return "", fmt.Errorf("not a cloudinary url: %s", imageURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	upload := -1
	for i, p := range parts {
		if p == "upload" {
			upload = i
			break
		}
	}
	if upload < 0 || upload == len(parts)-1 {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}

	rest := parts[upload+1:]
	if len(rest) > 1 && isVersion(rest[0]) {
		rest = rest[1:]
	}
	last := rest[len(rest)-1]
	rest[len(rest)-1] = strings.TrimSuffix(last, path.Ext(last))
	return path.Join(rest...), nil
}

func isVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
