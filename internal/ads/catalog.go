// Package ads holds the rewarded-ad inventory and the optional object
// store the creative assets are served from.
package ads

import (
	"context"
	"log"
	"math/rand"
	"strings"
)

type CreativeType string

const (
	CreativeVideo CreativeType = "video"
	CreativeImage CreativeType = "image"
)

// Creative is one ad variant the gate can show. Src is a static asset path
// unless an object store resolves it to a presigned URL.
type Creative struct {
	Type CreativeType `json:"type"`
	Src  string       `json:"src"`
	Link string       `json:"link"`
	Name string       `json:"name"`
}

// DefaultCreatives is the shipped inventory: two videos and one image.
func DefaultCreatives() []Creative {
	return []Creative{
		{Type: CreativeVideo, Src: "/ads/melon.mp4", Link: "https://short.millie.co.kr/naxfpy", Name: "melon_video"},
		{Type: CreativeImage, Src: "/ads/melon2.jpg", Link: "https://short.millie.co.kr/naxfpy", Name: "melon_image"},
		{Type: CreativeVideo, Src: "/ads/gag.mp4", Link: "https://short.millie.co.kr/jixd6r", Name: "gag_video"},
	}
}

// Catalog serves the creative set. With an object store attached, asset
// paths are replaced by presigned URLs; without one the static paths pass
// through unchanged.
type Catalog struct {
	creatives []Creative
	objects   *ObjectStore // nil when no bucket is configured
}

func NewCatalog(creatives []Creative, objects *ObjectStore) *Catalog {
	return &Catalog{creatives: creatives, objects: objects}
}

// Pick selects one creative pseudo-randomly.
func (c *Catalog) Pick(rng *rand.Rand) Creative {
	return c.creatives[rng.Intn(len(c.creatives))]
}

// Creatives returns the inventory with asset URLs resolved. A presign
// failure falls back to the static path for that creative.
func (c *Catalog) Creatives(ctx context.Context) []Creative {
	out := make([]Creative, len(c.creatives))
	copy(out, c.creatives)
	if c.objects == nil {
		return out
	}
	for i, creative := range out {
		url, err := c.objects.PresignURL(ctx, objectKey(creative.Src))
		if err != nil {
			log.Printf("ads: presign %s: %v", creative.Name, err)
			continue
		}
		out[i].Src = url
	}
	return out
}

func objectKey(src string) string {
	return strings.TrimPrefix(src, "/")
}
