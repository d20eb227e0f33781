// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Smallest cover accepted, in pixels.
const (
	CoverMinWidth  = 200
	CoverMinHeight = 150
)

const (
	MsgCoverUnreadable = "The cover image could not be read."
	MsgCoverTooSmall   = "The cover must be at least 200x150 pixels."
)

// CheckCoverImage decodes the image header of an uploaded cover and checks
// its dimensions. It returns "" when the cover is acceptable.
func CheckCoverImage(data []byte) string {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return MsgCoverUnreadable
	}
	if cfg.Width < CoverMinWidth || cfg.Height < CoverMinHeight {
		return MsgCoverTooSmall
	}
	return ""
}
