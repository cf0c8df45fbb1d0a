// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/taibuivan/comicvault/internal/platform/apperr"
)

// # File Naming

// ThumbnailName is the reserved file name of a work's thumbnail.
const ThumbnailName = "s.jpg"

var (
	pagePattern = regexp.MustCompile(`^(\d{3,})\.(jpg|png|gif)$`)

	pageExtensions = map[string]string{
		".jpg":  "jpg",
		".jpeg": "jpg",
		".png":  "png",
		".gif":  "gif",
	}

	thumbnailExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
	}
)

// Page is one file of a work's ordered sequence.
type Page struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Ext   string `json:"-"`
}

// FileName returns the storage name of the page at index: 001.jpg, 012.png.
func FileName(index int, ext string) string {
	return fmt.Sprintf("%03d.%s", index, ext)
}

// ParseName extracts the index and extension of a page file name.
// Thumbnails and temporary names do not parse.
func ParseName(name string) (Page, bool) {
	match := pagePattern.FindStringSubmatch(name)
	if match == nil {
		return Page{}, false
	}

	index, err := strconv.Atoi(match[1])
	if err != nil || index < 1 {
		return Page{}, false
	}
	return Page{Index: index, Name: name, Ext: match[2]}, true
}

// Extension returns the canonical page extension of an uploaded file name.
func Extension(upload string) (string, error) {
	ext, ok := pageExtensions[strings.ToLower(path.Ext(upload))]
	if !ok {
		return "", unsupported(upload)
	}
	return ext, nil
}

// checkThumbnail rejects thumbnails that are not jpg or png.
func checkThumbnail(upload string) error {
	if !thumbnailExtensions[strings.ToLower(path.Ext(upload))] {
		return unsupported(upload)
	}
	return nil
}

func unsupported(upload string) error {
	return apperr.ValidationError("Unsupported file type", apperr.FieldError{
		Field:   "file",
		Message: upload + " must be a jpg, png or gif image",
	})
}
