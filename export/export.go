// Package export renders county and city lists as CSV or PDF downloads.
package export

import (
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/octabyte/zip-client/utils"
)

const (
	ContentTypeCSV = "text/csv; charset=UTF-8"
	ContentTypePDF = "application/pdf"
)

// Filename builds "<prefix>-YYYY-MM-DD-HHMMSS.<ext>".
func Filename(prefix string, at time.Time, ext string) string {
	return prefix + "-" + utils.ExportStamp(at) + "." + ext
}

// CountyPrefix is the filename prefix for a county's city export.
func CountyPrefix(countyName string) string {
	return "cities-" + slug(countyName)
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SetDownloadHeaders marks the response as an uncached attachment.
func SetDownloadHeaders(h http.Header, contentType, filename string) {
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	h.Set("Pragma", "no-cache")
	h.Set("Cache-Control", "must-revalidate, post-check=0, pre-check=0")
	h.Set("Expires", "0")
}
