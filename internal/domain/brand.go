package domain

import (
	"time"
)

// Source type constants.
const (
	SourceTypeURL      = "url"
	SourceTypePDF      = "pdf"
	SourceTypeDocument = "document"
)

// Asset type constants.
const (
	AssetTypeLogo   = "logo"
	AssetTypeIcon   = "icon"
	AssetTypeImage  = "image"
	AssetTypeFont   = "font"
	AssetTypePDF    = "pdf"
	AssetTypeSwatch = "swatch"
	AssetTypeOther  = "other"
)

// MaxDocumentSize is the maximum allowed upload size in bytes (32 MB).
const MaxDocumentSize int64 = 32 * 1024 * 1024

// Allowed content types for document uploads.
var AllowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"text/plain":      true,
	"text/markdown":   true,
	"text/html":       true,
}

// Brand is the aggregation root owning all sources and assets. The merged
// BrandKnowledge is never stored; it is recomputed from the brand's sources.
type Brand struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BrandSource is one ingestion event. Content holds the partial
// BrandKnowledge fragment extracted from this source. Immutable once stored
// except for deletion.
type BrandSource struct {
	ID        string          `json:"id"`
	BrandID   string          `json:"brand_id"`
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Content   *BrandKnowledge `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}

// BrandAsset is one discovered and stored binary.
type BrandAsset struct {
	ID            string    `json:"id"`
	BrandID       string    `json:"brand_id"`
	SourceID      string    `json:"source_id,omitempty"`
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	OriginalURL   string    `json:"original_url"`
	StoragePath   string    `json:"storage_path"`
	PublicURL     string    `json:"public_url"`
	MimeType      string    `json:"mime_type"`
	FileExtension string    `json:"file_extension"`
	SizeBytes     int64     `json:"size_bytes"`
	Score         int       `json:"score"`
	CreatedAt     time.Time `json:"created_at"`
}

// ValidSourceTypes returns the set of valid source types.
func ValidSourceTypes() []string {
	return []string{SourceTypeURL, SourceTypePDF, SourceTypeDocument}
}

// IsValidSourceType checks whether the given source type is valid.
func IsValidSourceType(sourceType string) bool {
	for _, t := range ValidSourceTypes() {
		if t == sourceType {
			return true
		}
	}
	return false
}

// ValidAssetTypes returns the set of valid asset types.
func ValidAssetTypes() []string {
	return []string{
		AssetTypeLogo, AssetTypeIcon, AssetTypeImage, AssetTypeFont,
		AssetTypePDF, AssetTypeSwatch, AssetTypeOther,
	}
}

// IsAllowedDocumentType checks whether the given content type may be uploaded.
func IsAllowedDocumentType(contentType string) bool {
	return AllowedDocumentTypes[contentType]
}
