package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Source Type Tests
// ============================================================================

func TestIsValidSourceType_Valid(t *testing.T) {
	for _, st := range ValidSourceTypes() {
		assert.True(t, IsValidSourceType(st), "expected %q to be valid", st)
	}
}

func TestIsValidSourceType_Invalid(t *testing.T) {
	assert.False(t, IsValidSourceType("webpage"))
	assert.False(t, IsValidSourceType(""))
	assert.False(t, IsValidSourceType("URL"))
}

// ============================================================================
// Document Upload Tests
// ============================================================================

func TestIsAllowedDocumentType(t *testing.T) {
	assert.True(t, IsAllowedDocumentType("application/pdf"))
	assert.True(t, IsAllowedDocumentType("text/plain"))
	assert.False(t, IsAllowedDocumentType("image/png"))
	assert.False(t, IsAllowedDocumentType(""))
}

func TestMaxDocumentSize_Is32MB(t *testing.T) {
	assert.Equal(t, int64(32*1024*1024), MaxDocumentSize)
}

// ============================================================================
// Color Category Tests
// ============================================================================

func TestIsValidColorCategory(t *testing.T) {
	assert.True(t, IsValidColorCategory("primary"))
	assert.True(t, IsValidColorCategory("secondary"))
	assert.True(t, IsValidColorCategory("accent"))
	assert.True(t, IsValidColorCategory("neutral"))
	assert.False(t, IsValidColorCategory("tertiary"))
	assert.False(t, IsValidColorCategory(""))
}

// ============================================================================
// Hex Normalization Tests
// ============================================================================

func TestNormalizeHex_StripsHashAndUppercases(t *testing.T) {
	assert.Equal(t, "FF5733", NormalizeHex("#ff5733"))
	assert.Equal(t, "FF5733", NormalizeHex("ff5733"))
	assert.Equal(t, "FF5733", NormalizeHex("#FF5733"))
}

func TestNormalizeHex_ExpandsShortForms(t *testing.T) {
	assert.Equal(t, "AABBCC", NormalizeHex("#abc"))
	assert.Equal(t, "AABBCC", NormalizeHex("ABC"))
	assert.Equal(t, "AABBCCDD", NormalizeHex("#abcd"))
}

func TestNormalizeHex_ShortAndLongFormsCollide(t *testing.T) {
	assert.Equal(t, NormalizeHex("#AABBCC"), NormalizeHex("#abc"))
}

func TestNormalizeHex_EightDigit(t *testing.T) {
	assert.Equal(t, "FF5733CC", NormalizeHex("#ff5733cc"))
}

func TestNormalizeHex_Invalid(t *testing.T) {
	assert.Equal(t, "", NormalizeHex(""))
	assert.Equal(t, "", NormalizeHex("#"))
	assert.Equal(t, "", NormalizeHex("red"))
	assert.Equal(t, "", NormalizeHex("#GG5733"))
	assert.Equal(t, "", NormalizeHex("#FF573"))
	assert.Equal(t, "", NormalizeHex("#FF57331"))
}

// ============================================================================
// BrandKnowledge Tests
// ============================================================================

func TestNewBrandKnowledge_AllCategoriesPresent(t *testing.T) {
	bk := NewBrandKnowledge()
	for _, c := range ColorCategories() {
		colors, ok := bk.Colors[c]
		assert.True(t, ok, "category %q missing", c)
		assert.Empty(t, colors)
	}
}
