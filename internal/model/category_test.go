package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFromKey(t *testing.T) {
	assert.Equal(t, CategoryEnvironment, CategoryFromKey("environment"))
	assert.Equal(t, CategoryArts, CategoryFromKey("arts"))
	// 未识别的键兜底为 Unknown，读路径不报错
	assert.Equal(t, CategoryUnknown, CategoryFromKey("gaming"))
	assert.Equal(t, CategoryUnknown, CategoryFromKey(""))
}

func TestCategoryFromIndex(t *testing.T) {
	assert.Equal(t, CategoryEnvironment, CategoryFromIndex(0))
	assert.Equal(t, CategoryCommunity, CategoryFromIndex(4))
	assert.Equal(t, CategoryArts, CategoryFromIndex(5))
	assert.Equal(t, CategoryUnknown, CategoryFromIndex(6))
	assert.Equal(t, CategoryUnknown, CategoryFromIndex(255))
}

func TestParseCategoryStrict(t *testing.T) {
	got, ok := ParseCategory("Technology")
	assert.True(t, ok)
	assert.Equal(t, CategoryTechnology, got)

	got, ok = ParseCategory("  healthcare ")
	assert.True(t, ok)
	assert.Equal(t, CategoryHealthcare, got)

	// 写路径严格校验，Unknown 不可构造
	_, ok = ParseCategory("unknown")
	assert.False(t, ok)
	_, ok = ParseCategory("gaming")
	assert.False(t, ok)
}

func TestCategoryIndexRoundTrip(t *testing.T) {
	for i, c := range Categories() {
		idx, ok := c.Index()
		assert.True(t, ok)
		assert.Equal(t, uint8(i), idx)
		assert.Equal(t, c, CategoryFromIndex(idx))
	}

	_, ok := CategoryUnknown.Index()
	assert.False(t, ok)
}
