package model

import "strings"

// Category 活动分类（链上为闭合枚举）
type Category string

const (
	CategoryEnvironment Category = "Environment" // 环保
	CategoryEducation   Category = "Education"   // 教育
	CategoryHealthcare  Category = "Healthcare"  // 医疗
	CategoryTechnology  Category = "Technology"  // 科技
	CategoryCommunity   Category = "Community"   // 社区
	CategoryArts        Category = "Arts"        // 艺术
	CategoryUnknown     Category = "Unknown"     // 读路径兜底，不可用于创建
)

// categoryKeys 链上枚举变体顺序，序号即线上编码
var categoryKeys = []string{
	"environment",
	"education",
	"healthcare",
	"technology",
	"community",
	"arts",
}

// CategoryFromKey 按链上枚举键解码分类：首字母大写，其余不变。
// 未识别的键返回 CategoryUnknown，不报错，保证读路径不因分类阻塞渲染。
func CategoryFromKey(key string) Category {
	for _, k := range categoryKeys {
		if k == key {
			return Category(strings.ToUpper(k[:1]) + k[1:])
		}
	}
	return CategoryUnknown
}

// CategoryFromIndex 按链上枚举序号解码分类
func CategoryFromIndex(idx uint8) Category {
	if int(idx) >= len(categoryKeys) {
		return CategoryUnknown
	}
	return CategoryFromKey(categoryKeys[idx])
}

// ParseCategory 写路径严格解析：大小写不敏感，未知分类返回 false。
// 创建活动时绝不静默回退到默认分类。
func ParseCategory(s string) (Category, bool) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, k := range categoryKeys {
		if k == lower {
			return CategoryFromKey(k), true
		}
	}
	return CategoryUnknown, false
}

// Index 返回分类的链上枚举序号
func (c Category) Index() (uint8, bool) {
	lower := strings.ToLower(string(c))
	for i, k := range categoryKeys {
		if k == lower {
			return uint8(i), true
		}
	}
	return 0, false
}

// Categories 返回全部可选分类（不含 Unknown）
func Categories() []Category {
	out := make([]Category, 0, len(categoryKeys))
	for _, k := range categoryKeys {
		out = append(out, CategoryFromKey(k))
	}
	return out
}
