package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// digitsOnly 提取字符串中的数字，电话断言只比较数字序列，
// 不依赖libphonenumber对具体号码的分组格式
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TestExtractContactStandardHeader 验证典型简历头部的各字段提取
func TestExtractContactStandardHeader(t *testing.T) {
	text := "John Doe\nSenior Backend Engineer\njohn.doe@example.com | 555-123-4567\nlinkedin.com/in/johndoe\nSan Francisco, CA"

	contact := ExtractContact(text, 10000)

	assert.Equal(t, "John Doe", contact.Name)
	assert.Equal(t, "john.doe@example.com", contact.Email)
	assert.Equal(t, "5551234567", digitsOnly(contact.Phone), "电话数字序列应完整保留")
	assert.Equal(t, "https://linkedin.com/in/johndoe", contact.LinkedIn, "无协议前缀的链接应补全https")
	assert.Equal(t, "San Francisco, CA", contact.Location)
}

// TestExtractContactInvalidEmail 正则命中但严格校验不过的邮箱应丢弃
func TestExtractContactInvalidEmail(t *testing.T) {
	// 双点域名能通过宽松正则，但不是合法邮箱
	text := "Jane Smith\njane@bad..com"

	contact := ExtractContact(text, 10000)

	assert.Empty(t, contact.Email, "校验失败的邮箱应按缺失处理")
	assert.Equal(t, "Jane Smith", contact.Name)
}

// TestExtractContactWindowLimit 搜索窗口之外的联系方式不应被提取
func TestExtractContactWindowLimit(t *testing.T) {
	// 1. 邮箱被推到窗口之外
	padding := strings.Repeat("正文填充 ", 100)
	text := padding + "\nreference@far-away.com"

	contact := ExtractContact(text, 50)

	// 2. 窗口内没有联系方式
	assert.Empty(t, contact.Email, "窗口外的邮箱不应被提取")
}

// TestExtractContactNameHeuristic 验证姓名启发式的各条约束
func TestExtractContactNameHeuristic(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"姓名在第一行", "Alice Johnson\nEngineer", "Alice Johnson"},
		{"跳过含数字的行", "2024 Resume\nAlice Johnson\nEngineer", "Alice Johnson"},
		{"跳过含邮箱的行", "alice j@example.com\nAlice Johnson", "Alice Johnson"},
		{"跳过单词行", "Resume\nAlice Johnson", "Alice Johnson"},
		{"前五个非空行都不满足时放弃", "Resume\nCV\n2024\n简历\nalice@x.com\nAlice Johnson", ""},
		{"超长行不是姓名", strings.Repeat("Word ", 15) + "\nAlice Johnson", "Alice Johnson"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			contact := ExtractContact(tc.text, 10000)
			assert.Equal(t, tc.want, contact.Name)
		})
	}
}

// TestExtractContactWebsite 个人网站提取应排除linkedin链接
func TestExtractContactWebsite(t *testing.T) {
	text := "Bob Lee\nhttps://linkedin.com/in/boblee\nhttps://boblee.dev"

	contact := ExtractContact(text, 10000)

	assert.Equal(t, "https://linkedin.com/in/boblee", contact.LinkedIn)
	assert.Equal(t, "https://boblee.dev", contact.Website, "网站字段不应吃掉linkedin链接")
}

// TestExtractContactAllMissing 没有任何联系方式时所有字段为空
func TestExtractContactAllMissing(t *testing.T) {
	contact := ExtractContact("没有联系方式的正文内容而已", 10000)
	assert.True(t, contact.IsEmpty(), "无联系方式时IsEmpty应为真")
}

// TestExtractContactPhoneFallback 无法解析的号码退化为纯数字序列
func TestExtractContactPhoneFallback(t *testing.T) {
	text := "Carol Wu\n(123) 456-7890"

	contact := ExtractContact(text, 10000)
	assert.Equal(t, "1234567890", digitsOnly(contact.Phone))
}
