package parser

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"

	"resume-refine-go/internal/types"
)

// 联系方式相关的模式
// 均为RE2可编译的线性时间模式
var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	websitePattern  = regexp.MustCompile(`(?i)\bhttps?://[^\s|,;]+`)
	locationPattern = regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)*,\s*[A-Z]{2})\b`)
	digitPattern    = regexp.MustCompile(`\d`)
)

// 姓名候选行的约束
const (
	maxNameLineLength = 50
	nameScanLines     = 5
	minNameWords      = 2
)

var emailValidator = validator.New()

// ExtractContact 从文本头部提取联系方式
// 只搜索前maxWindow个rune：联系方式总在文档顶部，限定窗口既控制最坏耗时，
// 也避免把正文深处（如推荐人的电话）误认为候选人信息。
// 任何字段提取失败都只是缺失，绝不报错。
func ExtractContact(text string, maxWindow int) types.ContactInfo {
	search := headWindow(text, maxWindow)

	contact := types.ContactInfo{}

	// 邮箱：先宽松匹配，再严格校验；校验不过的宁缺毋滥
	if m := emailPattern.FindString(search); m != "" {
		if err := emailValidator.Var(m, "required,email"); err == nil {
			contact.Email = m
		}
	}

	// 电话：宽松匹配后归一化为规范分组形式
	if m := phonePattern.FindString(search); m != "" {
		contact.Phone = normalizePhone(m)
	}

	if m := linkedinPattern.FindString(search); m != "" {
		url := m
		if !strings.HasPrefix(strings.ToLower(url), "http") {
			url = "https://" + url
		}
		contact.LinkedIn = url
	}

	// 个人网站：排除linkedin本身
	for _, m := range websitePattern.FindAllString(search, 4) {
		if strings.Contains(strings.ToLower(m), "linkedin.com") {
			continue
		}
		contact.Website = strings.TrimRight(m, ".,)")
		break
	}

	if m := locationPattern.FindString(search); m != "" {
		contact.Location = m
	}

	contact.Name = extractName(search)

	return contact
}

// extractName 姓名启发式：前5个非空行中，第一个满足
// 词数≥2、总长<50、不含数字、不含@ 的行。
// 这是公认的尽力而为策略：装饰性页眉或先于姓名出现的标语行可能被误判，
// 没有学习式分类器无法可靠区分"姓名行"与"标语行"。
func extractName(search string) string {
	var checked int
	for _, line := range strings.Split(search, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		checked++
		if checked > nameScanLines {
			break
		}
		if len(line) >= maxNameLineLength {
			continue
		}
		if strings.Contains(line, "@") {
			continue
		}
		if digitPattern.MatchString(line) {
			continue
		}
		if len(strings.Fields(line)) < minNameWords {
			continue
		}
		return line
	}
	return ""
}

// normalizePhone 电话号码归一化
// 能被libphonenumber解析的按所在地区的标准分组格式化，
// 解析失败时退化为只保留数字和前导加号
func normalizePhone(raw string) string {
	num, err := phonenumbers.Parse(raw, "US")
	if err == nil && phonenumbers.IsPossibleNumber(num) {
		return phonenumbers.Format(num, phonenumbers.NATIONAL)
	}

	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// headWindow 取文本前maxRunes个rune，不截断多字节字符
func headWindow(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return text
	}
	count := 0
	for i := range text {
		if count == maxRunes {
			return text[:i]
		}
		count++
	}
	return text
}
