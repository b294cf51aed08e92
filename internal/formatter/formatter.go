package formatter

import (
	"fmt"
	"strings"

	"resume-refine-go/internal/types"
)

// 导出格式
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// ErrUnsupportedFormat 不支持的导出格式
type ErrUnsupportedFormat struct {
	Format string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("不支持的导出格式: %s", e.Format)
}

// DocumentFormatter 把结构化的简历内容渲染成标准化文档
// 渲染是纯函数，输入相同则输出逐字节相同
type DocumentFormatter struct{}

// NewDocumentFormatter 创建格式化器
func NewDocumentFormatter() *DocumentFormatter {
	return &DocumentFormatter{}
}

// Render 按指定格式渲染，返回内容和Content-Type
func (f *DocumentFormatter) Render(content *types.ResumeContent, format string) (string, string, error) {
	switch format {
	case FormatText, "":
		return f.RenderText(content), "text/plain; charset=utf-8", nil
	case FormatMarkdown:
		return f.RenderMarkdown(content), "text/markdown; charset=utf-8", nil
	default:
		return "", "", &ErrUnsupportedFormat{Format: format}
	}
}

// RenderText 渲染为标准化纯文本简历
func (f *DocumentFormatter) RenderText(content *types.ResumeContent) string {
	var b strings.Builder

	writeContactText(&b, content.ContactInfo)

	if content.Summary != "" {
		writeTextSection(&b, "SUMMARY")
		b.WriteString(content.Summary)
		b.WriteString("\n")
	}

	if len(content.Experience) > 0 {
		writeTextSection(&b, "EXPERIENCE")
		for i, exp := range content.Experience {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(experienceHeading(exp))
			b.WriteString("\n")
			if dates := dateRange(exp.StartDate, exp.EndDate); dates != "" {
				b.WriteString(dates)
				b.WriteString("\n")
			}
			for _, bullet := range exp.Bullets {
				b.WriteString("- ")
				b.WriteString(bullet)
				b.WriteString("\n")
			}
		}
	}

	if len(content.Education) > 0 {
		writeTextSection(&b, "EDUCATION")
		for _, edu := range content.Education {
			b.WriteString(educationHeading(edu))
			b.WriteString("\n")
			if meta := educationMeta(edu); meta != "" {
				b.WriteString(meta)
				b.WriteString("\n")
			}
		}
	}

	if skills := content.SkillsFlat(); len(skills) > 0 {
		writeTextSection(&b, "SKILLS")
		for _, group := range content.Skills {
			if len(group.Skills) == 0 {
				continue
			}
			if group.Category != "" && group.Category != "General" {
				b.WriteString(group.Category)
				b.WriteString(": ")
			}
			b.WriteString(strings.Join(group.Skills, ", "))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// RenderMarkdown 渲染为Markdown文档
func (f *DocumentFormatter) RenderMarkdown(content *types.ResumeContent) string {
	var b strings.Builder

	contact := content.ContactInfo
	if contact.Name != "" {
		fmt.Fprintf(&b, "# %s\n\n", contact.Name)
	}
	if line := contactLine(contact); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if content.Summary != "" {
		b.WriteString("\n## Summary\n\n")
		b.WriteString(content.Summary)
		b.WriteString("\n")
	}

	if len(content.Experience) > 0 {
		b.WriteString("\n## Experience\n")
		for _, exp := range content.Experience {
			fmt.Fprintf(&b, "\n### %s\n\n", experienceHeading(exp))
			if dates := dateRange(exp.StartDate, exp.EndDate); dates != "" {
				fmt.Fprintf(&b, "*%s*\n\n", dates)
			}
			for _, bullet := range exp.Bullets {
				fmt.Fprintf(&b, "- %s\n", bullet)
			}
		}
	}

	if len(content.Education) > 0 {
		b.WriteString("\n## Education\n\n")
		for _, edu := range content.Education {
			fmt.Fprintf(&b, "- **%s**", educationHeading(edu))
			if meta := educationMeta(edu); meta != "" {
				fmt.Fprintf(&b, " (%s)", meta)
			}
			b.WriteString("\n")
		}
	}

	if len(content.SkillsFlat()) > 0 {
		b.WriteString("\n## Skills\n\n")
		for _, group := range content.Skills {
			if len(group.Skills) == 0 {
				continue
			}
			if group.Category != "" && group.Category != "General" {
				fmt.Fprintf(&b, "**%s**: %s\n", group.Category, strings.Join(group.Skills, ", "))
			} else {
				fmt.Fprintf(&b, "%s\n", strings.Join(group.Skills, ", "))
			}
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeContactText(b *strings.Builder, contact types.ContactInfo) {
	if contact.Name != "" {
		b.WriteString(contact.Name)
		b.WriteString("\n")
	}
	if line := contactLine(contact); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// contactLine 联系方式汇总成一行，字段顺序固定
func contactLine(contact types.ContactInfo) string {
	parts := make([]string, 0, 5)
	for _, v := range []string{contact.Email, contact.Phone, contact.LinkedIn, contact.Website, contact.Location} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " | ")
}

func writeTextSection(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(title)))
	b.WriteString("\n")
}

func experienceHeading(exp types.ExperienceItem) string {
	switch {
	case exp.Title != "" && exp.Company != "":
		return exp.Title + " | " + exp.Company
	case exp.Title != "":
		return exp.Title
	default:
		return exp.Company
	}
}

func educationHeading(edu types.EducationItem) string {
	degree := edu.Degree
	if edu.Field != "" {
		degree += " in " + edu.Field
	}
	switch {
	case degree != "" && edu.Institution != "":
		return degree + ", " + edu.Institution
	case degree != "":
		return degree
	default:
		return edu.Institution
	}
}

func educationMeta(edu types.EducationItem) string {
	parts := make([]string, 0, 2)
	if dates := dateRange(edu.StartDate, edu.EndDate); dates != "" {
		parts = append(parts, dates)
	}
	if edu.GPA != "" {
		parts = append(parts, "GPA "+edu.GPA)
	}
	return strings.Join(parts, ", ")
}

func dateRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start + " - Present"
	case end != "":
		return end
	default:
		return ""
	}
}
