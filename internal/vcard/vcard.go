// Package vcard 负责把联系人转换为 vCard 3.0 文本，并生成下载文件名。
//
// 可选字段的清洗是"尽力而为"的：非法的邮箱、电话、网址会被直接丢弃，
// 只有姓名为空才会返回错误。
package vcard

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"qrcontact-platform/internal/apperr"

	"github.com/gosimple/slug"
)

const (
	// Version vCard 版本
	Version = "3.0"
	// LineBreak 输出统一使用的换行符
	LineBreak = "\n"
	// Extension 下载文件扩展名
	Extension = ".vcf"
	// FallbackFilename 名字无法生成 slug 时使用
	FallbackFilename = "contact" + Extension

	minPhoneDigits = 7
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	schemePattern = regexp.MustCompile(`(?i)^https?://`)
	// slug 之前直接删除的标点，避免被替换成连字符
	slugStripper = strings.NewReplacer(
		"*", "", "+", "", "~", "", ".", "", "(", "", ")", "",
		"'", "", `"`, "", "!", "", ":", "", "@", "",
	)
)

// Contact 联系人信息，空字符串表示字段不存在
type Contact struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Title   string `json:"title,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

// Normalize 去掉所有字段首尾空白
func (c Contact) Normalize() Contact {
	return Contact{
		Name:    strings.TrimSpace(c.Name),
		Company: strings.TrimSpace(c.Company),
		Title:   strings.TrimSpace(c.Title),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Website: strings.TrimSpace(c.Website),
	}
}

// Format 生成 vCard 文本。姓名为空时返回校验错误。
func Format(c Contact) (string, error) {
	c = c.Normalize()
	if c.Name == "" {
		return "", apperr.Validation("name", "Name is required")
	}

	given, family := splitName(c.Name)
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:" + Version,
		"FN:" + c.Name,
		"N:" + family + ";" + given + ";;;",
	}

	if c.Company != "" {
		lines = append(lines, "ORG:"+c.Company)
	}
	if c.Title != "" {
		lines = append(lines, "TITLE:"+c.Title)
	}
	if email := cleanEmail(c.Email); email != "" {
		lines = append(lines, "EMAIL:"+email)
	}
	if phone := cleanPhone(c.Phone); phone != "" {
		lines = append(lines, "TEL:"+phone)
	}
	if website := cleanWebsite(c.Website); website != "" {
		lines = append(lines, "URL:"+website)
	}
	lines = append(lines, "END:VCARD")

	return strings.Join(lines, LineBreak), nil
}

// Filename 根据姓名生成下载文件名，例如 "John Doe" -> "john-doe.vcf"
func Filename(name string) string {
	s := slug.Make(slugStripper.Replace(strings.TrimSpace(name)))
	if s == "" {
		return FallbackFilename
	}
	return s + Extension
}

// Parse 按行前缀提取字段。清洗过的邮箱和电话无法还原为原始输入。
func Parse(text string) Contact {
	var c Contact
	for _, line := range strings.Split(text, LineBreak) {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "FN:"):
			c.Name = strings.TrimPrefix(line, "FN:")
		case strings.HasPrefix(line, "ORG:"):
			c.Company = strings.TrimPrefix(line, "ORG:")
		case strings.HasPrefix(line, "TITLE:"):
			c.Title = strings.TrimPrefix(line, "TITLE:")
		case strings.HasPrefix(line, "EMAIL:"):
			c.Email = strings.TrimPrefix(line, "EMAIL:")
		case strings.HasPrefix(line, "TEL:"):
			c.Phone = strings.TrimPrefix(line, "TEL:")
		case strings.HasPrefix(line, "URL:"):
			c.Website = strings.TrimPrefix(line, "URL:")
		}
	}
	return c
}

// splitName 按第一段空白拆分，没有空白时姓为空
func splitName(name string) (given, family string) {
	idx := strings.IndexFunc(name, unicode.IsSpace)
	if idx < 0 {
		return name, ""
	}
	return name[:idx], strings.TrimLeftFunc(name[idx:], unicode.IsSpace)
}

func cleanEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !emailPattern.MatchString(email) {
		return ""
	}
	return email
}

func cleanPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var digits strings.Builder
	leadingPlus := false
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '+' && digits.Len() == 0:
			leadingPlus = true
		}
	}
	if digits.Len() < minPhoneDigits {
		return ""
	}
	if leadingPlus {
		return "+" + digits.String()
	}
	return digits.String()
}

func cleanWebsite(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if !schemePattern.MatchString(website) {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil || u.Host == "" {
		return ""
	}
	return website
}
