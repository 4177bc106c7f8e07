package vcard

import (
	"strings"
	"testing"

	"qrcontact-platform/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_FullContact(t *testing.T) {
	text, err := Format(Contact{
		Name:    "  John Doe  ",
		Company: "Acme Corp",
		Title:   "Engineer",
		Email:   "John.Doe@Example.COM",
		Phone:   "+1 (555) 123-4567",
		Website: "example.com",
	})
	require.NoError(t, err)

	want := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:John Doe",
		"N:Doe;John;;;",
		"ORG:Acme Corp",
		"TITLE:Engineer",
		"EMAIL:john.doe@example.com",
		"TEL:+15551234567",
		"URL:https://example.com",
		"END:VCARD",
	}, LineBreak)
	assert.Equal(t, want, text)
}

func TestFormat_NameOnly(t *testing.T) {
	text, err := Format(Contact{Name: "Cher"})
	require.NoError(t, err)

	lines := strings.Split(text, LineBreak)
	assert.Equal(t, []string{"BEGIN:VCARD", "VERSION:3.0", "FN:Cher", "N:;Cher;;;", "END:VCARD"}, lines)
}

func TestFormat_FamilyNameKeepsRemainder(t *testing.T) {
	text, err := Format(Contact{Name: "Juan   Carlos de la Cruz"})
	require.NoError(t, err)
	assert.Contains(t, text, "N:Carlos de la Cruz;Juan;;;")
	assert.Equal(t, 1, strings.Count(text, "FN:"))
}

func TestFormat_EmptyNameFails(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := Format(Contact{Name: name, Email: "a@b.co"})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "name %q", name)
	}
}

func TestFormat_DropsInvalidOptionalFields(t *testing.T) {
	text, err := Format(Contact{
		Name:    "Jane Roe",
		Email:   "not-an-email",
		Phone:   "123-456",
		Website: "not a url ::",
	})
	require.NoError(t, err)

	assert.NotContains(t, text, "EMAIL:")
	assert.NotContains(t, text, "TEL:")
	assert.NotContains(t, text, "URL:")
	assert.True(t, strings.HasPrefix(text, "BEGIN:VCARD"))
	assert.True(t, strings.HasSuffix(text, "END:VCARD"))
}

func TestCleanPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+1 (555) 123-4567", "+15551234567"},
		{"(555) 123-4567", "5551234567"},
		{"555.1234", "5551234"},
		{"123456", ""},
		{"+12 345", ""},
		{"", ""},
		{"tel: +44 20 7946 0958", "+442079460958"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanPhone(tt.in), "input %q", tt.in)
	}
}

func TestCleanWebsite(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"http://example.com/path", "http://example.com/path"},
		{"HTTPS://Example.com", "HTTPS://Example.com"},
		{"not a url ::", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanWebsite(tt.in), "input %q", tt.in)
	}
}

func TestCleanEmail(t *testing.T) {
	assert.Equal(t, "a@b.co", cleanEmail("  A@B.CO "))
	assert.Equal(t, "", cleanEmail("a@b"))
	assert.Equal(t, "", cleanEmail("a b@c.de"))
}

func TestFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John Doe", "john-doe.vcf"},
		{"  Mary-Jane O'Neil ", "mary-jane-oneil.vcf"},
		{"J.R. Smith", "jr-smith.vcf"},
		{"", "contact.vcf"},
		{"   ", "contact.vcf"},
		{"!!!", "contact.vcf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename(tt.in), "input %q", tt.in)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	text, err := Format(Contact{
		Name:    "John Doe",
		Company: "Acme",
		Email:   "JOHN@EXAMPLE.COM",
		Phone:   "555 123 4567",
	})
	require.NoError(t, err)

	got := Parse(text)
	assert.Equal(t, "John Doe", got.Name)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, "john@example.com", got.Email)
	assert.Equal(t, "5551234567", got.Phone)
	assert.Empty(t, got.Title)
	assert.Empty(t, got.Website)
}

func TestParse_ToleratesCRLF(t *testing.T) {
	got := Parse("BEGIN:VCARD\r\nFN:Ann Lee\r\nTITLE:CTO\r\nEND:VCARD")
	assert.Equal(t, "Ann Lee", got.Name)
	assert.Equal(t, "CTO", got.Title)
}
