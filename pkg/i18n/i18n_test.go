package i18n

import "testing"

func TestParseAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Locale
	}{
		{"", LocaleJa},
		{"ja", LocaleJa},
		{"ja-JP,ja;q=0.9,en-US;q=0.8", LocaleJa},
		{"en-US,en;q=0.9", LocaleEn},
		{"fr-FR,fr;q=0.9", LocaleJa}, // unsupported → fallback
		{"en", LocaleEn},
	}

	for _, tt := range tests {
		got := ParseAcceptLanguage(tt.header)
		if got != tt.want {
			t.Errorf("ParseAcceptLanguage(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestBundleTranslation(t *testing.T) {
	b := NewBundle(LocaleJa)
	for locale, msgs := range DefaultMessages() {
		b.LoadMessages(locale, msgs)
	}

	if got := b.T(LocaleJa, "error.not_found"); got != "対象が見つかりません" {
		t.Errorf("ja not_found = %q", got)
	}
	if got := b.T(LocaleEn, "error.not_found"); got != "Resource not found" {
		t.Errorf("en not_found = %q", got)
	}
	if got := b.T(LocaleEn, "upload.too_many_files", 3); got != "At most 3 files can be sent at once" {
		t.Errorf("en too_many_files = %q", got)
	}

	// Unknown key returns key
	if got := b.T(LocaleEn, "unknown.key"); got != "unknown.key" {
		t.Errorf("unknown key = %q", got)
	}
}

func TestBundleFallback(t *testing.T) {
	b := NewBundle(LocaleJa)
	b.LoadMessages(LocaleJa, map[string]string{"only.ja": "日本語のみ"})

	if got := b.T(LocaleEn, "only.ja"); got != "日本語のみ" {
		t.Errorf("fallback = %q", got)
	}
}

func TestDefaultMessagesHaveSameKeys(t *testing.T) {
	msgs := DefaultMessages()
	for k := range msgs[LocaleJa] {
		if _, ok := msgs[LocaleEn][k]; !ok {
			t.Errorf("en missing key %q", k)
		}
	}
	for k := range msgs[LocaleEn] {
		if _, ok := msgs[LocaleJa][k]; !ok {
			t.Errorf("ja missing key %q", k)
		}
	}
}
