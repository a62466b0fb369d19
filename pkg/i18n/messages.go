package i18n

// DefaultMessages returns built-in translations for all supported locales.
// These can be overridden by loading JSON files from a directory.
func DefaultMessages() map[Locale]map[string]string {
	return map[Locale]map[string]string{
		LocaleJa: jaMessages,
		LocaleEn: enMessages,
	}
}

var jaMessages = map[string]string{
	// Common errors
	"error.not_found":         "対象が見つかりません",
	"error.unauthorized":      "ログインが必要です",
	"error.forbidden":         "権限がありません",
	"error.bad_request":       "リクエストが正しくありません",
	"error.internal":          "サーバーでエラーが発生しました",
	"error.too_many_requests": "リクエストが多すぎます。しばらくしてから再度お試しください",
	"error.validation":        "入力内容に誤りがあります",
	"error.downstream":        "外部サービスとの通信に失敗しました",

	// Auth
	"auth.login_failed":  "メールアドレスまたはパスワードが正しくありません",
	"auth.token_expired": "ログインの有効期限が切れました。再度ログインしてください",
	"auth.token_invalid": "認証トークンが無効です",

	// Registration
	"registration.capacity_exceeded":   "定員に達しているため申し込みできません",
	"registration.dependency_required": "個別相談に申し込むには、先に懇親会を選択してください",
	"registration.already_registered":  "すでに申し込み済みです",
	"registration.nothing_selected":    "申し込む項目を選択してください",
	"registration.mode_not_allowed":    "このイベントでは選択した参加方法を利用できません",
	"registration.checkout_failed":     "決済ページの作成に失敗しました",

	// Uploads
	"upload.too_large":        "ファイルサイズが上限(%s)を超えています",
	"upload.unsupported_type": "対応していないファイル形式です",
	"upload.too_many_files":   "一度に送信できるファイルは%d件までです",

	// Content
	"notice.invalid_window": "公開開始日時は公開終了日時より前に設定してください",
	"event.invalid_range":   "開始日時は終了日時より前に設定してください",
}

var enMessages = map[string]string{
	// Common errors
	"error.not_found":         "Resource not found",
	"error.unauthorized":      "Authentication required",
	"error.forbidden":         "Access denied",
	"error.bad_request":       "Bad request",
	"error.internal":          "Internal server error",
	"error.too_many_requests": "Too many requests. Please try again later",
	"error.validation":        "Validation failed",
	"error.downstream":        "Upstream service call failed",

	// Auth
	"auth.login_failed":  "Invalid email or password",
	"auth.token_expired": "Your session has expired. Please log in again",
	"auth.token_invalid": "Invalid authentication token",

	// Registration
	"registration.capacity_exceeded":   "This offering is full",
	"registration.dependency_required": "Please select Networking before adding a Consultation",
	"registration.already_registered":  "You have already registered",
	"registration.nothing_selected":    "Please select at least one offering",
	"registration.mode_not_allowed":    "The selected participation mode is not available for this event",
	"registration.checkout_failed":     "Could not create the checkout session",

	// Uploads
	"upload.too_large":        "File exceeds the size limit (%s)",
	"upload.unsupported_type": "Unsupported file type",
	"upload.too_many_files":   "At most %d files can be sent at once",

	// Content
	"notice.invalid_window": "Publish start must be before publish end",
	"event.invalid_range":   "Start time must be before end time",
}
