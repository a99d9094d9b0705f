// Package i18n holds the message catalogs shared by the CLI and the
// reference server. Japanese is the default language.
package i18n

import "strings"

const DefaultLang = "ja"

var catalogs = map[string]map[string]string{
	"ja": {
		"required":               "必須項目です",
		"too_long":               "長すぎます",
		"too_short":              "短すぎます",
		"invalid_email":          "メールアドレスが正しくありません",
		"invalid_date":           "日付は YYYY-MM-DD 形式で入力してください",
		"invalid_url":            "URL が正しくありません",
		"invalid_id":             "IDが不正です",
		"invalid_request":        "リクエストが不正です",
		"unauthorized":           "トークンが無効です",
		"forbidden":              "権限がありません",
		"access_denied":          "つながっていないユーザーのプロフィールは閲覧できません",
		"not_found":              "見つかりません",
		"profile_not_found":      "プロフィールが見つかりません",
		"connection_not_found":   "コネクションが見つかりません",
		"already_connected":      "すでに作成されています",
		"internal_error":         "サーバー内部エラーが発生しました",
		"invalid_credentials":    "メールアドレスまたはパスワードが正しくありません",
		"email_taken":            "このメールアドレスは既に登録されています",
		"signup_failed":          "ユーザー登録に失敗しました",
		"qr_failed":              "QRコードの生成に失敗しました",
		"friend_added":           "フレンドを追加しました！",
		"friend_added_one_sided": "フレンドを追加しました（相手側の登録に失敗しました）",
		"friend_updated":         "フレンド情報を更新しました！",
		"friend_failed":          "フレンド追加に失敗しました",
		"profile_created":        "プロフィールを登録しました！",
		"profile_deleted":        "プロフィールを削除しました",
		"profile_required":       "プロフィールを作成してください。QRコードの交換にはプロフィールが必要です。",
		"not_signed_in":          "ログインしてください",
		"signed_in":              "ログインしました",
		"signed_out":             "ログアウトしました",
		"signed_up":              "ユーザー登録しました",
		"connection_deleted":     "コネクションを削除しました",
		"qr_saved":               "QRコードを保存しました",
		"relation_none":          "まだつながっていません",
		"relation_forward":       "あなたが登録済みです",
		"relation_reverse":       "相手があなたを登録済みです",
		"mirror_created":         "相手側のコネクションを作成しました",
		"network_error":          "通信エラーが発生しました",
		"validation_error":       "入力内容に誤りがあります",
		"conflict":               "すでに作成されています",
		"self_connection":        "自分自身とはつながれません",
		"no_profile_selected":    "プロフィールが選択されていません",
	},
	"en": {
		"required":               "Required",
		"too_long":               "Too long",
		"too_short":              "Too short",
		"invalid_email":          "Invalid email address",
		"invalid_date":           "Use the YYYY-MM-DD date format",
		"invalid_url":            "Invalid URL",
		"invalid_id":             "Invalid id",
		"invalid_request":        "Invalid request",
		"unauthorized":           "Invalid or missing token",
		"forbidden":              "Forbidden",
		"access_denied":          "You can only view profiles you are connected to",
		"not_found":              "Not found",
		"profile_not_found":      "Profile not found",
		"connection_not_found":   "Connection not found",
		"already_connected":      "Already connected",
		"internal_error":         "Internal server error",
		"invalid_credentials":    "Invalid email or password",
		"email_taken":            "Email already registered",
		"signup_failed":          "Sign-up failed",
		"qr_failed":              "Failed to generate QR code",
		"friend_added":           "Friend added!",
		"friend_added_one_sided": "Friend added (the reverse record could not be created)",
		"friend_updated":         "Friend updated!",
		"friend_failed":          "Failed to add friend",
		"profile_created":        "Profile created!",
		"profile_deleted":        "Profile deleted",
		"profile_required":       "Create a profile first: exchanging QR codes requires one.",
		"not_signed_in":          "Please sign in",
		"signed_in":              "Signed in",
		"signed_out":             "Signed out",
		"signed_up":              "Signed up",
		"connection_deleted":     "Connection deleted",
		"qr_saved":               "QR code saved",
		"relation_none":          "Not connected yet",
		"relation_forward":       "You already added this profile",
		"relation_reverse":       "This profile already added you",
		"mirror_created":         "Reverse connection created",
		"network_error":          "Network error",
		"validation_error":       "Some fields are invalid",
		"conflict":               "Already exists",
		"self_connection":        "You cannot connect a profile to itself",
		"no_profile_selected":    "No profile selected",
	},
}

// DetectLanguage picks a supported language from an Accept-Language
// header value. Only the primary tag of the first entry is considered.
func DetectLanguage(acceptLanguage string) string {
	first := strings.TrimSpace(strings.Split(acceptLanguage, ",")[0])
	first = strings.Split(first, ";")[0]
	tag := strings.ToLower(strings.Split(first, "-")[0])
	if _, ok := catalogs[tag]; ok {
		return tag
	}
	return DefaultLang
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}

// T translates code. Unknown languages fall back to Japanese; unknown
// codes are returned unchanged.
func T(lang, code string) string {
	if msg, ok := catalogs[lang][code]; ok {
		return msg
	}
	if msg, ok := catalogs[DefaultLang][code]; ok {
		return msg
	}
	return code
}

// Localize translates every value of a field->code map.
func Localize(lang string, codes map[string]string) map[string]string {
	out := make(map[string]string, len(codes))
	for k, v := range codes {
		out[k] = T(lang, v)
	}
	return out
}
