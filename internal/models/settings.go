package models

const (
	SettingDevBypass = "dev_bypass"
	SettingAPIURL    = "api_url"
)

// Settings is the durable client state kept in the local database.
type Settings struct {
	DevBypass bool   `json:"dev_bypass"` // authenticate every request with the development sentinel token
	APIURL    string `json:"api_url"`    // backend base URL; empty means use config/env
}

// SettingsToMap converts Settings to key/value rows.
func SettingsToMap(s Settings) map[string]string {
	bypass := "false"
	if s.DevBypass {
		bypass = "true"
	}
	return map[string]string{
		SettingDevBypass: bypass,
		SettingAPIURL:    s.APIURL,
	}
}

// MapToSettings converts key/value rows to Settings. Unknown keys are ignored.
func MapToSettings(data map[string]string) Settings {
	return Settings{
		DevBypass: data[SettingDevBypass] == "true",
		APIURL:    data[SettingAPIURL],
	}
}
