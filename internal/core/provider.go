package core

// PlatformService 為上游平台的服務別名，對應 /api/<service>/...
type PlatformService string

const (
	PlatformPassport PlatformService = "passport"
	PlatformPlatform PlatformService = "platform"
	PlatformSxtH5    PlatformService = "sxt-h5"
)

// PlatformServices 可透明轉傳的上游服務
func PlatformServices() []PlatformService {
	return []PlatformService{PlatformPassport, PlatformPlatform, PlatformSxtH5}
}

const (
	PlatformAPIBaseURL    = "https://api.sxw.cn"
	PlatformPortalBaseURL = "https://portal.sxw.cn"
	// 登入密碼加密用的預設 key
	PlatformDefaultAESKey = "JMybKEd6L1cVpw=="
)

// PlatformEndpoint 上游 API 路徑（不含 /api 前綴）
type PlatformEndpoint string

const (
	EndpointSendSmsCode     PlatformEndpoint = "/passport/api/sms/send_auth_code"
	EndpointValidSmsCode    PlatformEndpoint = "/passport/api/sms/valid_auth_code"
	EndpointLogin           PlatformEndpoint = "/passport/api/auth/login"
	EndpointUserInfo        PlatformEndpoint = "/platform/api/user/get_user_info/1"
	EndpointExamPage        PlatformEndpoint = "/sxt-h5/api/gateway/exam/ExamQueryApi_pageForStudent"
	EndpointScoreList       PlatformEndpoint = "/sxt-h5/api/gateway/analysis/AnalysisMobileStudentApi_findScoreList"
	EndpointStudentQuestion PlatformEndpoint = "/sxt-h5/api/gateway/analysis/AnalysisMobileStudentApi_findStudentQuestion"
)

// 裝置標頭
const (
	DeviceHeaderPid             = "pid"
	DeviceHeaderAppType         = "appType"
	DeviceHeaderOperatingSystem = "operatingSystem"
	DeviceHeaderVersionName     = "versionName"
	DeviceHeaderVersionCode     = "versionCode"
	DeviceHeaderToken           = "token"
	DeviceHeaderAccountType     = "accountType"

	DevicePid             = "SXT"
	DeviceAppType         = "student"
	DeviceOperatingSystem = "android"
	DeviceVersionName     = "3.3.5"
	DeviceVersionCode     = "335"
	DeviceUserAgent       = "Dalvik/2.1.0 (Linux; U; Android 12)"
	DeviceH5UserAgent     = "sxt_android3.3.5"
)

// 登入 body 固定欄位
const (
	LoginApp      = "SXT"
	LoginClient   = "STUDENT"
	LoginPlatform = "ANDROID"
)
