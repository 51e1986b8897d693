package cnst

const (
	AppName     = "tenantly"
	CommandName = "apiserver"

	// APIServerYaml is the default configuration file name
	APIServerYaml = "apiserver.yaml"
)

const (
	XLang           = "X-Lang"
	XRequestID      = "X-Request-ID"
	AcceptLanguage  = "Accept-Language"
	HeaderTenantID  = "X-Tenant-ID"
	HeaderAuthorize = "Authorization"
	BearerPrefix    = "Bearer "
)

const (
	LangEN = "en"
	LangZH = "zh"
)
