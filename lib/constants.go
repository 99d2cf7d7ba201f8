package lib

// Cookie names shared by the auth handlers and middleware.
const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
	CSRFCookieName    = "csrf_token"
)
