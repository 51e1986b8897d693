package i18n

// Error kinds surfaced in the "code" field of error bodies
const (
	KindTenantNotFound     = "TenantNotFound"
	KindTenantRequired     = "TenantRequired"
	KindAuthRequired       = "AuthRequired"
	KindInvalidToken       = "InvalidToken"
	KindInvalidCredentials = "InvalidCredentials"
	KindTenantMismatch     = "TenantMismatch"
	KindForbidden          = "Forbidden"
	KindSelfDeleteDenied   = "SelfDeleteDenied"
	KindNotFound           = "NotFound"
	KindValidationError    = "ValidationError"
	KindUserExists         = "UserExists"
	KindTenantExists       = "TenantExists"
	KindInternal           = "Internal"
)

// Tenant resolution errors
var (
	ErrTenantNotFound    = newKindError(KindTenantNotFound, "ErrorTenantNotFound", `Tenant not found: "{{.Slug}}"`, ErrorNotFound)
	ErrTenantNotResolved = newKindError(KindNotFound, "ErrorTenantNotResolved", "Tenant not resolved", ErrorNotFound)
	ErrTenantRequired    = newKindError(KindTenantRequired, "ErrorTenantRequired", "Tenant required", ErrorBadRequest)
	ErrTenantExists      = newKindError(KindTenantExists, "ErrorTenantExists", `Tenant already exists: "{{.Slug}}"`, ErrorConflict)
	ErrInvalidSlug       = newKindError(KindValidationError, "ErrorInvalidSlug", "Slug may only contain lowercase letters, digits and hyphens", ErrorBadRequest)
)

// Identity errors
var (
	ErrAuthRequired       = newKindError(KindAuthRequired, "ErrorAuthRequired", "Authentication required", ErrorUnauthorized)
	ErrInvalidToken       = newKindError(KindInvalidToken, "ErrorInvalidToken", "Invalid or expired token", ErrorUnauthorized)
	ErrInvalidCredentials = newKindError(KindInvalidCredentials, "ErrorInvalidCredentials", "Invalid credentials", ErrorUnauthorized)
	ErrTenantMismatch     = newKindError(KindTenantMismatch, "ErrorTenantMismatch", "Token does not belong to this tenant", ErrorForbidden)
	ErrUserExists         = newKindError(KindUserExists, "ErrorUserExists", "User already exists", ErrorBadRequest)
)

// Access errors
var (
	ErrForbidden        = newKindError(KindForbidden, "ErrorForbidden", "Access denied", ErrorForbidden)
	ErrRoleChangeDenied = newKindError(KindForbidden, "ErrorRoleChangeDenied", "Only admins can change roles", ErrorForbidden)
	ErrSelfDeleteDenied = newKindError(KindSelfDeleteDenied, "ErrorSelfDeleteDenied", "Cannot delete your own account", ErrorForbidden)
)

// Record errors
var (
	ErrResourceNotFound = newKindError(KindNotFound, "ErrorResourceNotFound", "Resource not found", ErrorNotFound)
	ErrUserNotFound     = newKindError(KindNotFound, "ErrorUserNotFound", "User not found", ErrorNotFound)
	ErrRouteNotFound    = newKindError(KindNotFound, "ErrorRouteNotFound", "Not found", ErrorNotFound)
)

// Validation errors
var (
	ErrRegisterFieldsRequired = newKindError(KindValidationError, "ErrorRegisterFieldsRequired", "Email, password, and name are required", ErrorBadRequest)
	ErrLoginFieldsRequired    = newKindError(KindValidationError, "ErrorLoginFieldsRequired", "Email and password are required", ErrorBadRequest)
	ErrTitleRequired          = newKindError(KindValidationError, "ErrorTitleRequired", "Title is required", ErrorBadRequest)
	ErrInvalidRole            = newKindError(KindValidationError, "ErrorInvalidRole", "Role must be member or admin", ErrorBadRequest)
	ErrMalformedRequest       = newKindError(KindValidationError, "ErrorMalformedRequest", "Malformed request body", ErrorBadRequest)
	ErrPasswordTooLong        = newKindError(KindValidationError, "ErrorPasswordTooLong", "Password must be at most 72 bytes", ErrorBadRequest)
)

var ErrInternal = newKindError(KindInternal, "ErrorInternal", "Internal server error", ErrorInternalServer)

// Success messages
const (
	SuccessLoggedOut   = "SuccessLoggedOut"
	SuccessUserDeleted = "SuccessUserDeleted"
)
