package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrUserNotFound       ErrCode = "USER_NOT_FOUND"
	ErrRegistrationFailed ErrCode = "REGISTRATION_FAILED"
	ErrLoginFailed        ErrCode = "LOGIN_FAILED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrMissingFields  ErrCode = "MISSING_FIELDS"
	ErrInvalidRole    ErrCode = "INVALID_ROLE"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidClass   ErrCode = "INVALID_CLASS"
	ErrFileTooLarge   ErrCode = "FILE_TOO_LARGE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrEmailTaken    ErrCode = "EMAIL_TAKEN"
	ErrMissingName   ErrCode = "MISSING_CLASS_NAME"
	ErrClassExists   ErrCode = "CLASS_EXISTS"
	ErrClassNotFound ErrCode = "CLASS_NOT_FOUND"
	ErrClassesFailed ErrCode = "CLASSES_FAILED"
	ErrClassCreate   ErrCode = "CLASS_CREATE_FAILED"
	ErrClassUpdate   ErrCode = "CLASS_UPDATE_FAILED"
	ErrClassDelete   ErrCode = "CLASS_DELETE_FAILED"

	// ─── Broadcast ─────────────────────────────────────────────────────
	ErrNoRecipients     ErrCode = "NO_RECIPIENTS"
	ErrSendFailed       ErrCode = "SEND_FAILED"
	ErrLogsFailed       ErrCode = "LOGS_FAILED"
	ErrRecipientsFailed ErrCode = "RECIPIENTS_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the client-facing message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid credentials"
	case ErrTokenRequired:
		return "No token"
	case ErrTokenInvalid:
		return "Invalid or expired token"
	case ErrUserNotFound:
		return "User not found"
	case ErrRegistrationFailed:
		return "Registration failed"
	case ErrLoginFailed:
		return "Login failed"

	// ─── Validation ────────────────────────────────────────────────────
	case ErrMissingFields:
		return "Missing fields"
	case ErrInvalidRole:
		return "Invalid role"
	case ErrInvalidID:
		return "Invalid id"
	case ErrInvalidPayload:
		return "Invalid request payload"
	case ErrInvalidClass:
		return "Class must be a numeric class id"
	case ErrFileTooLarge:
		return "Upload exceeds the size limit"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrEmailTaken:
		return "Email already registered"
	case ErrMissingName:
		return "Missing class name"
	case ErrClassExists:
		return "Class already exists"
	case ErrClassNotFound:
		return "Class not found"
	case ErrClassesFailed:
		return "Failed to fetch classes"
	case ErrClassCreate:
		return "Failed to create class"
	case ErrClassUpdate:
		return "Failed to update class"
	case ErrClassDelete:
		return "Failed to delete class"

	// ─── Broadcast ─────────────────────────────────────────────────────
	case ErrNoRecipients:
		return "No recipients found for this group."
	case ErrSendFailed:
		return "Failed to send email"
	case ErrLogsFailed:
		return "Failed to fetch logs"
	case ErrRecipientsFailed:
		return "Failed to fetch recipient groups"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests, try again later"

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error"
	default:
		return "Unexpected error"
	}
}
