package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrNotAuthenticated   ErrCode = "NOT_AUTHENTICATED"
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrNotAuthorized        ErrCode = "NOT_AUTHORIZED"
	ErrStudentAccessOnly    ErrCode = "STUDENT_ACCESS_ONLY"
	ErrInstructorAccessOnly ErrCode = "INSTRUCTOR_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation        ErrCode = "VALIDATION_ERROR"
	ErrInvalidID         ErrCode = "INVALID_ID"
	ErrInvalidPayload    ErrCode = "INVALID_PAYLOAD"
	ErrProfileIncomplete ErrCode = "PROFILE_INCOMPLETE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrEmailTaken      ErrCode = "EMAIL_TAKEN"
	ErrRollNumberTaken ErrCode = "ROLL_NUMBER_TAKEN"

	// ─── GD-specific ───────────────────────────────────────────────────
	ErrSessionNotFound ErrCode = "SESSION_NOT_FOUND"
	ErrInvalidSubject  ErrCode = "INVALID_SUBJECT"
	ErrInvalidSession  ErrCode = "INVALID_SESSION"
	ErrInvalidExport   ErrCode = "INVALID_EXPORT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrNotAuthenticated:
		return "You must be signed in to do this."
	case ErrInvalidCredentials:
		return "Incorrect email or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrNotAuthorized:
		return "You are not allowed to perform this action."
	case ErrStudentAccessOnly:
		return "This resource is limited to students."
	case ErrInstructorAccessOnly:
		return "This resource is limited to instructors."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrProfileIncomplete:
		return "Please fill in every profile field required for your role."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrEmailTaken:
		return "This email is already registered."
	case ErrRollNumberTaken:
		return "This roll number is already registered."

	// ─── GD-specific ───────────────────────────────────────────────────
	case ErrSessionNotFound:
		return "GD session not found."
	case ErrInvalidSubject:
		return "This student is not a participant of the session."
	case ErrInvalidSession:
		return "The session needs a valid date and at least one participant."
	case ErrInvalidExport:
		return "The export request is invalid."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
