package errors

// API error codes, CATEGORY_SPECIFIC_DETAIL. The front office maps these to
// display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden          = "AUTHZ_FORBIDDEN"
	AuthzRoleRequired       = "AUTHZ_ROLE_REQUIRED"
	AuthzApprovalLimit      = "AUTHZ_APPROVAL_LIMIT_EXCEEDED"
	AuthzDailyApprovalLimit = "AUTHZ_DAILY_APPROVAL_LIMIT_EXCEEDED"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Loans (LOAN_) ====================
	LoanNotFound           = "LOAN_NOT_FOUND"
	LoanNotPending         = "LOAN_NOT_PENDING"
	LoanNotActive          = "LOAN_NOT_ACTIVE"
	LoanNotOverdue         = "LOAN_NOT_OVERDUE"
	LoanContractNotSigned  = "LOAN_CONTRACT_NOT_SIGNED"
	LoanInsufficientRefs   = "LOAN_INSUFFICIENT_REFERENCES"
	LoanExceedsVehicleValue = "LOAN_EXCEEDS_VEHICLE_VALUE"
	LoanRateNotCompliant   = "LOAN_RATE_NOT_COMPLIANT"

	// ==================== Payments (PAYMENT_) ====================
	PaymentTooLow             = "PAYMENT_BELOW_MINIMUM"
	PaymentPayoffInsufficient = "PAYMENT_PAYOFF_INSUFFICIENT"

	// ==================== Fees (FEE_) ====================
	FeeNotFound      = "FEE_NOT_FOUND"
	FeeAlreadyWaived = "FEE_ALREADY_WAIVED"
	FeeNothingToPost = "FEE_NOTHING_TO_POST"

	// ==================== Customers / vehicles (CUSTOMER_/VEHICLE_) ====================
	CustomerNotFound = "CUSTOMER_NOT_FOUND"
	VehicleNotFound  = "VEHICLE_NOT_FOUND"

	// ==================== Vendors (VENDOR_) ====================
	VendorNotFound = "VENDOR_NOT_FOUND"

	// ==================== Stores (STORE_) ====================
	StoreNotFound     = "STORE_NOT_FOUND"
	StoreInvalidState = "STORE_INVALID_STATE_CODE"
	TierNotFound      = "STORE_RATE_TIER_NOT_FOUND"
	StateRuleNotFound = "STORE_STATE_RULE_NOT_FOUND"
	StateRuleExists   = "STORE_STATE_RULE_EXISTS"

	// ==================== Uploads / reports (UPLOAD_/REPORT_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"
	ReportFailed          = "REPORT_GENERATION_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
