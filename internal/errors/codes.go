package errors

// Error codes returned in ErrorResponse.Error.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map messages from the code.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound = "RESOURCE_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartNotFound         = "CART_NOT_FOUND"
	CartInvalidSelection = "CART_INVALID_SELECTION"
	CartInvalidLineType  = "CART_INVALID_LINE_TYPE"
	CartInvalidDay       = "CART_INVALID_DAY"
	CartInvalidAction    = "CART_INVALID_ACTION"

	// ==================== Menu (MENU_) ====================
	MenuItemNotFound = "MENU_ITEM_NOT_FOUND"

	// ==================== Pricing (PRICING_) ====================
	PricingRefreshFailed = "PRICING_REFRESH_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
