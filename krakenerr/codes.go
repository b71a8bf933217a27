package krakenerr

import "strings"

// Category groups server error codes by the prefix before their colon.
type Category int

const (
	CategoryAPI Category = iota
	CategoryGeneral
	CategoryService
	CategoryOrder
	CategoryFunding
	CategoryQuery
	CategoryTrade
	CategoryUnknown
)

func (c Category) String() string {
	switch c {
	case CategoryAPI:
		return "EAPI"
	case CategoryGeneral:
		return "EGeneral"
	case CategoryService:
		return "EService"
	case CategoryOrder:
		return "EOrder"
	case CategoryFunding:
		return "EFunding"
	case CategoryQuery:
		return "EQuery"
	case CategoryTrade:
		return "ETrade"
	default:
		return "EUnknown"
	}
}

func categoryFromPrefix(prefix string) Category {
	switch prefix {
	case "EAPI":
		return CategoryAPI
	case "EGeneral":
		return CategoryGeneral
	case "EService":
		return CategoryService
	case "EOrder":
		return CategoryOrder
	case "EFunding":
		return CategoryFunding
	case "EQuery":
		return CategoryQuery
	case "ETrade":
		return CategoryTrade
	default:
		return CategoryUnknown
	}
}

// Code is a closed enumeration of known server error codes.
type Code int

const (
	CodeRateLimitExceeded Code = iota
	CodeInvalidKey
	CodeInvalidSignature
	CodeInvalidNonce
	CodeBadRequest
	CodeInvalidSession
	CodeFeatureDisabled
	CodeInvalidArguments
	CodeIndexUnavailable
	CodePermissionDenied
	CodeUnknownAssetPair
	CodeUnknownAsset
	CodeTooManyRequests
	CodeTemporaryLockout
	CodeUnknownMethod
	CodeInternalError
	CodeServiceUnavailable
	CodeServiceBusy
	CodeMarketCancelOnly
	CodeMarketPostOnly
	CodeDeadlineElapsed
)

// codeTable maps the exact server message (after the category prefix) to a
// known Code. Grounded on kraken-types/src/error_codes.rs's KrakenErrorCode::from_str.
var codeTable = map[string]Code{
	"Rate limit exceeded":     CodeRateLimitExceeded,
	"Invalid key":             CodeInvalidKey,
	"Invalid signature":       CodeInvalidSignature,
	"Invalid nonce":           CodeInvalidNonce,
	"Bad request":             CodeBadRequest,
	"Invalid session":         CodeInvalidSession,
	"Feature disabled":        CodeFeatureDisabled,
	"Invalid arguments":       CodeInvalidArguments,
	"Index unavailable":       CodeIndexUnavailable,
	"Permission denied":       CodePermissionDenied,
	"Unknown asset pair":      CodeUnknownAssetPair,
	"Unknown asset":           CodeUnknownAsset,
	"Too many requests":       CodeTooManyRequests,
	"Temporary lockout":       CodeTemporaryLockout,
	"Unknown method":          CodeUnknownMethod,
	"Internal error":          CodeInternalError,
	"Service unavailable":     CodeServiceUnavailable,
	"Service busy":            CodeServiceBusy,
	"Market is in cancel_only mode": CodeMarketCancelOnly,
	"Market is in post_only mode":   CodeMarketPostOnly,
	"Deadline elapsed":        CodeDeadlineElapsed,
}

// IsRateLimit reports whether code represents a rate-limit condition.
func (c Code) IsRateLimit() bool {
	switch c {
	case CodeRateLimitExceeded, CodeTooManyRequests, CodeTemporaryLockout:
		return true
	default:
		return false
	}
}

// recoveryForCode maps a known Code to its default RecoveryStrategy.
func recoveryForCode(c Code) RecoveryStrategy {
	switch c {
	case CodeRateLimitExceeded, CodeTooManyRequests, CodeTemporaryLockout:
		return RateLimitBackoff()
	case CodeServiceUnavailable, CodeServiceBusy, CodeDeadlineElapsed:
		return ServiceRetry()
	case CodeInvalidNonce, CodeInvalidSignature, CodeInvalidKey, CodeInvalidSession:
		return RecoveryStrategy{Kind: StrategyReauthenticate}
	case CodeInvalidArguments, CodeBadRequest, CodeUnknownAssetPair, CodeUnknownAsset, CodeUnknownMethod:
		return Fatal()
	case CodeMarketCancelOnly, CodeMarketPostOnly, CodePermissionDenied, CodeFeatureDisabled, CodeIndexUnavailable:
		return RecoveryStrategy{Kind: StrategyUserAction, Message: "server rejected the request for policy reasons"}
	case CodeInternalError:
		return ServiceRetry()
	default:
		return Manual()
	}
}

// APIError is a parsed "ECategory:message" server error string.
type APIError struct {
	Raw      string
	Category Category
	Message  string
	Code     *Code
}

// RecoveryStrategy returns the default strategy for this error, falling
// back to Manual for unrecognized codes.
func (e APIError) RecoveryStrategy() RecoveryStrategy {
	if e.Code == nil {
		return Manual()
	}
	return recoveryForCode(*e.Code)
}

// ParseAPIError parses a single "ECategory:message" server string.
func ParseAPIError(raw string) APIError {
	prefix, message, found := strings.Cut(raw, ":")
	if !found {
		return APIError{Raw: raw, Category: CategoryUnknown, Message: raw}
	}
	message = strings.TrimSpace(message)
	category := categoryFromPrefix(prefix)
	result := APIError{Raw: raw, Category: category, Message: message}
	if code, ok := codeTable[message]; ok {
		c := code
		result.Code = &c
	}
	return result
}

// ParseAPIErrors parses each entry of errs via ParseAPIError.
func ParseAPIErrors(errs []string) []APIError {
	out := make([]APIError, len(errs))
	for i, e := range errs {
		out[i] = ParseAPIError(e)
	}
	return out
}

// FromAPIError builds a taxonomy *Error from a single parsed APIError.
func FromAPIError(e APIError) *Error {
	kind := KindProtocol
	switch e.Category {
	case CategoryAPI, CategoryGeneral:
		kind = KindAuth
	case CategoryService:
		kind = KindConnection
	case CategoryOrder, CategoryTrade, CategoryFunding, CategoryQuery:
		kind = KindSubscription
	}
	if e.Code != nil && e.Code.IsRateLimit() {
		kind = KindRateLimit
	}
	return New(kind, e.Raw, e.RecoveryStrategy())
}

// FromAPIErrors builds a taxonomy *Error from the first of a batch of
// server error strings, as Kraken's error arrays are typically singular.
func FromAPIErrors(errs []string) *Error {
	parsed := ParseAPIErrors(errs)
	if len(parsed) == 0 {
		return New(KindProtocol, "empty error array", Manual())
	}
	return FromAPIError(parsed[0])
}
