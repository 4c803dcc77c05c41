package view

import (
	"fmt"

	"github.com/etnz/maney/api"
)

// Messages shown inline by the views.
const (
	MsgInvalidLogin       = "Invalid username or password"
	MsgPasswordMismatch   = "Passwords do not match"
	MsgRegistrationFailed = "Registration failed. Please retry."
	MsgPortfolioNotFound  = "Portfolio not found"
	MsgAssetNotFound      = "Asset not found"
	MsgAssetFetchFailed   = "Failed to fetch asset"
	MsgAssetSaveFailed    = "Failed to save asset"
	MsgAssetDeleteFailed  = "Failed to delete asset"
	MsgNegativeValue      = "Estimated value must not be negative"
	MsgUnexpected         = "Something went wrong. Please retry."
)

// MsgPasswordTooShort is shown when the registration password is too short.
var MsgPasswordTooShort = fmt.Sprintf("Password must be at least %d characters", minPasswordLength)

// portfolioFetchFailed is the message of a portfolio fetch failing with status.
func portfolioFetchFailed(status int) string {
	return fmt.Sprintf("Failed to fetch portfolio: %d", status)
}

// isClassified reports whether err is an outcome the backend reported, as
// opposed to a transport failure or an undecodable response.
func isClassified(err error) bool {
	switch api.KindOf(err) {
	case api.KindNone, api.KindUnknown, api.KindNetwork, api.KindMalformed:
		return false
	}
	return true
}
