package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Op names a client operation.
type Op string

const (
	OpCSRF        Op = "csrf"
	OpLogin       Op = "login"
	OpRegister    Op = "register"
	OpLogout      Op = "logout"
	OpPortfolio   Op = "portfolio"
	OpAsset       Op = "asset"
	OpCreateAsset Op = "create asset"
	OpUpdateAsset Op = "update asset"
	OpDeleteAsset Op = "delete asset"
)

// Kind classifies the outcome of a failed operation.
type Kind int

const (
	KindNone Kind = iota // no error
	KindUnknown          // not an api error
	KindNetwork          // the request could not complete
	KindMalformed        // the response could not be decoded
	KindUnauthorized     // 401
	KindForbidden        // 403 on the portfolio
	KindNotFound         // 404 on a known entity
	KindLoginFailed
	KindRegistrationFailed
	KindLogoutFailed
	KindFetchFailed
	KindSaveFailed
	KindDeleteFailed
)

var kindNames = map[Kind]string{
	KindNone:               "none",
	KindUnknown:            "unknown",
	KindNetwork:            "network failure",
	KindMalformed:          "malformed response",
	KindUnauthorized:       "unauthorized",
	KindForbidden:          "forbidden",
	KindNotFound:           "not found",
	KindLoginFailed:        "login failed",
	KindRegistrationFailed: "registration failed",
	KindLogoutFailed:       "logout failed",
	KindFetchFailed:        "fetch failed",
	KindSaveFailed:         "save failed",
	KindDeleteFailed:       "delete failed",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the failure of an operation, classified by cause.
type Error struct {
	Op     Op
	Kind   Kind
	Status int   // HTTP status, 0 when no response was received
	Err    error // underlying cause, if any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (%d %s)", e.Status, http.StatusText(e.Status))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NeedsLogin reports whether the caller must send the user to the login view.
func (e *Error) NeedsLogin() bool {
	return e.Kind == KindUnauthorized || e.Kind == KindForbidden
}

// KindOf returns the Kind of err.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// NeedsLogin reports whether err requires the user to log in again.
func NeedsLogin(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.NeedsLogin()
}

// classify maps a non 2xx status to the failure kind of op.
func classify(op Op, status int) Kind {
	if status == http.StatusUnauthorized {
		return KindUnauthorized
	}
	switch op {
	case OpLogin:
		return KindLoginFailed
	case OpRegister:
		return KindRegistrationFailed
	case OpLogout:
		return KindLogoutFailed
	case OpPortfolio:
		switch status {
		case http.StatusForbidden:
			return KindForbidden
		case http.StatusNotFound:
			return KindNotFound
		}
		return KindFetchFailed
	case OpAsset:
		if status == http.StatusNotFound {
			return KindNotFound
		}
		return KindFetchFailed
	case OpCreateAsset, OpUpdateAsset:
		return KindSaveFailed
	case OpDeleteAsset:
		if status == http.StatusNotFound {
			return KindNotFound
		}
		return KindDeleteFailed
	default:
		return KindFetchFailed
	}
}
