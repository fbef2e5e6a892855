// error.go
//
// A contract lifecycle data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of contractsdb.
// contractsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// contractsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with contractsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types carried in CustomError.Type
const (
	TypeNotFound        = "not_found"
	TypeForbidden       = "forbidden"
	TypeConflict        = "conflict"
	TypeInvalidArgument = "invalid_argument"
	TypeUnavailable     = "unavailable"
)

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NotFound reports a referenced entity that is absent or whose id is malformed.
func NotFound(format string, args ...any) error {
	return &CustomError{Code: http.StatusNotFound, Message: fmt.Sprintf(format, args...), Type: TypeNotFound}
}

// Forbidden reports an ownership mismatch. Only the HTTP layer decides this.
func Forbidden(format string, args ...any) error {
	return &CustomError{Code: http.StatusForbidden, Message: fmt.Sprintf(format, args...), Type: TypeForbidden}
}

// Conflict reports a uniqueness violation.
func Conflict(format string, args ...any) error {
	return &CustomError{Code: http.StatusConflict, Message: fmt.Sprintf(format, args...), Type: TypeConflict}
}

// InvalidArgument reports a malformed identifier or input.
func InvalidArgument(format string, args ...any) error {
	return &CustomError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...), Type: TypeInvalidArgument}
}

// Unavailable reports an optional backend that is not configured.
func Unavailable(format string, args ...any) error {
	return &CustomError{Code: http.StatusServiceUnavailable, Message: fmt.Sprintf(format, args...), Type: TypeUnavailable}
}

// AsCustomError unwraps err into a CustomError if it carries one.
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func isType(err error, t string) bool {
	ce, ok := AsCustomError(err)
	return ok && ce.Type == t
}

func IsNotFound(err error) bool        { return isType(err, TypeNotFound) }
func IsForbidden(err error) bool       { return isType(err, TypeForbidden) }
func IsConflict(err error) bool        { return isType(err, TypeConflict) }
func IsInvalidArgument(err error) bool { return isType(err, TypeInvalidArgument) }
func IsUnavailable(err error) bool     { return isType(err, TypeUnavailable) }
