// Copyright 2026 Harvest Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/harvestlabs-io/croft/identity"
)

var errNoBearerToken = errors.New("missing bearer token")

// callerIdentity authenticates the request and returns the caller's
// identity. The identity is the subject claim of a signed bearer token;
// the server never sees raw credentials beyond the token itself
func (a *Api) callerIdentity(r *http.Request) (identity.Identity, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errNoBearerToken
	}
	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return "", errNoBearerToken
	}
	token, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf(
					"unexpected signing method: %v",
					token.Header["alg"],
				)
			}
			return a.config.JwtSecret, nil
		},
	)
	if err != nil {
		return "", fmt.Errorf("invalid bearer token: %w", err)
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("invalid bearer token: %w", err)
	}
	if subject == "" {
		return "", errors.New("bearer token has no subject")
	}
	return identity.Identity(subject), nil
}
