// Copyright 2026 fanjia1024
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

package middleware

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/jwt"
)

const identityKey = "adapter_id"

// adapterLogin is the login payload adapters exchange for a token.
type adapterLogin struct {
	AdapterID string `json:"adapter_id"`
	Secret    string `json:"secret"`
}

// NewJWTAuth builds the JWT middleware used to authenticate platform
// adapters. Login exchanges the shared secret for a token carrying the
// adapter id.
func NewJWTAuth(key []byte, timeout, maxRefresh time.Duration) (*jwt.HertzJWTMiddleware, error) {
	return jwt.New(&jwt.HertzJWTMiddleware{
		Realm:       "nucleus-gateway",
		Key:         key,
		Timeout:     timeout,
		MaxRefresh:  maxRefresh,
		IdentityKey: identityKey,
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if id, ok := data.(string); ok {
				return jwt.MapClaims{identityKey: id}
			}
			return jwt.MapClaims{}
		},
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)
			id, _ := claims[identityKey].(string)
			return id
		},
		Authenticator: func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
			var login adapterLogin
			if err := c.BindJSON(&login); err != nil {
				return nil, jwt.ErrMissingLoginValues
			}
			if login.AdapterID == "" || subtle.ConstantTimeCompare([]byte(login.Secret), key) != 1 {
				return nil, jwt.ErrFailedAuthentication
			}
			return login.AdapterID, nil
		},
		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			id, ok := data.(string)
			return ok && id != ""
		},
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(code, map[string]string{"error": message})
		},
	})
}
