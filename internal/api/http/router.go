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

package http

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/hertz-contrib/jwt"

	"nucleus-gateway/internal/api/http/middleware"
	"nucleus-gateway/pkg/log"
)

// Router assembles the Hertz server from the handler and middleware.
type Router struct {
	handler *Handler
	logger  *log.Logger
	jwtAuth *jwt.HertzJWTMiddleware
}

// NewRouter creates the router.
func NewRouter(handler *Handler, logger *log.Logger) *Router {
	return &Router{handler: handler, logger: logger}
}

// SetJWT enables JWT protection on the interaction and persona routes.
func (r *Router) SetJWT(auth *jwt.HertzJWTMiddleware) {
	r.jwtAuth = auth
}

// Build constructs the Hertz server with all routes registered. Extra
// options (e.g. the tracing option) are passed through.
func (r *Router) Build(addr string, opts ...config.Option) *server.Hertz {
	options := append([]config.Option{server.WithHostPorts(addr)}, opts...)
	h := server.Default(options...)
	h.Use(middleware.CORS())
	h.Use(middleware.RequestLogger(r.logger))

	api := h.Group("/api")
	api.GET("/health", r.handler.HealthCheck)

	system := api.Group("/system")
	system.GET("/metrics", r.handler.Metrics)

	protected := api.Group("")
	if r.jwtAuth != nil {
		api.POST("/auth/login", r.jwtAuth.LoginHandler)
		protected.Use(r.jwtAuth.MiddlewareFunc())
	}
	protected.POST("/interactions", r.handler.PostInteraction)
	protected.GET("/personas", r.handler.ListPersonas)

	return h
}
