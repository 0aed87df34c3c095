// Copyright 2021 JD Fergason
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
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/jdfergason/jwt/v2"
	"github.com/lestrrat-go/jwx/jwk"
	"github.com/lestrrat-go/jwx/jwt"
	"github.com/rs/zerolog/log"
)

// EngineAuth instantiates the JWT-over-JWKS auth middleware. Every request
// must carry a valid JWT issued by the configured Auth0 domain; the
// validated subject claim becomes the request's userID.
func EngineAuth(jwks *jwk.AutoRefresh, jwksURL string) fiber.Handler {
	jwtMiddleware := jwtware.New(jwtware.Config{
		Jwks:         jwks,
		JwksUrl:      jwksURL,
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			return nil
		},
	})

	return func(c *fiber.Ctx) error {
		if res := jwtMiddleware(c); res != nil {
			return c.SendString(res.Error())
		}

		jwtToken, ok := c.Locals("user").(jwt.Token)
		if !ok {
			log.Warn().Msg("jwt middleware succeeded but no token found in request locals")
			return c.Status(fiber.StatusUnauthorized).SendString("invalid jwt token")
		}

		c.Locals("userID", jwtToken.Subject())
		return c.Next()
	}
}

func jwtError(c *fiber.Ctx, err error) error {
	log.Warn().Err(err).Msg("jwt authentication error")

	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}

	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}
