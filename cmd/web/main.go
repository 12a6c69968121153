// @title           Freelance marketplace API
// @version         1.0
// @description     Проекты, отклики, избранное, чат и отзывы фриланс-биржи.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "freelance_backend/internal/app"

func main() {
	app.Run()
}
