// filepath: cmd/aiopro/main.go
package main

import (
	"aiopro/internal/cli"

	// Import docs for Swagger
	_ "aiopro/docs"
)

// @title AIO Pro Backend
// @version 0.1.0
// @description Backend for the AIO Pro GPT custom action: crawls websites and reports link structure.
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and an API key or access token.

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
