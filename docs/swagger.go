// Package docs Motri API documentation
package docs

// Swagger documentation info
// @title Motri Incident Reporting API
// @version 1.0
// @description REST API for anonymous incident report submission and director review

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @tag.name auth
// @tag.description Director authentication and password recovery

// @tag.name reports
// @tag.description Public report submission and director review
