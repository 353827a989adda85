package docs

// @title           Fair Fares API
// @version         1.0
// @description     Fare guide pricing, saved fare history and weekly averages for BSU commuters. Every fare endpoint takes the caller's SRCODE as a query parameter and a bearer token issued to that SRCODE.

// @contact.name   Fair Fares maintainers

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by /auth/login.
