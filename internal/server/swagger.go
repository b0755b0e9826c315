package server

//go:generate swag init -g internal/server/server.go -o docs

// @title Snapview API
// @version 0.1
// @description Interactive documentation for the Snapview capture API surface.
// @contact.name Snapview Maintainers
// @contact.url https://github.com/raysh454/snapview
// @BasePath /
