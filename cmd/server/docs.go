package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Galaxy Portfolio API
// @version         0.1.0
// @description     Holdings ledger, daily summaries, market movers, IPO listings and the AI advisor.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
