package main

import "spendwise_backend/internal/app"

func main() {
	app.Run()
}
