// Command sorting-waste-api runs all four services in one process
// against one store. It is meant for local development:
//
//	go run ./cmd/sorting-waste-api --config=config/local.yaml
//
// or
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/sorting-waste-api
package main

import "github.com/sorting-waste-app/services/internal/app"

func main() {
	app.Main("sorting-waste-api",
		app.MountChallenges,
		app.MountUsers,
		app.MountWasteCategories,
		app.MountWasteItems,
	)
}
