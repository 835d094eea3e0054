// Command waste-item-service serves the waste item collection.
package main

import "github.com/sorting-waste-app/services/internal/app"

func main() {
	app.Main("waste-item-service", app.MountWasteItems)
}
