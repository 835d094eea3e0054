// Command waste-category-service serves the waste category collection.
package main

import "github.com/sorting-waste-app/services/internal/app"

func main() {
	app.Main("waste-category-service", app.MountWasteCategories)
}
