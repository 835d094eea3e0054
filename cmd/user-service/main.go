// Command user-service serves user registration, login and the user collection.
package main

import "github.com/sorting-waste-app/services/internal/app"

func main() {
	app.Main("user-service", app.MountUsers)
}
