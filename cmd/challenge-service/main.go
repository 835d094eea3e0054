// Command challenge-service serves the challenge collection and its participant lookup.
package main

import "github.com/sorting-waste-app/services/internal/app"

func main() {
	app.Main("challenge-service", app.MountChallenges)
}
