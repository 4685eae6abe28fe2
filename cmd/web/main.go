// Command web serves the accommodation portal.
package main

import "accommodation_portal/internal/app"

func main() {
	app.Run()
}
