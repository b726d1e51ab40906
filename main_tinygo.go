//go:build tinygo

package main

import (
	"ember/app"
	"ember/hal"
)

func main() {
	app.Run(hal.NewDevice())
}
